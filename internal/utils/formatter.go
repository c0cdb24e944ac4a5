package utils

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"

	"golang.org/x/tools/imports"
)

// FormatGoCode formats Go source code using the same logic as gofmt
func FormatGoCode(source []byte) ([]byte, error) {
	return format.Source(source)
}

// FormatGeneratedSource formats generated code the way goimports would:
// unused imports are dropped and the result is gofmt-formatted. filename
// only affects how imports are resolved and how errors are reported.
func FormatGeneratedSource(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err == nil {
		return formatted, nil
	}

	if parseErr := ValidateGoCode(string(source)); parseErr != nil {
		return nil, fmt.Errorf("invalid Go syntax: %w", parseErr)
	}
	return nil, fmt.Errorf("failed to process imports: %w", err)
}

// ValidateGoCode checks if the provided code is valid Go syntax
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}
