package annotations

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/toyz/pybind/internal/errors"
)

// ArgKind is the syntactic form a directive argument must take
type ArgKind int

const (
	// PathKind is a bare identifier or dotted path
	PathKind ArgKind = iota
	// StringKind is a quoted string
	StringKind
)

func (k ArgKind) String() string {
	switch k {
	case PathKind:
		return "identifier"
	case StringKind:
		return "string"
	default:
		return "unknown"
	}
}

// ArgSpec describes one leading argument of a directive
type ArgSpec struct {
	Name        string
	Kind        ArgKind
	Required    bool
	Description string                   // what the argument must be, used in diagnostics
	Validator   func(value string) error // checks the unquoted value
}

// DirectiveSchema describes the shape of one //py: directive
type DirectiveSchema struct {
	Name        string
	Description string
	Args        []ArgSpec
	// Variadic directives accept argument directives after Args
	Variadic bool
	// Usage summarizes the expected arguments for arity errors
	Usage    string
	Examples []string
}

// FnSchema defines //py:fn(module, "name", args...)
var FnSchema = DirectiveSchema{
	Name:        DirectiveFn,
	Description: "Exports the function to the interpreter",
	Args: []ArgSpec{
		{Name: "module", Kind: PathKind, Required: true, Description: "the module name", Validator: ValidateModuleName},
		{Name: "name", Kind: StringKind, Required: true, Description: "the exported name as a string", Validator: ValidateExportedName},
	},
	Variadic: true,
	Usage:    "a module and an exported name",
	Examples: []string{
		`//py:fn(mymod, "add")`,
		`//py:fn(mymod, "greet", name, punct = "!")`,
		`//py:fn(mymod, "total", start = 0, "*values")`,
		`//py:fn(mymod, "options", "**opts")`,
	},
}

// ModuleSchema defines //py:module(name[, "doc"])
var ModuleSchema = DirectiveSchema{
	Name:        DirectiveModule,
	Description: "Marks the function as the init function of a module",
	Args: []ArgSpec{
		{Name: "name", Kind: PathKind, Required: true, Description: "the module name", Validator: ValidateModuleName},
		{Name: "doc", Kind: StringKind, Description: "the module docstring as a string"},
	},
	Usage: "a module name and an optional docstring",
	Examples: []string{
		`//py:module(mymod)`,
		`//py:module(mymod, "Example bindings.")`,
	},
}

// TextSignatureSchema defines //py:text_signature("(...)")
var TextSignatureSchema = DirectiveSchema{
	Name:        DirectiveTextSignature,
	Description: "Sets the signature shown by the interpreter's help",
	Args: []ArgSpec{
		{Name: "signature", Kind: StringKind, Required: true, Description: "the argument list as a string", Validator: ValidateTextSignature},
	},
	Usage:    "a single string argument",
	Examples: []string{`//py:text_signature("(name, punct='!')")`},
}

// BuiltinSchemas returns the schemas of every directive the generator
// understands
func BuiltinSchemas() []DirectiveSchema {
	return []DirectiveSchema{FnSchema, ModuleSchema, TextSignatureSchema}
}

// ValidateModuleName requires a plain identifier
func ValidateModuleName(v string) error {
	if !token.IsIdentifier(v) {
		return fmt.Errorf("module name '%s' must be an identifier", v)
	}
	return nil
}

// ValidateExportedName rejects the empty name
func ValidateExportedName(v string) error {
	if v == "" {
		return fmt.Errorf("exported name must not be empty")
	}
	return nil
}

// ValidateTextSignature requires a parenthesized argument list
func ValidateTextSignature(v string) error {
	if !strings.HasPrefix(v, "(") || !strings.HasSuffix(v, ")") {
		return fmt.Errorf("text signature must be a parenthesized argument list")
	}
	return nil
}

// Validate checks the argument count and the leading arguments of attr.
// Trailing argument directives of variadic schemas are checked when they
// are converted.
func (s DirectiveSchema) Validate(attr *Attribute) error {
	required := 0
	for _, spec := range s.Args {
		if spec.Required {
			required++
		}
	}
	if len(attr.Args) < required || (!s.Variadic && len(attr.Args) > len(s.Args)) {
		err := errors.MalformedDirective(attr.Location, attr.Raw, "expected "+s.Usage)
		if len(s.Examples) > 0 {
			err = err.WithSuggestion("for example " + s.Examples[0])
		}
		return err
	}

	for i, spec := range s.Args {
		if i >= len(attr.Args) {
			break
		}
		value, ok := spec.Kind.value(attr, i)
		if !ok {
			return errors.MalformedDirective(attr.ArgLocation(i), attr.Raw,
				fmt.Sprintf("%s argument must be %s", ordinal(i), spec.Description))
		}
		if spec.Validator == nil {
			continue
		}
		if err := spec.Validator(value); err != nil {
			return errors.MalformedDirective(attr.ArgLocation(i), attr.Raw, err.Error())
		}
	}
	return nil
}

func (k ArgKind) value(attr *Attribute, i int) (string, bool) {
	switch k {
	case PathKind:
		return attr.PathArg(i)
	case StringKind:
		return attr.StringArg(i)
	default:
		return "", false
	}
}

func ordinal(i int) string {
	switch i {
	case 0:
		return "first"
	case 1:
		return "second"
	case 2:
		return "third"
	default:
		return fmt.Sprintf("#%d", i+1)
	}
}
