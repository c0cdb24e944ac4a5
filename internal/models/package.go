package models

import (
	"path"
	"strings"

	"github.com/toyz/pybind/internal/errors"
)

// ModuleSpec is one interpreter module produced from a package
type ModuleSpec struct {
	Name string
	Doc  string
	// InitFunc is the user's //py:module function, empty when the module is
	// only referenced by //py:fn directives
	InitFunc  string
	Functions []*FnSpec // exports registered in the module, in source order
	Location  errors.SourceLocation
}

// ImportSpec is one import of a source file
type ImportSpec struct {
	Name     string // explicit alias, empty when none
	Path     string
	Location errors.SourceLocation
}

// LocalName is the name the import binds in its file
func (i ImportSpec) LocalName() string {
	if i.Name != "" {
		return i.Name
	}
	return AssumedPackageName(i.Path)
}

// AssumedPackageName guesses the package name an import path binds: the
// last element, skipping a major version suffix and dropping a gopkg.in
// style ".vN" suffix and any "go-" prefix.
func AssumedPackageName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(base, ".v"); i > 0 {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "_")
}

// PackageMetadata represents all directives found in a package
type PackageMetadata struct {
	PackageName string        // name of the Go package
	PackagePath string        // file system path to the package
	Functions   []*FnSpec     // exported functions in source order
	Modules     []*ModuleSpec // modules sorted by name
	Imports     []ImportSpec  // imports referenced by exported signatures and defaults
}

// HasExports reports whether there is anything to generate
func (m *PackageMetadata) HasExports() bool {
	return len(m.Functions) > 0 || len(m.Modules) > 0
}

// Module returns the module called name
func (m *PackageMetadata) Module(name string) (*ModuleSpec, bool) {
	for _, mod := range m.Modules {
		if mod.Name == name {
			return mod, true
		}
	}
	return nil, false
}
