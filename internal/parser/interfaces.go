package parser

import "github.com/toyz/pybind/internal/models"

// DirectiveParser defines the interface for parsing Go source files and
// extracting the functions and modules to export
type DirectiveParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
	SetExternalDirectives(dir string, ext *models.ExternalDirectives)
}
