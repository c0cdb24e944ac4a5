package generator

import "github.com/toyz/pybind/internal/models"

// CodeGenerator defines the interface for generating interpreter bindings
// from parsed directives
type CodeGenerator interface {
	GenerateWrapper(spec *models.FnSpec) (string, error)
	GenerateModuleEntry(mod *models.ModuleSpec) (string, error)
	GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
}
