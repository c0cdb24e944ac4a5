package templates

import (
	"sort"

	"github.com/toyz/pybind/internal/models"
)

// ImportData is one line of the generated import block
type ImportData struct {
	Name string
	Path string
}

// ImportManager handles import generation and deduplication. Imports are
// keyed by the name they bind in the file, so a user import that binds the
// same name to the same path as the runtime import collapses into it.
type ImportManager struct {
	byName map[string]string // local name -> path
	order  []ImportData
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		byName: make(map[string]string),
	}
}

// AddImport adds an import. An empty alias means the package's own name.
// It reports false when the name is already bound to a different path.
func (im *ImportManager) AddImport(alias, importPath string) bool {
	if importPath == "" {
		return true
	}
	local := alias
	if local == "" {
		local = models.AssumedPackageName(importPath)
	}
	if existing, ok := im.byName[local]; ok {
		return existing == importPath
	}
	im.byName[local] = importPath
	im.order = append(im.order, ImportData{Name: alias, Path: importPath})
	return true
}

// Imports returns the import lines sorted by path
func (im *ImportManager) Imports() []ImportData {
	out := make([]ImportData, len(im.order))
	copy(out, im.order)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Name < out[j].Name
	})
	return out
}
