package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toyz/pybind/internal/utils"
)

// ModuleResolver handles resolving Go module information
type ModuleResolver struct {
	goMod *utils.GoModParser
	root  string
}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{goMod: utils.NewGoModParser()}
}

// ResolveModuleName resolves the module name for imports
// If customModule is provided, it uses that; otherwise reads from go.mod
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	goModPath, findErr := r.goMod.FindGoModFile(currentDir)
	if findErr == nil {
		r.root = filepath.Dir(goModPath)
	} else {
		r.root = currentDir
	}

	if customModule != "" {
		return customModule, nil
	}
	if findErr != nil {
		return "", fmt.Errorf("failed to determine module name: %w (consider using --module flag)", findErr)
	}

	moduleName, err := r.goMod.ParseModuleName(goModPath)
	if err != nil {
		return "", fmt.Errorf("failed to determine module name: %w", err)
	}
	return moduleName, nil
}

// ModuleRoot returns the directory of the go.mod found by the last
// ResolveModuleName call, or the working directory when there was none
func (r *ModuleResolver) ModuleRoot() string {
	return r.root
}

// BuildPackagePath builds the full import path for a package directory
func (r *ModuleResolver) BuildPackagePath(moduleName, packageDir string) (string, error) {
	root := r.root
	if root == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		root = currentDir
	}
	return utils.PackageImportPath(moduleName, root, packageDir)
}
