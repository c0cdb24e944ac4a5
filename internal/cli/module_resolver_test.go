package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleResolver_ResolveModuleName(t *testing.T) {
	t.Run("custom module name provided", func(t *testing.T) {
		resolver := NewModuleResolver()
		result, err := resolver.ResolveModuleName("github.com/custom/module")
		require.NoError(t, err)
		assert.Equal(t, "github.com/custom/module", result)
	})

	t.Run("read from go.mod file", func(t *testing.T) {
		tempDir := t.TempDir()
		goModContent := `module github.com/example/ext

go 1.21

require github.com/toyz/pybind v0.1.0
`
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte(goModContent), 0o644))
		sub := filepath.Join(tempDir, "pkg", "mymod")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		chdir(t, sub)

		resolver := NewModuleResolver()
		result, err := resolver.ResolveModuleName("")
		require.NoError(t, err)
		assert.Equal(t, "github.com/example/ext", result)

		root, err := filepath.EvalSymlinks(resolver.ModuleRoot())
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(tempDir)
		require.NoError(t, err)
		assert.Equal(t, want, root)
	})

	t.Run("go.mod without module declaration", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte("go 1.21\n"), 0o644))
		chdir(t, tempDir)

		_, err := NewModuleResolver().ResolveModuleName("")
		assert.Error(t, err)
	})
}

func TestModuleResolver_BuildPackagePath(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "go.mod"), []byte("module github.com/example/app\n"), 0o644))
	sub := filepath.Join(tempDir, "internal", "mymod")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	chdir(t, tempDir)

	resolver := NewModuleResolver()
	moduleName, err := resolver.ResolveModuleName("")
	require.NoError(t, err)

	testCases := []struct {
		name       string
		packageDir string
		expected   string
	}{
		{"module root", ".", "github.com/example/app"},
		{"relative subdirectory", "internal/mymod", "github.com/example/app/internal/mymod"},
		{"absolute subdirectory", sub, "github.com/example/app/internal/mymod"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := resolver.BuildPackagePath(moduleName, tc.packageDir)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}

	t.Run("outside the module", func(t *testing.T) {
		_, err := resolver.BuildPackagePath(moduleName, filepath.Dir(tempDir))
		assert.Error(t, err)
	})
}
