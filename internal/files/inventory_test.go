package files_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/depaudit/internal/files"
)

const (
	testDirectoryPermissionsConstant = 0o755
	testFilePermissionsConstant      = 0o644
)

func createProjectTree(testInstance *testing.T, root string, relativeFiles []string) {
	testInstance.Helper()
	for _, relativeFile := range relativeFiles {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativeFile))
		require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), testDirectoryPermissionsConstant))
		require.NoError(testInstance, os.WriteFile(absolutePath, []byte("x"), testFilePermissionsConstant))
	}
}

func TestWalkerBuildsNestedInventory(testInstance *testing.T) {
	projectRoot := testInstance.TempDir()
	createProjectTree(testInstance, projectRoot, []string{
		"package.json",
		"src/index.js",
		"src/lib/util.js",
		".git/HEAD",
		".git/objects/ab/cdef",
		"node_modules/lodash/index.js",
	})

	inventory, walkError := files.NewWalker(nil).Walk(projectRoot)
	require.NoError(testInstance, walkError)

	expectedInventory := files.Inventory{
		"package.json": nil,
		"src": files.Inventory{
			"index.js": nil,
			"lib":      files.Inventory{"util.js": nil},
		},
		".git":         files.Inventory{},
		"node_modules": files.Inventory{},
	}
	require.Equal(testInstance, expectedInventory, inventory)
	require.True(testInstance, inventory.Tracked())

	encodedInventory, encodeError := json.Marshal(inventory["src"])
	require.NoError(testInstance, encodeError)
	require.JSONEq(testInstance, `{"index.js":null,"lib":{"util.js":null}}`, string(encodedInventory))
}

func TestInventoryTracked(testInstance *testing.T) {
	testCases := []struct {
		name          string
		inventory     files.Inventory
		expectTracked bool
	}{
		{name: "git_directory", inventory: files.Inventory{".git": files.Inventory{}}, expectTracked: true},
		{name: "git_file_worktree", inventory: files.Inventory{".git": nil}, expectTracked: true},
		{name: "nested_git_only", inventory: files.Inventory{"vendor": files.Inventory{".git": files.Inventory{}}}},
		{name: "empty", inventory: files.Inventory{}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectTracked, testCase.inventory.Tracked())
		})
	}
}

func TestWalkerReportsMissingRoot(testInstance *testing.T) {
	_, walkError := files.NewWalker(nil).Walk(filepath.Join(testInstance.TempDir(), "absent"))
	require.Error(testInstance, walkError)
}

func TestWalkerResolveRoot(testInstance *testing.T) {
	projectRoot := testInstance.TempDir()
	resolvedRoot, resolveError := files.NewWalker(nil).ResolveRoot(filepath.Join(projectRoot, "src", ".."))
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, filepath.Clean(projectRoot), resolvedRoot)
}
