package files

import (
	"fmt"
	"io/fs"
	"path/filepath"
)

const (
	gitMetadataDirectoryNameConstant    = ".git"
	dependencyDirectoryNameConstant     = "node_modules"
	rootResolutionErrorTemplateConstant = "unable to resolve project root %s: %w"
	walkErrorTemplateConstant           = "unable to walk %s: %w"
)

// Inventory maps entry names to their children; files map to nil.
type Inventory map[string]Inventory

// Tracked reports whether the inventory's top level holds git metadata.
func (inventory Inventory) Tracked() bool {
	_, present := inventory[gitMetadataDirectoryNameConstant]
	return present
}

// Walker builds file inventories.
type Walker struct {
	fileSystem FileSystem
}

// NewWalker constructs a Walker. A nil FileSystem falls back to the operating system.
func NewWalker(fileSystem FileSystem) *Walker {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	return &Walker{fileSystem: fileSystem}
}

// ResolveRoot returns the absolute form of root.
func (walker *Walker) ResolveRoot(root string) (string, error) {
	absoluteRoot, resolveError := walker.fileSystem.Abs(root)
	if resolveError != nil {
		return "", fmt.Errorf(rootResolutionErrorTemplateConstant, root, resolveError)
	}
	return filepath.Clean(absoluteRoot), nil
}

// Walk returns the inventory of root. Git metadata and installed dependency
// directories are listed but their contents are not.
func (walker *Walker) Walk(root string) (Inventory, error) {
	inventory := Inventory{}
	directories := map[string]Inventory{root: inventory}

	walkError := walker.fileSystem.WalkDir(root, func(path string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			if path == root {
				return entryError
			}
			return nil
		}
		if path == root {
			return nil
		}

		parent, known := directories[filepath.Dir(path)]
		if !known {
			return nil
		}

		name := directoryEntry.Name()
		if !directoryEntry.IsDir() {
			parent[name] = nil
			return nil
		}

		child := Inventory{}
		parent[name] = child
		if name == gitMetadataDirectoryNameConstant || name == dependencyDirectoryNameConstant {
			return fs.SkipDir
		}
		directories[path] = child
		return nil
	})
	if walkError != nil {
		return nil, fmt.Errorf(walkErrorTemplateConstant, root, walkError)
	}
	return inventory, nil
}
