package transport

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"

	"github.com/temirov/depaudit/internal/files"
	"github.com/temirov/depaudit/internal/report"
)

const (
	reportFilePermissionsConstant = 0o644
	objectStoreSchemePrefix       = "s3://"
)

// Persister stores a bundle at a destination path.
type Persister interface {
	Persist(executionContext context.Context, bundle report.Bundle, path string) error
}

// FilePersister writes bundles to the local filesystem.
type FilePersister struct {
	fileSystem files.FileSystem
}

// NewFilePersister constructs a FilePersister. A nil FileSystem falls back to the operating system.
func NewFilePersister(fileSystem files.FileSystem) *FilePersister {
	if fileSystem == nil {
		fileSystem = files.OSFileSystem{}
	}
	return &FilePersister{fileSystem: fileSystem}
}

// Persist writes the serialized bundle to path, replacing any existing file.
func (persister *FilePersister) Persist(executionContext context.Context, bundle report.Bundle, path string) error {
	if contextError := executionContext.Err(); contextError != nil {
		return WriteError{Path: path, Cause: contextError}
	}
	payload, encodeError := json.Marshal(bundle)
	if encodeError != nil {
		return WriteError{Path: path, Cause: errors.Wrap(encodeError, encodeBundleMessageConstant)}
	}
	if writeError := persister.fileSystem.WriteFile(path, payload, reportFilePermissionsConstant); writeError != nil {
		return WriteError{Path: path, Cause: writeError}
	}
	return nil
}

// PersisterRouter sends s3:// paths to the object store and everything else to the filesystem.
type PersisterRouter struct {
	filePersister        Persister
	objectStorePersister Persister
}

// NewPersisterRouter constructs a router over the two persisters.
func NewPersisterRouter(filePersister Persister, objectStorePersister Persister) *PersisterRouter {
	return &PersisterRouter{filePersister: filePersister, objectStorePersister: objectStorePersister}
}

// Persist forwards to the persister responsible for path.
func (router *PersisterRouter) Persist(executionContext context.Context, bundle report.Bundle, path string) error {
	if IsObjectStorePath(path) {
		return router.objectStorePersister.Persist(executionContext, bundle, path)
	}
	return router.filePersister.Persist(executionContext, bundle, path)
}

// IsObjectStorePath reports whether path addresses the object store.
func IsObjectStorePath(path string) bool {
	return strings.HasPrefix(strings.TrimSpace(path), objectStoreSchemePrefix)
}
