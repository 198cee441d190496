package manifest

import (
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	// FileNameConstant is the manifest file looked up at the project root.
	FileNameConstant              = "package.json"
	manifestAbsentMessageConstant = "package.json not found"
	manifestErrorTemplateConstant = "unable to read %s: %v"
)

// ErrManifestAbsent indicates the project root holds no package.json.
var ErrManifestAbsent = errors.New(manifestAbsentMessageConstant)

// DependencyDescriptor names one declared dependency and its declared version range.
type DependencyDescriptor struct {
	Name          string `json:"name"`
	DeclaredRange string `json:"declaredRange"`
}

// DependencySection is an insertion-ordered map of dependency name to declared range.
type DependencySection = orderedmap.OrderedMap[string, string]

// Manifest holds the parsed dependency sections of package.json.
type Manifest struct {
	Name            string             `json:"name,omitempty"`
	Dependencies    *DependencySection `json:"dependencies,omitempty"`
	DevDependencies *DependencySection `json:"devDependencies,omitempty"`
}

// ManifestError reports a package.json that exists but cannot be read or decoded.
type ManifestError struct {
	Path  string
	Cause error
}

// Error describes the manifest failure.
func (manifestError ManifestError) Error() string {
	return fmt.Sprintf(manifestErrorTemplateConstant, manifestError.Path, manifestError.Cause)
}

// Unwrap exposes the underlying cause.
func (manifestError ManifestError) Unwrap() error {
	return manifestError.Cause
}
