package blame

import "github.com/temirov/depaudit/internal/manifest"

const (
	// UncommittedAuthorConstant is the author git reports for lines not yet committed.
	UncommittedAuthorConstant = "Not Committed Yet"
	// UncommittedCommitHashConstant is the hash git reports for lines not yet committed.
	UncommittedCommitHashConstant = "0000000000000000000000000000000000000000"
)

// Record is one line of version-control blame for the manifest.
type Record struct {
	Author     string `json:"author"`
	CommitHash string `json:"commitHash"`
	LineNumber int    `json:"lineNumber"`
	LineText   string `json:"lineText"`
}

// AttributionEntry pairs a dependency with the blame record that mentions it; Blame is nil when none does.
type AttributionEntry struct {
	Dependency manifest.DependencyDescriptor `json:"dependency"`
	Blame      *Record                       `json:"blame"`
}
