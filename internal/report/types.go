package report

import (
	"encoding/json"
	"time"

	"github.com/temirov/depaudit/internal/blame"
	"github.com/temirov/depaudit/internal/files"
	"github.com/temirov/depaudit/internal/manifest"
)

const (
	// RootMarkerConstant is the fixed value of the bundle's Root field.
	RootMarkerConstant = "."
	// SuccessExitCodeConstant is the only exit code a bundle currently records.
	SuccessExitCodeConstant = 0
)

// VCSFacts identifies the repository and revision a run audited.
type VCSFacts struct {
	ProjectName string
	RemoteURL   string
	CommitHash  string
}

// AssemblyInput carries every value the assembler copies into a bundle.
type AssemblyInput struct {
	Audit         json.RawMessage
	Start         time.Time
	VCSPresent    bool
	VCSFacts      VCSFacts
	Dependencies  []manifest.DependencyDescriptor
	Attributions  []blame.AttributionEntry
	FileInventory files.Inventory
	RootPath      string
	HostName      string
}

// Bundle is the report delivered to the collector or written to disk.
type Bundle struct {
	Date        DateRange `json:"Date"`
	MachineName string    `json:"Machine Name"`
	Project     Project   `json:"Project"`
}

// DateRange records when the run started and, once stamped, when assembly finished.
type DateRange struct {
	Start time.Time  `json:"Start"`
	End   *time.Time `json:"End"`
}

// Project nests the audit output with the metadata gathered about the project.
type Project struct {
	DependencyReport json.RawMessage `json:"Dependency Report"`
	ProjectMeta      ProjectMeta     `json:"Project Meta"`
}

// ProjectMeta describes the audited project.
type ProjectMeta struct {
	ProjectName  *string                         `json:"Project Name"`
	Dependencies []manifest.DependencyDescriptor `json:"Dependencies"`
	AbsolutePath string                          `json:"Absolute Path"`
	ExitCode     int                             `json:"Exit Code"`
	VCSInfo      VCSInfo                         `json:"VCS Info"`
	FileInfo     files.Inventory                 `json:"File Info"`
	Root         string                          `json:"Root"`
}

// VCSInfo holds repository identity and per-dependency attribution.
type VCSInfo struct {
	GitURL       *string                  `json:"Git Url"`
	GitHash      *string                  `json:"Git Hash"`
	Attributions []blame.AttributionEntry `json:"blm_lists"`
}

// WithEnd returns a copy of the bundle whose Date.End is set to end in UTC.
func (bundle Bundle) WithEnd(end time.Time) Bundle {
	stamped := bundle
	endUTC := end.UTC()
	stamped.Date.End = &endUTC
	return stamped
}

// Ended reports whether the bundle carries an end timestamp.
func (bundle Bundle) Ended() bool {
	return bundle.Date.End != nil
}
