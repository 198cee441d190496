package npm

import "fmt"

const (
	toolVersionTooLowTemplateConstant  = "npm %s is older than the required %s"
	unparsableVersionTemplateConstant  = "unable to parse npm version %q"
	versionCheckErrorTemplateConstant  = "unable to determine npm version: %w"
	lockfileErrorTemplateConstant      = "unable to create package lock: %w"
	auditErrorTemplateConstant         = "unable to run npm audit: %w"
	lockfileInspectionTemplateConstant = "unable to inspect %s: %w"
)

// ToolVersionTooLowError reports an npm installation that cannot produce audits.
type ToolVersionTooLowError struct {
	Detected string
	Minimum  string
}

// Error describes the version mismatch.
func (versionError ToolVersionTooLowError) Error() string {
	return fmt.Sprintf(toolVersionTooLowTemplateConstant, versionError.Detected, versionError.Minimum)
}
