package report

import "errors"

const (
	noAuditDataMessageConstant          = "no audit data available"
	uncommittedChangesMessageConstant   = "manifest has uncommitted changes"
	invalidAuditDataTemplateConstant    = "%w: audit output is not valid JSON"
	bundleEncodingErrorTemplateConstant = "unable to encode report bundle: %w"
)

var (
	// ErrNoAuditData indicates the audit produced no usable output.
	ErrNoAuditData = errors.New(noAuditDataMessageConstant)
	// ErrUncommittedChanges indicates the working tree holds uncommitted manifest lines, making attribution unreliable.
	ErrUncommittedChanges = errors.New(uncommittedChangesMessageConstant)
)
