package audit

import "errors"

const (
	missingTokenMessageConstant         = "no token provided"
	missingCollaboratorTemplateConstant = "report service requires a %s"
	resolveRootErrorTemplateConstant    = "unable to resolve project root: %w"
	verifyToolErrorTemplateConstant     = "unable to verify npm: %w"
	auditErrorTemplateConstant          = "unable to audit dependencies: %w"
	hostNameErrorTemplateConstant       = "unable to determine machine name: %w"
	walkErrorTemplateConstant           = "unable to inventory project files: %w"
	vcsFactsErrorTemplateConstant       = "unable to read repository details: %w"
	blameErrorTemplateConstant          = "unable to attribute dependencies: %w"
	manifestErrorTemplateConstant       = "unable to list dependencies: %w"
	assembleErrorTemplateConstant       = "unable to assemble report: %w"
	persistErrorTemplateConstant        = "unable to save report: %w"
	deliverErrorTemplateConstant        = "unable to deliver report: %w"
	summaryErrorTemplateConstant        = "unable to render summary: %w"
	invalidPortTemplateConstant         = "port %d is outside 1-65535"
	negativeTimeoutTemplateConstant     = "timeout %s must not be negative"
)

// ErrMissingToken indicates a run was requested without a collector token.
var ErrMissingToken = errors.New(missingTokenMessageConstant)
