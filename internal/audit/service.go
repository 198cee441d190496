package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/depaudit/internal/blame"
	"github.com/temirov/depaudit/internal/files"
	"github.com/temirov/depaudit/internal/manifest"
	"github.com/temirov/depaudit/internal/npm"
	"github.com/temirov/depaudit/internal/report"
	"github.com/temirov/depaudit/internal/transport"
	"github.com/temirov/depaudit/internal/vcs"
)

const (
	skipMissingTokenMessageConstant     = "No token provided, nothing will be reported. Use -h to see help."
	skipToolTooOldTemplateConstant      = "npm %s is below %s; check the project's local npm, which overrides the global one."
	skipManifestAbsentTemplateConstant  = "No package.json found in %s, nothing to audit."
	skipNoAuditDataMessageConstant      = "npm audit produced no data, nothing to report."
	skipUncommittedMessageConstant      = "package.json has uncommitted changes; commit them before reporting."
	creatingReportMessageConstant       = "Creating dependency report"
	reportSavedMessageConstant          = "Report saved"
	runFailedMessageConstant            = "Report run failed"
	summaryFailedMessageConstant        = "Unable to print attribution summary"
	logFieldRootConstant                = "root"
	logFieldPathConstant                = "path"
	logFieldDependencyCountConstant     = "dependency_count"
	collaboratorManifestReaderConstant  = "manifest reader"
	collaboratorAuditRunnerConstant     = "audit runner"
	collaboratorVCSAccessorConstant     = "repository accessor"
	collaboratorDirectoryWalkerConstant = "directory walker"
	collaboratorDelivererConstant       = "report deliverer"
	collaboratorPersisterConstant       = "report persister"
)

// Dependencies lists the collaborators a Service runs against.
type Dependencies struct {
	ManifestReader   ManifestReader
	AuditRunner      AuditRunner
	VCSAccessor      VCSAccessor
	DirectoryWalker  DirectoryWalker
	Deliverer        ReportDeliverer
	Persister        ReportPersister
	HostNameProvider HostNameProvider
	Clock            Clock
	Output           io.Writer
	Logger           *zap.Logger
}

// Service runs the report pipeline once per call to Run.
type Service struct {
	manifestReader   ManifestReader
	auditRunner      AuditRunner
	vcsAccessor      VCSAccessor
	directoryWalker  DirectoryWalker
	deliverer        ReportDeliverer
	persister        ReportPersister
	hostNameProvider HostNameProvider
	clock            Clock
	output           io.Writer
	logger           *zap.Logger
}

// NewService validates the collaborators and fills defaults for the optional ones.
func NewService(dependencies Dependencies) (*Service, error) {
	requiredCollaborators := []struct {
		missing bool
		name    string
	}{
		{missing: dependencies.ManifestReader == nil, name: collaboratorManifestReaderConstant},
		{missing: dependencies.AuditRunner == nil, name: collaboratorAuditRunnerConstant},
		{missing: dependencies.VCSAccessor == nil, name: collaboratorVCSAccessorConstant},
		{missing: dependencies.DirectoryWalker == nil, name: collaboratorDirectoryWalkerConstant},
		{missing: dependencies.Deliverer == nil, name: collaboratorDelivererConstant},
		{missing: dependencies.Persister == nil, name: collaboratorPersisterConstant},
	}
	for _, collaborator := range requiredCollaborators {
		if collaborator.missing {
			return nil, fmt.Errorf(missingCollaboratorTemplateConstant, collaborator.name)
		}
	}

	service := &Service{
		manifestReader:   dependencies.ManifestReader,
		auditRunner:      dependencies.AuditRunner,
		vcsAccessor:      dependencies.VCSAccessor,
		directoryWalker:  dependencies.DirectoryWalker,
		deliverer:        dependencies.Deliverer,
		persister:        dependencies.Persister,
		hostNameProvider: dependencies.HostNameProvider,
		clock:            dependencies.Clock,
		output:           dependencies.Output,
		logger:           dependencies.Logger,
	}
	if service.hostNameProvider == nil {
		service.hostNameProvider = os.Hostname
	}
	if service.clock == nil {
		service.clock = SystemClock{}
	}
	if service.output == nil {
		service.output = io.Discard
	}
	if service.logger == nil {
		service.logger = zap.NewNop()
	}
	return service, nil
}

// Run executes the pipeline: preconditions, audit, attribution, assembly, and
// finally delivery to the collector or persistence to options.OutputPath.
func (service *Service) Run(executionContext context.Context, options CommandOptions) Outcome {
	if options.Credential.Empty() {
		return service.skip(skipMissingTokenMessageConstant, ErrMissingToken)
	}

	rootPath, rootError := service.directoryWalker.ResolveRoot(options.Root)
	if rootError != nil {
		return service.fail(fmt.Errorf(resolveRootErrorTemplateConstant, rootError))
	}

	if _, versionError := service.auditRunner.VerifyVersion(executionContext, rootPath); versionError != nil {
		var tooLowError npm.ToolVersionTooLowError
		if errors.As(versionError, &tooLowError) {
			return service.skip(fmt.Sprintf(skipToolTooOldTemplateConstant, tooLowError.Detected, tooLowError.Minimum), versionError)
		}
		return service.fail(fmt.Errorf(verifyToolErrorTemplateConstant, versionError))
	}

	service.logger.Info(creatingReportMessageConstant, zap.String(logFieldRootConstant, rootPath))
	start := service.clock.Now()

	auditResult, auditError := service.auditRunner.Audit(executionContext, rootPath)
	if auditError != nil {
		if errors.Is(auditError, manifest.ErrManifestAbsent) {
			return service.skip(fmt.Sprintf(skipManifestAbsentTemplateConstant, rootPath), auditError)
		}
		return service.fail(fmt.Errorf(auditErrorTemplateConstant, auditError))
	}

	hostName, hostNameError := service.hostNameProvider()
	if hostNameError != nil {
		return service.fail(fmt.Errorf(hostNameErrorTemplateConstant, hostNameError))
	}

	inventory, walkError := service.directoryWalker.Walk(rootPath)
	if walkError != nil {
		return service.fail(fmt.Errorf(walkErrorTemplateConstant, walkError))
	}

	parsedManifest, manifestError := service.manifestReader.Read(rootPath)
	if manifestError != nil {
		if errors.Is(manifestError, manifest.ErrManifestAbsent) {
			return service.skip(fmt.Sprintf(skipManifestAbsentTemplateConstant, rootPath), manifestError)
		}
		return service.fail(fmt.Errorf(manifestErrorTemplateConstant, manifestError))
	}
	dependencies := manifest.ListDependencies(parsedManifest)

	vcsPresent := inventory.Tracked()
	vcsFacts := report.VCSFacts{}
	var blameRecords []blame.Record
	if vcsPresent {
		facts, factsError := service.vcsAccessor.Facts(executionContext, rootPath)
		if factsError != nil {
			return service.fail(fmt.Errorf(vcsFactsErrorTemplateConstant, factsError))
		}
		vcsFacts = facts

		records, blameError := service.vcsAccessor.Blame(executionContext, rootPath)
		if errors.Is(blameError, vcs.ErrManifestUncommitted) {
			return service.skip(skipUncommittedMessageConstant, blameError)
		}
		if blameError != nil {
			return service.fail(fmt.Errorf(blameErrorTemplateConstant, blameError))
		}
		blameRecords = records
	}

	var attributions []blame.AttributionEntry
	if vcsPresent {
		attributions = blame.Correlate(blameRecords, dependencies)
	}

	bundle, assembleError := report.Assemble(report.AssemblyInput{
		Audit:         auditResult,
		Start:         start,
		VCSPresent:    vcsPresent,
		VCSFacts:      vcsFacts,
		Dependencies:  dependencies,
		Attributions:  attributions,
		FileInventory: inventory,
		RootPath:      rootPath,
		HostName:      hostName,
	})
	switch {
	case errors.Is(assembleError, report.ErrNoAuditData):
		return service.skip(skipNoAuditDataMessageConstant, assembleError)
	case errors.Is(assembleError, report.ErrUncommittedChanges):
		return service.skip(skipUncommittedMessageConstant, assembleError)
	case assembleError != nil:
		return service.fail(fmt.Errorf(assembleErrorTemplateConstant, assembleError))
	}
	bundle = bundle.WithEnd(service.clock.Now())

	outcome := service.dispatch(executionContext, bundle, options)
	if outcome.Kind == OutcomeKindCompleted && options.Summary {
		if summaryError := RenderSummary(service.output, bundle.Project.ProjectMeta.VCSInfo.Attributions); summaryError != nil {
			service.logger.Warn(summaryFailedMessageConstant, zap.Error(fmt.Errorf(summaryErrorTemplateConstant, summaryError)))
		}
	}
	return outcome
}

// dispatch persists the bundle when an output path is configured and delivers it otherwise; never both.
func (service *Service) dispatch(executionContext context.Context, bundle report.Bundle, options CommandOptions) Outcome {
	if len(options.OutputPath) > 0 {
		if persistError := service.persister.Persist(executionContext, bundle, options.OutputPath); persistError != nil {
			return service.fail(fmt.Errorf(persistErrorTemplateConstant, persistError))
		}
		service.logger.Info(
			reportSavedMessageConstant,
			zap.String(logFieldPathConstant, options.OutputPath),
			zap.Int(logFieldDependencyCountConstant, len(bundle.Project.ProjectMeta.Dependencies)),
		)
		return OutcomeCompleted(bundle, options.OutputPath)
	}

	delivery, deliverError := service.deliverer.Deliver(executionContext, bundle, options.Credential, options.Host, options.Port)
	if deliverError != nil {
		return service.fail(fmt.Errorf(deliverErrorTemplateConstant, deliverError))
	}
	return OutcomeCompleted(bundle, delivery.Endpoint)
}

func (service *Service) skip(reason string, cause error) Outcome {
	service.logger.Info(reason)
	return OutcomeSkipped(reason, cause)
}

func (service *Service) fail(failure error) Outcome {
	service.logger.Error(runFailedMessageConstant, zap.Error(failure))
	return OutcomeFailed(failure)
}

var (
	_ DirectoryWalker = (*files.Walker)(nil)
	_ ReportDeliverer = (*transport.Deliverer)(nil)
	_ ReportPersister = (*transport.PersisterRouter)(nil)
)
