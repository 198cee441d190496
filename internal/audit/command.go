package audit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/depaudit/internal/execshell"
	"github.com/temirov/depaudit/internal/files"
	"github.com/temirov/depaudit/internal/manifest"
	"github.com/temirov/depaudit/internal/npm"
	"github.com/temirov/depaudit/internal/transport"
	"github.com/temirov/depaudit/internal/ui"
	"github.com/temirov/depaudit/internal/vcs"
)

const (
	commandNameConstant             = "report"
	commandShortDescriptionConstant = "Audit npm dependencies and report them with their git provenance"
	commandLongDescriptionConstant  = "report runs npm audit in the project root, attributes every declared dependency to the commit that last touched its package.json line, and delivers the combined report to the collector or saves it to --output-path (a file path or s3://bucket/key)."
	tokenFlagNameConstant           = "token"
	tokenFlagShorthandConstant      = "t"
	tokenFlagUsageConstant          = "Collector access token. Without it nothing is reported."
	outputPathFlagNameConstant      = "output-path"
	outputPathFlagShorthandConstant = "o"
	outputPathFlagUsageConstant     = "Save the report to this path instead of delivering it (s3://bucket/key uploads to object storage)."
	portFlagNameConstant            = "port"
	portFlagShorthandConstant       = "p"
	portFlagUsageConstant           = "Collector port."
	hostFlagNameConstant            = "host"
	hostFlagShorthandConstant       = "u"
	hostFlagUsageConstant           = "Collector host."
	rootFlagNameConstant            = "root"
	rootFlagUsageConstant           = "Project directory containing package.json."
	summaryFlagNameConstant         = "summary"
	summaryFlagUsageConstant        = "Print a dependency attribution table after a successful run."
	timeoutFlagNameConstant         = "timeout"
	timeoutFlagUsageConstant        = "Abort the run after this duration (0 disables the limit)."
	maximumPortConstant             = 65535
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the report cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	ManifestReader               ManifestReader
	AuditRunner                  AuditRunner
	VCSAccessor                  VCSAccessor
	DirectoryWalker              DirectoryWalker
	Deliverer                    ReportDeliverer
	Persister                    ReportPersister
	HostNameProvider             HostNameProvider
	Clock                        Clock
	HTTPClient                   transport.HTTPClient
	ObjectUploader               transport.ObjectUploader
}

// Build constructs the cobra command for dependency reports.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().StringP(tokenFlagNameConstant, tokenFlagShorthandConstant, "", tokenFlagUsageConstant)
	command.Flags().StringP(outputPathFlagNameConstant, outputPathFlagShorthandConstant, "", outputPathFlagUsageConstant)
	command.Flags().IntP(portFlagNameConstant, portFlagShorthandConstant, defaults.Port, portFlagUsageConstant)
	command.Flags().StringP(hostFlagNameConstant, hostFlagShorthandConstant, defaults.Host, hostFlagUsageConstant)
	command.Flags().String(rootFlagNameConstant, defaults.Root, rootFlagUsageConstant)
	command.Flags().Bool(summaryFlagNameConstant, false, summaryFlagUsageConstant)
	command.Flags().Duration(timeoutFlagNameConstant, 0, timeoutFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration, configurationError := builder.resolveConfiguration(command)
	if configurationError != nil {
		return configurationError
	}

	logger := builder.resolveLogger()
	service, serviceError := builder.resolveService(command, configuration, logger)
	if serviceError != nil {
		return serviceError
	}

	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}
	if configuration.Timeout > 0 {
		var cancel context.CancelFunc
		executionContext, cancel = context.WithTimeout(executionContext, configuration.Timeout)
		defer cancel()
	}

	outcome := service.Run(executionContext, CommandOptions{
		Root:       configuration.Root,
		Credential: transport.Credential(configuration.Token),
		OutputPath: configuration.OutputPath,
		Host:       configuration.Host,
		Port:       configuration.Port,
		Summary:    configuration.Summary,
	})
	return outcome.Err()
}

// resolveConfiguration layers changed flags over the provided configuration.
func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) (CommandConfiguration, error) {
	configuration := DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	flagSet := command.Flags()
	if flagSet.Changed(tokenFlagNameConstant) {
		configuration.Token, _ = flagSet.GetString(tokenFlagNameConstant)
	}
	if flagSet.Changed(outputPathFlagNameConstant) {
		configuration.OutputPath, _ = flagSet.GetString(outputPathFlagNameConstant)
	}
	if flagSet.Changed(portFlagNameConstant) {
		configuration.Port, _ = flagSet.GetInt(portFlagNameConstant)
	}
	if flagSet.Changed(hostFlagNameConstant) {
		configuration.Host, _ = flagSet.GetString(hostFlagNameConstant)
	}
	if flagSet.Changed(rootFlagNameConstant) {
		configuration.Root, _ = flagSet.GetString(rootFlagNameConstant)
	}
	if flagSet.Changed(summaryFlagNameConstant) {
		configuration.Summary, _ = flagSet.GetBool(summaryFlagNameConstant)
	}
	if flagSet.Changed(timeoutFlagNameConstant) {
		configuration.Timeout, _ = flagSet.GetDuration(timeoutFlagNameConstant)
	}

	sanitized := configuration.Sanitize()
	if sanitized.Port < 1 || sanitized.Port > maximumPortConstant {
		return CommandConfiguration{}, fmt.Errorf(invalidPortTemplateConstant, sanitized.Port)
	}
	if sanitized.Timeout < 0 {
		return CommandConfiguration{}, fmt.Errorf(negativeTimeoutTemplateConstant, sanitized.Timeout)
	}
	return sanitized, nil
}

func (builder *CommandBuilder) resolveService(command *cobra.Command, configuration CommandConfiguration, logger *zap.Logger) (*Service, error) {
	fileSystem := files.OSFileSystem{}

	var shellExecutor *execshell.ShellExecutor
	if builder.AuditRunner == nil || builder.VCSAccessor == nil {
		executor, executorError := builder.resolveShellExecutor(logger)
		if executorError != nil {
			return nil, executorError
		}
		shellExecutor = executor
	}

	auditRunner := builder.AuditRunner
	if auditRunner == nil {
		auditRunner = npm.NewRunner(logger, shellExecutor, fileSystem)
	}

	vcsAccessor := builder.VCSAccessor
	if vcsAccessor == nil {
		vcsAccessor = vcs.NewAccessor(logger, shellExecutor)
	}

	manifestReader := builder.ManifestReader
	if manifestReader == nil {
		manifestReader = manifest.NewReader(nil)
	}

	directoryWalker := builder.DirectoryWalker
	if directoryWalker == nil {
		directoryWalker = files.NewWalker(fileSystem)
	}

	deliverer := builder.Deliverer
	if deliverer == nil {
		var httpClient transport.HTTPClient = http.DefaultClient
		if builder.HTTPClient != nil {
			httpClient = builder.HTTPClient
		}
		deliverer = transport.NewDeliverer(logger, httpClient, configuration.EndpointPath)
	}

	persister := builder.Persister
	if persister == nil {
		objectStorePersister := transport.NewObjectStorePersister(configuration.objectStoreSettings())
		if builder.ObjectUploader != nil {
			objectStorePersister = objectStorePersister.WithUploader(builder.ObjectUploader)
		}
		persister = transport.NewPersisterRouter(transport.NewFilePersister(fileSystem), objectStorePersister)
	}

	return NewService(Dependencies{
		ManifestReader:   manifestReader,
		AuditRunner:      auditRunner,
		VCSAccessor:      vcsAccessor,
		DirectoryWalker:  directoryWalker,
		Deliverer:        deliverer,
		Persister:        persister,
		HostNameProvider: builder.HostNameProvider,
		Clock:            builder.Clock,
		Output:           command.OutOrStdout(),
		Logger:           logger,
	})
}

// resolveShellExecutor logs command lifecycle through the diagnostic logger, or
// through the console event logger alone when human-readable logging is enabled.
func (builder *CommandBuilder) resolveShellExecutor(logger *zap.Logger) (*execshell.ShellExecutor, error) {
	if !builder.humanReadableLogging() {
		return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	}
	executor, executorError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner())
	if executorError != nil {
		return nil, executorError
	}
	return executor.WithObserver(ui.NewConsoleCommandEventLogger(logger)), nil
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
