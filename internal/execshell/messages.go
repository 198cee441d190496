package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitBlameSubcommandNameConstant    = "blame"
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitArgumentSeparatorConstant      = "--"
	npmVersionFlagConstant            = "--version"
	npmInstallSubcommandNameConstant  = "i"
	npmInstallLongSubcommandConstant  = "install"
	npmPackageLockOnlyFlagConstant    = "--package-lock-only"
	npmAuditSubcommandNameConstant    = "audit"
)

const (
	gitBlameStartTemplateConstant              = "Collecting line history for %s in %s"
	gitBlameSuccessTemplateConstant            = "Collected line history for %s in %s"
	gitBlameFailureTemplateConstant            = "Failed to collect line history for %s in %s (exit code %d%s)"
	gitBlameExecutionFailureTemplateConstant   = "Unable to collect line history for %s in %s: %s"
	npmVersionStartTemplateConstant            = "Verifying npm in %s"
	npmVersionSuccessTemplateConstant          = "npm in %s reports version %s"
	npmVersionFailureTemplateConstant          = "Failed to verify npm in %s (exit code %d%s)"
	npmVersionExecutionFailureTemplateConstant = "Unable to verify npm in %s: %s"
	npmLockStartTemplateConstant               = "Creating package lock in %s"
	npmLockSuccessTemplateConstant             = "Created package lock in %s"
	npmLockFailureTemplateConstant             = "Failed to create package lock in %s (exit code %d%s)"
	npmLockExecutionFailureTemplateConstant    = "Unable to create package lock in %s: %s"
	npmAuditStartTemplateConstant              = "Auditing dependencies in %s"
	npmAuditSuccessTemplateConstant            = "Audited dependencies in %s"
	npmAuditFailureTemplateConstant            = "Dependency audit in %s exited with code %d%s"
	npmAuditExecutionFailureTemplateConstant   = "Unable to audit dependencies in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildCompletedMessage formats the message describing a command that exited with code zero.
func (formatter CommandMessageFormatter) BuildCompletedMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandNPM:
		return formatter.describeNPMMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	if subcommand != gitBlameSubcommandNameConstant {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	workingDirectory := formatter.describeWorkingDirectory(command)
	targetFile := formatter.extractPathAfterSeparator(command.Details.Arguments)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitBlameStartTemplateConstant, targetFile, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitBlameSuccessTemplateConstant, targetFile, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitBlameFailureTemplateConstant, targetFile, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitBlameExecutionFailureTemplateConstant, targetFile, workingDirectory, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) describeNPMMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	switch {
	case containsArgument(arguments, npmVersionFlagConstant):
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(npmVersionStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(npmVersionSuccessTemplateConstant, workingDirectory, formatter.ensureValue(strings.TrimSpace(result.StandardOutput)))
		case messageStageFailure:
			return fmt.Sprintf(npmVersionFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(npmVersionExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	case formatter.isLockfileInstall(arguments):
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(npmLockStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(npmLockSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(npmLockFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(npmLockExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	case len(arguments) > 0 && strings.TrimSpace(arguments[0]) == npmAuditSubcommandNameConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(npmAuditStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(npmAuditSuccessTemplateConstant, workingDirectory)
		case messageStageFailure:
			// npm audit exits non-zero whenever advisories exist, so stderr is the only useful detail.
			return fmt.Sprintf(npmAuditFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return fmt.Sprintf(npmAuditExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
		}
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) isLockfileInstall(arguments []string) bool {
	if len(arguments) == 0 {
		return false
	}
	subcommand := strings.TrimSpace(arguments[0])
	if subcommand != npmInstallSubcommandNameConstant && subcommand != npmInstallLongSubcommandConstant {
		return false
	}
	return containsArgument(arguments, npmPackageLockOnlyFlagConstant)
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	if len(strings.TrimSpace(value)) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return value
}

func (formatter CommandMessageFormatter) extractPathAfterSeparator(arguments []string) string {
	for index := 0; index < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == gitArgumentSeparatorConstant && index+1 < len(arguments) {
			return formatter.ensureValue(strings.TrimSpace(arguments[index+1]))
		}
	}
	return fallbackUnknownValueLabelConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
