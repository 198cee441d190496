package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/depaudit/internal/execshell"
	"github.com/temirov/depaudit/internal/ui"
)

const (
	testCommandWorkingDirectoryConstant = "/work/storefront"
	testExecutionFailureReasonConstant  = "executable file not found"
	testStandardErrorMessageConstant    = "npm ERR! code ENOLOCK"
	testAuditReportConstant             = `{"vulnerabilities":{}}`
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	lockCommand := execshell.ShellCommand{
		Name: execshell.CommandNPM,
		Details: execshell.CommandDetails{
			Arguments:        []string{"i", "--package-lock-only"},
			WorkingDirectory: testCommandWorkingDirectoryConstant,
		},
	}
	auditCommand := execshell.ShellCommand{
		Name: execshell.CommandNPM,
		Details: execshell.CommandDetails{
			Arguments:        []string{"audit", "--json"},
			WorkingDirectory: testCommandWorkingDirectoryConstant,
		},
	}

	testCases := []struct {
		name            string
		invoke          func(logger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandStarted(lockCommand)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Creating package lock in /work/storefront",
		},
		{
			name: "command_completed_success",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(lockCommand, execshell.ExecutionResult{})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Created package lock in /work/storefront",
		},
		{
			name: "command_completed_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(lockCommand, execshell.ExecutionResult{ExitCode: 1, StandardError: testStandardErrorMessageConstant})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "Failed to create package lock in /work/storefront (exit code 1: " + testStandardErrorMessageConstant + ")",
		},
		{
			name: "audit_found_advisories",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandCompleted(auditCommand, execshell.ExecutionResult{ExitCode: 1, StandardOutput: testAuditReportConstant})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "Dependency audit in /work/storefront exited with code 1",
		},
		{
			name: "command_execution_failure",
			invoke: func(logger *ui.ConsoleCommandEventLogger) {
				logger.CommandExecutionFailed(auditCommand, errors.New(testExecutionFailureReasonConstant))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "Unable to audit dependencies in /work/storefront: " + testExecutionFailureReasonConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observerCore))

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleCommandEventLoggerToleratesNilReceiver(testInstance *testing.T) {
	var eventLogger *ui.ConsoleCommandEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(execshell.ShellCommand{Name: execshell.CommandGit})
	})
}
