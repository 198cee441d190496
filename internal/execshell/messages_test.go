package execshell_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/depaudit/internal/execshell"
)

const (
	testProjectDirectoryConstant = "/work/project"
	testManifestFileConstant     = "package.json"
)

func TestCommandMessageFormatterDescribesPipelineCommands(testInstance *testing.T) {
	formatter := execshell.CommandMessageFormatter{}

	blameCommand := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"blame", "--line-porcelain", "--", testManifestFileConstant},
			WorkingDirectory: testProjectDirectoryConstant,
		},
	}
	versionCommand := execshell.ShellCommand{
		Name:    execshell.CommandNPM,
		Details: execshell.CommandDetails{Arguments: []string{"--version"}, WorkingDirectory: testProjectDirectoryConstant},
	}
	lockCommand := execshell.ShellCommand{
		Name:    execshell.CommandNPM,
		Details: execshell.CommandDetails{Arguments: []string{"i", "--package-lock-only"}, WorkingDirectory: testProjectDirectoryConstant},
	}
	auditCommand := execshell.ShellCommand{
		Name:    execshell.CommandNPM,
		Details: execshell.CommandDetails{Arguments: []string{"audit", "--json"}},
	}
	revParseCommand := execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"rev-parse", "HEAD"}, WorkingDirectory: testProjectDirectoryConstant},
	}

	testCases := []struct {
		name            string
		message         string
		expectedMessage string
	}{
		{
			name:            "blame_started",
			message:         formatter.BuildStartedMessage(blameCommand),
			expectedMessage: "Collecting line history for package.json in /work/project",
		},
		{
			name:            "blame_failure",
			message:         formatter.BuildFailureMessage(blameCommand, execshell.ExecutionResult{ExitCode: 128, StandardError: "fatal: no such path\n"}),
			expectedMessage: "Failed to collect line history for package.json in /work/project (exit code 128: fatal: no such path)",
		},
		{
			name:            "npm_version_completed",
			message:         formatter.BuildCompletedMessage(versionCommand, execshell.ExecutionResult{StandardOutput: "9.8.1\n"}),
			expectedMessage: "npm in /work/project reports version 9.8.1",
		},
		{
			name:            "npm_lock_started",
			message:         formatter.BuildStartedMessage(lockCommand),
			expectedMessage: "Creating package lock in /work/project",
		},
		{
			name:            "npm_audit_default_directory",
			message:         formatter.BuildStartedMessage(auditCommand),
			expectedMessage: "Auditing dependencies in current directory",
		},
		{
			name:            "npm_audit_execution_failure",
			message:         formatter.BuildExecutionFailureMessage(auditCommand, errors.New("executable file not found")),
			expectedMessage: "Unable to audit dependencies in current directory: executable file not found",
		},
		{
			name:            "generic_git_command",
			message:         formatter.BuildFailureMessage(revParseCommand, execshell.ExecutionResult{ExitCode: 1}),
			expectedMessage: "git rev-parse HEAD (in /work/project) failed with exit code 1",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedMessage, testCase.message)
		})
	}
}
