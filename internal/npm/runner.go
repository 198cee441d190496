package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"

	"github.com/temirov/depaudit/internal/execshell"
	"github.com/temirov/depaudit/internal/manifest"
)

const (
	// MinimumVersionConstant is the oldest npm release that ships npm audit.
	MinimumVersionConstant = "5.2.0"

	lockfileNameConstant        = "package-lock.json"
	versionFlagConstant         = "--version"
	installSubcommandConstant   = "i"
	packageLockOnlyFlagConstant = "--package-lock-only"
	auditSubcommandConstant     = "audit"
	jsonFlagConstant            = "--json"
	semverPrefixConstant        = "v"
	creatingLockfileMessage     = "Creating package lock for dependency audit"
	logFieldRootConstant        = "root"
	logFieldDetectedConstant    = "npm_version"
	versionVerifiedMessage      = "npm version verified"
)

// CommandExecutor runs npm.
type CommandExecutor interface {
	ExecuteNPM(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// FileInspector reports file metadata.
type FileInspector interface {
	Stat(path string) (fs.FileInfo, error)
}

// Runner performs npm operations for one project root.
type Runner struct {
	logger        *zap.Logger
	executor      CommandExecutor
	fileInspector FileInspector
}

// NewRunner constructs a Runner.
func NewRunner(logger *zap.Logger, executor CommandExecutor, fileInspector FileInspector) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{logger: logger, executor: executor, fileInspector: fileInspector}
}

// VerifyVersion returns the installed npm version, or ToolVersionTooLowError when it predates MinimumVersionConstant.
// The version is read from root so a project-local npm takes precedence over a global one.
func (runner *Runner) VerifyVersion(executionContext context.Context, root string) (string, error) {
	result, executionError := runner.executor.ExecuteNPM(executionContext, execshell.CommandDetails{
		Arguments:        []string{versionFlagConstant},
		WorkingDirectory: root,
	})
	if executionError != nil {
		return "", fmt.Errorf(versionCheckErrorTemplateConstant, executionError)
	}

	detectedVersion := strings.TrimSpace(result.StandardOutput)
	canonicalVersion := semverPrefixConstant + strings.TrimPrefix(detectedVersion, semverPrefixConstant)
	if !semver.IsValid(canonicalVersion) {
		return "", fmt.Errorf(versionCheckErrorTemplateConstant, fmt.Errorf(unparsableVersionTemplateConstant, detectedVersion))
	}
	if semver.Compare(canonicalVersion, semverPrefixConstant+MinimumVersionConstant) < 0 {
		return detectedVersion, ToolVersionTooLowError{Detected: detectedVersion, Minimum: MinimumVersionConstant}
	}

	runner.logger.Debug(versionVerifiedMessage, zap.String(logFieldDetectedConstant, detectedVersion))
	return detectedVersion, nil
}

// EnsureLockfile creates package-lock.json when root has none and reports whether it did.
func (runner *Runner) EnsureLockfile(executionContext context.Context, root string) (bool, error) {
	lockfilePath := filepath.Join(root, lockfileNameConstant)
	_, statError := runner.fileInspector.Stat(lockfilePath)
	if statError == nil {
		return false, nil
	}
	if !errors.Is(statError, fs.ErrNotExist) {
		return false, fmt.Errorf(lockfileInspectionTemplateConstant, lockfilePath, statError)
	}

	runner.logger.Info(creatingLockfileMessage, zap.String(logFieldRootConstant, root))
	_, executionError := runner.executor.ExecuteNPM(executionContext, execshell.CommandDetails{
		Arguments:        []string{installSubcommandConstant, packageLockOnlyFlagConstant},
		WorkingDirectory: root,
	})
	if executionError != nil {
		return false, fmt.Errorf(lockfileErrorTemplateConstant, executionError)
	}
	return true, nil
}

// Audit returns the raw output of npm audit --json for root. It returns
// manifest.ErrManifestAbsent without running npm when root has no package.json.
func (runner *Runner) Audit(executionContext context.Context, root string) (json.RawMessage, error) {
	if _, statError := runner.fileInspector.Stat(filepath.Join(root, manifest.FileNameConstant)); statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return nil, manifest.ErrManifestAbsent
		}
		return nil, fmt.Errorf(auditErrorTemplateConstant, statError)
	}

	if _, lockfileError := runner.EnsureLockfile(executionContext, root); lockfileError != nil {
		return nil, lockfileError
	}

	result, executionError := runner.executor.ExecuteNPM(executionContext, execshell.CommandDetails{
		Arguments:        []string{auditSubcommandConstant, jsonFlagConstant},
		WorkingDirectory: root,
	})
	if executionError != nil {
		// npm audit exits non-zero when it finds vulnerabilities; the report is still on stdout.
		var failedError execshell.CommandFailedError
		if !errors.As(executionError, &failedError) || len(strings.TrimSpace(failedError.Result.StandardOutput)) == 0 {
			return nil, fmt.Errorf(auditErrorTemplateConstant, executionError)
		}
		result = failedError.Result
	}

	return json.RawMessage(bytes.TrimSpace([]byte(result.StandardOutput))), nil
}
