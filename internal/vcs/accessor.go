package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"go.uber.org/zap"

	"github.com/temirov/depaudit/internal/blame"
	"github.com/temirov/depaudit/internal/execshell"
	"github.com/temirov/depaudit/internal/gitrepo"
	"github.com/temirov/depaudit/internal/manifest"
	"github.com/temirov/depaudit/internal/report"
)

const (
	originRemoteNameConstant      = "origin"
	blameSubcommandConstant       = "blame"
	linePorcelainFlagConstant     = "--line-porcelain"
	argumentSeparatorConstant     = "--"
	openRepositoryErrorTemplate   = "unable to open repository at %s: %w"
	readHeadErrorTemplate         = "unable to read HEAD of %s: %w"
	readRemoteErrorTemplate       = "unable to read remote %s of %s: %w"
	readWorktreeErrorTemplate     = "unable to read working tree of %s: %w"
	blameErrorTemplate            = "unable to read history of %s: %w"
	uncommittedBlameErrorTemplate = "%w: %w"
	logFieldRootConstant          = "root"
	logFieldCommitConstant        = "commit"
	logFieldRemoteConstant        = "remote"
	factsCollectedMessageConstant = "Collected repository facts"
	missingRemoteMessageConstant  = "Repository has no origin remote"
	missingPathMarkerConstant     = "no such path"
	missingHeadMarkerConstant     = "no such ref: HEAD"
)

// ErrManifestUncommitted indicates the manifest has no committed history to blame.
var ErrManifestUncommitted = errors.New("package.json has no committed history")

// GitExecutor runs git.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Accessor reads repository facts and manifest blame for a project root.
type Accessor struct {
	logger   *zap.Logger
	executor GitExecutor
}

// NewAccessor constructs an Accessor.
func NewAccessor(logger *zap.Logger, executor GitExecutor) *Accessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Accessor{logger: logger, executor: executor}
}

// Facts returns the project name, sanitized origin URL and HEAD hash of the repository containing root.
// A repository without commits yields an empty hash; one without an origin remote yields an empty URL.
func (accessor *Accessor) Facts(executionContext context.Context, root string) (report.VCSFacts, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return report.VCSFacts{}, contextError
	}

	repository, openError := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		return report.VCSFacts{}, fmt.Errorf(openRepositoryErrorTemplate, root, openError)
	}

	facts := report.VCSFacts{}

	worktree, worktreeError := repository.Worktree()
	if worktreeError != nil {
		return report.VCSFacts{}, fmt.Errorf(readWorktreeErrorTemplate, root, worktreeError)
	}
	facts.ProjectName = filepath.Base(worktree.Filesystem.Root())

	head, headError := repository.Head()
	switch {
	case headError == nil:
		facts.CommitHash = head.Hash().String()
	case errors.Is(headError, plumbing.ErrReferenceNotFound):
	default:
		return report.VCSFacts{}, fmt.Errorf(readHeadErrorTemplate, root, headError)
	}

	remote, remoteError := repository.Remote(originRemoteNameConstant)
	switch {
	case remoteError == nil:
		if remoteURLs := remote.Config().URLs; len(remoteURLs) > 0 {
			facts.RemoteURL = gitrepo.SanitizeRemoteURL(remoteURLs[0])
		}
	case errors.Is(remoteError, git.ErrRemoteNotFound):
		accessor.logger.Debug(missingRemoteMessageConstant, zap.String(logFieldRootConstant, root))
	default:
		return report.VCSFacts{}, fmt.Errorf(readRemoteErrorTemplate, originRemoteNameConstant, root, remoteError)
	}

	accessor.logger.Debug(factsCollectedMessageConstant,
		zap.String(logFieldRootConstant, root),
		zap.String(logFieldCommitConstant, facts.CommitHash),
		zap.String(logFieldRemoteConstant, facts.RemoteURL),
	)
	return facts, nil
}

// Blame returns one record per line of the manifest under root, in file order.
// It returns ErrManifestUncommitted when the manifest was never committed or the
// repository has no commits.
func (accessor *Accessor) Blame(executionContext context.Context, root string) ([]blame.Record, error) {
	result, executionError := accessor.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{blameSubcommandConstant, linePorcelainFlagConstant, argumentSeparatorConstant, manifest.FileNameConstant},
		WorkingDirectory: root,
	})
	if executionError != nil {
		if lacksHistory(executionError) {
			return nil, fmt.Errorf(uncommittedBlameErrorTemplate, ErrManifestUncommitted, executionError)
		}
		return nil, fmt.Errorf(blameErrorTemplate, manifest.FileNameConstant, executionError)
	}
	records, parseError := ParseLinePorcelain(result.StandardOutput)
	if parseError != nil {
		return nil, fmt.Errorf(blameErrorTemplate, manifest.FileNameConstant, parseError)
	}
	return records, nil
}

func lacksHistory(executionError error) bool {
	var failedError execshell.CommandFailedError
	if !errors.As(executionError, &failedError) {
		return false
	}
	standardError := failedError.Result.StandardError
	return strings.Contains(standardError, missingPathMarkerConstant) || strings.Contains(standardError, missingHeadMarkerConstant)
}
