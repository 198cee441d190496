// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with zap lifecycle logging via ShellExecutor, exposes
// OSCommandRunner for default process execution, and defines the command,
// result, and failure types used by the npm and git collaborators of the
// report pipeline.
package execshell
