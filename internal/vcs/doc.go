// Package vcs gathers version-control facts about a project root.
//
// Repository identity (HEAD hash, origin URL, working tree name) is read with
// go-git. Per-line history of the manifest comes from the git executable in
// porcelain form, since go-git's blame ignores uncommitted edits and those
// edits are exactly what the report guard needs to see.
package vcs
