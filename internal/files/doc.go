// Package files walks a project directory into a nested inventory and tells
// whether the project root is a git working tree.
package files
