// Package manifest reads an npm project's package.json and lists the
// dependencies it declares, preserving the order in which they appear.
package manifest
