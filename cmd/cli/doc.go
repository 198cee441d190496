// Package cli constructs the depaudit command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging.
package cli
