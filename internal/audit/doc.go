// Package audit runs the dependency report pipeline: it audits an npm
// project, attributes each declared dependency to the commit that last
// touched it, assembles the report bundle, and delivers or persists it.
//
// CommandBuilder wires the report Cobra command; Service drives the pipeline
// programmatically and returns a tagged Outcome.
package audit
