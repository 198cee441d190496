// Package report assembles the single bundle delivered for a run.
//
// Assemble is the only constructor of Bundle. It copies every input into the
// bundle, fills the fixed schema regardless of whether version-control facts
// are present, and refuses to return a bundle whose serialized form shows any
// uncommitted manifest line.
package report
