// Package npm drives the npm executable: it checks the installed version,
// creates a lockfile when the project has none, and collects the JSON audit.
package npm
