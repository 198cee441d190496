// Package gitrepo interprets git remote URLs: it parses the common SSH and
// HTTPS forms and strips credentials embedded in them before a URL is
// recorded in a report.
package gitrepo
