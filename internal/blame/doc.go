// Package blame attributes declared dependencies to the manifest lines that
// mention them.
//
// Attribution is a first-substring-match heuristic: records are scanned in
// file-line order and the first line containing the dependency name wins, so
// a dependency whose name is a prefix of another (react, react-dom) may be
// attributed to the longer name's line when that line comes first.
package blame
