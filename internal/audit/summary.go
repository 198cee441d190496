package audit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/package-url/packageurl-go"

	"github.com/temirov/depaudit/internal/blame"
)

const (
	summaryHeaderPackageConstant  = "Package"
	summaryHeaderDeclaredConstant = "Declared"
	summaryHeaderAuthorConstant   = "Author"
	summaryHeaderCommitConstant   = "Commit"
	summaryHeaderLineConstant     = "Line"
	summaryUnattributedConstant   = "-"
	shortCommitLengthConstant     = 8
	npmScopePrefixConstant        = "@"
	npmScopeSeparatorConstant     = "/"
)

// RenderSummary prints one table row per attributed dependency.
func RenderSummary(writer io.Writer, attributions []blame.AttributionEntry) error {
	tableWriter := table.NewWriter()
	tableWriter.SetStyle(table.StyleLight)
	tableWriter.AppendHeader(table.Row{
		summaryHeaderPackageConstant,
		summaryHeaderDeclaredConstant,
		summaryHeaderAuthorConstant,
		summaryHeaderCommitConstant,
		summaryHeaderLineConstant,
	})
	for _, attribution := range attributions {
		tableWriter.AppendRow(summaryRow(attribution))
	}
	_, writeError := fmt.Fprintln(writer, tableWriter.Render())
	return writeError
}

func summaryRow(attribution blame.AttributionEntry) table.Row {
	packageURL := DependencyPackageURL(attribution.Dependency.Name)
	if attribution.Blame == nil {
		return table.Row{packageURL, attribution.Dependency.DeclaredRange, summaryUnattributedConstant, summaryUnattributedConstant, summaryUnattributedConstant}
	}
	return table.Row{
		packageURL,
		attribution.Dependency.DeclaredRange,
		attribution.Blame.Author,
		shortCommit(attribution.Blame.CommitHash),
		strconv.Itoa(attribution.Blame.LineNumber),
	}
}

// DependencyPackageURL renders an npm dependency name as a package URL, moving the scope into the namespace.
func DependencyPackageURL(dependencyName string) string {
	namespace := ""
	name := dependencyName
	if strings.HasPrefix(dependencyName, npmScopePrefixConstant) {
		if scope, scopedName, found := strings.Cut(dependencyName, npmScopeSeparatorConstant); found {
			namespace = scope
			name = scopedName
		}
	}
	return packageurl.NewPackageURL(packageurl.TypeNPM, namespace, name, "", nil, "").ToString()
}

func shortCommit(commitHash string) string {
	if len(commitHash) <= shortCommitLengthConstant {
		return commitHash
	}
	return commitHash[:shortCommitLengthConstant]
}
