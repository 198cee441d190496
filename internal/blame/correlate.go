package blame

import (
	"strings"

	"github.com/temirov/depaudit/internal/manifest"
)

// Correlate returns one entry per dependency, in dependency order. Each entry
// carries the first record whose line text contains the dependency name; an
// empty name matches nothing.
func Correlate(records []Record, dependencies []manifest.DependencyDescriptor) []AttributionEntry {
	entries := make([]AttributionEntry, 0, len(dependencies))
	for _, dependency := range dependencies {
		entries = append(entries, AttributionEntry{
			Dependency: dependency,
			Blame:      firstMention(records, dependency.Name),
		})
	}
	return entries
}

func firstMention(records []Record, dependencyName string) *Record {
	if len(dependencyName) == 0 {
		return nil
	}
	for recordIndex := range records {
		if strings.Contains(records[recordIndex].LineText, dependencyName) {
			matched := records[recordIndex]
			return &matched
		}
	}
	return nil
}
