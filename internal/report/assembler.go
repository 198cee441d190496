package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/temirov/depaudit/internal/blame"
	"github.com/temirov/depaudit/internal/files"
	"github.com/temirov/depaudit/internal/manifest"
)

var uncommittedMarker = []byte(blame.UncommittedAuthorConstant)

// Assemble builds a bundle from input. The audit is stored compacted, the form
// it takes once the bundle is serialized. It returns ErrNoAuditData when the audit
// is empty and ErrUncommittedChanges when the serialized bundle mentions an
// uncommitted line; in both cases no bundle is returned.
func Assemble(input AssemblyInput) (Bundle, error) {
	trimmedAudit := bytes.TrimSpace(input.Audit)
	if len(trimmedAudit) == 0 {
		return Bundle{}, ErrNoAuditData
	}
	if !json.Valid(trimmedAudit) {
		return Bundle{}, fmt.Errorf(invalidAuditDataTemplateConstant, ErrNoAuditData)
	}
	var compactedAudit bytes.Buffer
	if compactError := json.Compact(&compactedAudit, trimmedAudit); compactError != nil {
		return Bundle{}, fmt.Errorf(invalidAuditDataTemplateConstant, ErrNoAuditData)
	}

	vcsInfo := VCSInfo{Attributions: []blame.AttributionEntry{}}
	var projectName *string
	if input.VCSPresent {
		vcsInfo.GitURL = optionalString(input.VCSFacts.RemoteURL)
		vcsInfo.GitHash = optionalString(input.VCSFacts.CommitHash)
		vcsInfo.Attributions = cloneAttributions(input.Attributions)
		projectName = optionalString(input.VCSFacts.ProjectName)
	}

	bundle := Bundle{
		Date:        DateRange{Start: input.Start.UTC()},
		MachineName: input.HostName,
		Project: Project{
			DependencyReport: json.RawMessage(compactedAudit.Bytes()),
			ProjectMeta: ProjectMeta{
				ProjectName:  projectName,
				Dependencies: append([]manifest.DependencyDescriptor{}, input.Dependencies...),
				AbsolutePath: input.RootPath,
				ExitCode:     SuccessExitCodeConstant,
				VCSInfo:      vcsInfo,
				FileInfo:     cloneInventory(input.FileInventory),
				Root:         RootMarkerConstant,
			},
		},
	}

	if guardError := guardUncommittedChanges(bundle); guardError != nil {
		return Bundle{}, guardError
	}
	return bundle, nil
}

func guardUncommittedChanges(bundle Bundle) error {
	encoded, encodeError := json.Marshal(bundle)
	if encodeError != nil {
		return fmt.Errorf(bundleEncodingErrorTemplateConstant, encodeError)
	}
	if bytes.Contains(encoded, uncommittedMarker) {
		return ErrUncommittedChanges
	}
	return nil
}

func optionalString(value string) *string {
	if len(value) == 0 {
		return nil
	}
	copied := value
	return &copied
}

func cloneAttributions(attributions []blame.AttributionEntry) []blame.AttributionEntry {
	cloned := make([]blame.AttributionEntry, 0, len(attributions))
	for _, attribution := range attributions {
		if attribution.Blame != nil {
			record := *attribution.Blame
			attribution.Blame = &record
		}
		cloned = append(cloned, attribution)
	}
	return cloned
}

func cloneInventory(inventory files.Inventory) files.Inventory {
	cloned := make(files.Inventory, len(inventory))
	for name, child := range inventory {
		if child == nil {
			cloned[name] = nil
			continue
		}
		cloned[name] = cloneInventory(child)
	}
	return cloned
}
