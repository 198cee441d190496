package audit

import (
	"context"
	"encoding/json"

	"github.com/temirov/depaudit/internal/blame"
	"github.com/temirov/depaudit/internal/files"
	"github.com/temirov/depaudit/internal/manifest"
	"github.com/temirov/depaudit/internal/report"
	"github.com/temirov/depaudit/internal/transport"
)

// ManifestReader loads the project's package manifest.
type ManifestReader interface {
	Read(root string) (manifest.Manifest, error)
}

// AuditRunner drives the npm toolchain.
type AuditRunner interface {
	VerifyVersion(executionContext context.Context, root string) (string, error)
	Audit(executionContext context.Context, root string) (json.RawMessage, error)
}

// VCSAccessor reads repository identity and line history.
type VCSAccessor interface {
	Facts(executionContext context.Context, root string) (report.VCSFacts, error)
	Blame(executionContext context.Context, root string) ([]blame.Record, error)
}

// DirectoryWalker resolves and inventories the project directory.
type DirectoryWalker interface {
	ResolveRoot(root string) (string, error)
	Walk(root string) (files.Inventory, error)
}

// ReportDeliverer posts bundles to the collector.
type ReportDeliverer interface {
	Deliver(executionContext context.Context, bundle report.Bundle, credential transport.Credential, host string, port int) (transport.DeliveryOutcome, error)
}

// ReportPersister writes bundles to a path.
type ReportPersister interface {
	Persist(executionContext context.Context, bundle report.Bundle, path string) error
}

// HostNameProvider names the machine running the audit.
type HostNameProvider func() (string, error)
