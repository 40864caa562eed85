package gateway

import (
	"context"

	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/resolver"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema"
)

// BoundValidateFunc is a domain's validation routine with the registry's
// resolver already captured; callers supply only the raw value.
type BoundValidateFunc func(ctx context.Context, raw any) (any, apperrors.Error)

// Owner is the registry-side context a gateway is constructed with.
type Owner interface {
	Resolver() *resolver.Resolver
}

// Options carries the resolved provider pair for one domain.
type Options struct {
	Provider provider.Provider
	Cache    provider.Provider
}

// Gateway manages the persisted records of one settings domain. Init is
// invoked exactly once by the registry; a gateway whose Init failed stays
// registered but refuses use until the failure is resolved out of band.
type Gateway interface {
	Name() string
	Schema() schema.Schema
	Provider() provider.Provider
	Init(ctx context.Context) apperrors.Error
	Ready() bool

	// Get returns the record for an entry, with defaults filled in for
	// keys that have no stored value. An entry with no stored record
	// yields the pure default record.
	Get(ctx context.Context, id string) (map[string]any, apperrors.Error)

	// UpdateKey resolves and stores a new value for one setting key.
	// For array settings a scalar value toggles membership; a slice
	// replaces the stored sequence. The stored value is returned.
	UpdateKey(ctx context.Context, id, key string, raw any) (any, apperrors.Error)

	// ResetKey restores a setting key to its declared default.
	ResetKey(ctx context.Context, id, key string) apperrors.Error

	// PutRecord stores a whole raw record document after checking it
	// against the domain schema.
	PutRecord(ctx context.Context, id string, doc []byte) apperrors.Error

	Delete(ctx context.Context, id string) apperrors.Error

	// Sync reloads every persisted record into the cache provider.
	Sync(ctx context.Context) apperrors.Error
}

// New selects the gateway variant by the persistent provider's capability
// flag and constructs it. Capability validation has already happened in
// the registry by the time this runs.
func New(owner Owner, name string, validate BoundValidateFunc, s schema.Schema, opts Options) Gateway {
	if opts.Provider.SupportsRelationalSchema() {
		return newRelationalGateway(owner, name, validate, s, opts)
	}
	return newDocumentGateway(owner, name, validate, s, opts)
}
