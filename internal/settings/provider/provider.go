package provider

import (
	"context"

	"github.com/mugiliam/common/apperrors"
)

// ColumnDef is a rendered column definition handed to relational providers
// when a domain table is created. Document-style providers ignore it.
type ColumnDef struct {
	Name       string
	Definition string
}

// Provider is a storage backend for settings records. Records travel as
// serialized JSON documents keyed by (table, id); capability flags decide
// which storage gateway variant a provider can back and whether it may
// serve the persistent or the cache role.
type Provider interface {
	Name() string

	// SupportsRelationalSchema reports whether the provider can honor the
	// schema's column definitions. It decides the gateway variant.
	SupportsRelationalSchema() bool

	// CacheOnly reports whether the provider holds data that may vanish.
	// A cache-only provider can never serve the persistent role, and a
	// persistent provider can never serve the cache role.
	CacheOnly() bool

	// Init prepares the provider for use. It is safe to call more than
	// once; subsequent calls are no-ops.
	Init(ctx context.Context) apperrors.Error

	HasTable(ctx context.Context, table string) (bool, apperrors.Error)
	EnsureTable(ctx context.Context, table string, columns []ColumnDef) apperrors.Error
	DropTable(ctx context.Context, table string) apperrors.Error

	Has(ctx context.Context, table, id string) (bool, apperrors.Error)
	Get(ctx context.Context, table, id string) ([]byte, apperrors.Error)
	GetAll(ctx context.Context, table string) (map[string][]byte, apperrors.Error)
	Set(ctx context.Context, table, id string, doc []byte) apperrors.Error
	Delete(ctx context.Context, table, id string) apperrors.Error
}
