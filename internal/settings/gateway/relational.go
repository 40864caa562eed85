package gateway

import (
	"context"
	"sort"

	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema"
)

// relationalGateway backs a domain with a provider that honors relational
// schemas. Behavior is the document gateway's; the difference is that the
// domain table is created with the schema's rendered column definitions.
type relationalGateway struct {
	documentGateway
}

func newRelationalGateway(owner Owner, name string, validate BoundValidateFunc, s schema.Schema, opts Options) *relationalGateway {
	return &relationalGateway{
		documentGateway: documentGateway{
			owner:    owner,
			name:     name,
			validate: validate,
			schema:   s,
			opts:     opts,
		},
	}
}

func (g *relationalGateway) Init(ctx context.Context) apperrors.Error {
	return g.init(ctx, g.columns())
}

// columns renders the schema's sql hints into column definitions, in a
// stable order. Keys without a hint live only in the record document.
func (g *relationalGateway) columns() []provider.ColumnDef {
	keys := g.schema.Keys()
	sort.Strings(keys)
	var columns []provider.ColumnDef
	for _, key := range keys {
		desc := g.schema[key]
		if desc.SQL == "" {
			continue
		}
		columns = append(columns, provider.ColumnDef{
			Name:       key,
			Definition: desc.SQL,
		})
	}
	return columns
}
