package settings

import (
	"context"
	"strings"

	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/gateway"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/resolver"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema"
	"github.com/mugiliam/hatchsettingsrv/pkg/types"
)

// TenantDomain is the name of the built-in per-tenant settings domain.
const TenantDomain = "tenants"

// ValidateTenant is the validation routine for the built-in tenant
// domain: it accepts a tenant identifier or a structured tenant object
// and resolves it through the shared resolver.
func ValidateTenant(ctx context.Context, rslv *resolver.Resolver, raw any) (any, apperrors.Error) {
	resolved, ok := rslv.Tenant(ctx, raw)
	if !ok {
		return nil, ErrValidation.Msg("expects either a Tenant ID or a Tenant Object")
	}
	return resolved, nil
}

// DefaultDataSchema computes the canonical schema of the built-in tenant
// domain. It reads the host configuration on every access rather than
// memoizing, so the prefix's shape and sql default literal always track
// the current configuration.
func (r *Registry) DefaultDataSchema() schema.Schema {
	prefixIsList := r.cfg.PrefixIsList()
	prefixValues := r.cfg.PrefixValues()

	var prefixDefault types.NullableAny
	if prefixIsList {
		items := make([]any, 0, len(prefixValues))
		for _, v := range prefixValues {
			items = append(items, v)
		}
		prefixDefault = types.AnyOf(items)
	} else if len(prefixValues) > 0 {
		prefixDefault = types.AnyOf(prefixValues[0])
	}

	return schema.Schema{
		"prefix": {
			Type:    string(types.SettingTypeString),
			Default: prefixDefault,
			Array:   prefixIsList,
			SQL:     "TEXT DEFAULT " + sqlStringLiteral(strings.Join(prefixValues, ",")),
		},
		"language": {
			Type:    string(types.SettingTypeString),
			Default: types.AnyOf(r.cfg.Language),
			Array:   false,
			SQL:     "TEXT DEFAULT " + sqlStringLiteral(r.cfg.Language),
		},
		"disabledCommands": {
			Type:    string(types.SettingTypeCommand),
			Default: types.AnyOf([]any{}),
			Array:   true,
			SQL:     "TEXT",
		},
	}
}

// RegisterDefaults registers the built-in tenant domain against the
// host's default engines.
func (r *Registry) RegisterDefaults(ctx context.Context) (gateway.Gateway, apperrors.Error) {
	return r.Add(ctx, TenantDomain, ValidateTenant, r.DefaultDataSchema(), AddOptions{})
}

func sqlStringLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
