package resolver

import (
	"context"
	"strconv"
	"strings"

	"github.com/mugiliam/hatchsettingsrv/pkg/types"
)

// TenantSource looks up tenants known to the host application.
type TenantSource interface {
	Tenant(ctx context.Context, id types.TenantId) (*TenantRef, bool)
}

// CommandSource looks up commands known to the host application.
type CommandSource interface {
	Command(ctx context.Context, name string) (string, bool)
}

// TenantRef is the structured form of a tenant reference.
type TenantRef struct {
	Id   types.TenantId `json:"id"`
	Name string         `json:"name,omitempty"`
}

// ResolveFunc coerces a raw value into a domain-typed value. The second
// return is false when the value cannot be resolved.
type ResolveFunc func(ctx context.Context, raw any) (any, bool)

// Resolver coerces raw setting values into their domain-typed form, one
// resolution method per recognized type name. The set of recognized names
// is declared statically; nothing here is discovered by reflection.
type Resolver struct {
	tenants   TenantSource
	commands  CommandSource
	languages []string
	methods   map[types.SettingType]ResolveFunc
}

type Options struct {
	Tenants   TenantSource
	Commands  CommandSource
	Languages []string
}

func New(opts Options) *Resolver {
	if len(opts.Languages) == 0 {
		opts.Languages = []string{types.DefaultLanguage}
	}
	r := &Resolver{
		tenants:   opts.Tenants,
		commands:  opts.Commands,
		languages: opts.Languages,
	}
	r.methods = map[types.SettingType]ResolveFunc{
		types.SettingTypeString:   r.String,
		types.SettingTypeInteger:  r.Integer,
		types.SettingTypeFloat:    r.Float,
		types.SettingTypeBoolean:  r.Boolean,
		types.SettingTypeLanguage: r.Language,
		types.SettingTypeCommand:  r.Command,
		types.SettingTypeTenant:   r.Tenant,
		types.SettingTypeUser:     r.User,
	}
	return r
}

// Recognized enumerates the type names this resolver supports.
func (r *Resolver) Recognized() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, string(name))
	}
	return names
}

// Resolve dispatches to the resolution method for the given type name.
func (r *Resolver) Resolve(ctx context.Context, settingType string, raw any) (any, bool) {
	method, ok := r.methods[types.SettingType(settingType)]
	if !ok {
		return nil, false
	}
	return method(ctx, raw)
}

func (r *Resolver) String(ctx context.Context, raw any) (any, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return nil, false
}

func (r *Resolver) Integer(ctx context.Context, raw any) (any, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, true
		}
	}
	return nil, false
}

func (r *Resolver) Float(ctx context.Context, raw any) (any, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return nil, false
}

func (r *Resolver) Boolean(ctx context.Context, raw any) (any, bool) {
	switch v := raw.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "true", "on", "enable", "1":
			return true, true
		case "false", "off", "disable", "0":
			return false, true
		}
	}
	return nil, false
}

func (r *Resolver) Language(ctx context.Context, raw any) (any, bool) {
	name, ok := raw.(string)
	if !ok {
		return nil, false
	}
	for _, lang := range r.languages {
		if strings.EqualFold(lang, name) {
			return lang, true
		}
	}
	return nil, false
}

func (r *Resolver) Command(ctx context.Context, raw any) (any, bool) {
	name, ok := raw.(string)
	if !ok || name == "" {
		return nil, false
	}
	if r.commands == nil {
		return strings.ToLower(name), true
	}
	return r.commands.Command(ctx, strings.ToLower(name))
}

// Tenant accepts either a tenant identifier or a structured tenant
// reference and resolves it against the tenant source.
func (r *Resolver) Tenant(ctx context.Context, raw any) (any, bool) {
	var id types.TenantId
	switch v := raw.(type) {
	case types.TenantId:
		id = v
	case string:
		id = types.TenantId(v)
	case TenantRef:
		id = v.Id
	case *TenantRef:
		if v == nil {
			return nil, false
		}
		id = v.Id
	default:
		return nil, false
	}
	if id == "" {
		return nil, false
	}
	if r.tenants == nil {
		return &TenantRef{Id: id}, true
	}
	ref, ok := r.tenants.Tenant(ctx, id)
	if !ok {
		return nil, false
	}
	return ref, true
}

func (r *Resolver) User(ctx context.Context, raw any) (any, bool) {
	switch v := raw.(type) {
	case types.UserId:
		if v != "" {
			return v, true
		}
	case string:
		if v != "" {
			return types.UserId(v), true
		}
	}
	return nil, false
}
