package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/resolver"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema"
	"github.com/mugiliam/hatchsettingsrv/pkg/types"
	"github.com/rs/zerolog/log"
)

// documentGateway backs a domain with a document-style provider. It also
// carries the behavior shared with the relational variant; only table
// creation differs between the two.
type documentGateway struct {
	owner    Owner
	name     string
	validate BoundValidateFunc
	schema   schema.Schema
	opts     Options
	ready    atomic.Bool
}

func newDocumentGateway(owner Owner, name string, validate BoundValidateFunc, s schema.Schema, opts Options) *documentGateway {
	return &documentGateway{
		owner:    owner,
		name:     name,
		validate: validate,
		schema:   s,
		opts:     opts,
	}
}

func (g *documentGateway) Name() string                { return g.name }
func (g *documentGateway) Schema() schema.Schema       { return g.schema }
func (g *documentGateway) Provider() provider.Provider { return g.opts.Provider }
func (g *documentGateway) Ready() bool                 { return g.ready.Load() }

func (g *documentGateway) Init(ctx context.Context) apperrors.Error {
	return g.init(ctx, nil)
}

func (g *documentGateway) init(ctx context.Context, columns []provider.ColumnDef) apperrors.Error {
	if err := g.opts.Provider.Init(ctx); err != nil {
		return err
	}
	if err := g.opts.Provider.EnsureTable(ctx, g.name, columns); err != nil {
		return err
	}
	if err := g.opts.Cache.Init(ctx); err != nil {
		return err
	}
	if err := g.opts.Cache.EnsureTable(ctx, g.name, nil); err != nil {
		return err
	}
	if err := g.Sync(ctx); err != nil {
		return err
	}
	g.ready.Store(true)
	log.Ctx(ctx).Debug().Str("domain", g.name).Str("provider", g.opts.Provider.Name()).Msg("settings gateway initialized")
	return nil
}

// resolveTarget runs the bound validation routine over the entry
// reference and reduces the resolved value to a storage id.
func (g *documentGateway) resolveTarget(ctx context.Context, id string) (string, apperrors.Error) {
	resolved, err := g.validate(ctx, id)
	if err != nil {
		return "", err
	}
	switch v := resolved.(type) {
	case string:
		return v, nil
	case types.TenantId:
		return string(v), nil
	case types.UserId:
		return string(v), nil
	case *resolver.TenantRef:
		return string(v.Id), nil
	case resolver.TenantRef:
		return string(v.Id), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func (g *documentGateway) Get(ctx context.Context, id string) (map[string]any, apperrors.Error) {
	if !g.Ready() {
		return nil, ErrNotReady
	}
	target, apperr := g.resolveTarget(ctx, id)
	if apperr != nil {
		return nil, apperr
	}
	record := g.schema.Defaults()
	doc, apperr := g.opts.Cache.Get(ctx, g.name, target)
	if apperr != nil {
		doc, apperr = g.opts.Provider.Get(ctx, g.name, target)
		if apperr != nil {
			if errors.Is(apperr, provider.ErrEntryNotFound) {
				// no stored record: the pure default record
				return record, nil
			}
			return nil, apperr
		}
		if err := g.opts.Cache.Set(ctx, g.name, target, doc); err != nil {
			log.Ctx(ctx).Warn().Str("domain", g.name).Str("id", target).Msg("failed to backfill cache")
		}
	}
	var stored map[string]any
	if err := json.Unmarshal(doc, &stored); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("domain", g.name).Str("id", target).Msg("stored record is not a valid document")
		return nil, ErrInvalidRecord.Err(err)
	}
	for key, value := range stored {
		record[key] = value
	}
	return record, nil
}

func (g *documentGateway) UpdateKey(ctx context.Context, id, key string, raw any) (any, apperrors.Error) {
	if !g.Ready() {
		return nil, ErrNotReady
	}
	desc, ok := g.schema[key]
	if !ok {
		return nil, ErrUnknownKey.Msg("key " + key + " not declared in domain " + g.name)
	}
	target, apperr := g.resolveTarget(ctx, id)
	if apperr != nil {
		return nil, apperr
	}
	record, apperr := g.Get(ctx, id)
	if apperr != nil {
		return nil, apperr
	}

	value, apperr := g.resolveValue(ctx, desc, key, record[key], raw)
	if apperr != nil {
		return nil, apperr
	}
	record[key] = value

	doc, err := json.Marshal(record)
	if err != nil {
		return nil, ErrGateway.Err(err)
	}
	if apperr := g.opts.Provider.Set(ctx, g.name, target, doc); apperr != nil {
		return nil, apperr
	}
	if apperr := g.opts.Cache.Set(ctx, g.name, target, doc); apperr != nil {
		log.Ctx(ctx).Warn().Str("domain", g.name).Str("id", target).Msg("failed to refresh cache after update")
	}
	return value, nil
}

// resolveValue coerces the raw value through the resolver and applies the
// descriptor's array and bounds rules. For array settings a slice replaces
// the stored value and a scalar toggles membership.
func (g *documentGateway) resolveValue(ctx context.Context, desc schema.Descriptor, key string, current, raw any) (any, apperrors.Error) {
	rslv := g.owner.Resolver()
	if !desc.Array {
		resolved, ok := rslv.Resolve(ctx, desc.Type, raw)
		if !ok {
			return nil, ErrBadValue.Msg(fmt.Sprintf("cannot resolve %v as %s for key %s", raw, desc.Type, key))
		}
		if err := checkScalarBounds(desc, key, resolved); err != nil {
			return nil, err
		}
		return resolved, nil
	}

	if items, ok := asSlice(raw); ok {
		resolved := make([]any, 0, len(items))
		for _, item := range items {
			r, ok := rslv.Resolve(ctx, desc.Type, item)
			if !ok {
				return nil, ErrBadValue.Msg(fmt.Sprintf("cannot resolve %v as %s for key %s", item, desc.Type, key))
			}
			resolved = append(resolved, r)
		}
		if err := checkLengthBounds(desc, key, len(resolved)); err != nil {
			return nil, err
		}
		return resolved, nil
	}

	// scalar against an array setting toggles membership
	r, ok := rslv.Resolve(ctx, desc.Type, raw)
	if !ok {
		return nil, ErrBadValue.Msg(fmt.Sprintf("cannot resolve %v as %s for key %s", raw, desc.Type, key))
	}
	existing, _ := asSlice(current)
	next := make([]any, 0, len(existing)+1)
	removed := false
	for _, item := range existing {
		if reflect.DeepEqual(item, r) {
			removed = true
			continue
		}
		next = append(next, item)
	}
	if !removed {
		next = append(next, r)
	}
	if err := checkLengthBounds(desc, key, len(next)); err != nil {
		return nil, err
	}
	return next, nil
}

func asSlice(v any) ([]any, bool) {
	switch items := v.(type) {
	case nil:
		return nil, false
	case []any:
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func checkScalarBounds(desc schema.Descriptor, key string, value any) apperrors.Error {
	if desc.Min == nil && desc.Max == nil {
		return nil
	}
	var magnitude float64
	switch v := value.(type) {
	case int64:
		magnitude = float64(v)
	case float64:
		magnitude = v
	case string:
		magnitude = float64(len(v))
	default:
		return nil
	}
	if desc.Min != nil && magnitude < *desc.Min {
		return ErrOutOfBounds.Msg(fmt.Sprintf("value for %s is below the declared minimum %v", key, *desc.Min))
	}
	if desc.Max != nil && magnitude > *desc.Max {
		return ErrOutOfBounds.Msg(fmt.Sprintf("value for %s is above the declared maximum %v", key, *desc.Max))
	}
	return nil
}

func checkLengthBounds(desc schema.Descriptor, key string, length int) apperrors.Error {
	if desc.Min != nil && float64(length) < *desc.Min {
		return ErrOutOfBounds.Msg(fmt.Sprintf("%s holds fewer than %v items", key, *desc.Min))
	}
	if desc.Max != nil && float64(length) > *desc.Max {
		return ErrOutOfBounds.Msg(fmt.Sprintf("%s holds more than %v items", key, *desc.Max))
	}
	return nil
}

func (g *documentGateway) ResetKey(ctx context.Context, id, key string) apperrors.Error {
	if !g.Ready() {
		return ErrNotReady
	}
	desc, ok := g.schema[key]
	if !ok {
		return ErrUnknownKey.Msg("key " + key + " not declared in domain " + g.name)
	}
	target, apperr := g.resolveTarget(ctx, id)
	if apperr != nil {
		return apperr
	}
	record, apperr := g.Get(ctx, id)
	if apperr != nil {
		return apperr
	}
	if desc.Default.IsNil() {
		if desc.Array {
			record[key] = []any{}
		} else {
			record[key] = nil
		}
	} else {
		record[key] = desc.Default.Value
	}
	doc, err := json.Marshal(record)
	if err != nil {
		return ErrGateway.Err(err)
	}
	if apperr := g.opts.Provider.Set(ctx, g.name, target, doc); apperr != nil {
		return apperr
	}
	if apperr := g.opts.Cache.Set(ctx, g.name, target, doc); apperr != nil {
		log.Ctx(ctx).Warn().Str("domain", g.name).Str("id", target).Msg("failed to refresh cache after reset")
	}
	return nil
}

func (g *documentGateway) PutRecord(ctx context.Context, id string, doc []byte) apperrors.Error {
	if !g.Ready() {
		return ErrNotReady
	}
	target, apperr := g.resolveTarget(ctx, id)
	if apperr != nil {
		return apperr
	}
	if ves := g.schema.ValidateRecord(doc); ves != nil {
		return ErrInvalidRecord.Msg(ves.Error())
	}
	if apperr := g.opts.Provider.Set(ctx, g.name, target, doc); apperr != nil {
		return apperr
	}
	if apperr := g.opts.Cache.Set(ctx, g.name, target, doc); apperr != nil {
		log.Ctx(ctx).Warn().Str("domain", g.name).Str("id", target).Msg("failed to refresh cache after put")
	}
	return nil
}

func (g *documentGateway) Delete(ctx context.Context, id string) apperrors.Error {
	if !g.Ready() {
		return ErrNotReady
	}
	target, apperr := g.resolveTarget(ctx, id)
	if apperr != nil {
		return apperr
	}
	if apperr := g.opts.Provider.Delete(ctx, g.name, target); apperr != nil {
		return apperr
	}
	// cache miss on delete is not a failure
	_ = g.opts.Cache.Delete(ctx, g.name, target)
	return nil
}

func (g *documentGateway) Sync(ctx context.Context) apperrors.Error {
	entries, apperr := g.opts.Provider.GetAll(ctx, g.name)
	if apperr != nil {
		return apperr
	}
	for id, doc := range entries {
		if ves := g.schema.ValidateRecord(doc); ves != nil {
			log.Ctx(ctx).Warn().Str("domain", g.name).Str("id", id).Str("error", ves.Error()).Msg("skipping record that does not match the schema")
			continue
		}
		if err := g.opts.Cache.Set(ctx, g.name, id, doc); err != nil {
			return err
		}
	}
	return nil
}
