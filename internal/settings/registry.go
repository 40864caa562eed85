// Package settings owns the registry of settings domains: one-time
// registration of a named domain against a validation routine, a schema,
// and a capability-checked provider pair.
package settings

import (
	"context"
	"sync"

	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/gateway"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/resolver"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema/schemavalidator"
	"github.com/rs/zerolog/log"
)

// ValidateFunc is a domain's validation routine: it accepts the shared
// resolver and a raw entry reference and returns the resolved domain
// value. The registry binds the resolver at registration, so gateways
// invoke it with the raw value alone.
type ValidateFunc func(ctx context.Context, rslv *resolver.Resolver, raw any) (any, apperrors.Error)

// AddOptions selects the providers for a domain. Empty fields fall back
// to the host's configured default engines, read at the time of the call.
type AddOptions struct {
	Provider string
	Cache    string
}

// Registry maps domain names to their storage gateways. It is created
// once per host application and lives for its lifetime; domains are only
// ever added, never removed.
type Registry struct {
	cfg        *config.SettingsConfig
	resolver   *resolver.Resolver
	recognized map[string]bool

	mu        sync.Mutex
	domains   map[string]gateway.Gateway
	providers map[string]provider.Provider
}

func New(rslv *resolver.Resolver, cfg *config.SettingsConfig) *Registry {
	recognized := make(map[string]bool)
	for _, name := range rslv.Recognized() {
		recognized[name] = true
	}
	return &Registry{
		cfg:        cfg,
		resolver:   rslv,
		recognized: recognized,
		domains:    make(map[string]gateway.Gateway),
		providers:  make(map[string]provider.Provider),
	}
}

// Resolver returns the shared type resolver. Gateways hold the registry
// as their owner and reach the resolver through it.
func (r *Registry) Resolver() *resolver.Resolver {
	return r.resolver
}

// RecognizedTypes enumerates the type names derived from the resolver at
// construction.
func (r *Registry) RecognizedTypes() []string {
	names := make([]string, 0, len(r.recognized))
	for name := range r.recognized {
		names = append(names, name)
	}
	return names
}

// Add registers a new settings domain exactly once and returns its
// initialized gateway. The domain becomes visible to lookups as soon as
// its mapping entry is written, before initialization completes; Add
// itself returns only after initialization, and an initialization
// failure propagates unchanged while the entry stays registered in a
// not-ready state.
func (r *Registry) Add(ctx context.Context, name string, validate ValidateFunc, s schema.Schema, opts AddOptions) (gateway.Gateway, apperrors.Error) {
	if name == "" || !schemavalidator.ValidateDomainName(name) {
		return nil, ErrInvalidArgument.Msg("domain name must be a non-empty name of [A-Za-z0-9_-]")
	}
	if validate == nil {
		return nil, ErrInvalidArgument.Msg("validate function is required")
	}
	if r.Has(name) {
		return nil, ErrDuplicateDomain.Msg("domain " + name + " already registered")
	}
	if ves := s.Validate(); ves != nil {
		return nil, ErrInvalidSchema.Msg(ves.Error())
	}
	for key, desc := range s {
		if !r.recognized[desc.Type] {
			return nil, ErrInvalidSchema.Msg("type " + desc.Type + " for key " + key + " is not recognized by the resolver")
		}
	}

	// bind the validation routine to the shared resolver; gateways only
	// ever supply the raw value
	bound := func(ctx context.Context, raw any) (any, apperrors.Error) {
		return validate(ctx, r.resolver, raw)
	}

	engine := opts.Provider
	if engine == "" {
		engine = r.cfg.DefaultProvider
	}
	persistent, apperr := r.checkProvider(engine)
	if apperr != nil {
		return nil, apperr
	}
	if persistent.CacheOnly() {
		return nil, ErrProviderRoleMismatch.Msg("provider " + engine + " is designed for caching, not persistent data")
	}

	cacheEngine := opts.Cache
	if cacheEngine == "" {
		cacheEngine = r.cfg.DefaultCache
	}
	cache, apperr := r.checkProvider(cacheEngine)
	if apperr != nil {
		return nil, apperr
	}
	if !cache.CacheOnly() {
		return nil, ErrProviderRoleMismatch.Msg("provider " + cacheEngine + " is designed for persistent data, not cache")
	}

	gw := gateway.New(r, name, bound, s, gateway.Options{
		Provider: persistent,
		Cache:    cache,
	})

	// the entry is written before the only suspension point (Init), so a
	// concurrent Add for the same name deterministically observes it
	r.mu.Lock()
	if _, exists := r.domains[name]; exists {
		r.mu.Unlock()
		return nil, ErrDuplicateDomain.Msg("domain " + name + " already registered")
	}
	r.domains[name] = gw
	r.mu.Unlock()

	if apperr := gw.Init(ctx); apperr != nil {
		log.Ctx(ctx).Error().Str("domain", name).Str("provider", engine).Msg("gateway initialization failed")
		return nil, apperr
	}
	log.Ctx(ctx).Info().Str("domain", name).Str("provider", engine).Str("cache", cacheEngine).Msg("settings domain registered")
	return gw, nil
}

// checkProvider resolves an engine name against the provider registry.
// It is a pure lookup; judging whether the provider fits the requested
// role is the caller's responsibility.
func (r *Registry) checkProvider(engine string) (provider.Provider, apperrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.providers[engine]; ok {
		return p, nil
	}
	factory, ok := provider.Lookup(engine)
	if !ok {
		return nil, ErrUnknownProvider.Msg("provider " + engine + " is not registered")
	}
	p := factory(r.cfg)
	r.providers[engine] = p
	return p, nil
}

// Get resolves a domain by name.
func (r *Registry) Get(name string) (gateway.Gateway, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	gw, ok := r.domains[name]
	return gw, ok
}

func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names lists the registered domain names.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.domains))
	for name := range r.domains {
		names = append(names, name)
	}
	return names
}
