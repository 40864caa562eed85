// Package memcache implements the default cache provider: an in-process
// table of entries with optional expiry. It is cache-only and must never
// serve the persistent role.
package memcache

import (
	"context"
	"sync"
	"time"

	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
)

const ProviderName = "memcache"

type cacheItem struct {
	doc       []byte
	expiresAt time.Time // zero means no expiration
}

type memCacheProvider struct {
	ttl time.Duration

	mu     sync.RWMutex
	tables map[string]map[string]cacheItem
}

func New(cfg *config.SettingsConfig) provider.Provider {
	return &memCacheProvider{
		ttl:    time.Duration(cfg.CacheTTLSeconds) * time.Second,
		tables: make(map[string]map[string]cacheItem),
	}
}

func (p *memCacheProvider) Name() string                   { return ProviderName }
func (p *memCacheProvider) SupportsRelationalSchema() bool { return false }
func (p *memCacheProvider) CacheOnly() bool                { return true }

func (p *memCacheProvider) Init(ctx context.Context) apperrors.Error {
	return nil
}

func (p *memCacheProvider) HasTable(ctx context.Context, table string) (bool, apperrors.Error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.tables[table]
	return ok, nil
}

func (p *memCacheProvider) EnsureTable(ctx context.Context, table string, _ []provider.ColumnDef) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.tables[table]; !ok {
		p.tables[table] = make(map[string]cacheItem)
	}
	return nil
}

func (p *memCacheProvider) DropTable(ctx context.Context, table string) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.tables[table]; !ok {
		return provider.ErrTableNotFound.Msg("table " + table + " not found")
	}
	delete(p.tables, table)
	return nil
}

func (p *memCacheProvider) item(table, id string) ([]byte, bool) {
	p.mu.RLock()
	entries, ok := p.tables[table]
	if !ok {
		p.mu.RUnlock()
		return nil, false
	}
	item, ok := entries[id]
	p.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		p.mu.Lock()
		delete(p.tables[table], id)
		p.mu.Unlock()
		return nil, false
	}
	return item.doc, true
}

func (p *memCacheProvider) Has(ctx context.Context, table, id string) (bool, apperrors.Error) {
	_, ok := p.item(table, id)
	return ok, nil
}

func (p *memCacheProvider) Get(ctx context.Context, table, id string) ([]byte, apperrors.Error) {
	doc, ok := p.item(table, id)
	if !ok {
		return nil, provider.ErrEntryNotFound.Msg("entry " + id + " not found")
	}
	return doc, nil
}

func (p *memCacheProvider) GetAll(ctx context.Context, table string) (map[string][]byte, apperrors.Error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	entries, ok := p.tables[table]
	if !ok {
		return nil, provider.ErrTableNotFound.Msg("table " + table + " not found")
	}
	now := time.Now()
	out := make(map[string][]byte, len(entries))
	for id, item := range entries {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			continue
		}
		out[id] = item.doc
	}
	return out, nil
}

func (p *memCacheProvider) Set(ctx context.Context, table, id string, doc []byte) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries, ok := p.tables[table]
	if !ok {
		entries = make(map[string]cacheItem)
		p.tables[table] = entries
	}
	item := cacheItem{doc: doc}
	if p.ttl > 0 {
		item.expiresAt = time.Now().Add(p.ttl)
	}
	entries[id] = item
	return nil
}

func (p *memCacheProvider) Delete(ctx context.Context, table, id string) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries, ok := p.tables[table]
	if !ok {
		return provider.ErrTableNotFound.Msg("table " + table + " not found")
	}
	if _, ok := entries[id]; !ok {
		return provider.ErrEntryNotFound.Msg("entry " + id + " not found")
	}
	delete(entries, id)
	return nil
}

func init() {
	provider.Register(ProviderName, New)
}
