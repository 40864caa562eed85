// Package rediscache implements a cache provider over redis. Entries are
// stored under settings:<table>:<id>; a redis set per table tracks which
// ids belong to it so GetAll never scans the keyspace.
package rediscache

import (
	"context"
	"sync"
	"time"

	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const ProviderName = "rediscache"

type redisCacheProvider struct {
	addr string
	db   int
	ttl  time.Duration

	mu     sync.Mutex
	client *redis.Client
}

func New(cfg *config.SettingsConfig) provider.Provider {
	return &redisCacheProvider{
		addr: cfg.Redis.Addr,
		db:   cfg.Redis.DB,
		ttl:  time.Duration(cfg.CacheTTLSeconds) * time.Second,
	}
}

func (p *redisCacheProvider) Name() string                   { return ProviderName }
func (p *redisCacheProvider) SupportsRelationalSchema() bool { return false }
func (p *redisCacheProvider) CacheOnly() bool                { return true }

func (p *redisCacheProvider) Init(ctx context.Context) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr: p.addr,
		DB:   p.db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("addr", p.addr).Msg("failed to connect to redis")
		return provider.ErrStorage.Err(err)
	}
	p.client = client
	return nil
}

func (p *redisCacheProvider) conn() (*redis.Client, apperrors.Error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client == nil {
		return nil, provider.ErrNotInitialized
	}
	return p.client, nil
}

func entryKey(table, id string) string {
	return "settings:" + table + ":" + id
}

func tableKey(table string) string {
	return "settings:" + table
}

func (p *redisCacheProvider) HasTable(ctx context.Context, table string) (bool, apperrors.Error) {
	client, apperr := p.conn()
	if apperr != nil {
		return false, apperr
	}
	n, err := client.Exists(ctx, tableKey(table)).Result()
	if err != nil {
		return false, provider.ErrStorage.Err(err)
	}
	return n > 0, nil
}

func (p *redisCacheProvider) EnsureTable(ctx context.Context, table string, _ []provider.ColumnDef) apperrors.Error {
	// table sets materialize on first Set; nothing to create up front
	_, apperr := p.conn()
	return apperr
}

func (p *redisCacheProvider) DropTable(ctx context.Context, table string) apperrors.Error {
	client, apperr := p.conn()
	if apperr != nil {
		return apperr
	}
	ids, err := client.SMembers(ctx, tableKey(table)).Result()
	if err != nil {
		return provider.ErrStorage.Err(err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, entryKey(table, id))
	}
	keys = append(keys, tableKey(table))
	if err := client.Del(ctx, keys...).Err(); err != nil {
		return provider.ErrStorage.Err(err)
	}
	return nil
}

func (p *redisCacheProvider) Has(ctx context.Context, table, id string) (bool, apperrors.Error) {
	client, apperr := p.conn()
	if apperr != nil {
		return false, apperr
	}
	n, err := client.Exists(ctx, entryKey(table, id)).Result()
	if err != nil {
		return false, provider.ErrStorage.Err(err)
	}
	return n > 0, nil
}

func (p *redisCacheProvider) Get(ctx context.Context, table, id string) ([]byte, apperrors.Error) {
	client, apperr := p.conn()
	if apperr != nil {
		return nil, apperr
	}
	doc, err := client.Get(ctx, entryKey(table, id)).Bytes()
	if err == redis.Nil {
		return nil, provider.ErrEntryNotFound.Msg("entry " + id + " not found")
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("table", table).Str("id", id).Msg("failed to get entry")
		return nil, provider.ErrStorage.Err(err)
	}
	return doc, nil
}

func (p *redisCacheProvider) GetAll(ctx context.Context, table string) (map[string][]byte, apperrors.Error) {
	client, apperr := p.conn()
	if apperr != nil {
		return nil, apperr
	}
	ids, err := client.SMembers(ctx, tableKey(table)).Result()
	if err != nil {
		return nil, provider.ErrStorage.Err(err)
	}
	entries := make(map[string][]byte, len(ids))
	for _, id := range ids {
		doc, err := client.Get(ctx, entryKey(table, id)).Bytes()
		if err == redis.Nil {
			// entry expired; drop it from the table set
			_ = client.SRem(ctx, tableKey(table), id).Err()
			continue
		}
		if err != nil {
			return nil, provider.ErrStorage.Err(err)
		}
		entries[id] = doc
	}
	return entries, nil
}

func (p *redisCacheProvider) Set(ctx context.Context, table, id string, doc []byte) apperrors.Error {
	client, apperr := p.conn()
	if apperr != nil {
		return apperr
	}
	if err := client.Set(ctx, entryKey(table, id), doc, p.ttl).Err(); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("table", table).Str("id", id).Msg("failed to set entry")
		return provider.ErrStorage.Err(err)
	}
	if err := client.SAdd(ctx, tableKey(table), id).Err(); err != nil {
		return provider.ErrStorage.Err(err)
	}
	return nil
}

func (p *redisCacheProvider) Delete(ctx context.Context, table, id string) apperrors.Error {
	client, apperr := p.conn()
	if apperr != nil {
		return apperr
	}
	n, err := client.Del(ctx, entryKey(table, id)).Result()
	if err != nil {
		return provider.ErrStorage.Err(err)
	}
	if err := client.SRem(ctx, tableKey(table), id).Err(); err != nil {
		return provider.ErrStorage.Err(err)
	}
	if n == 0 {
		return provider.ErrEntryNotFound.Msg("entry " + id + " not found")
	}
	return nil
}

func init() {
	provider.Register(ProviderName, New)
}
