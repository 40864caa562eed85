// Package postgres implements the relational persistence provider. Each
// domain maps to one table holding the entry id, the serialized record
// document, and any columns declared through the schema's sql hints.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/rs/zerolog/log"
)

const ProviderName = "postgres"

type postgresProvider struct {
	dsn string

	mu   sync.Mutex
	pool *pgxpool.Pool
}

func New(cfg *config.SettingsConfig) provider.Provider {
	return &postgresProvider{dsn: cfg.Postgres.DSN}
}

func (p *postgresProvider) Name() string                   { return ProviderName }
func (p *postgresProvider) SupportsRelationalSchema() bool { return true }
func (p *postgresProvider) CacheOnly() bool                { return false }

func (p *postgresProvider) Init(ctx context.Context) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool != nil {
		return nil
	}
	pool, err := pgxpool.Connect(ctx, p.dsn)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to connect to postgres")
		return provider.ErrStorage.Err(err)
	}
	p.pool = pool
	return nil
}

func (p *postgresProvider) conn() (*pgxpool.Pool, apperrors.Error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pool == nil {
		return nil, provider.ErrNotInitialized
	}
	return p.pool, nil
}

// tableIdent renders a safe table identifier for a domain name. Domain
// names are already restricted to [A-Za-z0-9_-]; hyphens become
// underscores so the identifier needs no quoting.
func tableIdent(table string) string {
	return "settings_" + strings.ToLower(strings.ReplaceAll(table, "-", "_"))
}

func (p *postgresProvider) HasTable(ctx context.Context, table string) (bool, apperrors.Error) {
	pool, apperr := p.conn()
	if apperr != nil {
		return false, apperr
	}
	var regclass *string
	err := pool.QueryRow(ctx, "SELECT to_regclass($1)::text", tableIdent(table)).Scan(&regclass)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("table", table).Msg("failed to check table")
		return false, provider.ErrStorage.Err(err)
	}
	return regclass != nil, nil
}

func (p *postgresProvider) EnsureTable(ctx context.Context, table string, columns []provider.ColumnDef) apperrors.Error {
	pool, apperr := p.conn()
	if apperr != nil {
		return apperr
	}
	defs := []string{
		"entry_id TEXT PRIMARY KEY",
		"doc JSONB NOT NULL DEFAULT '{}'::jsonb",
	}
	for _, col := range columns {
		defs = append(defs, fmt.Sprintf("%s %s", col.Name, col.Definition))
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s);", tableIdent(table), strings.Join(defs, ", "))
	if _, err := pool.Exec(ctx, query); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			log.Ctx(ctx).Error().Err(err).Str("code", pgErr.Code).Str("table", table).Msg("failed to create table")
		} else {
			log.Ctx(ctx).Error().Err(err).Str("table", table).Msg("failed to create table")
		}
		return provider.ErrStorage.Err(err)
	}
	return nil
}

func (p *postgresProvider) DropTable(ctx context.Context, table string) apperrors.Error {
	pool, apperr := p.conn()
	if apperr != nil {
		return apperr
	}
	query := fmt.Sprintf("DROP TABLE IF EXISTS %s;", tableIdent(table))
	if _, err := pool.Exec(ctx, query); err != nil {
		return provider.ErrStorage.Err(err)
	}
	return nil
}

func (p *postgresProvider) Has(ctx context.Context, table, id string) (bool, apperrors.Error) {
	pool, apperr := p.conn()
	if apperr != nil {
		return false, apperr
	}
	query := fmt.Sprintf("SELECT 1 FROM %s WHERE entry_id = $1;", tableIdent(table))
	var one int
	err := pool.QueryRow(ctx, query, id).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, provider.ErrStorage.Err(err)
	}
	return true, nil
}

func (p *postgresProvider) Get(ctx context.Context, table, id string) ([]byte, apperrors.Error) {
	pool, apperr := p.conn()
	if apperr != nil {
		return nil, apperr
	}
	query := fmt.Sprintf("SELECT doc::text FROM %s WHERE entry_id = $1;", tableIdent(table))
	var doc string
	err := pool.QueryRow(ctx, query, id).Scan(&doc)
	if err == pgx.ErrNoRows {
		return nil, provider.ErrEntryNotFound.Msg("entry " + id + " not found")
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("table", table).Str("id", id).Msg("failed to get entry")
		return nil, provider.ErrStorage.Err(err)
	}
	return []byte(doc), nil
}

func (p *postgresProvider) GetAll(ctx context.Context, table string) (map[string][]byte, apperrors.Error) {
	pool, apperr := p.conn()
	if apperr != nil {
		return nil, apperr
	}
	query := fmt.Sprintf("SELECT entry_id, doc::text FROM %s;", tableIdent(table))
	rows, err := pool.Query(ctx, query)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("table", table).Msg("failed to list entries")
		return nil, provider.ErrStorage.Err(err)
	}
	defer rows.Close()
	entries := make(map[string][]byte)
	for rows.Next() {
		var id, doc string
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, provider.ErrStorage.Err(err)
		}
		entries[id] = []byte(doc)
	}
	if err := rows.Err(); err != nil {
		return nil, provider.ErrStorage.Err(err)
	}
	return entries, nil
}

func (p *postgresProvider) Set(ctx context.Context, table, id string, doc []byte) apperrors.Error {
	pool, apperr := p.conn()
	if apperr != nil {
		return apperr
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (entry_id, doc)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (entry_id) DO UPDATE SET doc = EXCLUDED.doc;`, tableIdent(table))
	if _, err := pool.Exec(ctx, query, id, string(doc)); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("table", table).Str("id", id).Msg("failed to upsert entry")
		return provider.ErrStorage.Err(err)
	}
	return nil
}

func (p *postgresProvider) Delete(ctx context.Context, table, id string) apperrors.Error {
	pool, apperr := p.conn()
	if apperr != nil {
		return apperr
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE entry_id = $1;", tableIdent(table))
	tag, err := pool.Exec(ctx, query, id)
	if err != nil {
		return provider.ErrStorage.Err(err)
	}
	if tag.RowsAffected() == 0 {
		return provider.ErrEntryNotFound.Msg("entry " + id + " not found")
	}
	return nil
}

func init() {
	provider.Register(ProviderName, New)
}
