// Package jsonfile implements the document-style persistence provider.
// Each table is a single JSON document on disk mapping entry ids to
// records; keyed access goes through gjson/sjson so a write only touches
// the entry being changed.
package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const ProviderName = "jsonfile"

type jsonFileProvider struct {
	dir      string
	compress bool

	mu   sync.Mutex
	once sync.Once
}

func New(cfg *config.SettingsConfig) provider.Provider {
	return &jsonFileProvider{
		dir:      cfg.JsonFile.Dir,
		compress: cfg.JsonFile.Compress,
	}
}

func (p *jsonFileProvider) Name() string                   { return ProviderName }
func (p *jsonFileProvider) SupportsRelationalSchema() bool { return false }
func (p *jsonFileProvider) CacheOnly() bool                { return false }

func (p *jsonFileProvider) Init(ctx context.Context) apperrors.Error {
	var apperr apperrors.Error
	p.once.Do(func() {
		if err := os.MkdirAll(p.dir, 0o755); err != nil {
			log.Ctx(ctx).Error().Err(err).Str("dir", p.dir).Msg("failed to create data directory")
			apperr = provider.ErrStorage.Err(err)
		}
	})
	return apperr
}

func (p *jsonFileProvider) tablePath(table string) string {
	name := table + ".json"
	if p.compress {
		name += ".sz"
	}
	return filepath.Join(p.dir, name)
}

func (p *jsonFileProvider) readTable(ctx context.Context, table string) ([]byte, apperrors.Error) {
	data, err := os.ReadFile(p.tablePath(table))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, provider.ErrTableNotFound.Msg("table " + table + " not found")
		}
		log.Ctx(ctx).Error().Err(err).Str("table", table).Msg("failed to read table file")
		return nil, provider.ErrStorage.Err(err)
	}
	if p.compress {
		data, err = snappy.Decode(nil, data)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("table", table).Msg("failed to decompress table file")
			return nil, provider.ErrStorage.Err(err)
		}
	}
	return data, nil
}

// writeTable writes the whole table document through a uniquely named
// temp file and renames it into place, so a crash never leaves a torn file.
func (p *jsonFileProvider) writeTable(ctx context.Context, table string, data []byte) apperrors.Error {
	if p.compress {
		data = snappy.Encode(nil, data)
	}
	target := p.tablePath(table)
	tmp := target + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("table", table).Msg("failed to write table file")
		return provider.ErrStorage.Err(err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		log.Ctx(ctx).Error().Err(err).Str("table", table).Msg("failed to replace table file")
		return provider.ErrStorage.Err(err)
	}
	return nil
}

// entryPath escapes an entry id for use as a gjson/sjson path component.
func entryPath(id string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`)
	return r.Replace(id)
}

func (p *jsonFileProvider) HasTable(ctx context.Context, table string) (bool, apperrors.Error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := os.Stat(p.tablePath(table))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, provider.ErrStorage.Err(err)
	}
	return true, nil
}

func (p *jsonFileProvider) EnsureTable(ctx context.Context, table string, _ []provider.ColumnDef) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := os.Stat(p.tablePath(table)); err == nil {
		return nil
	}
	return p.writeTable(ctx, table, []byte("{}"))
}

func (p *jsonFileProvider) DropTable(ctx context.Context, table string) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := os.Remove(p.tablePath(table)); err != nil {
		if os.IsNotExist(err) {
			return provider.ErrTableNotFound.Msg("table " + table + " not found")
		}
		return provider.ErrStorage.Err(err)
	}
	return nil
}

func (p *jsonFileProvider) Has(ctx context.Context, table, id string) (bool, apperrors.Error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, apperr := p.readTable(ctx, table)
	if apperr != nil {
		return false, apperr
	}
	return gjson.GetBytes(data, entryPath(id)).Exists(), nil
}

func (p *jsonFileProvider) Get(ctx context.Context, table, id string) ([]byte, apperrors.Error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, apperr := p.readTable(ctx, table)
	if apperr != nil {
		return nil, apperr
	}
	result := gjson.GetBytes(data, entryPath(id))
	if !result.Exists() {
		return nil, provider.ErrEntryNotFound.Msg("entry " + id + " not found")
	}
	return []byte(result.Raw), nil
}

func (p *jsonFileProvider) GetAll(ctx context.Context, table string) (map[string][]byte, apperrors.Error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, apperr := p.readTable(ctx, table)
	if apperr != nil {
		return nil, apperr
	}
	entries := make(map[string][]byte)
	gjson.ParseBytes(data).ForEach(func(key, value gjson.Result) bool {
		entries[key.String()] = []byte(value.Raw)
		return true
	})
	return entries, nil
}

func (p *jsonFileProvider) Set(ctx context.Context, table, id string, doc []byte) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, apperr := p.readTable(ctx, table)
	if apperr != nil {
		return apperr
	}
	updated, err := sjson.SetRawBytes(data, entryPath(id), doc)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("table", table).Str("id", id).Msg("failed to set entry")
		return provider.ErrStorage.Err(err)
	}
	return p.writeTable(ctx, table, updated)
}

func (p *jsonFileProvider) Delete(ctx context.Context, table, id string) apperrors.Error {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, apperr := p.readTable(ctx, table)
	if apperr != nil {
		return apperr
	}
	if !gjson.GetBytes(data, entryPath(id)).Exists() {
		return provider.ErrEntryNotFound.Msg("entry " + id + " not found")
	}
	updated, err := sjson.DeleteBytes(data, entryPath(id))
	if err != nil {
		return provider.ErrStorage.Err(err)
	}
	return p.writeTable(ctx, table, updated)
}

func init() {
	provider.Register(ProviderName, New)
}
