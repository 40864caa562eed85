package jsonfile

import (
	"context"
	"testing"

	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, compress bool) provider.Provider {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.JsonFile.Dir = t.TempDir()
	cfg.JsonFile.Compress = compress
	p := New(cfg)
	require.NoError(t, p.Init(context.Background()))
	return p
}

func TestJsonFileProvider(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "compressed"
		}
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := newTestProvider(t, compress)

			ok, err := p.HasTable(ctx, "quotes")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, p.EnsureTable(ctx, "quotes", nil))
			ok, err = p.HasTable(ctx, "quotes")
			require.NoError(t, err)
			assert.True(t, ok)

			// a fresh table is empty
			entries, err := p.GetAll(ctx, "quotes")
			require.NoError(t, err)
			assert.Empty(t, entries)

			doc := []byte(`{"maxLength":200,"tags":["golang"]}`)
			require.NoError(t, p.Set(ctx, "quotes", "q1", doc))

			got, err := p.Get(ctx, "quotes", "q1")
			require.NoError(t, err)
			assert.JSONEq(t, string(doc), string(got))

			ok, err = p.Has(ctx, "quotes", "q1")
			require.NoError(t, err)
			assert.True(t, ok)

			entries, err = p.GetAll(ctx, "quotes")
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.JSONEq(t, string(doc), string(entries["q1"]))

			require.NoError(t, p.Delete(ctx, "quotes", "q1"))
			_, err = p.Get(ctx, "quotes", "q1")
			assert.ErrorIs(t, err, provider.ErrEntryNotFound)
			err = p.Delete(ctx, "quotes", "q1")
			assert.ErrorIs(t, err, provider.ErrEntryNotFound)

			require.NoError(t, p.DropTable(ctx, "quotes"))
			_, err = p.GetAll(ctx, "quotes")
			assert.ErrorIs(t, err, provider.ErrTableNotFound)
		})
	}
}

func TestJsonFileProvider_DottedIds(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, false)
	require.NoError(t, p.EnsureTable(ctx, "quotes", nil))

	// ids holding gjson path characters must round-trip untouched
	doc := []byte(`{"maxLength":1}`)
	require.NoError(t, p.Set(ctx, "quotes", "q.1*2", doc))

	got, err := p.Get(ctx, "quotes", "q.1*2")
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(got))

	entries, err := p.GetAll(ctx, "quotes")
	require.NoError(t, err)
	assert.Contains(t, entries, "q.1*2")
}

func TestJsonFileProvider_MissingTable(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t, false)

	_, err := p.Get(ctx, "nope", "q1")
	assert.ErrorIs(t, err, provider.ErrTableNotFound)
	err = p.Set(ctx, "nope", "q1", []byte(`{}`))
	assert.ErrorIs(t, err, provider.ErrTableNotFound)
	err = p.DropTable(ctx, "nope")
	assert.ErrorIs(t, err, provider.ErrTableNotFound)
}
