package memcache

import (
	"context"
	"testing"
	"time"

	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemCacheProvider(t *testing.T) {
	ctx := context.Background()
	p := New(config.DefaultConfig())
	require.NoError(t, p.Init(ctx))

	assert.True(t, p.CacheOnly())
	assert.False(t, p.SupportsRelationalSchema())

	require.NoError(t, p.EnsureTable(ctx, "quotes", nil))
	ok, err := p.HasTable(ctx, "quotes")
	require.NoError(t, err)
	assert.True(t, ok)

	doc := []byte(`{"maxLength":200}`)
	require.NoError(t, p.Set(ctx, "quotes", "q1", doc))

	got, err := p.Get(ctx, "quotes", "q1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	entries, err := p.GetAll(ctx, "quotes")
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, p.Delete(ctx, "quotes", "q1"))
	_, err = p.Get(ctx, "quotes", "q1")
	assert.ErrorIs(t, err, provider.ErrEntryNotFound)

	require.NoError(t, p.DropTable(ctx, "quotes"))
	_, err = p.GetAll(ctx, "quotes")
	assert.ErrorIs(t, err, provider.ErrTableNotFound)
}

func TestMemCacheProvider_TTL(t *testing.T) {
	ctx := context.Background()
	cfg := config.DefaultConfig()
	cfg.CacheTTLSeconds = 1
	p := New(cfg)
	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.EnsureTable(ctx, "quotes", nil))

	require.NoError(t, p.Set(ctx, "quotes", "q1", []byte(`{}`)))
	ok, err := p.Has(ctx, "quotes", "q1")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(1100 * time.Millisecond)

	ok, err = p.Has(ctx, "quotes", "q1")
	require.NoError(t, err)
	assert.False(t, ok)

	entries, err := p.GetAll(ctx, "quotes")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
