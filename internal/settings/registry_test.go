package settings

import (
	"context"
	"sync"
	"testing"

	"github.com/mugiliam/common/apperrors"
	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/gateway"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/provider"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/resolver"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/schema"
	"github.com/mugiliam/hatchsettingsrv/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failInitProvider is a persistent provider whose initialization always
// fails, used to exercise the not-ready registration path.
type failInitProvider struct{}

func (failInitProvider) Name() string                   { return "failinit" }
func (failInitProvider) SupportsRelationalSchema() bool { return false }
func (failInitProvider) CacheOnly() bool                { return false }
func (failInitProvider) Init(ctx context.Context) apperrors.Error {
	return provider.ErrStorage.Msg("connection refused")
}
func (failInitProvider) HasTable(ctx context.Context, table string) (bool, apperrors.Error) {
	return false, nil
}
func (failInitProvider) EnsureTable(ctx context.Context, table string, columns []provider.ColumnDef) apperrors.Error {
	return nil
}
func (failInitProvider) DropTable(ctx context.Context, table string) apperrors.Error { return nil }
func (failInitProvider) Has(ctx context.Context, table, id string) (bool, apperrors.Error) {
	return false, nil
}
func (failInitProvider) Get(ctx context.Context, table, id string) ([]byte, apperrors.Error) {
	return nil, provider.ErrEntryNotFound
}
func (failInitProvider) GetAll(ctx context.Context, table string) (map[string][]byte, apperrors.Error) {
	return nil, nil
}
func (failInitProvider) Set(ctx context.Context, table, id string, doc []byte) apperrors.Error {
	return nil
}
func (failInitProvider) Delete(ctx context.Context, table, id string) apperrors.Error { return nil }

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.JsonFile.Dir = t.TempDir()
	config.TestInit(cfg)
	rslv := resolver.New(resolver.Options{
		Languages: []string{cfg.Language},
	})
	return New(rslv, cfg)
}

func passValidate(ctx context.Context, rslv *resolver.Resolver, raw any) (any, apperrors.Error) {
	return raw, nil
}

func quoteSchema() schema.Schema {
	min := float64(1)
	max := float64(500)
	return schema.Schema{
		"maxLength": {
			Type:    string(types.SettingTypeInteger),
			Default: types.AnyOf(140),
			Min:     &min,
			Max:     &max,
		},
		"tags": {
			Type:  string(types.SettingTypeString),
			Array: true,
		},
		"enabled": {
			Type:    string(types.SettingTypeBoolean),
			Default: types.AnyOf(true),
		},
	}
}

func TestRegistry_Add(t *testing.T) {
	tests := []struct {
		name     string
		domain   string
		validate ValidateFunc
		schema   schema.Schema
		opts     AddOptions
		expected apperrors.Error
	}{
		{
			name:     "valid domain",
			domain:   "quotes",
			validate: passValidate,
			schema:   quoteSchema(),
			expected: nil,
		},
		{
			name:     "empty domain name",
			domain:   "",
			validate: passValidate,
			schema:   quoteSchema(),
			expected: ErrInvalidArgument,
		},
		{
			name:     "domain name with spaces",
			domain:   "my quotes",
			validate: passValidate,
			schema:   quoteSchema(),
			expected: ErrInvalidArgument,
		},
		{
			name:     "missing validate function",
			domain:   "quotes",
			validate: nil,
			schema:   quoteSchema(),
			expected: ErrInvalidArgument,
		},
		{
			name:     "unsupported setting type",
			domain:   "quotes",
			validate: passValidate,
			schema: schema.Schema{
				"author": {Type: "Author"},
			},
			expected: ErrInvalidSchema,
		},
		{
			name:     "unknown provider",
			domain:   "quotes",
			validate: passValidate,
			schema:   quoteSchema(),
			opts:     AddOptions{Provider: "etcd"},
			expected: ErrUnknownProvider,
		},
		{
			name:     "cache engine in the provider role",
			domain:   "quotes",
			validate: passValidate,
			schema:   quoteSchema(),
			opts:     AddOptions{Provider: "memcache"},
			expected: ErrProviderRoleMismatch,
		},
		{
			name:     "persistent engine in the cache role",
			domain:   "quotes",
			validate: passValidate,
			schema:   quoteSchema(),
			opts:     AddOptions{Cache: "jsonfile"},
			expected: ErrProviderRoleMismatch,
		},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newTestRegistry(t)
			gw, err := reg.Add(ctx, tt.domain, tt.validate, tt.schema, tt.opts)
			if tt.expected == nil {
				require.NoError(t, err)
				require.NotNil(t, gw)
				assert.True(t, gw.Ready())
				assert.True(t, reg.Has(tt.domain))
				return
			}
			assert.ErrorIs(t, err, tt.expected)
			assert.Nil(t, gw)
			assert.False(t, reg.Has(tt.domain))
		})
	}
}

func TestRegistry_AddWithNullDefault(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	min := float64(2)
	max := float64(140)
	s := schema.Schema{
		"quote": {
			Type:    string(types.SettingTypeString),
			Default: types.Nil(),
			Min:     &min,
			Max:     &max,
		},
	}
	gw, err := reg.Add(ctx, "guilds", passValidate, s, AddOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"quote"}, gw.Schema().Keys())
	assert.Equal(t, "jsonfile", gw.Provider().Name())

	record, err := gw.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Nil(t, record["quote"])

	// bounds apply to string length
	_, err = gw.UpdateKey(ctx, "g1", "quote", "x")
	assert.Error(t, err)
	stored, err := gw.UpdateKey(ctx, "g1", "quote", "carpe diem")
	require.NoError(t, err)
	assert.Equal(t, "carpe diem", stored)
}

func TestRegistry_AddEmptySchema(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	gw, err := reg.Add(ctx, "bare", passValidate, schema.Schema{}, AddOptions{})
	require.NoError(t, err)
	assert.True(t, gw.Ready())
	assert.Empty(t, gw.Schema())
}

func TestRegistry_DuplicateDomain(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	first, err := reg.Add(ctx, "quotes", passValidate, quoteSchema(), AddOptions{})
	require.NoError(t, err)

	_, err = reg.Add(ctx, "quotes", passValidate, quoteSchema(), AddOptions{})
	assert.ErrorIs(t, err, ErrDuplicateDomain)

	// the original mapping is untouched
	gw, ok := reg.Get("quotes")
	require.True(t, ok)
	assert.Same(t, first, gw)
}

func TestRegistry_FailedAddLeavesNoMapping(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	_, err := reg.Add(ctx, "events", passValidate, quoteSchema(), AddOptions{Provider: "memcache"})
	assert.ErrorIs(t, err, ErrProviderRoleMismatch)
	assert.False(t, reg.Has("events"))

	// a later registration under the same name is unaffected
	gw, err := reg.Add(ctx, "events", passValidate, quoteSchema(), AddOptions{})
	require.NoError(t, err)
	assert.True(t, gw.Ready())
}

func TestRegistry_FailedInitStaysRegistered(t *testing.T) {
	provider.Register("failinit", func(cfg *config.SettingsConfig) provider.Provider {
		return failInitProvider{}
	})
	ctx := context.Background()
	reg := newTestRegistry(t)

	_, err := reg.Add(ctx, "events", passValidate, quoteSchema(), AddOptions{Provider: "failinit"})
	assert.ErrorIs(t, err, provider.ErrStorage)

	// the mapping entry stays, in a not-ready state
	gw, ok := reg.Get("events")
	require.True(t, ok)
	assert.False(t, gw.Ready())
	_, err = gw.Get(ctx, "e1")
	assert.ErrorIs(t, err, gateway.ErrNotReady)

	// the name is burned; re-registration cannot succeed
	_, err = reg.Add(ctx, "events", passValidate, quoteSchema(), AddOptions{})
	assert.ErrorIs(t, err, ErrDuplicateDomain)
}

func TestRegistry_ConcurrentAddSameName(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]apperrors.Error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = reg.Add(ctx, "quotes", passValidate, quoteSchema(), AddOptions{})
		}(i)
	}
	wg.Wait()

	// exactly one registration wins; the rest observe the entry
	var won int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateDomain)
	}
	assert.Equal(t, 1, won)
	assert.True(t, reg.Has("quotes"))
}

func TestRegistry_DefaultDataSchema(t *testing.T) {
	reg := newTestRegistry(t)

	s := reg.DefaultDataSchema()
	require.Len(t, s, 3)

	prefix, ok := s["prefix"]
	require.True(t, ok)
	assert.Equal(t, string(types.SettingTypeString), prefix.Type)
	assert.False(t, prefix.Array)
	assert.Equal(t, "!", prefix.Default.Value)
	assert.Equal(t, "TEXT DEFAULT '!'", prefix.SQL)

	language, ok := s["language"]
	require.True(t, ok)
	assert.Equal(t, string(types.SettingTypeString), language.Type)
	assert.False(t, language.Array)
	assert.Equal(t, "en-US", language.Default.Value)

	disabled, ok := s["disabledCommands"]
	require.True(t, ok)
	assert.Equal(t, string(types.SettingTypeCommand), disabled.Type)
	assert.True(t, disabled.Array)
	assert.Equal(t, []any{}, disabled.Default.Value)

	require.Nil(t, s.Validate())
}

func TestRegistry_DefaultDataSchemaTracksConfig(t *testing.T) {
	reg := newTestRegistry(t)
	reg.cfg.Prefix = []any{"!", "?"}

	s := reg.DefaultDataSchema()
	prefix := s["prefix"]
	assert.True(t, prefix.Array)
	assert.Equal(t, []any{"!", "?"}, prefix.Default.Value)
	assert.Equal(t, "TEXT DEFAULT '!,?'", prefix.SQL)
}

func TestRegistry_RegisterDefaults(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	gw, err := reg.RegisterDefaults(ctx)
	require.NoError(t, err)
	require.True(t, gw.Ready())
	assert.True(t, reg.Has(TenantDomain))

	record, err := gw.Get(ctx, "TABCDE")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"prefix":           "!",
		"language":         "en-US",
		"disabledCommands": []any{},
	}, record)
}

func TestRegistry_EndToEnd(t *testing.T) {
	ctx := context.Background()
	reg := newTestRegistry(t)

	gw, err := reg.Add(ctx, "quotes", passValidate, quoteSchema(), AddOptions{})
	require.NoError(t, err)

	stored, err := gw.UpdateKey(ctx, "q1", "maxLength", 200)
	require.NoError(t, err)
	assert.EqualValues(t, 200, stored)

	record, err := gw.Get(ctx, "q1")
	require.NoError(t, err)
	assert.EqualValues(t, 200, record["maxLength"])
	assert.Equal(t, true, record["enabled"])

	// scalar against an array setting toggles membership
	stored, err = gw.UpdateKey(ctx, "q1", "tags", "golang")
	require.NoError(t, err)
	assert.Equal(t, []any{"golang"}, stored)

	stored, err = gw.UpdateKey(ctx, "q1", "tags", "golang")
	require.NoError(t, err)
	assert.Equal(t, []any{}, stored)

	require.NoError(t, gw.ResetKey(ctx, "q1", "maxLength"))
	record, err = gw.Get(ctx, "q1")
	require.NoError(t, err)
	assert.EqualValues(t, 140, record["maxLength"])

	require.NoError(t, gw.Delete(ctx, "q1"))
	record, err = gw.Get(ctx, "q1")
	require.NoError(t, err)
	assert.EqualValues(t, 140, record["maxLength"])
}

func TestValidateTenant(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()

	resolved, err := ValidateTenant(ctx, reg.Resolver(), "TABCDE")
	require.NoError(t, err)
	ref, ok := resolved.(*resolver.TenantRef)
	require.True(t, ok)
	assert.Equal(t, types.TenantId("TABCDE"), ref.Id)

	_, err = ValidateTenant(ctx, reg.Resolver(), 42)
	assert.ErrorIs(t, err, ErrValidation)
}
