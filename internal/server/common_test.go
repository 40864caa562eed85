package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mugiliam/hatchsettingsrv/internal/config"
	"github.com/mugiliam/hatchsettingsrv/internal/settings"
	"github.com/mugiliam/hatchsettingsrv/internal/settings/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *HatchSettingsServer {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.JsonFile.Dir = t.TempDir()
	config.TestInit(cfg)

	rslv := resolver.New(resolver.Options{
		Languages: []string{cfg.Language},
	})
	reg := settings.New(rslv, cfg)
	_, err := reg.RegisterDefaults(context.Background())
	require.NoError(t, err)

	s, err := CreateNewServer(reg)
	require.NoError(t, err, "create new server")

	// Mount Handlers
	s.MountHandlers()
	return s
}

func executeTestRequest(t *testing.T, s *HatchSettingsServer, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func checkHeader(t *testing.T, h http.Header) {
	expected := "application/json"
	got := h.Get("Content-Type")
	assert.Equal(t, expected, got, "Content-Type expected %s, got %s", expected, got)
	assert.NotNil(t, h.Get("X-Request-ID"), "No Request Id")
}

func compareJson(t *testing.T, expected any, actual string) {
	j, err := json.Marshal(expected)
	assert.NoError(t, err, "json marshal")
	assert.JSONEq(t, string(j), actual, "Expected: %v\n Got: %v\n", expected, actual)
}

func setRequestBodyAndHeader(t *testing.T, req *http.Request, data interface{}) {
	// Marshal the data into JSON
	jsonData, err := json.Marshal(data)
	assert.NoError(t, err, "Failed to marshal data into JSON")

	// Set the request body to the JSON
	req.Body = io.NopCloser(bytes.NewReader(jsonData))
	req.ContentLength = int64(len(jsonData))

	// Set the Content-Type header to application/json
	req.Header.Set("Content-Type", "application/json")
}
