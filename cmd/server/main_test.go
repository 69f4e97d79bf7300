package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ugaemi/binsort-server/internal/asset"
	"github.com/ugaemi/binsort-server/internal/config"
	"github.com/ugaemi/binsort-server/internal/game"
	"github.com/ugaemi/binsort-server/internal/result"
	"github.com/ugaemi/binsort-server/internal/ws"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		StoreDriver:    config.StoreSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "results.db"),
		AssetDir:       t.TempDir(),
		AllowedOrigins: []string{"*"},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	s, err := openStore(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, s)
	s.Close()

	cfg.StoreDriver = config.StoreNone
	s, err = openStore(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, s)

	cfg.StoreDriver = "mysql"
	_, err = openStore(ctx, cfg)
	assert.Error(t, err)
}

func TestHTTPRouter_WithStore(t *testing.T) {
	cfg := testConfig(t)
	s, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	res := result.NewResult("session", "kim", game.OutcomeWin, 100.05, game.Stats{}, time.Now())
	require.NoError(t, s.Record(context.Background(), res))

	h := newHTTPRouter(cfg, ws.NewHub(), asset.NewCatalog("/images"), s)

	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/assets").Code)

	list := get(t, h, "/results?limit=3")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), `"nickname":"kim"`)

	one := get(t, h, "/results/"+res.ID)
	assert.Equal(t, http.StatusOK, one.Code)
}

func TestHTTPRouter_WithoutStore(t *testing.T) {
	h := newHTTPRouter(testConfig(t), ws.NewHub(), asset.NewCatalog("/images"), nil)

	assert.Equal(t, http.StatusNotFound, get(t, h, "/results").Code)
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	openAll := originChecker([]string{"*"})
	assert.True(t, openAll(req("https://evil.example")))

	strict := originChecker([]string{"https://play.example"})
	assert.True(t, strict(req("https://play.example")))
	assert.True(t, strict(req("")))
	assert.False(t, strict(req("https://evil.example")))
}
