package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/remoteindex/remoteindex/internal/api/v1/handlers"
	"github.com/remoteindex/remoteindex/internal/db/models"
	"github.com/remoteindex/remoteindex/internal/db/repos"
	"github.com/remoteindex/remoteindex/internal/probe"
	"github.com/remoteindex/remoteindex/internal/services"
	"github.com/remoteindex/remoteindex/internal/sources"
)

// newTestApp wires a fiber app over an in-memory database with no real
// source adapters, so every endpoint is reachable without network access.
func newTestApp(t *testing.T) (*fiber.App, *repos.Stores) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_json=1"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	err = db.AutoMigrate(
		&models.Category{},
		&models.JobPosting{},
		&models.DuplicateJobPair{},
		&models.PotentialCompany{},
		&models.DiscoveredCompany{},
		&models.CompanyJobProgress{},
		&models.SyncHistory{},
	)
	require.NoError(t, err)

	stores := repos.NewStores(db)
	registry := sources.NewRegistry()

	app := fiber.New()
	Register(app, Handlers{
		Sync:      handlers.NewSyncHandler(services.NewSyncService(stores, registry)),
		Discovery: handlers.NewDiscoveryHandler(services.NewDiscoveryService(stores, []probe.Backend{})),
		Dedupe:    handlers.NewDedupeHandler(services.NewDedupeService(stores)),
		Prune:     handlers.NewPruneHandler(services.NewPruneService(stores, registry)),
		History:   handlers.NewHistoryHandler(stores.History),
	})
	return app, stores
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func TestSyncTickEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/sync/tick", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["added"])
}

func TestSyncTickEndpoint_BadBody(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/sync/tick", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestDiscoveryTickEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/discovery/tick", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
}

func TestDedupeEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/dedupe", `{"dry_run": true}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["duplicates_found"])
}

func TestPruneEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/prune", `{"stale_days": 30, "dry_run": true}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(0), body["jobs_deleted"])
}

func TestHistoryEndpoints(t *testing.T) {
	app, stores := newTestApp(t)

	// Run a tick so there is a ledger row to read back
	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/sync/tick", "")
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/sync/history", "")
	assert.Equal(t, http.StatusOK, status)
	runs, ok := body["runs"].([]interface{})
	require.True(t, ok)
	require.Len(t, runs, 1)

	// Fetch the same run by id
	listed, err := stores.History.List(context.Background(), "", nil)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	status, single := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/sync/history/%d", listed[0].ID), "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "jobs", single["sync_type"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/sync/history/banana", "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/sync/history/99999", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHistoryEndpoint_TypeFilter(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/sync/tick", "")
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/dedupe", "")
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/sync/history?sync_type=dedupe", "")
	assert.Equal(t, http.StatusOK, status)
	runs, ok := body["runs"].([]interface{})
	require.True(t, ok)
	require.Len(t, runs, 1)

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/sync/history?limit=banana", "")
	assert.Equal(t, http.StatusBadRequest, status)
}
