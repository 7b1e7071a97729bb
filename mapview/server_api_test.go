// Copyright 2026 The Camino Authors
// SPDX-License-Identifier: Apache-2.0

package mapview

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caminoapp/camino/pin"
	"github.com/caminoapp/camino/spatial"
)

// setupServerTest wires a gin router against an in-memory database. No redis,
// so the cache path is nil and requests hit the repository directly.
func setupServerTest(t *testing.T) (*gin.Engine, pin.Repository, *sql.DB) {
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("duckdb", "")
	require.NoError(t, err, "Failed to open test database")

	repo := pin.NewRepository(db)
	require.NoError(t, repo.CreateSchema(), "Failed to create schema")

	server := NewServer(repo, nil)

	return server.Router(), repo, db
}

// equatorPin puts a pin on the equator where 0.0009° of longitude is ~100 m.
func equatorPin(id, title string, lngDeg float64, visited bool) *pin.Pin {
	return &pin.Pin{
		ID:      id,
		Title:   title,
		Point:   spatial.Point{Lat: 0, Lng: lngDeg},
		Visited: visited,
	}
}

// mapItemsURL builds the items query for a viewport centered on (0, 0) with
// the longitude span that yields the given zoom (span = 360 / 2^zoom).
func mapItemsURL(zoom float64) string {
	span := 360 / float64(int64(1)<<int64(zoom))

	return fmt.Sprintf("/api/map/items?lat=0&lng=0&span_lat=%g&span_lng=%g", span, span)
}

func getMapItems(t *testing.T, router *gin.Engine, url string) MapItemsResponse {
	t.Helper()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var response MapItemsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	return response
}

func TestGetMapItemsClustersNearbyPins(t *testing.T) {
	router, repo, db := setupServerTest(t)
	defer db.Close()

	// a and b are ~100 m apart, c is ~3.3 km away. At zoom 12 the grouping
	// radius is 300 m, so a+b merge and c stays alone.
	require.NoError(t, repo.BulkInsert([]*pin.Pin{
		equatorPin("a", "First", 0, true),
		equatorPin("b", "Second", 0.0009, false),
		equatorPin("c", "Far away", 0.03, false),
	}))

	response := getMapItems(t, router, mapItemsURL(12))

	assert.InDelta(t, 12, response.Zoom, 1e-9)
	require.Len(t, response.Items, 2)

	clusterItem := response.Items[0]
	assert.Equal(t, "cluster", clusterItem.Type)
	assert.NotEmpty(t, clusterItem.ID)
	assert.Equal(t, 2, clusterItem.Count)
	assert.Equal(t, "smallest", clusterItem.SizeTier)
	assert.Equal(t, []string{"a", "b"}, clusterItem.MemberIDs)
	assert.True(t, clusterItem.Visited, "one visited member marks the cluster visited")
	assert.InDelta(t, 0.00045, clusterItem.Point.Lng, 1e-9, "centroid sits between the members")

	pinItem := response.Items[1]
	assert.Equal(t, "pin", pinItem.Type)
	assert.Equal(t, "c", pinItem.ID)
	assert.Equal(t, "Far away", pinItem.Title)
	assert.False(t, pinItem.Visited)
}

func TestGetMapItemsNoClusteringWhenZoomedIn(t *testing.T) {
	router, repo, db := setupServerTest(t)
	defer db.Close()

	require.NoError(t, repo.BulkInsert([]*pin.Pin{
		equatorPin("a", "First", 0, false),
		equatorPin("b", "Second", 0.0009, false),
	}))

	// Zoom 17 is past the clustering cutoff: every pin renders individually
	// even though they sit well inside any grouping radius.
	response := getMapItems(t, router, mapItemsURL(17))

	require.Len(t, response.Items, 2)

	for _, item := range response.Items {
		assert.Equal(t, "pin", item.Type)
	}
}

func TestGetMapItemsFiltersToViewport(t *testing.T) {
	router, repo, db := setupServerTest(t)
	defer db.Close()

	require.NoError(t, repo.BulkInsert([]*pin.Pin{
		equatorPin("inside", "Inside", 0, false),
		equatorPin("outside", "Outside", 5, false),
	}))

	response := getMapItems(t, router, mapItemsURL(12))

	require.Len(t, response.Items, 1)
	assert.Equal(t, "inside", response.Items[0].ID)
}

func TestGetMapItemsEmptyViewport(t *testing.T) {
	router, _, db := setupServerTest(t)
	defer db.Close()

	response := getMapItems(t, router, mapItemsURL(12))

	assert.Empty(t, response.Items)
}

func TestGetMapItemsValidation(t *testing.T) {
	router, _, db := setupServerTest(t)
	defer db.Close()

	urls := []string{
		"/api/map/items",
		"/api/map/items?lat=0&lng=0&span_lat=0.1",
		"/api/map/items?lat=zero&lng=0&span_lat=0.1&span_lng=0.1",
	}

	for _, url := range urls {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, url, nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "url: %s", url)
	}
}

func TestCreatePinAPI(t *testing.T) {
	router, repo, db := setupServerTest(t)
	defer db.Close()

	body, _ := json.Marshal(CreatePinRequest{
		Title:     "Plaza Independencia",
		Latitude:  -34.9066,
		Longitude: -56.1996,
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/pins", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, "body: %s", w.Body.String())

	var created pin.Pin
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)

	stored, err := repo.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Plaza Independencia", stored.Title)
}

func TestCreatePinAPIRejectsInvalid(t *testing.T) {
	router, _, db := setupServerTest(t)
	defer db.Close()

	body, _ := json.Marshal(CreatePinRequest{Title: "", Latitude: 0, Longitude: 0})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/pins", bytes.NewReader(body))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetPinVisitedAPI(t *testing.T) {
	router, repo, db := setupServerTest(t)
	defer db.Close()

	p := equatorPin("target", "Target", 0, false)
	require.NoError(t, repo.BulkInsert([]*pin.Pin{p}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/pins/target/visited",
		bytes.NewReader([]byte(`{"visited": true}`)))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	stored, err := repo.Get("target")
	require.NoError(t, err)
	assert.True(t, stored.Visited)

	// Unknown id
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/api/pins/ghost/visited",
		bytes.NewReader([]byte(`{"visited": true}`)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchPinsAPI(t *testing.T) {
	router, repo, db := setupServerTest(t)
	defer db.Close()

	require.NoError(t, repo.BulkInsert([]*pin.Pin{
		{Title: "Café Brasilero", Point: spatial.Point{Lat: -34.9064, Lng: -56.2040}},
		{Title: "Estadio Centenario", Point: spatial.Point{Lat: -34.8945, Lng: -56.1531}},
	}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/pins/search?q=cafe", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var results []*pin.Pin
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Café Brasilero", results[0].Title)

	// Missing query parameter
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/pins/search", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetStatsAPI(t *testing.T) {
	router, repo, db := setupServerTest(t)
	defer db.Close()

	require.NoError(t, repo.BulkInsert([]*pin.Pin{
		equatorPin("a", "A", 0, true),
		equatorPin("b", "B", 0.001, false),
		equatorPin("c", "C", 0.002, true),
		equatorPin("d", "D", 0.003, true),
	}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/pins/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 4, stats.TotalPins)
	assert.Equal(t, 3, stats.VisitedPins)
	assert.InDelta(t, 75.0, stats.VisitedPercentage, 1e-9)
}

func TestGetHeatmapAPI(t *testing.T) {
	router, repo, db := setupServerTest(t)
	defer db.Close()

	require.NoError(t, repo.BulkInsert([]*pin.Pin{
		equatorPin("a", "A", 0, false),
		equatorPin("b", "B", 0.0009, false),
	}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/map/heatmap?res=3", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Res   int            `json:"res"`
		Cells map[string]int `json:"cells"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, 3, response.Res)

	sum := 0
	for _, c := range response.Cells {
		sum += c
	}

	assert.Equal(t, 2, sum)

	// Out-of-range resolution
	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/map/heatmap?res=12", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
