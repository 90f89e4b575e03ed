package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/ocean-field/internal/adapter/geodesy"
	"go.ngs.io/ocean-field/internal/domain"
	"go.ngs.io/ocean-field/internal/usecase"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func squareMesh(name string) domain.Mesh {
	return domain.Mesh{
		Name:  name,
		East:  domain.Grid2D{Rows: 2, Cols: 2, Data: []float64{0, 10, 0, 10}},
		North: domain.Grid2D{Rows: 2, Cols: 2, Data: []float64{0, 0, 10, 10}},
		Mask:  domain.NewMask(2, 2),
	}
}

// testDataset has two time steps 100 s apart over a 2x2 mesh with 5 m
// depth. The scalar is 1..4 at step 0 and 11..14 at step 1; the current
// is a uniform (0.3, -0.2).
func testDataset() *domain.Dataset {
	scalar := domain.NewField("temp", 2, 1, 2, 2)
	copy(scalar.Data, []float64{1, 2, 3, 4, 11, 12, 13, 14})
	east := domain.NewField("u", 2, 1, 2, 2)
	north := domain.NewField("v", 2, 1, 2, 2)
	for i := range east.Data {
		east.Data[i] = 0.3
		north.Data[i] = -0.2
	}

	return &domain.Dataset{
		Rho:        squareMesh("rho"),
		U:          squareMesh("u"),
		V:          squareMesh("v"),
		Bathymetry: domain.Grid2D{Rows: 2, Cols: 2, Data: []float64{5, 5, 5, 5}},
		Sigma:      []float64{-1},
		Time:       []float64{0, 100},
		Epoch:      testEpoch,
		Scalar:     scalar,
		East:       &east,
		North:      &north,
	}
}

func setupTestRouter(t *testing.T, ds *domain.Dataset) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger, _ := test.NewNullLogger()
	sampler, err := usecase.NewSampler(ds, usecase.WithLogger(logger))
	require.NoError(t, err)
	geo, err := geodesy.NewConverter(geodesy.Origin{Lat: 41.5, Lon: -70.7})
	require.NoError(t, err)

	return SetupRouter(NewHandler(sampler, geo, logger), nil)
}

func get(t *testing.T, router *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeField(t *testing.T, w *httptest.ResponseRecorder) FieldResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp FieldResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	w := get(t, setupTestRouter(t, testDataset()), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGetDataset(t *testing.T) {
	w := get(t, setupTestRouter(t, testDataset()), "/v1/dataset")
	require.Equal(t, http.StatusOK, w.Code)

	var resp DatasetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "temp", resp.Variable)
	assert.True(t, resp.Vector)
	assert.Equal(t, GridInfo{Rows: 2, Cols: 2}, resp.Grids["rho"])
	assert.Equal(t, 1, resp.Levels)
	assert.Equal(t, 2, resp.Steps)
	assert.Equal(t, "2024-01-01T00:00:00Z", resp.Start)
	assert.Equal(t, "2024-01-01T00:01:40Z", resp.End)
	require.NotNil(t, resp.OriginLat)
	assert.Equal(t, 41.5, *resp.OriginLat)
}

func TestGetField_Planar(t *testing.T) {
	resp := decodeField(t, get(t, setupTestRouter(t, testDataset()), "/v1/field?x=5&y=5&depth=2&t=50"))

	// Corners average to 2.5 at step 0 and 12.5 at step 1.
	assert.InDelta(t, 7.5, resp.Value, 1e-9)
	assert.InDelta(t, 5.0, resp.FloorDepth, 1e-12)
	assert.InDelta(t, 3.0, resp.Altitude, 1e-12)
	assert.Equal(t, "2024-01-01T00:00:50Z", resp.Time)
	assert.Equal(t, "temp", resp.Variable)
	require.True(t, resp.VectorValid)
	assert.InDelta(t, 0.3, *resp.East, 1e-12)
	assert.InDelta(t, -0.2, *resp.North, 1e-12)
	assert.False(t, resp.Stale)
	assert.Nil(t, resp.Lat)
}

func TestGetField_Geographic(t *testing.T) {
	resp := decodeField(t, get(t, setupTestRouter(t, testDataset()), "/v1/field?lat=41.5&lon=-70.7&depth=1"))

	// The origin sits on node (0,0); no time defaults to the first step.
	assert.Equal(t, 1.0, resp.Value)
	assert.Equal(t, 0.0, resp.T)
	require.NotNil(t, resp.Lat)
	assert.Equal(t, 41.5, *resp.Lat)
}

func TestGetField_WallClockTime(t *testing.T) {
	router := setupTestRouter(t, testDataset())

	resp := decodeField(t, get(t, router, "/v1/field?x=0&y=0&time=2024-01-01T00:01:40Z"))
	assert.Equal(t, 100.0, resp.T)
	assert.Equal(t, 11.0, resp.Value)

	resp = decodeField(t, get(t, router, "/v1/field?x=0&y=0&time=2024-01-01T01:00:00Z"))
	assert.True(t, resp.Stale)
	assert.Equal(t, 11.0, resp.Value)
}

func TestGetField_BadRequest(t *testing.T) {
	router := setupTestRouter(t, testDataset())

	tests := []struct {
		name string
		url  string
	}{
		{"no position", "/v1/field?depth=1"},
		{"x without y", "/v1/field?x=1"},
		{"lat without lon", "/v1/field?lat=41.5"},
		{"both position forms", "/v1/field?x=1&y=1&lat=41.5&lon=-70.7"},
		{"latitude out of range", "/v1/field?lat=95&lon=0"},
		{"negative depth", "/v1/field?x=1&y=1&depth=-3"},
		{"non-numeric x", "/v1/field?x=east&y=1"},
		{"bad time", "/v1/field?x=1&y=1&time=yesterday"},
		{"both time forms", "/v1/field?x=1&y=1&t=0&time=2024-01-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, tt.url)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestGetField_Unprocessable(t *testing.T) {
	w := get(t, setupTestRouter(t, testDataset()), "/v1/field?x=5&y=500000")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	ds := testDataset()
	for i := range ds.Rho.Mask.Water {
		ds.Rho.Mask.Water[i] = false
	}
	w = get(t, setupTestRouter(t, ds), "/v1/field?x=5&y=5")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "land")
}
