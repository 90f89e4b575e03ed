package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go.ngs.io/ocean-field/internal/adapter/geodesy"
	"go.ngs.io/ocean-field/internal/domain"
	"go.ngs.io/ocean-field/internal/usecase"
)

// Handler serves field samples over HTTP.
type Handler struct {
	sampler *usecase.Sampler
	geo     *geodesy.Converter
	log     logrus.FieldLogger
}

// NewHandler creates a handler. geo may be nil, in which case only planar
// coordinates are accepted.
func NewHandler(sampler *usecase.Sampler, geo *geodesy.Converter, log logrus.FieldLogger) *Handler {
	return &Handler{
		sampler: sampler,
		geo:     geo,
		log:     log,
	}
}

// FieldRequest holds the query parameters of GET /v1/field.
type FieldRequest struct {
	X     *float64 `form:"x"`
	Y     *float64 `form:"y"`
	Lat   *float64 `form:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lon   *float64 `form:"lon" binding:"omitempty,gte=-180,lte=360"`
	Depth float64  `form:"depth" binding:"gte=0"`
	T     *float64 `form:"t"`
	Time  string   `form:"time"`
}

// FieldResponse is the response for GET /v1/field.
type FieldResponse struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	Depth       float64  `json:"depth"`
	T           float64  `json:"t"`
	Time        string   `json:"time"`
	Variable    string   `json:"variable"`
	Value       float64  `json:"value"`
	FloorDepth  float64  `json:"floor_depth"`
	Altitude    float64  `json:"altitude"`
	East        *float64 `json:"east,omitempty"`
	North       *float64 `json:"north,omitempty"`
	VectorValid bool     `json:"vector_valid"`
	Stale       bool     `json:"stale"`
}

// GetField handles GET /v1/field.
func (h *Handler) GetField(c *gin.Context) {
	var req FieldRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid query: %v", err)})
		return
	}

	q, resp, err := h.buildQuery(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.sampler.Sample(q)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrOutOfGrid) || errors.Is(err, domain.ErrAllLand) {
			status = http.StatusUnprocessableEntity
		} else {
			h.log.WithError(err).Error("sampling failed")
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	resp.Value = res.Value
	resp.FloorDepth = res.FloorDepth
	resp.Altitude = res.Altitude
	resp.VectorValid = res.VectorValid
	resp.Stale = res.Stale
	if res.VectorValid {
		east, north := res.East, res.North
		resp.East, resp.North = &east, &north
	}

	c.JSON(http.StatusOK, resp)
}

// buildQuery resolves the position and time parameters.
func (h *Handler) buildQuery(req FieldRequest) (domain.Query, FieldResponse, error) {
	ds := h.sampler.Dataset()
	resp := FieldResponse{Depth: req.Depth, Variable: ds.Scalar.Name}

	planar := req.X != nil || req.Y != nil
	geographic := req.Lat != nil || req.Lon != nil
	switch {
	case planar && geographic:
		return domain.Query{}, resp, fmt.Errorf("use either x/y or lat/lon, not both")
	case planar:
		if req.X == nil || req.Y == nil {
			return domain.Query{}, resp, fmt.Errorf("x and y must be given together")
		}
		resp.X, resp.Y = *req.X, *req.Y
	case geographic:
		if req.Lat == nil || req.Lon == nil {
			return domain.Query{}, resp, fmt.Errorf("lat and lon must be given together")
		}
		if h.geo == nil {
			return domain.Query{}, resp, fmt.Errorf("lat/lon queries are not supported without a geographic origin")
		}
		resp.X, resp.Y = h.geo.ToLocal(*req.Lat, *req.Lon)
		resp.Lat, resp.Lon = req.Lat, req.Lon
	default:
		return domain.Query{}, resp, fmt.Errorf("x/y or lat/lon parameters are required")
	}

	switch {
	case req.T != nil && req.Time != "":
		return domain.Query{}, resp, fmt.Errorf("use either t or time, not both")
	case req.T != nil:
		resp.T = *req.T
	case req.Time != "":
		ts, err := time.Parse(time.RFC3339, req.Time)
		if err != nil {
			return domain.Query{}, resp, fmt.Errorf("invalid time (expected RFC3339): %w", err)
		}
		resp.T = ds.AxisValue(ts)
	default:
		resp.T = ds.Time[0]
	}
	resp.Time = ds.TimeAt(resp.T).UTC().Format(time.RFC3339)

	return domain.Query{X: resp.X, Y: resp.Y, Depth: resp.Depth, Time: resp.T}, resp, nil
}

// GridInfo describes one staggered grid.
type GridInfo struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// DatasetResponse is the response for GET /v1/dataset.
type DatasetResponse struct {
	Variable  string              `json:"variable"`
	Vector    bool                `json:"vector"`
	Grids     map[string]GridInfo `json:"grids"`
	Levels    int                 `json:"levels"`
	Steps     int                 `json:"steps"`
	Epoch     string              `json:"epoch"`
	Start     string              `json:"start"`
	End       string              `json:"end"`
	OriginLat *float64            `json:"origin_lat,omitempty"`
	OriginLon *float64            `json:"origin_lon,omitempty"`
}

// GetDataset handles GET /v1/dataset.
func (h *Handler) GetDataset(c *gin.Context) {
	ds := h.sampler.Dataset()

	resp := DatasetResponse{
		Variable: ds.Scalar.Name,
		Vector:   ds.HasVector(),
		Grids: map[string]GridInfo{
			ds.Rho.Name: {Rows: ds.Rho.Rows(), Cols: ds.Rho.Cols()},
			ds.U.Name:   {Rows: ds.U.Rows(), Cols: ds.U.Cols()},
			ds.V.Name:   {Rows: ds.V.Rows(), Cols: ds.V.Cols()},
		},
		Levels: len(ds.Sigma),
		Steps:  len(ds.Time),
		Epoch:  ds.Epoch.UTC().Format(time.RFC3339),
		Start:  ds.TimeAt(ds.Time[0]).UTC().Format(time.RFC3339),
		End:    ds.TimeAt(ds.Time[len(ds.Time)-1]).UTC().Format(time.RFC3339),
	}
	if h.geo != nil {
		origin := h.geo.Origin()
		resp.OriginLat, resp.OriginLon = &origin.Lat, &origin.Lon
	}

	c.JSON(http.StatusOK, resp)
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
