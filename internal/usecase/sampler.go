package usecase

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"go.ngs.io/ocean-field/internal/adapter/interp"
	"go.ngs.io/ocean-field/internal/domain"
)

// Option configures a Sampler.
type Option func(*Sampler)

// WithMaxSearchRadius overrides the nearest-node search radius in meters.
func WithMaxSearchRadius(r float64) Option {
	return func(s *Sampler) {
		s.maxRadius = r
	}
}

// WithLogger sets the logger used for warnings and notices.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Sampler) {
		s.log = log
	}
}

// Sampler evaluates queries against an immutable dataset. Every stage of
// a query is passed explicitly to the next, so a Sampler is safe for
// concurrent use.
type Sampler struct {
	ds        *domain.Dataset
	maxRadius float64
	log       logrus.FieldLogger

	staleOnce sync.Once
}

// NewSampler validates ds and returns a sampler over it. Validation
// failures are reported as *domain.InitError.
func NewSampler(ds *domain.Dataset, opts ...Option) (*Sampler, error) {
	if ds == nil {
		return nil, &domain.InitError{Err: fmt.Errorf("no dataset")}
	}
	if err := ds.Validate(); err != nil {
		return nil, &domain.InitError{Source: "validation", Err: err}
	}

	s := &Sampler{
		ds:        ds,
		maxRadius: interp.DefaultMaxSearchRadius,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxRadius <= 0 {
		return nil, &domain.InitError{Source: "options", Err: fmt.Errorf("search radius must be positive, got %g", s.maxRadius)}
	}
	return s, nil
}

// Dataset returns the dataset the sampler reads.
func (s *Sampler) Dataset() *domain.Dataset {
	return s.ds
}

// neighborhood is the horizontal part of a query: the nearest nodes on
// each mesh.
type neighborhood struct {
	rho, u, v interp.Neighbors
}

// Sample interpolates the dataset at q. It returns domain.ErrOutOfGrid
// when the point is off any mesh and domain.ErrAllLand when no water
// sample contributes to the scalar value.
func (s *Sampler) Sample(q domain.Query) (domain.Result, error) {
	tb := interp.ResolveTime(q.Time, s.ds.Time)

	nb, err := s.locate(q.X, q.Y)
	if err != nil {
		return domain.Result{}, err
	}

	floor, ok := s.floorDepth(nb.rho)
	if !ok {
		return domain.Result{}, fmt.Errorf("bathymetry at (%.1f, %.1f): %w", q.X, q.Y, domain.ErrAllLand)
	}
	vb := interp.ResolveLevel(floor, q.Depth, s.ds.Sigma)

	res := domain.Result{
		FloorDepth: floor,
		Altitude:   floor - q.Depth,
		Stale:      tb.Stale(),
	}
	if res.Stale {
		s.staleOnce.Do(func() {
			s.log.WithFields(logrus.Fields{
				"time":      q.Time,
				"last_step": s.ds.Time[len(s.ds.Time)-1],
			}).Info("query time is past the last time step, using the last step from now on")
		})
	}

	value, ok := s.fieldValue(s.ds.Scalar, s.ds.Rho.Mask, nb.rho, vb, tb)
	if !ok {
		return domain.Result{}, fmt.Errorf("scalar %s at (%.1f, %.1f, %.1f m): %w",
			s.ds.Scalar.Name, q.X, q.Y, q.Depth, domain.ErrAllLand)
	}
	res.Value = value

	if s.ds.HasVector() {
		east, okE := s.fieldValue(*s.ds.East, s.ds.U.Mask, nb.u, vb, tb)
		north, okN := s.fieldValue(*s.ds.North, s.ds.V.Mask, nb.v, vb, tb)
		if okE && okN {
			res.East, res.North = s.rotate(east, north, nb.rho)
			res.VectorValid = true
		}
	}

	return res, nil
}

// locate finds the nearest nodes on the rho mesh and both staggered
// meshes.
func (s *Sampler) locate(x, y float64) (neighborhood, error) {
	var nb neighborhood
	var err error
	if nb.rho, err = interp.FindNearest4(x, y, s.ds.Rho, s.maxRadius); err != nil {
		return nb, err
	}
	if nb.u, err = interp.FindNearest4(x, y, s.ds.U, s.maxRadius); err != nil {
		return nb, err
	}
	if nb.v, err = interp.FindNearest4(x, y, s.ds.V, s.maxRadius); err != nil {
		return nb, err
	}
	return nb, nil
}

// floorDepth averages bathymetry at the rho neighbors. Land cells are not
// excluded: their zero or negative depths pull the floor up near the
// coast. Fill values are, and ok is false when every neighbor has one.
func (s *Sampler) floorDepth(n interp.Neighbors) (float64, bool) {
	var samples [4]interp.Sample
	for i := range samples {
		samples[i] = interp.Sample{
			Value: s.ds.Bathymetry.At(n.Row[i], n.Col[i]),
			Dist:  n.Dist[i],
			Valid: true,
		}
	}
	return interp.Combine(samples[:])
}

// fieldValue reduces a field to one value: corners, then levels, then
// time steps.
func (s *Sampler) fieldValue(f domain.Field, mask domain.Mask, n interp.Neighbors, vb interp.VerticalBracket, tb interp.TemporalBracket) (float64, bool) {
	if !tb.HasNext {
		return s.valueAtStep(f, mask, n, vb, tb.Step)
	}

	v0, ok0 := s.valueAtStep(f, mask, n, vb, tb.Step)
	v1, ok1 := s.valueAtStep(f, mask, n, vb, tb.Step+1)
	return interp.Combine([]interp.Sample{
		{Value: v0, Dist: tb.Since, Valid: ok0},
		{Value: v1, Dist: tb.Until, Valid: ok1},
	})
}

// valueAtStep averages the vertical bracket at time step t. Below the
// deepest level only Level+1 is read.
func (s *Sampler) valueAtStep(f domain.Field, mask domain.Mask, n interp.Neighbors, vb interp.VerticalBracket, t int) (float64, bool) {
	if vb.Single() {
		return horizontal(f, mask, n, t, vb.Level)
	}

	dz := [2]float64{vb.DistToLevel, vb.DistToNext}
	var levels [2]interp.Sample
	for k := range levels {
		levels[k] = interp.Sample{Value: interp.BadValue, Dist: dz[k]}
		if dz[k] == interp.NoLevel {
			continue
		}
		levels[k].Value, levels[k].Valid = horizontal(f, mask, n, t, vb.Level+k)
	}
	return interp.Combine(levels[:])
}

// horizontal averages the four corners of level k at time step t,
// skipping land cells.
func horizontal(f domain.Field, mask domain.Mask, n interp.Neighbors, t, k int) (float64, bool) {
	var corners [4]interp.Sample
	for i := range corners {
		r, c := n.Row[i], n.Col[i]
		corners[i] = interp.Sample{Dist: n.Dist[i]}
		if mask.IsWater(r, c) {
			corners[i].Value = f.At(t, k, r, c)
			corners[i].Valid = true
		}
	}
	return interp.Combine(corners[:])
}

// rotate turns grid-relative components into east/north using the grid
// angle at the query point. Without an angle grid the components are
// returned unchanged.
func (s *Sampler) rotate(xi, eta float64, n interp.Neighbors) (float64, float64) {
	if s.ds.Angle == nil {
		return xi, eta
	}
	var samples [4]interp.Sample
	for i := range samples {
		samples[i] = interp.Sample{Value: s.ds.Angle.At(n.Row[i], n.Col[i]), Dist: n.Dist[i], Valid: true}
	}
	angle, _ := interp.Combine(samples[:])
	sin, cos := math.Sincos(angle)
	return xi*cos - eta*sin, eta*cos + xi*sin
}
