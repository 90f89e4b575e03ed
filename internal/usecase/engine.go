package usecase

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"go.ngs.io/ocean-field/internal/domain"
)

// State is the lifecycle position of an Engine.
type State int

const (
	// StateUninitialized is the zero value; an Engine built by NewEngine
	// never reports it.
	StateUninitialized State = iota
	// StateReady means the dataset is loaded and no query has run yet.
	StateReady
	// StateQueried means the last Update succeeded.
	StateQueried
	// StateFailed means the last Update failed; accessors return stale
	// values until the next successful Update.
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateQueried:
		return "queried"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine is the stateful query interface used by a simulation loop: call
// Update with the probe's position, then read the accessors. It is not
// safe for concurrent use; concurrent callers should share a Sampler
// instead.
type Engine struct {
	sampler *Sampler
	log     logrus.FieldLogger

	state  State
	result domain.Result
	err    error
}

// NewEngine builds an engine over ds. A dataset that fails validation
// yields a *domain.InitError and no engine.
func NewEngine(ds *domain.Dataset, opts ...Option) (*Engine, error) {
	sampler, err := NewSampler(ds, opts...)
	if err != nil {
		return nil, err
	}
	return NewEngineFromSampler(sampler), nil
}

// NewEngineFromSampler wraps an existing sampler. Engines sharing a
// sampler also share its one-time stale notice.
func NewEngineFromSampler(s *Sampler) *Engine {
	return &Engine{
		sampler: s,
		log:     s.log,
		state:   StateReady,
	}
}

// Update recomputes the result for a probe at (x, y) meters, depth meters
// below the surface, at time t on the dataset time axis. It returns false
// when the point is off the grid or every contributing sample is land;
// the previous result is then kept but must be treated as stale.
func (e *Engine) Update(x, y, depth, t float64) bool {
	res, err := e.sampler.Sample(domain.Query{X: x, Y: y, Depth: depth, Time: t})
	if err != nil {
		e.state = StateFailed
		e.err = err
		fields := logrus.Fields{"x": x, "y": y, "depth": depth, "time": t}
		switch {
		case errors.Is(err, domain.ErrAllLand):
			e.log.WithFields(fields).Warn("all local values are land-masked, refusing to publish")
		case errors.Is(err, domain.ErrOutOfGrid):
			e.log.WithFields(fields).WithError(err).Warn("no grid value found at current location")
		default:
			e.log.WithFields(fields).WithError(err).Warn("update failed")
		}
		return false
	}

	e.state = StateQueried
	e.result = res
	e.err = nil
	return true
}

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Err returns the error from the last failed Update, or nil.
func (e *Engine) Err() error { return e.err }

// Result returns the full result of the last successful Update.
func (e *Engine) Result() domain.Result { return e.result }

// Value returns the scalar field value.
func (e *Engine) Value() float64 { return e.result.Value }

// Altitude returns the probe's height above the seafloor.
func (e *Engine) Altitude() float64 { return e.result.Altitude }

// FloorDepth returns the interpolated seafloor depth.
func (e *Engine) FloorDepth() float64 { return e.result.FloorDepth }

// East returns the east vector component.
func (e *Engine) East() float64 { return e.result.East }

// North returns the north vector component.
func (e *Engine) North() float64 { return e.result.North }

// VectorValid reports whether East and North hold a usable estimate.
func (e *Engine) VectorValid() bool { return e.result.VectorValid }
