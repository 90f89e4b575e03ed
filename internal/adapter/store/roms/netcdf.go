// Package roms loads ROMS ocean model output from NetCDF files.
package roms

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/sirupsen/logrus"

	"go.ngs.io/ocean-field/internal/adapter/geodesy"
	"go.ngs.io/ocean-field/internal/adapter/store"
	"go.ngs.io/ocean-field/internal/domain"
)

// ROMS variable names for the grid and axes.
const (
	bathymetryVarName = "h"
	angleVarName      = "angle"
	sigmaVarName      = "s_rho"
	timeVarName       = "ocean_time"
)

// VarNames selects the field variables to load.
type VarNames struct {
	Scalar string // On the rho grid, e.g. "temp" or "salt".
	East   string // Optional xi-direction component on the u grid, e.g. "u".
	North  string // Optional eta-direction component on the v grid, e.g. "v".
}

// DefaultVarNames loads temperature and the u/v current components.
func DefaultVarNames() VarNames {
	return VarNames{Scalar: "temp", East: "u", North: "v"}
}

// meshSpec names the variables of one staggered grid.
type meshSpec struct {
	name    string
	lat     string
	lon     string
	mask    string
	stagger bool // Mask may be derived from the rho mask.
}

var (
	rhoSpec = meshSpec{name: "rho", lat: "lat_rho", lon: "lon_rho", mask: "mask_rho"}
	uSpec   = meshSpec{name: "u", lat: "lat_u", lon: "lon_u", mask: "mask_u", stagger: true}
	vSpec   = meshSpec{name: "v", lat: "lat_v", lon: "lon_v", mask: "mask_v", stagger: true}
)

var errNotFound = errors.New("variable not found")

var _ store.DatasetLoader = (*Store)(nil)

// Store reads a single ROMS history or average file.
type Store struct {
	path   string
	names  VarNames
	origin geodesy.Origin

	Log logrus.FieldLogger
}

// NewStore creates a store for the file at path. Horizontal coordinates are
// projected to meters east and north of origin.
func NewStore(path string, names VarNames, origin geodesy.Origin) *Store {
	return &Store{
		path:   path,
		names:  names,
		origin: origin,
		Log:    logrus.StandardLogger(),
	}
}

// Load reads the grids, axes and fields into a validated dataset. Every
// failure is returned as a *domain.InitError.
func (s *Store) Load() (*domain.Dataset, error) {
	ds, err := s.load()
	if err != nil {
		return nil, &domain.InitError{Source: s.path, Err: err}
	}
	return ds, nil
}

func (s *Store) load() (*domain.Dataset, error) {
	if s.names.Scalar == "" {
		return nil, fmt.Errorf("no scalar variable configured")
	}
	if (s.names.East == "") != (s.names.North == "") {
		return nil, fmt.Errorf("vector components must be configured together, got east=%q north=%q",
			s.names.East, s.names.North)
	}

	conv, err := geodesy.NewConverter(s.origin)
	if err != nil {
		return nil, fmt.Errorf("invalid origin: %w", err)
	}

	nc, err := netcdf.OpenFile(s.path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	ds := &domain.Dataset{}

	if ds.Rho, err = s.readMesh(nc, conv, rhoSpec, domain.Mask{}); err != nil {
		return nil, err
	}
	if ds.U, err = s.readMesh(nc, conv, uSpec, ds.Rho.Mask); err != nil {
		return nil, err
	}
	if ds.V, err = s.readMesh(nc, conv, vSpec, ds.Rho.Mask); err != nil {
		return nil, err
	}

	if ds.Bathymetry, err = readGrid(nc, bathymetryVarName); err != nil {
		return nil, err
	}

	angle, err := readGrid(nc, angleVarName)
	switch {
	case err == nil:
		ds.Angle = &angle
	case !errors.Is(err, errNotFound):
		return nil, err
	}

	if ds.Sigma, err = readAxis(nc, sigmaVarName); err != nil {
		return nil, err
	}
	if ds.Time, ds.Epoch, err = readTimeAxis(nc); err != nil {
		return nil, err
	}

	steps, levels := len(ds.Time), len(ds.Sigma)
	if ds.Scalar, err = readField(nc, s.names.Scalar, steps, levels); err != nil {
		return nil, err
	}
	if s.names.East != "" {
		east, err := readField(nc, s.names.East, steps, levels)
		if err != nil {
			return nil, err
		}
		north, err := readField(nc, s.names.North, steps, levels)
		if err != nil {
			return nil, err
		}
		ds.East, ds.North = &east, &north
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{
		"file":   s.path,
		"rows":   ds.Rho.Rows(),
		"cols":   ds.Rho.Cols(),
		"levels": levels,
		"steps":  steps,
		"vector": ds.HasVector(),
	}).Info("loaded ROMS dataset")

	return ds, nil
}

// readMesh reads one grid's coordinates and mask. A staggered grid with
// no mask of its own derives it from rhoMask.
func (s *Store) readMesh(nc netcdf.Dataset, conv *geodesy.Converter, spec meshSpec, rhoMask domain.Mask) (domain.Mesh, error) {
	lat, err := readGrid(nc, spec.lat)
	if err != nil {
		return domain.Mesh{}, err
	}
	lon, err := readGrid(nc, spec.lon)
	if err != nil {
		return domain.Mesh{}, err
	}
	if lat.Rows != lon.Rows || lat.Cols != lon.Cols {
		return domain.Mesh{}, fmt.Errorf("%s is %dx%d but %s is %dx%d",
			spec.lat, lat.Rows, lat.Cols, spec.lon, lon.Rows, lon.Cols)
	}

	mesh := domain.Mesh{
		Name:  spec.name,
		East:  domain.NewGrid2D(lat.Rows, lat.Cols),
		North: domain.NewGrid2D(lat.Rows, lat.Cols),
	}
	for i := range lat.Data {
		if math.IsNaN(lat.Data[i]) || math.IsNaN(lon.Data[i]) {
			return domain.Mesh{}, fmt.Errorf("%s grid has a missing coordinate at (%d, %d)",
				spec.name, i/lat.Cols, i%lat.Cols)
		}
		mesh.East.Data[i], mesh.North.Data[i] = conv.ToLocal(lat.Data[i], lon.Data[i])
	}

	maskGrid, err := readGrid(nc, spec.mask)
	switch {
	case err == nil:
		mesh.Mask = toMask(maskGrid)
	case errors.Is(err, errNotFound) && spec.stagger:
		s.Log.WithField("grid", spec.name).Debugf("%s not present, deriving it from mask_rho", spec.mask)
		mesh.Mask = domain.DeriveStaggeredMask(rhoMask, lat.Rows, lat.Cols)
	default:
		return domain.Mesh{}, err
	}

	return mesh, nil
}

// toMask treats values above one half as water. Missing values are land.
func toMask(g domain.Grid2D) domain.Mask {
	m := domain.NewMask(g.Rows, g.Cols)
	for i, v := range g.Data {
		m.Water[i] = v > 0.5
	}
	return m
}

// readGrid reads a 2D (eta, xi) variable.
func readGrid(nc netcdf.Dataset, name string) (domain.Grid2D, error) {
	v, err := lookupVar(nc, name)
	if err != nil {
		return domain.Grid2D{}, err
	}
	data, shape, err := readFloat64Var(v)
	if err != nil {
		return domain.Grid2D{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(shape) != 2 {
		return domain.Grid2D{}, fmt.Errorf("%s: expected 2D data, got %dD", name, len(shape))
	}
	return domain.Grid2D{Rows: shape[0], Cols: shape[1], Data: data}, nil
}

// readAxis reads a 1D coordinate variable.
func readAxis(nc netcdf.Dataset, name string) ([]float64, error) {
	v, err := lookupVar(nc, name)
	if err != nil {
		return nil, err
	}
	data, shape, err := readFloat64Var(v)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(shape) != 1 {
		return nil, fmt.Errorf("%s: expected 1D data, got %dD", name, len(shape))
	}
	return data, nil
}

// readTimeAxis reads ocean_time and converts it to seconds since the epoch
// named by its units attribute.
func readTimeAxis(nc netcdf.Dataset) ([]float64, time.Time, error) {
	axis, err := readAxis(nc, timeVarName)
	if err != nil {
		return nil, time.Time{}, err
	}
	v, _ := nc.Var(timeVarName)

	units, ok := textAttr(v, "units")
	if !ok {
		return axis, time.Unix(0, 0).UTC(), nil
	}
	scale, epoch, err := ParseTimeUnits(units)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%s: %w", timeVarName, err)
	}
	for i := range axis {
		axis[i] *= scale
	}
	return axis, epoch, nil
}

// readField reads a (time, s_rho, eta, xi) variable.
func readField(nc netcdf.Dataset, name string, steps, levels int) (domain.Field, error) {
	v, err := lookupVar(nc, name)
	if err != nil {
		return domain.Field{}, err
	}
	data, shape, err := readFloat64Var(v)
	if err != nil {
		return domain.Field{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(shape) != 4 {
		return domain.Field{}, fmt.Errorf("%s: expected 4D (time, s_rho, eta, xi) data, got %dD", name, len(shape))
	}
	if shape[0] != steps || shape[1] != levels {
		return domain.Field{}, fmt.Errorf("%s: has %d steps and %d levels, expected %d and %d",
			name, shape[0], shape[1], steps, levels)
	}
	return domain.Field{
		Name:   name,
		Steps:  shape[0],
		Levels: shape[1],
		Rows:   shape[2],
		Cols:   shape[3],
		Data:   data,
	}, nil
}

func lookupVar(nc netcdf.Dataset, name string) (netcdf.Var, error) {
	v, err := nc.Var(name)
	if err != nil {
		return netcdf.Var{}, fmt.Errorf("%s: %w", name, errNotFound)
	}
	return v, nil
}

// readFloat64Var reads a variable of any numeric type as float64 along with
// its shape. Fill values become NaN and packed values are unpacked.
func readFloat64Var(v netcdf.Var) ([]float64, []int, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	shape := make([]int, len(dims))
	total := 1
	for i, d := range dims {
		n, err := d.Len()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get dim%d length: %w", i, err)
		}
		shape[i] = int(n)
		total *= int(n)
	}

	t, err := v.Type()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get var type: %w", err)
	}

	out := make([]float64, total)
	switch t {
	case netcdf.DOUBLE:
		if err := v.ReadFloat64s(out); err != nil {
			return nil, nil, err
		}
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	case netcdf.BYTE:
		tmp := make([]int8, total)
		if err := v.ReadInt8s(tmp); err != nil {
			return nil, nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported var type: %v", t)
	}

	fill, hasFill := getFillValue(v)
	scale, hasScale := floatAttr(v, "scale_factor")
	offset, hasOffset := floatAttr(v, "add_offset")
	if !hasScale {
		scale = 1
	}
	if !hasOffset {
		offset = 0
	}
	for i, val := range out {
		if hasFill && val == fill {
			out[i] = math.NaN()
			continue
		}
		out[i] = val*scale + offset
	}

	return out, shape, nil
}

// getFillValue returns the _FillValue or missing_value attribute if present.
func getFillValue(v netcdf.Var) (float64, bool) {
	for _, name := range []string{"_FillValue", "missing_value"} {
		if fv, ok := floatAttr(v, name); ok {
			return fv, true
		}
	}
	return 0, false
}

// floatAttr reads the first element of a numeric attribute as float64.
func floatAttr(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	n, err := a.Len()
	if err != nil || n == 0 {
		return 0, false
	}
	t, err := a.Type()
	if err != nil {
		return 0, false
	}
	switch t {
	case netcdf.DOUBLE:
		buf := make([]float64, n)
		if err := a.ReadFloat64s(buf); err == nil {
			return buf[0], true
		}
	case netcdf.FLOAT:
		buf := make([]float32, n)
		if err := a.ReadFloat32s(buf); err == nil {
			return float64(buf[0]), true
		}
	case netcdf.INT:
		buf := make([]int32, n)
		if err := a.ReadInt32s(buf); err == nil {
			return float64(buf[0]), true
		}
	case netcdf.SHORT:
		buf := make([]int16, n)
		if err := a.ReadInt16s(buf); err == nil {
			return float64(buf[0]), true
		}
	case netcdf.BYTE:
		buf := make([]int8, n)
		if err := a.ReadInt8s(buf); err == nil {
			return float64(buf[0]), true
		}
	}
	return 0, false
}

// textAttr reads a character attribute.
func textAttr(v netcdf.Var, name string) (string, bool) {
	a := v.Attr(name)
	n, err := a.Len()
	if err != nil || n == 0 {
		return "", false
	}
	if t, err := a.Type(); err != nil || t != netcdf.CHAR {
		return "", false
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return "", false
	}
	return strings.TrimRight(string(buf), "\x00"), true
}
