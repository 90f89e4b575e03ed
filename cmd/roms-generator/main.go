// Package main writes a synthetic ROMS history file for local runs and
// demos of the field server and track sampler.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/fhs/go-netcdf/netcdf"
	"github.com/sirupsen/logrus"
)

// fillValue marks land points in the field variables.
const fillValue = float32(1e37)

// GridSpec defines the geographic extent and shape of the synthetic grid.
type GridSpec struct {
	LatMin     float64
	LonMin     float64
	Resolution float64 // degrees between rho points
	Rows       int     // eta_rho
	Cols       int     // xi_rho
	Levels     int     // s_rho
	Steps      int     // ocean_time
	StepSec    float64
	MaxDepth   float64 // meters
	Epoch      time.Time
}

// fields holds the generated arrays, flattened in NetCDF order.
type fields struct {
	latRho, lonRho, latU, lonU, latV, lonV []float64
	maskRho, h, angle, sRho, oceanTime     []float64
	temp, u, v                             []float32
}

func main() {
	outPath := flag.String("out", "./data/roms_his.nc", "Output NetCDF file")
	latMin := flag.Float64("lat-min", 41.5, "Latitude of the south-west rho point")
	lonMin := flag.Float64("lon-min", -70.7, "Longitude of the south-west rho point")
	resolution := flag.Float64("resolution", 0.005, "Grid resolution in degrees")
	rows := flag.Int("rows", 40, "Number of rho rows (eta)")
	cols := flag.Int("cols", 50, "Number of rho columns (xi)")
	levels := flag.Int("levels", 10, "Number of sigma levels")
	steps := flag.Int("steps", 24, "Number of time steps")
	stepSec := flag.Float64("dt", 3600, "Seconds between time steps")
	maxDepth := flag.Float64("depth", 60, "Maximum water depth in meters")
	epochStr := flag.String("epoch", "2024-01-01T00:00:00Z", "Time of the first step (RFC3339)")
	flag.Parse()

	log := logrus.StandardLogger()

	epoch, err := time.Parse(time.RFC3339, *epochStr)
	if err != nil {
		log.Fatalf("Invalid epoch: %v", err)
	}
	if *rows < 3 || *cols < 3 || *levels < 1 || *steps < 1 {
		log.Fatalf("Grid must be at least 3x3 with one level and one step")
	}

	spec := GridSpec{
		LatMin:     *latMin,
		LonMin:     *lonMin,
		Resolution: *resolution,
		Rows:       *rows,
		Cols:       *cols,
		Levels:     *levels,
		Steps:      *steps,
		StepSec:    *stepSec,
		MaxDepth:   *maxDepth,
		Epoch:      epoch.UTC(),
	}

	log.WithFields(logrus.Fields{
		"rows":   spec.Rows,
		"cols":   spec.Cols,
		"levels": spec.Levels,
		"steps":  spec.Steps,
	}).Info("generating ROMS file")
	log.Infof("Grid: %.4f°N, %.4f°E, resolution: %.4f°", spec.LatMin, spec.LonMin, spec.Resolution)

	if err := os.MkdirAll(filepath.Dir(*outPath), 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	if err := writeNetCDF(*outPath, spec, generate(spec)); err != nil {
		log.Fatalf("Failed to write NetCDF: %v", err)
	}

	bytes := spec.Steps * spec.Levels * spec.Rows * spec.Cols * 4 * 3
	log.Infof("Generated %s (~%.1f MB of field data)", *outPath, float64(bytes)/1024/1024)
	log.Infof("Set ROMS_FILE=%s ORIGIN_LAT=%g ORIGIN_LON=%g to serve it", *outPath, spec.LatMin, spec.LonMin)
}

// generate builds a sloping basin with a land block in the north-east
// corner, a temperature field that cools with depth and warms through the
// day, and a rotating tidal current.
func generate(spec GridSpec) fields {
	nr, nc, nk, nt := spec.Rows, spec.Cols, spec.Levels, spec.Steps
	var f fields

	coords := func(rows, cols int, dr, dc float64) ([]float64, []float64) {
		lat := make([]float64, rows*cols)
		lon := make([]float64, rows*cols)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				lat[r*cols+c] = spec.LatMin + (float64(r)+dr)*spec.Resolution
				lon[r*cols+c] = spec.LonMin + (float64(c)+dc)*spec.Resolution
			}
		}
		return lat, lon
	}
	f.latRho, f.lonRho = coords(nr, nc, 0, 0)
	f.latU, f.lonU = coords(nr, nc-1, 0, 0.5)
	f.latV, f.lonV = coords(nr-1, nc, 0.5, 0)

	// Land occupies the north-east sixth of the grid.
	landRow, landCol := nr*2/3, nc*3/4
	f.maskRho = make([]float64, nr*nc)
	f.h = make([]float64, nr*nc)
	f.angle = make([]float64, nr*nc)
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			i := r*nc + c
			// Depth increases to the south-west.
			slope := 1 - 0.5*float64(r)/float64(nr-1) - 0.4*float64(c)/float64(nc-1)
			f.h[i] = math.Max(2, spec.MaxDepth*slope)
			f.maskRho[i] = 1
			if r >= landRow && c >= landCol {
				f.maskRho[i] = 0
				f.h[i] = 0
			}
		}
	}

	// Sigma levels are cell centres from the seabed up.
	f.sRho = make([]float64, nk)
	for k := 0; k < nk; k++ {
		f.sRho[k] = -1 + (float64(k)+0.5)/float64(nk)
	}

	f.oceanTime = make([]float64, nt)
	for t := 0; t < nt; t++ {
		f.oceanTime[t] = float64(t) * spec.StepSec
	}

	const (
		tidalSec = 12.42 * 3600
		daySec   = 86400
	)

	f.temp = make([]float32, nt*nk*nr*nc)
	f.u = make([]float32, nt*nk*nr*(nc-1))
	f.v = make([]float32, nt*nk*(nr-1)*nc)
	for t := 0; t < nt; t++ {
		sec := f.oceanTime[t]
		diurnal := 1.5 * math.Sin(2*math.Pi*sec/daySec)
		phase := 2 * math.Pi * sec / tidalSec
		for k := 0; k < nk; k++ {
			// Currents shear toward the surface; temperature stratifies.
			shear := 0.5 + 0.5*(f.sRho[k]+1)
			for r := 0; r < nr; r++ {
				for c := 0; c < nc; c++ {
					i := ((t*nk+k)*nr+r)*nc + c
					if f.maskRho[r*nc+c] == 0 {
						f.temp[i] = fillValue
						continue
					}
					depth := -f.sRho[k] * f.h[r*nc+c]
					f.temp[i] = float32(18 + diurnal*shear - 0.12*depth + 0.02*float64(c))
				}
				for c := 0; c < nc-1; c++ {
					i := ((t*nk+k)*nr+r)*(nc-1) + c
					f.u[i] = float32(0.4 * shear * math.Cos(phase))
				}
			}
			for r := 0; r < nr-1; r++ {
				for c := 0; c < nc; c++ {
					i := ((t*nk+k)*(nr-1)+r)*nc + c
					f.v[i] = float32(0.25 * shear * math.Sin(phase))
				}
			}
		}
	}

	return f
}

// writeNetCDF writes the generated grids in the ROMS layout.
func writeNetCDF(path string, spec GridSpec, f fields) error {
	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER|netcdf.NETCDF4)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer ds.Close()

	dim := func(name string, n int) (netcdf.Dim, error) {
		return ds.AddDim(name, uint64(n))
	}

	// Create dimensions
	timeDim, err := dim("ocean_time", spec.Steps)
	if err != nil {
		return err
	}
	sDim, err := dim("s_rho", spec.Levels)
	if err != nil {
		return err
	}
	etaRho, err := dim("eta_rho", spec.Rows)
	if err != nil {
		return err
	}
	xiRho, err := dim("xi_rho", spec.Cols)
	if err != nil {
		return err
	}
	etaU, err := dim("eta_u", spec.Rows)
	if err != nil {
		return err
	}
	xiU, err := dim("xi_u", spec.Cols-1)
	if err != nil {
		return err
	}
	etaV, err := dim("eta_v", spec.Rows-1)
	if err != nil {
		return err
	}
	xiV, err := dim("xi_v", spec.Cols)
	if err != nil {
		return err
	}

	rho := []netcdf.Dim{etaRho, xiRho}
	uGrid := []netcdf.Dim{etaU, xiU}
	vGrid := []netcdf.Dim{etaV, xiV}

	doubles := []struct {
		name  string
		dims  []netcdf.Dim
		data  []float64
		units string
	}{
		{"lat_rho", rho, f.latRho, "degree_north"},
		{"lon_rho", rho, f.lonRho, "degree_east"},
		{"lat_u", uGrid, f.latU, "degree_north"},
		{"lon_u", uGrid, f.lonU, "degree_east"},
		{"lat_v", vGrid, f.latV, "degree_north"},
		{"lon_v", vGrid, f.lonV, "degree_east"},
		{"mask_rho", rho, f.maskRho, ""},
		{"h", rho, f.h, "meter"},
		{"angle", rho, f.angle, "radians"},
		{"s_rho", []netcdf.Dim{sDim}, f.sRho, ""},
		{"ocean_time", []netcdf.Dim{timeDim}, f.oceanTime,
			"seconds since " + spec.Epoch.Format("2006-01-02 15:04:05")},
	}
	for _, d := range doubles {
		v, err := ds.AddVar(d.name, netcdf.DOUBLE, d.dims)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		if d.units != "" {
			if err := v.Attr("units").WriteBytes([]byte(d.units)); err != nil {
				return fmt.Errorf("%s units: %w", d.name, err)
			}
		}
		if err := v.WriteFloat64s(d.data); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}

	field := func(dims []netcdf.Dim) []netcdf.Dim {
		return append([]netcdf.Dim{timeDim, sDim}, dims...)
	}
	floats := []struct {
		name  string
		dims  []netcdf.Dim
		data  []float32
		units string
	}{
		{"temp", field(rho), f.temp, "Celsius"},
		{"u", field(uGrid), f.u, "meter second-1"},
		{"v", field(vGrid), f.v, "meter second-1"},
	}
	for _, d := range floats {
		v, err := ds.AddVar(d.name, netcdf.FLOAT, d.dims)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		if err := v.Attr("units").WriteBytes([]byte(d.units)); err != nil {
			return fmt.Errorf("%s units: %w", d.name, err)
		}
		if err := v.Attr("_FillValue").WriteFloat32s([]float32{fillValue}); err != nil {
			return fmt.Errorf("%s fill value: %w", d.name, err)
		}
		if err := v.WriteFloat32s(d.data); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}

	return nil
}
