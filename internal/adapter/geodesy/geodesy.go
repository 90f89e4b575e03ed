// Package geodesy converts between geographic coordinates and a local
// planar frame centred on a fixed origin.
package geodesy

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid.
const (
	semiMajorAxis = 6378137.0
	flattening    = 1 / 298.257223563
)

var eccentricitySq = flattening * (2 - flattening)

// Origin is the geographic point mapped to (0, 0).
type Origin struct {
	Lat float64 // Degrees north.
	Lon float64 // Degrees east.
}

// Converter maps latitude/longitude to meters east and north of an origin
// using a local flat-earth approximation: the ellipsoid's meridional and
// prime-vertical radii at the origin latitude scale degree offsets to
// meters. It is accurate to well under a meter over typical model domains
// of a few tens of kilometers.
type Converter struct {
	origin       Origin
	metersPerLat float64
	metersPerLon float64
}

// NewConverter builds a converter for origin.
func NewConverter(origin Origin) (*Converter, error) {
	if origin.Lat < -90 || origin.Lat > 90 {
		return nil, fmt.Errorf("origin latitude %.6f is outside [-90, 90]", origin.Lat)
	}
	if origin.Lon < -180 || origin.Lon > 360 {
		return nil, fmt.Errorf("origin longitude %.6f is outside [-180, 360]", origin.Lon)
	}
	if math.Abs(origin.Lat) > 89.9 {
		return nil, fmt.Errorf("origin latitude %.6f is too close to a pole for a planar frame", origin.Lat)
	}

	phi := origin.Lat * math.Pi / 180
	sin := math.Sin(phi)
	w := 1 - eccentricitySq*sin*sin
	meridional := semiMajorAxis * (1 - eccentricitySq) / math.Pow(w, 1.5)
	primeVertical := semiMajorAxis / math.Sqrt(w)

	return &Converter{
		origin:       origin,
		metersPerLat: meridional * math.Pi / 180,
		metersPerLon: primeVertical * math.Cos(phi) * math.Pi / 180,
	}, nil
}

// Origin returns the converter's origin.
func (c *Converter) Origin() Origin {
	return c.origin
}

// ToLocal returns meters east (x) and north (y) of the origin.
func (c *Converter) ToLocal(lat, lon float64) (float64, float64) {
	x := wrapLon(lon-c.origin.Lon) * c.metersPerLon
	y := (lat - c.origin.Lat) * c.metersPerLat
	return x, y
}

// ToGeo is the inverse of ToLocal.
func (c *Converter) ToGeo(x, y float64) (float64, float64) {
	lat := c.origin.Lat + y/c.metersPerLat
	lon := c.origin.Lon + x/c.metersPerLon
	return lat, wrapLon(lon)
}

// wrapLon maps a longitude difference into [-180, 180).
func wrapLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}
