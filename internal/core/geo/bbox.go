// Package geo builds axis-aligned latitude/longitude rectangles used as
// spatial filters for cat lookups.
package geo

import (
	"fmt"
	"math"

	"github.com/whiskerworks/cats-api/internal/core/domain"
)

const (
	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// Coordinate is a latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate rejects non-finite or out-of-range values.
func (c Coordinate) Validate() error {
	if err := checkRange("latitude", c.Lat, minLatitude, maxLatitude); err != nil {
		return err
	}
	return checkRange("longitude", c.Lon, minLongitude, maxLongitude)
}

func checkRange(name string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", domain.ErrInvalidArgument, name)
	}
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s %g out of range [%g, %g]", domain.ErrInvalidArgument, name, v, lo, hi)
	}
	return nil
}

// BoundingBox is a canonical rectangle: SouthWest holds the minimum of each
// axis and NorthEast the maximum.
type BoundingBox struct {
	SouthWest Coordinate
	NorthEast Coordinate
}

// NewBoundingBox treats a and b as any two opposite corners of a rectangle.
// The result does not depend on argument order.
func NewBoundingBox(a, b Coordinate) (BoundingBox, error) {
	if err := a.Validate(); err != nil {
		return BoundingBox{}, err
	}
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return BoundingBox{
		SouthWest: Coordinate{Lat: math.Min(a.Lat, b.Lat), Lon: math.Min(a.Lon, b.Lon)},
		NorthEast: Coordinate{Lat: math.Max(a.Lat, b.Lat), Lon: math.Max(a.Lon, b.Lon)},
	}, nil
}

// Degenerate reports whether the box has collapsed to a line or a point.
func (b BoundingBox) Degenerate() bool {
	return b.SouthWest.Lat == b.NorthEast.Lat || b.SouthWest.Lon == b.NorthEast.Lon
}

// Polygon returns the closed boundary ring of the box.
func (b BoundingBox) Polygon() Polygon {
	return Polygon{box: b}
}

// Build is shorthand for NewBoundingBox followed by Polygon.
func Build(a, b Coordinate) (Polygon, error) {
	box, err := NewBoundingBox(a, b)
	if err != nil {
		return Polygon{}, err
	}
	return box.Polygon(), nil
}

// Position is a [longitude, latitude] pair, GeoJSON order.
type Position [2]float64

// Polygon is a rectangular ring produced from a BoundingBox.
type Polygon struct {
	box BoundingBox
}

// Bounds returns the rectangle the polygon was built from.
func (p Polygon) Bounds() BoundingBox {
	return p.box
}

// Ring returns five positions, counter-clockwise from the south-west corner,
// with the last repeating the first.
func (p Polygon) Ring() []Position {
	sw, ne := p.box.SouthWest, p.box.NorthEast
	return []Position{
		{sw.Lon, sw.Lat},
		{ne.Lon, sw.Lat},
		{ne.Lon, ne.Lat},
		{sw.Lon, ne.Lat},
		{sw.Lon, sw.Lat},
	}
}

// Contains reports whether the point lies inside the rectangle or on its
// boundary. Degenerate rectangles reduce to interval membership.
func (p Polygon) Contains(lon, lat float64) bool {
	sw, ne := p.box.SouthWest, p.box.NorthEast
	return lat >= sw.Lat && lat <= ne.Lat && lon >= sw.Lon && lon <= ne.Lon
}
