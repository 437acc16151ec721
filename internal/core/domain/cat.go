package domain

import "time"

// GeoJSONPoint is the only location geometry a cat can carry.
const GeoJSONPoint = "Point"

// Location is a GeoJSON point. Coordinates are [longitude, latitude].
type Location struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewLocation returns a Point at the given longitude and latitude.
func NewLocation(lon, lat float64) Location {
	return Location{Type: GeoJSONPoint, Coordinates: []float64{lon, lat}}
}

// Lon returns the longitude, or 0 for a malformed point.
func (l Location) Lon() float64 {
	if len(l.Coordinates) != 2 {
		return 0
	}
	return l.Coordinates[0]
}

// Lat returns the latitude, or 0 for a malformed point.
func (l Location) Lat() float64 {
	if len(l.Coordinates) != 2 {
		return 0
	}
	return l.Coordinates[1]
}

// Cat is an owned record with a geospatial point attribute.
type Cat struct {
	ID        string
	Name      string
	Weight    float64
	OwnerID   string
	Filename  string
	Birthdate time.Time
	Location  Location
	CreatedAt time.Time
	UpdatedAt time.Time
}
