// Package geo holds the point type shared by users, items and requests.
//
// Storage and API payloads carry coordinates as [longitude, latitude] (GeoJSON order).
// Map clients submit [latitude, longitude]; FromLatLng converts at that boundary.
package geo

import (
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/sudo-init-do/ecosync/internal/errs"
)

// DefaultMaxDistance is the nearby radius in meters when the caller gives none.
const DefaultMaxDistance = 5000

// Point is a WGS84 coordinate.
type Point struct {
	Lng float64
	Lat float64
}

// FromLngLat builds a Point from a GeoJSON ordered pair.
func FromLngLat(pair []float64) (Point, error) {
	if len(pair) != 2 {
		return Point{}, fmt.Errorf("coordinates must have 2 values, got %d", len(pair))
	}
	return Point{Lng: pair[0], Lat: pair[1]}, nil
}

// FromLatLng builds a Point from a map-ordered pair ([lat, lng]).
func FromLatLng(pair []float64) (Point, error) {
	if len(pair) != 2 {
		return Point{}, fmt.Errorf("coordinates must have 2 values, got %d", len(pair))
	}
	return Point{Lng: pair[1], Lat: pair[0]}, nil
}

// Coordinates returns the GeoJSON ordered pair.
func (p Point) Coordinates() []float64 { return []float64{p.Lng, p.Lat} }

// LatLng returns the pair in map order.
func (p Point) LatLng() []float64 { return []float64{p.Lat, p.Lng} }

// Valid reports whether the point is within WGS84 bounds.
func (p Point) Valid() bool {
	return !math.IsNaN(p.Lng) && !math.IsNaN(p.Lat) &&
		p.Lng >= -180 && p.Lng <= 180 && p.Lat >= -90 && p.Lat <= 90
}

type geoJSON struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// MarshalJSON renders the point as a GeoJSON Point.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoJSON{Type: "Point", Coordinates: p.Coordinates()})
}

// UnmarshalJSON accepts a GeoJSON Point.
func (p *Point) UnmarshalJSON(b []byte) error {
	var g geoJSON
	if err := json.Unmarshal(b, &g); err != nil {
		return err
	}
	pt, err := FromLngLat(g.Coordinates)
	if err != nil {
		return err
	}
	*p = pt
	return nil
}

// Location is a point with an optional free-text address.
type Location struct {
	Point
	Address string
}

// MarshalJSON renders the location as a GeoJSON Point with an address member.
func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		geoJSON
		Address string `json:"address,omitempty"`
	}{geoJSON{Type: "Point", Coordinates: l.Coordinates()}, l.Address})
}

// UnmarshalJSON accepts the shape written by MarshalJSON.
func (l *Location) UnmarshalJSON(b []byte) error {
	var g struct {
		geoJSON
		Address string `json:"address"`
	}
	if err := json.Unmarshal(b, &g); err != nil {
		return err
	}
	pt, err := FromLngLat(g.Coordinates)
	if err != nil {
		return err
	}
	*l = Location{Point: pt, Address: g.Address}
	return nil
}

// DistanceSQL returns a great-circle distance expression in meters between the lng/lat
// columns of the given table alias and ($1, $2). Callers bind $1 = longitude and
// $2 = latitude. The ASIN argument is clamped to 1 so rounding on near-antipodal
// points stays in range.
func DistanceSQL(alias string) string {
	lng, lat := alias+".lng", alias+".lat"
	return fmt.Sprintf(`(6371000 * 2 * ASIN(LEAST(1, SQRT(
	POWER(SIN(RADIANS(%[2]s - $2) / 2), 2) +
	COS(RADIANS($2)) * COS(RADIANS(%[2]s)) * POWER(SIN(RADIANS(%[1]s - $1) / 2), 2)))))`, lng, lat)
}

// ParseNearby parses the lng, lat and maxDistance query parameters of a nearby lookup.
// An empty maxDistance means DefaultMaxDistance.
func ParseNearby(lngRaw, latRaw, maxRaw string) (Point, float64, error) {
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return Point{}, 0, errs.Invalid("lng must be a number")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return Point{}, 0, errs.Invalid("lat must be a number")
	}
	p := Point{Lng: lng, Lat: lat}
	if !p.Valid() {
		return Point{}, 0, errs.Invalid("coordinates out of range")
	}

	maxDistance := float64(DefaultMaxDistance)
	if maxRaw != "" {
		if maxDistance, err = strconv.ParseFloat(maxRaw, 64); err != nil || maxDistance < 0 {
			return Point{}, 0, errs.Invalid("maxDistance must be a non-negative number")
		}
	}
	return p, maxDistance, nil
}
