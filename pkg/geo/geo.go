// Package geo holds the campus distance helpers shared by navigation and
// location features. Everything here is pure and safe for concurrent use.
package geo

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	// EarthRadiusMeters is the mean spherical radius used by the haversine formula.
	EarthRadiusMeters = 6371000.0

	// DefaultWalkingSpeed is the assumed walking pace in meters per minute (about 5 km/h).
	DefaultWalkingSpeed = 83.0

	// MobileWalkingSpeed is the pace the mobile client historically used. It is kept
	// only so the divergence from DefaultWalkingSpeed stays visible.
	MobileWalkingSpeed = 84.0
)

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Distance returns the great-circle distance in meters between two coordinates.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// Between is Distance for two points.
func Between(a, b Point) float64 {
	return Distance(a.Lat, a.Lon, b.Lat, b.Lon)
}

// WalkingTimeMinutes converts a distance to whole minutes at DefaultWalkingSpeed.
func WalkingTimeMinutes(distanceMeters float64) int {
	return Estimator{SpeedMetersPerMinute: DefaultWalkingSpeed}.WalkingTimeMinutes(distanceMeters)
}

// Estimator converts distances into walking time at a configurable pace.
type Estimator struct {
	SpeedMetersPerMinute float64
}

// WalkingTimeMinutes rounds up, so any positive distance takes at least one minute.
func (e Estimator) WalkingTimeMinutes(distanceMeters float64) int {
	if distanceMeters <= 0 {
		return 0
	}
	speed := e.SpeedMetersPerMinute
	if speed <= 0 {
		speed = DefaultWalkingSpeed
	}
	return int(math.Ceil(distanceMeters / speed))
}

// FormatDistance renders meters below one kilometer and kilometers with one decimal above.
func FormatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%dm", int(math.Round(meters)))
	}
	return fmt.Sprintf("%.1fkm", meters/1000)
}

// ParseCoordinate parses a decimal-degree string as stored on buildings and locations.
func ParseCoordinate(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("parse coordinate %q: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse coordinate %q: not finite", raw)
	}
	return v, nil
}

// ParsePoint parses a latitude/longitude string pair.
func ParsePoint(lat, lon string) (Point, error) {
	la, err := ParseCoordinate(lat)
	if err != nil {
		return Point{}, err
	}
	lo, err := ParseCoordinate(lon)
	if err != nil {
		return Point{}, err
	}
	if la < -90 || la > 90 || lo < -180 || lo > 180 {
		return Point{}, fmt.Errorf("coordinate out of range: %s,%s", lat, lon)
	}
	return Point{Lat: la, Lon: lo}, nil
}

// Ranked pairs an index into the caller's slice with its distance from an origin.
type Ranked struct {
	Index  int
	Meters float64
}

// Nearest ranks candidates by distance from origin, closest first. Candidates
// farther than maxMeters are dropped when maxMeters is positive.
func Nearest(origin Point, candidates []Point, maxMeters float64) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for i, p := range candidates {
		d := Between(origin, p)
		if maxMeters > 0 && d > maxMeters {
			continue
		}
		ranked = append(ranked, Ranked{Index: i, Meters: d})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Meters < ranked[j].Meters })
	return ranked
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180)
}
