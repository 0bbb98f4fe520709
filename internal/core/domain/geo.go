package domain

import "github.com/ziadnadir777/ccn-optiway-app/internal/pkg/geospatial"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Equal reports whether two points carry exactly the same coordinates.
// Matching is deliberately exact, not tolerance-based: drawn shapes are
// deleted by comparing the vertices the drawing tool hands back, which
// are the same float64 values that were stored.
func (p GeoPoint) Equal(other GeoPoint) bool {
	return p.Lat == other.Lat && p.Lng == other.Lng
}

// PolylineEqual reports whether two vertex sequences are pairwise equal:
// same length, same order, exact coordinates.
func PolylineEqual(a, b []GeoPoint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// SamplePolyline returns every stride-th point of the line, starting at
// index 0. The trailing partial window is not padded: a 12-point line
// with stride 5 yields the points at indices 0, 5 and 10.
func SamplePolyline(line []GeoPoint, stride int) []GeoPoint {
	if stride <= 0 {
		stride = 1
	}
	var out []GeoPoint
	for i := 0; i < len(line); i += stride {
		out = append(out, line[i])
	}
	return out
}

// PolylineLength returns the length of the line in meters, summing
// great-circle distances between consecutive vertices.
func PolylineLength(line []GeoPoint) float64 {
	var total float64
	for i := 1; i < len(line); i++ {
		total += geospatial.Haversine(line[i-1].Lat, line[i-1].Lng, line[i].Lat, line[i].Lng)
	}
	return total
}
