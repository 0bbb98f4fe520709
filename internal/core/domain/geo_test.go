package domain_test

import (
	"math"
	"testing"

	"github.com/ziadnadir777/ccn-optiway-app/internal/core/domain"
)

func TestGeoPointEqual(t *testing.T) {
	a := domain.GeoPoint{Lat: 43.263, Lng: -2.935}

	if !a.Equal(domain.GeoPoint{Lat: 43.263, Lng: -2.935}) {
		t.Error("identical coordinates must compare equal")
	}
	// Matching is exact: a difference in the last bit is a different point.
	nudged := domain.GeoPoint{Lat: math.Nextafter(43.263, 44), Lng: -2.935}
	if a.Equal(nudged) {
		t.Error("a one-ulp difference must not compare equal")
	}
}

func TestPolylineEqual(t *testing.T) {
	square := []domain.GeoPoint{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 0}}

	tests := []struct {
		name string
		a, b []domain.GeoPoint
		want bool
	}{
		{"identical", square, square, true},
		{"both empty", nil, []domain.GeoPoint{}, true},
		{"different length", square, square[:3], false},
		{"reordered vertices", square, []domain.GeoPoint{{Lat: 1, Lng: 0}, {Lat: 1, Lng: 1}, {Lat: 0, Lng: 1}, {Lat: 0, Lng: 0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := domain.PolylineEqual(tt.a, tt.b); got != tt.want {
				t.Errorf("PolylineEqual = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSamplePolyline(t *testing.T) {
	line := make([]domain.GeoPoint, 12)
	for i := range line {
		line[i] = domain.GeoPoint{Lat: float64(i), Lng: float64(-i)}
	}

	tests := []struct {
		name    string
		n       int
		stride  int
		indices []int
	}{
		{"twelve points stride five", 12, 5, []int{0, 5, 10}},
		{"eleven points stride five", 11, 5, []int{0, 5, 10}},
		{"ten points stride five", 10, 5, []int{0, 5}},
		{"stride one keeps everything", 4, 1, []int{0, 1, 2, 3}},
		{"stride beyond length", 3, 10, []int{0}},
		{"zero stride falls back to one", 3, 0, []int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.SamplePolyline(line[:tt.n], tt.stride)
			if len(got) != len(tt.indices) {
				t.Fatalf("expected %d samples, got %d", len(tt.indices), len(got))
			}
			for i, idx := range tt.indices {
				if !got[i].Equal(line[idx]) {
					t.Errorf("sample %d: expected point at index %d, got %v", i, idx, got[i])
				}
			}
		})
	}

	if got := domain.SamplePolyline(nil, 5); got != nil {
		t.Errorf("expected nil for an empty line, got %v", got)
	}
}

func TestPolylineLength(t *testing.T) {
	// One degree of latitude is ~111.2km.
	line := []domain.GeoPoint{{Lat: 43, Lng: -2.9}, {Lat: 44, Lng: -2.9}}
	got := domain.PolylineLength(line)
	if got < 110_000 || got > 112_500 {
		t.Errorf("expected roughly 111km, got %.0fm", got)
	}

	if domain.PolylineLength(nil) != 0 {
		t.Error("expected zero length for an empty line")
	}
	if domain.PolylineLength(line[:1]) != 0 {
		t.Error("expected zero length for a single point")
	}
}
