package geospatial

import "math"

const earthRadiusKm = 6371.0

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
// Cheap prefilter before exact haversine checks on marker collections.
func BoundingBox(lat, lng, radiusMeters float64) (minLat, minLng, maxLat, maxLng float64) {
	latDelta := radiusMeters / 111320.0
	lngDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lng - lngDelta, lat + latDelta, lng + lngDelta
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
