package geo

import (
	"fmt"
	"math"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// ToRadians converts degrees to radians.
func ToRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}

// Distance returns the great-circle distance between two points in kilometers
// using the haversine formula on a sphere of radius EarthRadiusKm.
//
// The result is symmetric, zero for identical points and never exceeds
// half of the great-circle circumference (π * EarthRadiusKm).
func Distance(from, to Point) float64 {
	dLat := ToRadians(to.Lat - from.Lat)
	dLng := ToRadians(to.Lng - from.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(ToRadians(from.Lat))*math.Cos(ToRadians(to.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Midpoint returns the arithmetic mean of two points. It is the anchor for
// distance labels, not the geodesic midpoint.
func Midpoint(a, b Point) Point {
	return Point{
		Lat: (a.Lat + b.Lat) / 2,
		Lng: (a.Lng + b.Lng) / 2,
	}
}

// FormatKm renders a distance rounded to two decimals with the "km" unit.
func FormatKm(km float64) string {
	return fmt.Sprintf("%.2f km", km)
}
