package geo

import "math"

// Mean Earth radius in nautical miles.
const earthRadiusNm = 3440.065

// HaversineNm returns the great-circle distance in nautical miles between two
// latitude/longitude pairs. Invalid inputs propagate as NaN; callers guard.
func HaversineNm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Pow(math.Sin(dLon/2), 2)

	return 2 * earthRadiusNm * math.Asin(math.Sqrt(a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
