package weather

import "math"

const (
	kmPerDegree = 111.0

	// DefaultRadiusKm is the half-width of the box drawn around a site.
	DefaultRadiusKm = 50.0
)

// BoundingBox is a rough lat/lon rectangle around a point.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

// BoxAround approximates a square of radiusKm around (lat, lon).
// One degree of latitude is ~111 km; a degree of longitude shrinks with cos(lat).
func BoxAround(lat, lon, radiusKm float64) BoundingBox {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	deltaLat := radiusKm / kmPerDegree
	deltaLon := radiusKm / (kmPerDegree * math.Cos(lat*math.Pi/180))

	return BoundingBox{
		MinLat: lat - deltaLat,
		MaxLat: lat + deltaLat,
		MinLon: lon - deltaLon,
		MaxLon: lon + deltaLon,
	}
}
