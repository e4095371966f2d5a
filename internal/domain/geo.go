package domain

// Coordinates is a WGS84 point.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// DistanceResult is the road-distance estimate from the studio to an address.
type DistanceResult struct {
	Address     string      `json:"address"`
	Destination Coordinates `json:"destination"`
	StraightKm  float64     `json:"straightKm"`
	DistanceKm  int         `json:"distanceKm"`
}
