package domain

import "github.com/golang/geo/s2"

// Checkpoint is one version of a physical stamping location (BH).
// Several versions may share ID; exactly one is valid at any instant.
type Checkpoint struct {
	ObjectID     int64
	ID           string // trail checkpoint id, e.g. "OKTPH_12"
	StampPointID string // external id carried by submitted stamps
	Name         string
	Lat          float64
	Lon          float64
	Validity     Validity
}

// HasLocation reports whether coordinates were recorded for the checkpoint.
func (c Checkpoint) HasLocation() bool {
	return c.Lat != 0 || c.Lon != 0
}

// LatLng returns the checkpoint position.
func (c Checkpoint) LatLng() s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat, c.Lon)
}

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance to o in kilometres.
func (c Checkpoint) DistanceKm(o Checkpoint) float64 {
	return c.LatLng().Distance(o.LatLng()).Radians() * earthRadiusKm
}
