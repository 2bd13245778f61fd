package domain

// Segment is one version of a canonical trail segment (BHSzakasz) connecting
// two checkpoints. Matching is undirected; Start/End record the direction in
// which ElevationGain and TimeLimitForward were measured.
type Segment struct {
	ObjectID          int64
	ID                string
	MajorSectionID    string
	Name              string
	StartName         string
	EndName           string
	StartCheckpointID string
	EndCheckpointID   string
	LengthKm          float64
	ElevationGain     int    // metres climbed walking Start -> End
	ElevationLoss     int    // metres descended walking Start -> End
	TimeLimitForward  string // "HH:MM"
	TimeLimitReverse  string // "HH:MM"
	Trail             Trail
	Validity          Validity

	// Connector marks a synthetic zero-length segment bridging a gap in the
	// active network, such as a ferry crossing.
	Connector bool
}

// Connects reports whether the segment joins a and b in either direction.
func (s Segment) Connects(a, b string) bool {
	return (s.StartCheckpointID == a && s.EndCheckpointID == b) ||
		(s.StartCheckpointID == b && s.EndCheckpointID == a)
}

// MajorSection is a named, versioned grouping of segments (NagySzakasz) used
// for section-level completion credit.
type MajorSection struct {
	ObjectID          int64
	ID                string
	Name              string
	Trail             Trail
	StartCheckpointID string
	EndCheckpointID   string
	LengthKm          float64
	Validity          Validity
}

// TrailDefinition is one version of a trail program definition (Turamozgalom)
// naming its official start and end checkpoints.
type TrailDefinition struct {
	ObjectID          int64
	Trail             Trail
	Name              string
	StartCheckpointID string
	EndCheckpointID   string
	LengthKm          float64
	Validity          Validity
}
