package testutil

import (
	"fmt"
	"time"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/reference"
)

// Epoch is the validity start of every fixture record.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// CheckpointID returns the fixture id of the n-th OKT checkpoint, e.g. "OKTPH_03".
func CheckpointID(n int) string {
	return fmt.Sprintf("OKTPH_%02d", n)
}

// StampPointID returns the external stamp point id of the n-th checkpoint.
func StampPointID(n int) string {
	return fmt.Sprintf("SP%d", n)
}

// SegmentLengthsKm are the lengths of the fixture segments 1->2 .. 4->5.
var SegmentLengthsKm = []float64{3, 4, 5, 2}

// TrailData returns a small active OKT network:
//
//	OKTPH_01 -S1- OKTPH_02 -S2- OKTPH_03 -S3- OKTPH_04 -S4- OKTPH_05
//	|------------ M1 ----------|------------ M2 ----------|
//
// Checkpoints sit about 0.76 km apart along a parallel, so no segment is
// shorter than its straight line.
func TrailData() reference.Data {
	var d reference.Data
	for n := 1; n <= 5; n++ {
		d.Checkpoints = append(d.Checkpoints, domain.Checkpoint{
			ObjectID:     int64(n),
			ID:           CheckpointID(n),
			StampPointID: StampPointID(n),
			Name:         fmt.Sprintf("Checkpoint %d", n),
			Lat:          47.5,
			Lon:          19.0 + float64(n)*0.01,
			Validity:     domain.Validity{Start: Epoch},
		})
	}
	for i, km := range SegmentLengthsKm {
		section := "M1"
		if i >= 2 {
			section = "M2"
		}
		d.Segments = append(d.Segments, domain.Segment{
			ObjectID:          int64(i + 1),
			ID:                fmt.Sprintf("S%d", i+1),
			MajorSectionID:    section,
			StartCheckpointID: CheckpointID(i + 1),
			EndCheckpointID:   CheckpointID(i + 2),
			LengthKm:          km,
			ElevationGain:     100 * (i + 1),
			ElevationLoss:     10 * (i + 1),
			TimeLimitForward:  "01:00",
			TimeLimitReverse:  "01:30",
			Trail:             domain.TrailOKT,
			Validity:          domain.Validity{Start: Epoch},
		})
	}
	d.Sections = []domain.MajorSection{
		{ObjectID: 1, ID: "M1", Name: "First", Trail: domain.TrailOKT, StartCheckpointID: CheckpointID(1), EndCheckpointID: CheckpointID(3), LengthKm: 7, Validity: domain.Validity{Start: Epoch}},
		{ObjectID: 2, ID: "M2", Name: "Second", Trail: domain.TrailOKT, StartCheckpointID: CheckpointID(3), EndCheckpointID: CheckpointID(5), LengthKm: 7, Validity: domain.Validity{Start: Epoch}},
	}
	d.Definitions = []domain.TrailDefinition{
		{ObjectID: 1, Trail: domain.TrailOKT, Name: "Országos Kéktúra", StartCheckpointID: CheckpointID(1), EndCheckpointID: CheckpointID(5), LengthKm: 14, Validity: domain.Validity{Start: Epoch}},
	}
	return d
}
