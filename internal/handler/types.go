package handler

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/bluetrail/internal/domain"
)

// Request and response bodies of the HTTP API. Field names follow
// spec/openapi.yaml, which keeps the wire names of the booklet app.

// ErrorDetail is the machine-readable code plus a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps every non-2xx body.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status           string     `json:"status"`
	SnapshotLoadedAt *time.Time `json:"snapshotLoadedAt,omitempty"`
}

// StampRequest is one submitted stamp. Unknown fulfillment types and stamp
// points are not request errors; they come back as rejected stamps.
type StampRequest struct {
	StampPointID    string `json:"stampPointId"`
	FulfillmentType string `json:"fulfillmentType"`
	FulfillmentDate int64  `json:"fulfillmentDate"`
}

// ChallengeRequest is the body of POST /challenges.
type ChallengeRequest struct {
	Stamps              []StampRequest `json:"stamps" validate:"max=10000"`
	BookletWhichBlue    string         `json:"bookletWhichBlue" validate:"required,oneof=OKT DDK RPDDK AK"`
	Language            string         `json:"language" validate:"omitempty,oneof=hu en"`
	BirthYear           int            `json:"birthYear" validate:"omitempty,gte=1900,lte=2100"`
	PreviouslyCompleted bool           `json:"previouslyCompleted"`
}

// Checkpoint describes the checkpoint version a stamp was bound to.
type Checkpoint struct {
	ID           string  `json:"bh_id"`
	StampPointID string  `json:"mtsz_id"`
	Name         string  `json:"bh_nev"`
	ObjectID     int64   `json:"objectid"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
}

// Stamp is an ingested stamp. Digital stamps carry a timestamp, manual ones a
// calendar date.
type Stamp struct {
	Index       int                 `json:"index"`
	Checkpoint  Checkpoint          `json:"bh"`
	StampType   domain.StampKind    `json:"stamp_type"`
	StampedAt   *time.Time          `json:"stamping_time,omitempty"`
	StampedDate *openapi_types.Date `json:"stamping_date,omitempty"`
}

// RejectedStamp is a submitted stamp excluded at ingestion.
type RejectedStamp struct {
	Index        int    `json:"index"`
	StampPointID string `json:"stampPointId"`
	Reason       string `json:"reason"`
}

// Segment is one crossed (or still missing) canonical segment.
type Segment struct {
	ID                string  `json:"bhszakasz_id"`
	MajorSectionID    string  `json:"nagyszakasz_id,omitempty"`
	StartCheckpointID string  `json:"kezdopont_bh_id"`
	EndCheckpointID   string  `json:"vegpont_bh_id"`
	StartName         string  `json:"kezdopont,omitempty"`
	EndName           string  `json:"vegpont,omitempty"`
	LengthKm          float64 `json:"hossz_km"`
}

// Traversal is a classified segment crossing.
type Traversal struct {
	Segment        Segment              `json:"bh_szakasz"`
	Kind           domain.TraversalKind `json:"kind"`
	Direction      domain.Direction     `json:"direction"`
	StartStamp     *int                 `json:"start_stamp_index,omitempty"`
	EndStamp       *int                 `json:"end_stamp_index,omitempty"`
	ElapsedSeconds *float64             `json:"elapsed_seconds,omitempty"`
	SpeedMPS       *float64             `json:"speed_mps,omitempty"`
	CrowFliesKm    *float64             `json:"crow_flies_km,omitempty"`
}

// MainSection reports completion of one major section.
type MainSection struct {
	ID        string `json:"nagyszakasz_id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// ChallengeResponse is the body of a successful POST /challenges.
type ChallengeResponse struct {
	Status           string             `json:"status"`
	ID               openapi_types.UUID `json:"id"`
	Trail            domain.Trail       `json:"mozgalom"`
	StartCheckpoint  string             `json:"mozgalom_kezdoBH"`
	EndCheckpoint    string             `json:"mozgalom_vegpontBH"`
	SortedStamps     []Stamp            `json:"sorted_BHD"`
	RejectedStamps   []RejectedStamp    `json:"rejected_stamps"`
	Validated        []Traversal        `json:"valid_bhszd"`
	BestPath         []Traversal        `json:"best_path"`
	MainSections     []MainSection      `json:"main_sections"`
	Statistics       domain.Statistics  `json:"statistics"`
	SnapshotLoadedAt time.Time          `json:"snapshot_loaded_at"`
}
