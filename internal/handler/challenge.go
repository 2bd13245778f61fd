package handler

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/service"
)

// CreateChallenge handles POST /challenges.
// Use ?format=csv to receive only the best path as CSV; default is JSON.
func (s *Server) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	var body ChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody(codeRequestTooLarge, "en"))
		case errors.Is(err, io.EOF):
			writeJSON(w, http.StatusUnprocessableEntity, requestBody("request body is required"))
		default:
			writeJSON(w, http.StatusUnprocessableEntity, requestBody("malformed JSON: "+err.Error()))
		}
		return
	}
	lang := body.Language
	if lang == "" {
		lang = "hu"
	}
	if err := s.validate.Struct(body); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(fieldErrors(err)))
		return
	}

	trail, err := domain.ParseTrail(body.BookletWhichBlue)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody(err))
		return
	}

	cert, err := s.certs.Certify(r.Context(), ServiceRequest(trail, body))
	if err != nil {
		status, resp, known := certifyError(err, lang)
		if !known {
			s.log.Error("certification failed",
				"request_id", chimiddleware.GetReqID(r.Context()),
				"trail", string(trail),
				"error", err,
			)
		}
		writeJSON(w, status, resp)
		return
	}

	if wantsCSV(r) {
		writePathCSV(w, cert)
		return
	}
	writeJSON(w, http.StatusOK, NewChallengeResponse(cert))
}

// --- mapping helpers --------------------------------------------------------

// ServiceRequest converts a request body into a certification request for t.
func ServiceRequest(t domain.Trail, body ChallengeRequest) service.Request {
	stamps := make([]domain.StampInput, len(body.Stamps))
	for i, st := range body.Stamps {
		stamps[i] = domain.StampInput{
			StampPointID: st.StampPointID,
			Kind:         st.FulfillmentType,
			Unix:         st.FulfillmentDate,
		}
	}
	return service.Request{
		Trail:               t,
		Stamps:              stamps,
		BirthYear:           body.BirthYear,
		PreviouslyCompleted: body.PreviouslyCompleted,
	}
}

// NewChallengeResponse renders a certification in the API wire format.
func NewChallengeResponse(c service.Certification) ChallengeResponse {
	resp := ChallengeResponse{
		Status:           "success",
		ID:               c.ID,
		Trail:            c.Trail,
		StartCheckpoint:  c.Definition.StartCheckpointID,
		EndCheckpoint:    c.Definition.EndCheckpointID,
		SortedStamps:     make([]Stamp, len(c.Stamps)),
		RejectedStamps:   make([]RejectedStamp, len(c.Rejected)),
		Validated:        make([]Traversal, len(c.Validated)),
		BestPath:         make([]Traversal, len(c.BestPath)),
		MainSections:     make([]MainSection, len(c.Sections)),
		Statistics:       c.Statistics,
		SnapshotLoadedAt: c.SnapshotLoadedAt,
	}
	for i, st := range c.Stamps {
		resp.SortedStamps[i] = stampToResponse(st)
	}
	for i, rj := range c.Rejected {
		resp.RejectedStamps[i] = RejectedStamp{Index: rj.Index, StampPointID: rj.StampPointID, Reason: rj.Reason}
	}
	for i, tr := range c.Validated {
		resp.Validated[i] = traversalToResponse(tr)
	}
	for i, tr := range c.BestPath {
		resp.BestPath[i] = traversalToResponse(tr)
	}
	for i, sec := range c.Sections {
		resp.MainSections[i] = MainSection{ID: sec.Section.ID, Name: sec.Section.Name, Completed: sec.Completed}
	}
	return resp
}

func stampToResponse(st domain.Stamp) Stamp {
	out := Stamp{
		Index: st.Index,
		Checkpoint: Checkpoint{
			ID:           st.Checkpoint.ID,
			StampPointID: st.Checkpoint.StampPointID,
			Name:         st.Checkpoint.Name,
			ObjectID:     st.Checkpoint.ObjectID,
			Lat:          st.Checkpoint.Lat,
			Lon:          st.Checkpoint.Lon,
		},
		StampType: st.Kind,
	}
	if st.Kind == domain.StampManual {
		out.StampedDate = &openapi_types.Date{Time: st.Time}
	} else {
		at := st.Time
		out.StampedAt = &at
	}
	return out
}

func traversalToResponse(t domain.Traversal) Traversal {
	seg := t.Segment
	out := Traversal{
		Segment: Segment{
			ID:                seg.ID,
			MajorSectionID:    seg.MajorSectionID,
			StartCheckpointID: seg.StartCheckpointID,
			EndCheckpointID:   seg.EndCheckpointID,
			StartName:         seg.StartName,
			EndName:           seg.EndName,
			LengthKm:          seg.LengthKm,
		},
		Kind:      t.Kind,
		Direction: t.Direction,
	}
	if !t.Kind.Evidenced() {
		return out
	}
	start, end := t.Start.Index, t.End.Index
	out.StartStamp, out.EndStamp = &start, &end
	if t.Kind == domain.KindDigital {
		secs := t.Elapsed.Seconds()
		out.ElapsedSeconds = &secs
		if !math.IsInf(t.SpeedMPS, 0) && !math.IsNaN(t.SpeedMPS) {
			speed := t.SpeedMPS
			out.SpeedMPS = &speed
		}
	}
	if t.Start.Checkpoint.HasLocation() && t.End.Checkpoint.HasLocation() {
		km := t.Start.Checkpoint.DistanceKm(t.End.Checkpoint)
		out.CrowFliesKm = &km
	}
	return out
}
