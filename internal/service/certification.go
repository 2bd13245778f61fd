// Package service contains the certification pipeline. It ingests submitted
// stamps, resolves the trail's official endpoints and runs the validator,
// graph builder, best-path search and statistics engine over one immutable
// reference snapshot. No SQL or HTTP lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/bluetrail/internal/domain"
	"github.com/pkordes/bluetrail/internal/graph"
	"github.com/pkordes/bluetrail/internal/reference"
	"github.com/pkordes/bluetrail/internal/stats"
	"github.com/pkordes/bluetrail/internal/validation"
)

// SnapshotSource hands out the current reference snapshot.
// *reference.Store satisfies it.
type SnapshotSource interface {
	Load() (*reference.Snapshot, error)
}

// Observer receives the outcome of every certification.
// *metrics.Metrics satisfies it.
type Observer interface {
	ObserveCertification(trail, outcome string, seconds float64)
	ObserveTraversals(trail, kind string, n int)
	ObserveRejectedStamps(trail string, n int)
}

// Policy collects the tunable knobs of the pipeline.
type Policy struct {
	Validation validation.Policy
	Weights    graph.Weights

	// Location is the calendar used for day boundaries.
	Location *time.Location
	// Epoch is the earliest instant reference data is versioned from.
	// Reference lookups for older stamps use it in place of the stamp time;
	// the stamp itself keeps its own time.
	Epoch time.Time
}

// DefaultPolicy returns the production policy in UTC. Callers normally
// override Location with the trail's local zone.
func DefaultPolicy() Policy {
	return Policy{
		Validation: validation.DefaultPolicy(),
		Weights:    graph.DefaultWeights(),
		Location:   time.UTC,
		Epoch:      time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Request is one certification request.
type Request struct {
	Trail  domain.Trail
	Stamps []domain.StampInput

	// Reporting context only; the pipeline does not read these.
	BirthYear           int
	PreviouslyCompleted bool
}

// Certification is the full outcome of one request.
type Certification struct {
	ID         uuid.UUID
	Trail      domain.Trail
	Definition domain.TrailDefinition

	Stamps    []domain.Stamp // in validation order
	Rejected  []domain.RejectedStamp
	Validated []domain.Traversal
	BestPath  []domain.Traversal
	Sections  []graph.SectionResult

	Statistics domain.Statistics

	BirthYear           int
	PreviouslyCompleted bool
	SnapshotLoadedAt    time.Time
}

// Option customises a CertificationService.
type Option func(*CertificationService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *CertificationService) { s.now = now }
}

// WithObserver reports outcomes to o.
func WithObserver(o Observer) Option {
	return func(s *CertificationService) { s.observer = o }
}

// CertificationService runs the certification pipeline. It holds no
// per-request state and is safe for concurrent use.
type CertificationService struct {
	source   SnapshotSource
	policy   Policy
	now      func() time.Time
	observer Observer
}

// NewCertificationService constructs a CertificationService reading
// snapshots from src.
func NewCertificationService(src SnapshotSource, p Policy, opts ...Option) *CertificationService {
	if p.Location == nil {
		p.Location = time.UTC
	}
	s := &CertificationService{source: src, policy: p, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Certify validates the submitted stamps and computes completion statistics.
//
// Returns domain.ErrUnknownTrail for an unsupported trail,
// domain.ErrSnapshotUnavailable before reference data is loaded,
// domain.ErrAmbiguousTrailEndpoints when the trail's start or end changed
// within the stamp date range, and domain.ErrNoPathFound when the trail start
// cannot be connected to its end. Malformed stamps never fail the request;
// they are listed in Certification.Rejected.
func (s *CertificationService) Certify(ctx context.Context, req Request) (Certification, error) {
	began := time.Now()
	c, err := s.certify(ctx, req)
	s.observe(req.Trail, c, err, time.Since(began))
	if err != nil {
		return Certification{}, fmt.Errorf("service.CertificationService.Certify: %w", err)
	}
	return c, nil
}

func (s *CertificationService) certify(ctx context.Context, req Request) (Certification, error) {
	if err := ctx.Err(); err != nil {
		return Certification{}, err
	}
	if _, err := domain.ParseTrail(string(req.Trail)); err != nil {
		return Certification{}, err
	}
	snap, err := s.source.Load()
	if err != nil {
		return Certification{}, err
	}
	now := s.now().In(s.policy.Location)

	stamps, rejected := s.ingest(snap, req.Stamps)
	def, err := endpoints(snap, req.Trail, stamps, now)
	if err != nil {
		return Certification{}, err
	}

	vp := s.policy.Validation
	vp.Epoch = s.policy.Epoch
	validated := validation.NewValidator(snap, vp).Validate(stamps, req.Trail)
	g := graph.Build(snap.DefaultGraph(req.Trail), validated, s.policy.Weights, now)
	path, err := graph.BestPath(g, def.StartCheckpointID, def.EndCheckpointID)
	if err != nil {
		return Certification{}, err
	}
	sections := graph.CompleteSections(path, snap.ActiveSections(req.Trail))
	best := path.Traversals()

	return Certification{
		ID:         uuid.New(),
		Trail:      req.Trail,
		Definition: def,
		Stamps:     validation.SortStamps(stamps, req.Trail),
		Rejected:   rejected,
		Validated:  validated,
		BestPath:   best,
		Sections:   sections,
		Statistics: stats.Compute(stats.Input{
			Validated:         validated,
			BestPath:          best,
			CompletedSections: graph.CountCompleted(sections),
			AllSections:       len(sections),
			Now:               now,
		}),
		BirthYear:           req.BirthYear,
		PreviouslyCompleted: req.PreviouslyCompleted,
		SnapshotLoadedAt:    snap.LoadedAt(),
	}, nil
}

// ingest binds each input to the checkpoint version valid at its time.
// Inputs that cannot be bound are returned as rejected, in input order.
func (s *CertificationService) ingest(snap *reference.Snapshot, in []domain.StampInput) ([]domain.Stamp, []domain.RejectedStamp) {
	stamps := make([]domain.Stamp, 0, len(in))
	var rejected []domain.RejectedStamp
	reject := func(i int, si domain.StampInput, reason string) {
		rejected = append(rejected, domain.RejectedStamp{Index: i, StampPointID: si.StampPointID, Reason: reason})
	}

	for i, si := range in {
		kind, err := domain.ParseStampKind(si.Kind)
		if err != nil {
			reject(i, si, err.Error())
			continue
		}
		if si.Unix <= 0 {
			reject(i, si, fmt.Sprintf("%s: missing timestamp", domain.ErrMalformedStamp))
			continue
		}
		at := time.Unix(si.Unix, 0).In(s.policy.Location)
		lookup := at
		if lookup.Before(s.policy.Epoch) {
			lookup = s.policy.Epoch.In(s.policy.Location)
		}
		cp, ok := snap.CheckpointAt(si.StampPointID, lookup)
		if !ok {
			reject(i, si, fmt.Sprintf("%s: no checkpoint for stamp point %q on %s", domain.ErrMalformedStamp, si.StampPointID, lookup.Format(time.DateOnly)))
			continue
		}
		if kind == domain.StampManual {
			at = domain.StartOfDay(at)
		}
		stamps = append(stamps, domain.Stamp{Index: i, Checkpoint: cp, Kind: kind, Time: at})
	}
	return stamps, rejected
}

// endpoints derives the trail definition in force over the stamp date range.
// Every definition version overlapping the range must agree on the start and
// on the end checkpoint. Without stamps the range is the single instant now.
func endpoints(snap *reference.Snapshot, t domain.Trail, stamps []domain.Stamp, now time.Time) (domain.TrailDefinition, error) {
	from, to := now, now
	for i, st := range stamps {
		if i == 0 || st.Time.Before(from) {
			from = st.Time
		}
		if i == 0 || st.Time.After(to) {
			to = st.Time
		}
	}

	defs := snap.Definitions(t, from, to)
	if len(defs) == 0 {
		if def, ok := snap.ActiveDefinition(t); ok {
			return def, nil
		}
		return domain.TrailDefinition{}, fmt.Errorf("trail definition for %s: %w", t, domain.ErrNotFound)
	}

	starts := make(map[string]struct{})
	ends := make(map[string]struct{})
	for _, d := range defs {
		starts[d.StartCheckpointID] = struct{}{}
		ends[d.EndCheckpointID] = struct{}{}
	}
	if len(starts) > 1 || len(ends) > 1 {
		return domain.TrailDefinition{}, fmt.Errorf("%w: %s between %s and %s: starts [%s], ends [%s]",
			domain.ErrAmbiguousTrailEndpoints, t, from.Format(time.DateOnly), to.Format(time.DateOnly),
			joinKeys(starts), joinKeys(ends))
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Validity.Start.After(defs[j].Validity.Start) })
	return defs[0], nil
}

func joinKeys(m map[string]struct{}) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}

func (s *CertificationService) observe(t domain.Trail, c Certification, err error, elapsed time.Duration) {
	if s.observer == nil {
		return
	}
	trail := string(t)
	s.observer.ObserveCertification(trail, Outcome(err), elapsed.Seconds())
	if err != nil {
		return
	}
	counts := make(map[domain.TraversalKind]int)
	for _, tr := range c.Validated {
		counts[tr.Kind]++
	}
	for _, k := range []domain.TraversalKind{domain.KindDigital, domain.KindManual} {
		s.observer.ObserveTraversals(trail, string(k), counts[k])
	}
	s.observer.ObserveRejectedStamps(trail, len(c.Rejected))
}

// Outcome names the result class of a Certify error for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNoPathFound):
		return "no_path"
	case errors.Is(err, domain.ErrAmbiguousTrailEndpoints):
		return "ambiguous_endpoints"
	case errors.Is(err, domain.ErrSnapshotUnavailable):
		return "snapshot_unavailable"
	case errors.Is(err, domain.ErrUnknownTrail), errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "error"
}
