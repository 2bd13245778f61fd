package graph

import (
	"fmt"
	"time"

	"github.com/pkordes/bluetrail/internal/domain"
)

// Weights is the edge cost policy. Any evidenced traversal must beat any
// unconfirmed one and digital evidence must beat manual evidence, whatever the
// staleness term adds.
type Weights struct {
	Digital float64
	Manual  float64
	Default float64

	// StalenessCapMinutes bounds the staleness term so the ordering above
	// holds for arbitrarily old evidence.
	StalenessCapMinutes float64
}

// DefaultWeights returns the production cost policy.
func DefaultWeights() Weights {
	return Weights{
		Digital:             1,
		Manual:              1e9,
		Default:             1e15,
		StalenessCapMinutes: 1e8,
	}
}

// Validate checks that the kind tiers cannot overlap.
func (w Weights) Validate() error {
	if w.Digital <= 0 || w.StalenessCapMinutes < 0 {
		return fmt.Errorf("%w: weights must be positive", domain.ErrValidation)
	}
	if w.Digital+w.StalenessCapMinutes >= w.Manual {
		return fmt.Errorf("%w: digital weight plus staleness cap must stay below manual weight", domain.ErrValidation)
	}
	if w.Manual+w.StalenessCapMinutes >= w.Default {
		return fmt.Errorf("%w: manual weight plus staleness cap must stay below default weight", domain.ErrValidation)
	}
	return nil
}

// Weigh returns the cost of t evaluated at now. The staleness term is the age
// of the evidence in minutes, so fresher evidence is cheaper within a tier.
func (w Weights) Weigh(t domain.Traversal, now time.Time) float64 {
	switch t.Kind {
	case domain.KindDefault:
		return w.Default
	case domain.KindConnector:
		return w.Digital
	case domain.KindManual:
		return w.Manual + w.staleness(t, now)
	default:
		return w.Digital + w.staleness(t, now)
	}
}

func (w Weights) staleness(t domain.Traversal, now time.Time) float64 {
	minutes := now.Sub(t.ValidatedAt).Seconds() / 60
	if minutes < 0 {
		minutes = -minutes
	}
	if minutes > w.StalenessCapMinutes {
		return w.StalenessCapMinutes
	}
	return minutes
}
