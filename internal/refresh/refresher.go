// Package refresh keeps the reference snapshot current. A Refresher loads the
// reference tables, builds a new snapshot and swaps it into the store, either
// on demand, on a database change notification or on a fixed interval.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/pkordes/bluetrail/internal/graph"
	"github.com/pkordes/bluetrail/internal/reference"
	"github.com/pkordes/bluetrail/internal/repo"
)

// Reload triggers, used as log attributes and metric labels.
const (
	TriggerStartup   = "startup"
	TriggerNotify    = "notify"
	TriggerInterval  = "interval"
	TriggerReconnect = "reconnect"
)

// Loader reads the reference tables. *repo.ReferenceRepo satisfies it.
type Loader interface {
	Load(ctx context.Context) (reference.Data, error)
}

// Notifier delivers change notifications until ctx ends or the connection
// drops. *repo.Listener satisfies it.
type Notifier interface {
	Listen(ctx context.Context, ready func(), fn func(repo.Notification)) error
}

// Recorder receives reload outcomes. *metrics.Metrics satisfies it.
type Recorder interface {
	ObserveRefresh(trigger string, err error, d time.Duration)
	ObserveSnapshot(loadedAt time.Time, records map[string]int, findings int)
}

// Refresher owns the write side of a reference.Store.
type Refresher struct {
	loader   Loader
	store    *reference.Store
	weights  graph.Weights
	log      *slog.Logger
	notifier Notifier
	recorder Recorder
	interval time.Duration
	backoff  time.Duration
	now      func() time.Time

	group singleflight.Group
	// mu serialises load-and-swap so the last reload to run installs the
	// newest data.
	mu sync.Mutex
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithNotifier enables notification-driven reloads.
func WithNotifier(n Notifier) Option { return func(r *Refresher) { r.notifier = n } }

// WithRecorder reports reloads to rec.
func WithRecorder(rec Recorder) Option { return func(r *Refresher) { r.recorder = rec } }

// WithInterval sets the periodic reload interval. Zero disables it.
func WithInterval(d time.Duration) Option { return func(r *Refresher) { r.interval = d } }

// WithBackoff sets the initial delay before re-subscribing after the
// notification connection fails. It doubles up to one minute.
func WithBackoff(d time.Duration) Option { return func(r *Refresher) { r.backoff = d } }

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) Option { return func(r *Refresher) { r.now = now } }

// New returns a Refresher that installs snapshots into store.
func New(loader Loader, store *reference.Store, w graph.Weights, log *slog.Logger, opts ...Option) *Refresher {
	r := &Refresher{
		loader:  loader,
		store:   store,
		weights: w,
		log:     log,
		backoff: time.Second,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reload loads the reference tables and installs a fresh snapshot. Concurrent
// calls share one load. On error the current snapshot stays in place.
func (r *Refresher) Reload(ctx context.Context, trigger string) error {
	_, err, _ := r.group.Do("reload", func() (any, error) {
		return nil, r.reload(ctx, trigger)
	})
	return err
}

// reloadFresh starts a new load instead of joining one already in flight,
// which may have read the tables before the change being reported.
func (r *Refresher) reloadFresh(ctx context.Context, trigger string) error {
	r.group.Forget("reload")
	return r.Reload(ctx, trigger)
}

func (r *Refresher) reload(ctx context.Context, trigger string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	data, err := r.loader.Load(ctx)
	if err != nil {
		err = fmt.Errorf("refresh.Refresher.Reload: %w", err)
		r.observe(trigger, err, time.Since(start))
		r.log.Error("reference reload failed", "trigger", trigger, "error", err)
		return err
	}

	snap := reference.NewSnapshot(data, r.weights, r.now())
	findings := snap.Audit()
	r.store.Replace(snap)
	r.observe(trigger, nil, time.Since(start))

	for _, f := range findings {
		r.log.Warn("reference data finding", "trail", string(f.Trail), "subject", f.Subject, "problem", f.Problem)
	}
	r.log.Info("reference snapshot installed",
		"trigger", trigger,
		"checkpoints", len(data.Checkpoints),
		"segments", len(data.Segments),
		"findings", len(findings),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if r.recorder != nil {
		r.recorder.ObserveSnapshot(snap.LoadedAt(), records(data), len(findings))
	}
	return nil
}

func (r *Refresher) observe(trigger string, err error, d time.Duration) {
	if r.recorder != nil {
		r.recorder.ObserveRefresh(trigger, err, d)
	}
}

func records(d reference.Data) map[string]int {
	return map[string]int{
		"bhpont":       len(d.Checkpoints),
		"bhszakasz":    len(d.Segments),
		"nagyszakasz":  len(d.Sections),
		"turamozgalom": len(d.Definitions),
	}
}

// Run keeps the snapshot current until ctx is cancelled. Reload failures are
// logged and retried on the next trigger; Run itself only returns nil.
func (r *Refresher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if r.notifier != nil {
		// One slot: a burst of notifications during a reload collapses into
		// a single follow-up reload.
		pending := make(chan struct{}, 1)
		g.Go(func() error { return r.listen(ctx, pending) })
		g.Go(func() error { return r.drain(ctx, pending) })
	}
	if r.interval > 0 {
		g.Go(func() error { return r.tick(ctx) })
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Refresher) listen(ctx context.Context, pending chan<- struct{}) error {
	delay := r.backoff
	for attempt := 0; ; attempt++ {
		reconnect := attempt > 0
		err := r.notifier.Listen(ctx, func() {
			delay = r.backoff
			if reconnect {
				// Changes made while disconnected were never notified.
				_ = r.reloadFresh(ctx, TriggerReconnect)
			}
		}, func(n repo.Notification) {
			r.log.Debug("reference change notified", "channel", n.Channel, "op", n.Payload)
			select {
			case pending <- struct{}{}:
			default:
			}
		})
		if ctx.Err() != nil {
			return nil
		}
		r.log.Warn("reference listener stopped, retrying", "error", err, "retry_in", delay.String())

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay = min(delay*2, time.Minute)
	}
}

func (r *Refresher) drain(ctx context.Context, pending <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-pending:
			_ = r.reloadFresh(ctx, TriggerNotify)
		}
	}
}

func (r *Refresher) tick(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			_ = r.Reload(ctx, TriggerInterval)
		}
	}
}
