package tradejournal

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// Refresher runs aggregation passes and publishes their snapshots.
//
// Passes may overlap. A snapshot is published only if its pass started after
// the pass of the currently published snapshot, so a slow pass never
// replaces a newer result.
type Refresher struct {
	agg *Aggregator
	src LedgerSource
	log zerolog.Logger

	mu        sync.Mutex
	current   *Snapshot
	lastErr   error
	listeners []func(*Snapshot)

	// deliver orders listener calls; delivered is the last cycle they saw.
	deliver   sync.Mutex
	delivered uint64
}

// NewRefresher returns a Refresher reading src through agg.
func NewRefresher(agg *Aggregator, src LedgerSource, log zerolog.Logger) *Refresher {
	return &Refresher{agg: agg, src: src, log: log.With().Str("component", "refresher").Logger()}
}

// OnPublish registers f to be called with every published snapshot.
func (r *Refresher) OnPublish(f func(*Snapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, f)
}

// Refresh runs one pass and returns the snapshot published after it.
// On error the previously published snapshot, if any, stays current.
func (r *Refresher) Refresh(ctx context.Context) (*Snapshot, error) {
	s, err := r.agg.Run(ctx, r.src)

	r.mu.Lock()
	if err != nil {
		r.lastErr = err
		current := r.current
		r.mu.Unlock()
		r.log.Error().Err(err).Msg("refresh failed")
		return current, err
	}
	if r.current != nil && s.Cycle < r.current.Cycle {
		current := r.current
		r.mu.Unlock()
		r.log.Debug().Uint64("cycle", s.Cycle).Uint64("current", current.Cycle).Msg("superseded snapshot discarded")
		return current, nil
	}
	r.current = s
	r.lastErr = nil
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	r.deliver.Lock()
	defer r.deliver.Unlock()
	if s.Cycle <= r.delivered {
		// A newer pass published and notified while this one was waiting.
		return r.Current(), nil
	}
	r.delivered = s.Cycle
	for _, f := range listeners {
		f(s)
	}
	return s, nil
}

// Current returns the published snapshot, nil before the first successful pass.
func (r *Refresher) Current() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Err returns the error of the last pass, nil if it succeeded.
func (r *Refresher) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Name implements the scheduler job interface.
func (r *Refresher) Name() string { return "refresh" }

// Run implements the scheduler job interface.
func (r *Refresher) Run() error {
	_, err := r.Refresh(context.Background())
	return err
}
