// Package widget runs one load-check-fetch-render cycle for the magazine
// region.
package widget

import (
	"context"
	"errors"
	"time"

	"github.com/tkilaker/magazine/internal/cache"
	"github.com/tkilaker/magazine/internal/fetcher"
	"github.com/tkilaker/magazine/internal/logger"
	"github.com/tkilaker/magazine/internal/magazine"
	"github.com/tkilaker/magazine/internal/metrics"
	"github.com/tkilaker/magazine/internal/render"
)

// State is where a run ended up
type State string

const (
	// StateNoTarget means there was no region; nothing was loaded or fetched
	StateNoTarget State = "no_target"
	// StateCached means a fresh record was rendered without a fetch
	StateCached State = "cached"
	// StateFresh means there was no record and the fetch succeeded
	StateFresh State = "fresh"
	// StateError means there was no record and the fetch failed
	StateError State = "error"
	// StateRefreshed means a stale record was replaced by a new payload
	StateRefreshed State = "refreshed"
	// StateStale means the refresh failed and the stale payload was rendered
	StateStale State = "stale"
)

var errNoResult = errors.New("fetch produced no result")

// PayloadFetcher starts one fetch and yields its single result
type PayloadFetcher interface {
	Fetch(ctx context.Context) <-chan fetcher.Result
}

// Widget ties the cache, fetcher and renderer together
type Widget struct {
	store   cache.Store
	fetcher PayloadFetcher
	window  time.Duration
	now     cache.Clock
	metrics *metrics.Metrics
	log     *logger.Entry
}

// Option configures a Widget
type Option func(*Widget)

// WithClock sets the clock used for freshness checks
func WithClock(now cache.Clock) Option {
	return func(w *Widget) { w.now = now }
}

// WithWindow sets how long a cached record stays fresh
func WithWindow(d time.Duration) Option {
	return func(w *Widget) { w.window = d }
}

// WithMetrics records fetch and run outcomes
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Widget) { w.metrics = m }
}

// WithLogger sets the log entry runs are reported on
func WithLogger(l *logger.Entry) Option {
	return func(w *Widget) { w.log = l }
}

// New creates a widget over store and f
func New(store cache.Store, f PayloadFetcher, opts ...Option) *Widget {
	w := &Widget{
		store:   store,
		fetcher: f,
		window:  cache.DefaultWindow,
		now:     time.Now,
		log:     logger.Log.WithField("component", "widget"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run renders into region once. At most one fetch is made. The returned
// error is only set for render failures and context cancellation; fetch
// failures are absorbed into StateError or StateStale.
func (w *Widget) Run(ctx context.Context, region *render.Region) (State, error) {
	if region == nil {
		return StateNoTarget, nil
	}

	state, err := w.run(ctx, region)
	if err != nil {
		w.log.WithField("region", region.ID).Errorf("Widget run failed: %v", err)
		return state, err
	}

	w.metrics.ObserveRun(string(state))
	w.log.WithFields(logger.Fields{
		"region": region.ID,
		"state":  state,
	}).Info("Rendered widget")
	return state, nil
}

func (w *Widget) run(ctx context.Context, region *render.Region) (State, error) {
	rec := w.store.Load(ctx)
	if rec != nil && rec.Data == nil {
		// Nothing to fall back to; a record with data but no timestamp is
		// kept and simply fails the freshness check.
		rec = nil
	}

	if rec != nil && cache.IsValid(rec, w.now(), w.window) {
		return StateCached, render.News(ctx, region, rec.Data)
	}

	res, err := w.fetch(ctx)
	if err != nil {
		return "", err
	}

	if res.OK() {
		if err := render.News(ctx, region, res.Payload); err != nil {
			return "", err
		}
		w.save(ctx, res.Payload)
		if rec == nil {
			return StateFresh, nil
		}
		return StateRefreshed, nil
	}

	log := w.log.WithField("endpoint", res.Endpoint)
	if rec == nil {
		log.Warnf("Fetch failed with no cached data: %v", res.Err)
		return StateError, render.Error(ctx, region)
	}

	log.WithField("fetched_at", rec.FetchedAt().Format(time.RFC3339)).
		Warnf("Fetch failed, showing stale data: %v", res.Err)
	return StateStale, render.News(ctx, region, rec.Data)
}

// fetch waits for the single fetch result or for ctx to end
func (w *Widget) fetch(ctx context.Context) (fetcher.Result, error) {
	select {
	case res, ok := <-w.fetcher.Fetch(ctx):
		if !ok {
			res = fetcher.Result{Err: errNoResult}
		}
		w.metrics.ObserveFetch(res.OK())
		return res, nil
	case <-ctx.Done():
		return fetcher.Result{}, ctx.Err()
	}
}

func (w *Widget) save(ctx context.Context, p *magazine.Payload) {
	if err := w.store.Save(ctx, p); err != nil {
		w.log.Warnf("Failed to cache payload: %v", err)
	}
}
