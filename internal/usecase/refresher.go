package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"namaz-cli/internal/domain"
	"namaz-cli/internal/logging"
)

// RefresherUseCase is the primary port for keeping today's timings current.
type RefresherUseCase interface {
	Start(ctx context.Context)
	RefreshNow(ctx context.Context) error
	Snapshot() *Snapshot
	Status() RefreshStatus
}

// RefreshStatus describes the last fetch attempt.
type RefreshStatus struct {
	LastSuccess time.Time
	LastAttempt time.Time
	LastError   error
	FromCache   bool
}

// refresherInteractor implements RefresherUseCase.
// It depends only on domain layer and secondary ports.
type refresherInteractor struct {
	provider domain.TimingsProvider
	cache    domain.TimingsCache
	location domain.Location
	interval time.Duration
	now      func() time.Time

	snapshot *Snapshot

	mu     sync.RWMutex
	status RefreshStatus
}

// RefresherConfig wires the refresher. Cache may be nil; Now defaults to time.Now.
type RefresherConfig struct {
	Provider domain.TimingsProvider
	Cache    domain.TimingsCache
	Settings domain.Settings
	Snapshot *Snapshot
	Now      func() time.Time
}

// NewRefresherUseCase validates settings and builds the refresher.
func NewRefresherUseCase(cfg RefresherConfig) (RefresherUseCase, error) {
	if cfg.Provider == nil {
		return nil, errors.New("timings provider is required")
	}
	if err := cfg.Settings.Validate(); err != nil {
		return nil, err
	}
	snap := cfg.Snapshot
	if snap == nil {
		snap = NewSnapshot()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &refresherInteractor{
		provider: cfg.Provider,
		cache:    cfg.Cache,
		location: cfg.Settings.Location(),
		interval: cfg.Settings.RefreshInterval,
		now:      now,
		snapshot: snap,
	}, nil
}

// Start fetches once immediately and then on every interval until ctx ends.
func (r *refresherInteractor) Start(ctx context.Context) {
	go r.loop(ctx)
}

func (r *refresherInteractor) loop(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *refresherInteractor) refresh(ctx context.Context) {
	if err := r.RefreshNow(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Warnf("refresh %s/%s failed, keeping previous data: %v", r.location.City, r.location.Country, err)
	}
}

// RefreshNow performs one fetch. On failure the snapshot keeps its previous
// value; if it is still empty, a cached entry for today is used instead.
func (r *refresherInteractor) RefreshNow(ctx context.Context) error {
	attempt := r.now()
	timings, err := r.provider.Fetch(ctx, r.location)
	if err != nil {
		r.mu.Lock()
		r.status.LastAttempt = attempt
		r.status.LastError = err
		r.mu.Unlock()

		if _, ok := r.snapshot.Load(); !ok {
			r.seedFromCache(attempt)
		}
		return err
	}

	if timings.FetchedAt.IsZero() {
		timings.FetchedAt = attempt
	}
	r.snapshot.Store(timings)

	r.mu.Lock()
	r.status = RefreshStatus{LastSuccess: attempt, LastAttempt: attempt}
	r.mu.Unlock()

	logging.Infof("timings refreshed for %s/%s (%s, lunar month %d)",
		r.location.City, r.location.Country, timings.Gregorian, timings.LunarMonth)

	if r.cache != nil {
		if err := r.cache.Put(timings); err != nil {
			logging.Warnf("cache timings: %v", err)
		}
	}
	return nil
}

func (r *refresherInteractor) seedFromCache(now time.Time) {
	if r.cache == nil {
		return
	}
	date := now.Format(domain.DateLayout)
	cached, ok, err := r.cache.Get(r.location, date)
	if err != nil {
		logging.Warnf("read cached timings: %v", err)
		return
	}
	if !ok {
		logging.Debugf("no cached timings for %s", date)
		return
	}
	r.snapshot.Store(cached)
	r.mu.Lock()
	r.status.FromCache = true
	r.mu.Unlock()
	logging.Infof("using cached timings for %s", date)
}

// Snapshot returns the container the refresher writes to.
func (r *refresherInteractor) Snapshot() *Snapshot {
	return r.snapshot
}

// Status returns the last fetch outcome.
func (r *refresherInteractor) Status() RefreshStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}
