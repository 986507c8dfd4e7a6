package availability

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"cabinbook/internal/app/policies"
	"cabinbook/internal/domain/booking"
	"cabinbook/internal/domain/shared/daterange"
)

var (
	ErrDateConflict = errors.New("availability: selected dates overlap an existing booking")
	ErrNotRecorded  = errors.New("availability: booking could not be recorded")
)

const (
	// SourceRemote marks records committed to the remote store.
	SourceRemote = "remote"
	// SourceLocalFallback marks records that landed in the offline store
	// because the remote write failed; the admin dashboard reconciles these.
	SourceLocalFallback = "local-fallback"
)

// FeedSource supplies busy ranges from the linked third-party calendar.
type FeedSource interface {
	Fetch(ctx context.Context) ([]daterange.Range, error)
}

// CacheStore persists the merged blocked-range snapshot between runs.
type CacheStore interface {
	LoadCache(ctx context.Context) (fetchedAt time.Time, ranges []daterange.Range, ok bool, err error)
	SaveCache(ctx context.Context, fetchedAt time.Time, ranges []daterange.Range) error
}

// Strategy selects between serving the persisted snapshot immediately and
// confirming freshness over the network first.
type Strategy string

const (
	CacheFirst   Strategy = "cache-first"
	NetworkFirst Strategy = "network-first"
)

type ReadOptions struct {
	Strategy Strategy
	// MaxAge bounds how old a persisted snapshot may be before NetworkFirst
	// refreshes it. Zero means the resolver default.
	MaxAge time.Duration
}

type Config struct {
	FeedTimeout       time.Duration
	StoreReadTimeout  time.Duration
	StoreWriteTimeout time.Duration
	FeedTTL           time.Duration
	CacheMaxAge       time.Duration
}

func (c Config) withDefaults() Config {
	if c.FeedTimeout <= 0 {
		c.FeedTimeout = 2500 * time.Millisecond
	}
	if c.StoreReadTimeout <= 0 {
		c.StoreReadTimeout = 4 * time.Second
	}
	if c.StoreWriteTimeout <= 0 {
		c.StoreWriteTimeout = 4 * time.Second
	}
	if c.FeedTTL <= 0 {
		c.FeedTTL = 5 * time.Minute
	}
	if c.CacheMaxAge <= 0 {
		c.CacheMaxAge = 5 * time.Minute
	}
	return c
}

type Deps struct {
	Feed     FeedSource    // optional; feed is best-effort
	Remote   booking.Store // optional; nil runs local-only
	Local    booking.Store
	Cache    CacheStore
	Notifier policies.Notifier
	Logger   *slog.Logger
	Config   Config
	Now      func() time.Time
}

// Resolver computes the authoritative set of blocked date ranges for the
// unit by combining the calendar feed, the remote booking store and the
// local offline fallback, and accepts reservations with a conflict re-check
// immediately before the write commits.
type Resolver struct {
	feed     FeedSource
	remote   booking.Store
	local    booking.Store
	cache    CacheStore
	notifier policies.Notifier
	logger   *slog.Logger
	cfg      Config
	now      func() time.Time

	// Feed results are memoized per resolver instance so repeated
	// availability checks within a session do not refetch the feed.
	mu          sync.Mutex
	feedRanges  []daterange.Range
	feedExpires time.Time
}

func NewResolver(d Deps) *Resolver {
	r := &Resolver{
		feed:     d.Feed,
		remote:   d.Remote,
		local:    d.Local,
		cache:    d.Cache,
		notifier: d.Notifier,
		logger:   d.Logger,
		cfg:      d.Config.withDefaults(),
		now:      d.Now,
	}
	if r.notifier == nil {
		r.notifier = policies.NopNotifier{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// BlockedRanges returns the merged blocked ranges for the unit. Source
// failures degrade to the best available data (persisted snapshot, then the
// offline store); the call never fails outright, so the calendar always has
// something to paint.
func (r *Resolver) BlockedRanges(ctx context.Context, opts ReadOptions) []daterange.Range {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = r.cfg.CacheMaxAge
	}

	if opts.Strategy == CacheFirst {
		if _, ranges, ok, err := r.cache.LoadCache(ctx); err == nil && ok && len(ranges) > 0 {
			return ranges
		}
	} else {
		// Fast path: a snapshot younger than maxAge is trusted without a
		// network round trip.
		if fetchedAt, ranges, ok, err := r.cache.LoadCache(ctx); err == nil && ok && r.now().Sub(fetchedAt) < maxAge {
			return ranges
		}
	}

	ranges, err := r.fetchNetwork(ctx)
	if err == nil {
		if saveErr := r.cache.SaveCache(ctx, r.now(), ranges); saveErr != nil {
			r.logger.Warn("blocked range snapshot not persisted", "error", saveErr)
		}
		return ranges
	}
	r.logger.Warn("availability refresh failed, serving stale data", "error", err)

	if _, stale, ok, loadErr := r.cache.LoadCache(ctx); loadErr == nil && ok {
		return stale
	}
	return r.offlineRanges(ctx)
}

// fetchNetwork combines the calendar feed with the booking stores. The feed
// fetch and the store read run concurrently and both are awaited. It fails
// only when every booking source in the chain fails; the feed alone never
// blocks availability.
func (r *Resolver) fetchNetwork(ctx context.Context) ([]daterange.Range, error) {
	feedCh := make(chan []daterange.Range, 1)
	go func() {
		feedCh <- r.feedBlockedRanges(ctx)
	}()

	stored, err := r.storeBlockedRanges(ctx)
	feed := <-feedCh
	if err != nil {
		return nil, err
	}
	return daterange.Merge(append(feed, stored...)), nil
}

// feedBlockedRanges fetches the calendar feed, memoized for FeedTTL. Any
// failure (timeout, non-2xx, parse) yields zero ranges: the feed is
// best-effort. Only successful fetches enter the memo, so a failure is
// retried on the next pass.
func (r *Resolver) feedBlockedRanges(ctx context.Context) []daterange.Range {
	if r.feed == nil {
		return nil
	}

	r.mu.Lock()
	if r.feedExpires.After(r.now()) {
		cached := r.feedRanges
		r.mu.Unlock()
		return cached
	}
	r.mu.Unlock()

	fctx, cancel := context.WithTimeout(ctx, r.cfg.FeedTimeout)
	defer cancel()
	ranges, err := r.feed.Fetch(fctx)
	if err != nil {
		r.logger.Warn("calendar feed unavailable", "error", err)
		return nil
	}

	r.mu.Lock()
	r.feedRanges = ranges
	r.feedExpires = r.now().Add(r.cfg.FeedTTL)
	r.mu.Unlock()
	return ranges
}

type rangeProvider struct {
	name    string
	timeout time.Duration
	list    func(ctx context.Context) ([]booking.Record, error)
}

// storeProviders is the ordered fallback chain for confirmed bookings:
// remote store first, offline store only when the remote read fails.
func (r *Resolver) storeProviders() []rangeProvider {
	var providers []rangeProvider
	if r.remote != nil {
		providers = append(providers, rangeProvider{
			name:    "remote",
			timeout: r.cfg.StoreReadTimeout,
			list: func(ctx context.Context) ([]booking.Record, error) {
				return r.remote.ListByStatus(ctx, booking.StatusConfirmed)
			},
		})
	}
	providers = append(providers, rangeProvider{
		name:    "local",
		timeout: r.cfg.StoreReadTimeout,
		list: func(ctx context.Context) ([]booking.Record, error) {
			return r.local.ListByStatus(ctx, booking.StatusConfirmed)
		},
	})
	return providers
}

func (r *Resolver) storeBlockedRanges(ctx context.Context) ([]daterange.Range, error) {
	var lastErr error
	for _, p := range r.storeProviders() {
		pctx, cancel := context.WithTimeout(ctx, p.timeout)
		recs, err := p.list(pctx)
		cancel()
		if err != nil {
			lastErr = err
			r.logger.Warn("booking source unavailable", "source", p.name, "error", err)
			continue
		}
		return recordRanges(recs), nil
	}
	return nil, lastErr
}

func (r *Resolver) offlineRanges(ctx context.Context) []daterange.Range {
	recs, err := r.local.ListByStatus(ctx, booking.StatusConfirmed)
	if err != nil {
		r.logger.Warn("offline booking store unreadable", "error", err)
		return nil
	}
	return daterange.Merge(recordRanges(recs))
}

func recordRanges(recs []booking.Record) []daterange.Range {
	ranges := make([]daterange.Range, 0, len(recs))
	for _, rec := range recs {
		if rec.Blocks() {
			ranges = append(ranges, rec.Range)
		}
	}
	return ranges
}

// Reserve validates the requested stay, re-checks for conflicts against a
// fresh view of the blocked ranges, and appends the booking to the remote
// store, falling back to the offline store when the remote write fails. Once
// the conflict check has passed, the one outcome Reserve must never produce
// is silently dropping the booking: ErrNotRecorded is returned only when
// both writes fail.
func (r *Resolver) Reserve(ctx context.Context, start, end time.Time, guest booking.Guest) (booking.Record, error) {
	rng, err := daterange.New(start, end)
	if err != nil {
		return booking.Record{}, err
	}
	if err := booking.ValidateCheckIn(rng, r.now()); err != nil {
		return booking.Record{}, err
	}
	if err := guest.Validate(); err != nil {
		return booking.Record{}, err
	}

	blocked := r.BlockedRanges(ctx, ReadOptions{Strategy: NetworkFirst})
	for _, b := range blocked {
		if rng.Overlaps(b) {
			return booking.Record{}, ErrDateConflict
		}
	}

	rec := booking.Record{
		ID:        uuid.NewString(),
		Range:     rng,
		Guest:     guest,
		Status:    booking.StatusConfirmed,
		Source:    SourceRemote,
		CreatedAt: r.now().UTC(),
	}

	committed := false
	if r.remote != nil {
		wctx, cancel := context.WithTimeout(ctx, r.cfg.StoreWriteTimeout)
		err := r.remote.Append(wctx, rec)
		cancel()
		if err == nil {
			committed = true
		} else {
			r.logger.Warn("remote booking write failed, falling back to offline store", "booking_id", rec.ID, "error", err)
		}
	}
	if !committed {
		rec.Source = SourceLocalFallback
		if err := r.local.Append(ctx, rec); err != nil {
			r.logger.Error("offline booking write failed", "booking_id", rec.ID, "error", err)
			return booking.Record{}, ErrNotRecorded
		}
	}

	r.applyCacheDelta(ctx, rng)

	if err := r.notifier.BookingConfirmed(ctx, rec); err != nil {
		// The booking is already committed; notification failures are
		// logged and dropped.
		r.logger.Warn("booking notification failed", "booking_id", rec.ID, "error", err)
	}
	return rec, nil
}

// applyCacheDelta merges the newly booked range into the persisted snapshot
// so the next read reflects it without a fresh network fetch. This is a
// delta on the existing snapshot, distinct from the wholesale rebuild in
// BlockedRanges; the snapshot keeps its original fetch timestamp.
func (r *Resolver) applyCacheDelta(ctx context.Context, rng daterange.Range) {
	fetchedAt, ranges, ok, err := r.cache.LoadCache(ctx)
	if err != nil {
		r.logger.Warn("cache delta skipped", "error", err)
		return
	}
	if !ok {
		fetchedAt = r.now()
	}
	merged := daterange.Merge(append(ranges, rng))
	if err := r.cache.SaveCache(ctx, fetchedAt, merged); err != nil {
		r.logger.Warn("cache delta not persisted", "error", err)
	}
}
