package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"cabinbook/internal/domain/booking"
	"cabinbook/internal/domain/shared/daterange"
)

var testNow = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func r(start, end time.Time) daterange.Range {
	return daterange.Range{Start: start, End: end}
}

type fakeFeed struct {
	ranges []daterange.Range
	err    error
	calls  int
}

func (f *fakeFeed) Fetch(ctx context.Context) ([]daterange.Range, error) {
	f.calls++
	return f.ranges, f.err
}

type fakeStore struct {
	recs        []booking.Record
	listErr     error
	appendErr   error
	listCalls   int
	appendCalls int
}

func (s *fakeStore) ListByStatus(ctx context.Context, status booking.Status) ([]booking.Record, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []booking.Record
	for _, rec := range s.recs {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *fakeStore) Append(ctx context.Context, rec booking.Record) error {
	s.appendCalls++
	if s.appendErr != nil {
		return s.appendErr
	}
	s.recs = append(s.recs, rec)
	return nil
}

type fakeCache struct {
	fetchedAt time.Time
	ranges    []daterange.Range
	populated bool
	loadErr   error
	saveCalls int
}

func (c *fakeCache) LoadCache(ctx context.Context) (time.Time, []daterange.Range, bool, error) {
	if c.loadErr != nil {
		return time.Time{}, nil, false, c.loadErr
	}
	return c.fetchedAt, c.ranges, c.populated, nil
}

func (c *fakeCache) SaveCache(ctx context.Context, fetchedAt time.Time, ranges []daterange.Range) error {
	c.saveCalls++
	c.fetchedAt = fetchedAt
	c.ranges = ranges
	c.populated = true
	return nil
}

type fakeNotifier struct {
	calls int
	err   error
	last  booking.Record
}

func (n *fakeNotifier) BookingConfirmed(ctx context.Context, rec booking.Record) error {
	n.calls++
	n.last = rec
	return n.err
}

func confirmedRecord(id string, rng daterange.Range) booking.Record {
	return booking.Record{
		ID:     id,
		Range:  rng,
		Guest:  booking.Guest{Name: "Guest", Email: "guest@example.com", Adults: 2},
		Status: booking.StatusConfirmed,
		Source: SourceRemote,
	}
}

func testGuest() booking.Guest {
	return booking.Guest{Name: "Anna", Email: "anna@example.com", Adults: 2, TotalPriceCents: 24000}
}

func newTestResolver(d Deps) *Resolver {
	if d.Now == nil {
		d.Now = func() time.Time { return testNow }
	}
	return NewResolver(d)
}

func TestCacheFirstServesSnapshotWithoutNetwork(t *testing.T) {
	feed := &fakeFeed{}
	remote := &fakeStore{}
	local := &fakeStore{}
	cache := &fakeCache{
		fetchedAt: testNow.Add(-time.Hour),
		ranges:    []daterange.Range{r(d(2024, time.March, 10), d(2024, time.March, 15))},
		populated: true,
	}
	res := newTestResolver(Deps{Feed: feed, Remote: remote, Local: local, Cache: cache})

	got := res.BlockedRanges(context.Background(), ReadOptions{Strategy: CacheFirst})
	if len(got) != 1 {
		t.Fatalf("expected 1 range from cache, got %d", len(got))
	}
	if feed.calls != 0 || remote.listCalls != 0 || local.listCalls != 0 {
		t.Errorf("cache-first touched the network: feed=%d remote=%d local=%d", feed.calls, remote.listCalls, local.listCalls)
	}
}

func TestCacheFirstFallsThroughOnEmptyCache(t *testing.T) {
	remote := &fakeStore{recs: []booking.Record{
		confirmedRecord("b1", r(d(2024, time.April, 1), d(2024, time.April, 3))),
	}}
	res := newTestResolver(Deps{Remote: remote, Local: &fakeStore{}, Cache: &fakeCache{}})

	got := res.BlockedRanges(context.Background(), ReadOptions{Strategy: CacheFirst})
	if len(got) != 1 {
		t.Fatalf("expected network result on empty cache, got %v", got)
	}
	if remote.listCalls != 1 {
		t.Errorf("expected one remote read, got %d", remote.listCalls)
	}
}

func TestNetworkFirstFreshCacheSkipsNetwork(t *testing.T) {
	feed := &fakeFeed{}
	remote := &fakeStore{}
	cache := &fakeCache{
		fetchedAt: testNow.Add(-time.Minute),
		ranges:    []daterange.Range{r(d(2024, time.March, 10), d(2024, time.March, 15))},
		populated: true,
	}
	res := newTestResolver(Deps{Feed: feed, Remote: remote, Local: &fakeStore{}, Cache: cache})

	got := res.BlockedRanges(context.Background(), ReadOptions{Strategy: NetworkFirst})
	if len(got) != 1 {
		t.Fatalf("expected cached range, got %v", got)
	}
	if feed.calls != 0 || remote.listCalls != 0 {
		t.Errorf("fresh cache should skip network: feed=%d remote=%d", feed.calls, remote.listCalls)
	}
}

func TestNetworkFirstMergesFeedAndStore(t *testing.T) {
	feed := &fakeFeed{ranges: []daterange.Range{r(d(2024, time.March, 10), d(2024, time.March, 12))}}
	remote := &fakeStore{recs: []booking.Record{
		confirmedRecord("b1", r(d(2024, time.March, 13), d(2024, time.March, 15))),
		{ID: "b2", Range: r(d(2024, time.May, 1), d(2024, time.May, 5)), Status: booking.StatusCancelled},
	}}
	cache := &fakeCache{}
	res := newTestResolver(Deps{Feed: feed, Remote: remote, Local: &fakeStore{}, Cache: cache})

	got := res.BlockedRanges(context.Background(), ReadOptions{Strategy: NetworkFirst})
	// Adjacent feed and store ranges coalesce; the cancelled booking is ignored.
	if len(got) != 1 {
		t.Fatalf("expected single merged range, got %v", got)
	}
	if !got[0].Start.Equal(d(2024, time.March, 10)) || !got[0].End.Equal(d(2024, time.March, 15)) {
		t.Errorf("merged range = %v", got[0])
	}
	if cache.saveCalls != 1 {
		t.Errorf("expected snapshot persisted once, got %d saves", cache.saveCalls)
	}
}

func TestFeedFailureDoesNotBlockAvailability(t *testing.T) {
	feed := &fakeFeed{err: errors.New("upstream 502")}
	remote := &fakeStore{recs: []booking.Record{
		confirmedRecord("b1", r(d(2024, time.April, 1), d(2024, time.April, 3))),
	}}
	res := newTestResolver(Deps{Feed: feed, Remote: remote, Local: &fakeStore{}, Cache: &fakeCache{}})

	got := res.BlockedRanges(context.Background(), ReadOptions{Strategy: NetworkFirst})
	if len(got) != 1 {
		t.Fatalf("feed failure should degrade to store ranges, got %v", got)
	}
}

func TestRemoteFailureFallsBackToLocalStore(t *testing.T) {
	remote := &fakeStore{listErr: errors.New("connection refused")}
	local := &fakeStore{recs: []booking.Record{
		confirmedRecord("b1", r(d(2024, time.April, 10), d(2024, time.April, 12))),
	}}
	res := newTestResolver(Deps{Remote: remote, Local: local, Cache: &fakeCache{}})

	got := res.BlockedRanges(context.Background(), ReadOptions{Strategy: NetworkFirst})
	if len(got) != 1 {
		t.Fatalf("expected local fallback ranges, got %v", got)
	}
	if local.listCalls != 1 {
		t.Errorf("expected local store read, got %d calls", local.listCalls)
	}
}

func TestAllSourcesFailingServesStaleCache(t *testing.T) {
	feed := &fakeFeed{err: errors.New("timeout")}
	remote := &fakeStore{listErr: errors.New("unreachable")}
	local := &fakeStore{listErr: errors.New("disk error")}
	cache := &fakeCache{
		fetchedAt: testNow.Add(-24 * time.Hour),
		ranges:    []daterange.Range{r(d(2024, time.March, 20), d(2024, time.March, 22))},
		populated: true,
	}
	res := newTestResolver(Deps{Feed: feed, Remote: remote, Local: local, Cache: cache})

	got := res.BlockedRanges(context.Background(), ReadOptions{Strategy: NetworkFirst})
	if len(got) != 1 || !got[0].Start.Equal(d(2024, time.March, 20)) {
		t.Fatalf("expected stale cache to be served, got %v", got)
	}
}

func TestAllSourcesFailingWithoutCacheReturnsEmpty(t *testing.T) {
	remote := &fakeStore{listErr: errors.New("unreachable")}
	local := &fakeStore{listErr: errors.New("disk error")}
	res := newTestResolver(Deps{Remote: remote, Local: local, Cache: &fakeCache{}})

	got := res.BlockedRanges(context.Background(), ReadOptions{Strategy: NetworkFirst})
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %v", got)
	}
}

func TestFeedResultMemoizedWithinTTL(t *testing.T) {
	feed := &fakeFeed{ranges: []daterange.Range{r(d(2024, time.March, 10), d(2024, time.March, 12))}}
	remote := &fakeStore{}
	cache := &fakeCache{}
	res := newTestResolver(Deps{Feed: feed, Remote: remote, Local: &fakeStore{}, Cache: cache})

	res.BlockedRanges(context.Background(), ReadOptions{Strategy: NetworkFirst})
	// Invalidate the persisted snapshot so the second call takes the network
	// path again; the feed memo must still be warm.
	cache.populated = false
	cache.ranges = nil
	res.BlockedRanges(context.Background(), ReadOptions{Strategy: NetworkFirst})

	if feed.calls != 1 {
		t.Errorf("expected a single feed fetch within TTL, got %d", feed.calls)
	}
	if remote.listCalls != 2 {
		t.Errorf("expected two store reads, got %d", remote.listCalls)
	}
}

func TestReserveRejectsInvalidRange(t *testing.T) {
	remote := &fakeStore{}
	res := newTestResolver(Deps{Remote: remote, Local: &fakeStore{}, Cache: &fakeCache{}})

	_, err := res.Reserve(context.Background(), d(2024, time.March, 18), d(2024, time.March, 16), testGuest())
	if !errors.Is(err, daterange.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if remote.listCalls != 0 || remote.appendCalls != 0 {
		t.Errorf("validation failure must happen before any I/O")
	}
}

func TestReserveRejectsPastCheckIn(t *testing.T) {
	res := newTestResolver(Deps{Remote: &fakeStore{}, Local: &fakeStore{}, Cache: &fakeCache{}})

	_, err := res.Reserve(context.Background(), d(2024, time.February, 1), d(2024, time.February, 3), testGuest())
	if !errors.Is(err, booking.ErrCheckInInPast) {
		t.Fatalf("expected ErrCheckInInPast, got %v", err)
	}
}

func TestReserveConflict(t *testing.T) {
	remote := &fakeStore{recs: []booking.Record{
		confirmedRecord("b1", r(d(2024, time.March, 10), d(2024, time.March, 15))),
	}}
	res := newTestResolver(Deps{Remote: remote, Local: &fakeStore{}, Cache: &fakeCache{}})

	_, err := res.Reserve(context.Background(), d(2024, time.March, 12), d(2024, time.March, 14), testGuest())
	if !errors.Is(err, ErrDateConflict) {
		t.Fatalf("expected ErrDateConflict, got %v", err)
	}
	if remote.appendCalls != 0 {
		t.Errorf("conflicting reserve must not write, got %d appends", remote.appendCalls)
	}
}

func TestReserveSucceedsOutsideBlockedRanges(t *testing.T) {
	remote := &fakeStore{recs: []booking.Record{
		confirmedRecord("b1", r(d(2024, time.March, 10), d(2024, time.March, 15))),
	}}
	notifier := &fakeNotifier{}
	res := newTestResolver(Deps{Remote: remote, Local: &fakeStore{}, Cache: &fakeCache{}, Notifier: notifier})

	rec, err := res.Reserve(context.Background(), d(2024, time.March, 16), d(2024, time.March, 18), testGuest())
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if rec.Status != booking.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", rec.Status)
	}
	if rec.Source != SourceRemote {
		t.Errorf("source = %s, want %s", rec.Source, SourceRemote)
	}
	if remote.appendCalls != 1 {
		t.Errorf("expected one remote append, got %d", remote.appendCalls)
	}
	if notifier.calls != 1 {
		t.Errorf("expected confirmation notification, got %d", notifier.calls)
	}
}

func TestReserveFallsBackToLocalWrite(t *testing.T) {
	remote := &fakeStore{appendErr: errors.New("write timeout")}
	local := &fakeStore{}
	res := newTestResolver(Deps{Remote: remote, Local: local, Cache: &fakeCache{}})

	rec, err := res.Reserve(context.Background(), d(2024, time.March, 16), d(2024, time.March, 18), testGuest())
	if err != nil {
		t.Fatalf("Reserve should survive a remote write failure: %v", err)
	}
	if rec.Source != SourceLocalFallback {
		t.Errorf("source = %s, want %s", rec.Source, SourceLocalFallback)
	}
	if local.appendCalls != 1 {
		t.Errorf("expected one local append, got %d", local.appendCalls)
	}
}

func TestReserveReportsWhenNothingRecorded(t *testing.T) {
	remote := &fakeStore{appendErr: errors.New("write timeout")}
	local := &fakeStore{appendErr: errors.New("disk full")}
	res := newTestResolver(Deps{Remote: remote, Local: local, Cache: &fakeCache{}})

	_, err := res.Reserve(context.Background(), d(2024, time.March, 16), d(2024, time.March, 18), testGuest())
	if !errors.Is(err, ErrNotRecorded) {
		t.Fatalf("expected ErrNotRecorded, got %v", err)
	}
}

func TestReserveNotificationFailureDoesNotFailBooking(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("broker down")}
	res := newTestResolver(Deps{Remote: &fakeStore{}, Local: &fakeStore{}, Cache: &fakeCache{}, Notifier: notifier})

	if _, err := res.Reserve(context.Background(), d(2024, time.March, 16), d(2024, time.March, 18), testGuest()); err != nil {
		t.Fatalf("notification failure must not fail the booking: %v", err)
	}
}

func TestReserveAppliesOptimisticCacheDelta(t *testing.T) {
	remote := &fakeStore{}
	cache := &fakeCache{}
	res := newTestResolver(Deps{Remote: remote, Local: &fakeStore{}, Cache: cache})

	if _, err := res.Reserve(context.Background(), d(2024, time.March, 16), d(2024, time.March, 18), testGuest()); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	listCallsAfterReserve := remote.listCalls
	got := res.BlockedRanges(context.Background(), ReadOptions{Strategy: NetworkFirst})
	if len(got) != 1 || !got[0].Start.Equal(d(2024, time.March, 16)) || !got[0].End.Equal(d(2024, time.March, 18)) {
		t.Fatalf("cache should reflect the new booking, got %v", got)
	}
	if remote.listCalls != listCallsAfterReserve {
		t.Errorf("fresh snapshot should be served without another store read")
	}
}
