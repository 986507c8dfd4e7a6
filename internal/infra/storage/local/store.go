package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"cabinbook/internal/domain/booking"
	"cabinbook/internal/domain/shared/daterange"
)

const (
	bookingsKey = "bookings"
	cacheKey    = "blocked_ranges"
)

// Store is the offline fallback: a directory of JSON documents, one per key,
// read and written whole. It keeps bookings durable when the remote store is
// unreachable and persists the blocked-range cache between runs. Writes are
// atomic (temp file + rename); single-writer within one process, no
// cross-process lock.
type Store struct {
	mu  sync.Mutex
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("local: data directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local: create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

type bookingDocument struct {
	ID        string        `json:"id"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
	Guest     guestDocument `json:"guest"`
	Status    string        `json:"status"`
	Source    string        `json:"source"`
	CreatedAt time.Time     `json:"created_at"`
}

type guestDocument struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Notes           string `json:"notes,omitempty"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	HasPets         bool   `json:"has_pets"`
	Firewood        bool   `json:"firewood"`
	LateCheckout    bool   `json:"late_checkout"`
	TotalPriceCents int64  `json:"total_price_cents"`
}

func newBookingDocument(rec booking.Record) bookingDocument {
	return bookingDocument{
		ID:        rec.ID,
		StartDate: rec.Range.Start,
		EndDate:   rec.Range.End,
		Guest: guestDocument{
			Name:            rec.Guest.Name,
			Email:           rec.Guest.Email,
			Notes:           rec.Guest.Notes,
			Adults:          rec.Guest.Adults,
			Children:        rec.Guest.Children,
			HasPets:         rec.Guest.HasPets,
			Firewood:        rec.Guest.Extras.Firewood,
			LateCheckout:    rec.Guest.Extras.LateCheckout,
			TotalPriceCents: rec.Guest.TotalPriceCents,
		},
		Status:    string(rec.Status),
		Source:    rec.Source,
		CreatedAt: rec.CreatedAt,
	}
}

func (d bookingDocument) toRecord() booking.Record {
	return booking.Record{
		ID:    d.ID,
		Range: daterange.Range{Start: d.StartDate, End: d.EndDate}.Normalize(),
		Guest: booking.Guest{
			Name:            d.Guest.Name,
			Email:           d.Guest.Email,
			Notes:           d.Guest.Notes,
			Adults:          d.Guest.Adults,
			Children:        d.Guest.Children,
			HasPets:         d.Guest.HasPets,
			Extras:          booking.Extras{Firewood: d.Guest.Firewood, LateCheckout: d.Guest.LateCheckout},
			TotalPriceCents: d.Guest.TotalPriceCents,
		},
		Status:    booking.Status(d.Status),
		Source:    d.Source,
		CreatedAt: d.CreatedAt,
	}
}

// ListByStatus filters the stored booking list by status.
func (s *Store) ListByStatus(ctx context.Context, status booking.Status) ([]booking.Record, error) {
	all, err := s.list()
	if err != nil {
		return nil, err
	}
	out := make([]booking.Record, 0, len(all))
	for _, rec := range all {
		if rec.Status == status {
			out = append(out, rec)
		}
	}
	return out, nil
}

// List returns every stored booking.
func (s *Store) List(ctx context.Context) ([]booking.Record, error) {
	return s.list()
}

// Append adds one booking to the stored list. The whole array is rewritten;
// there is no partial update.
func (s *Store) Append(ctx context.Context, rec booking.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []bookingDocument
	if err := s.read(bookingsKey, &docs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	docs = append(docs, newBookingDocument(rec))
	return s.write(bookingsKey, docs)
}

// UpdateStatus flips the status of one stored booking, rewriting the array.
func (s *Store) UpdateStatus(ctx context.Context, id string, status booking.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []bookingDocument
	if err := s.read(bookingsKey, &docs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return booking.ErrNotFound
		}
		return err
	}
	for i := range docs {
		if docs[i].ID == id {
			docs[i].Status = string(status)
			return s.write(bookingsKey, docs)
		}
	}
	return booking.ErrNotFound
}

func (s *Store) list() ([]booking.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var docs []bookingDocument
	if err := s.read(bookingsKey, &docs); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]booking.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toRecord())
	}
	return out, nil
}

type cacheDocument struct {
	FetchedAt int64               `json:"fetched_at"`
	Ranges    []cacheRangeElement `json:"ranges"`
}

type cacheRangeElement struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LoadCache reads the persisted blocked-range snapshot. The second return is
// false when no snapshot has been written yet.
func (s *Store) LoadCache(ctx context.Context) (time.Time, []daterange.Range, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var doc cacheDocument
	if err := s.read(cacheKey, &doc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return time.Time{}, nil, false, nil
		}
		return time.Time{}, nil, false, err
	}
	ranges := make([]daterange.Range, 0, len(doc.Ranges))
	for _, el := range doc.Ranges {
		ranges = append(ranges, daterange.Range{Start: el.Start, End: el.End}.Normalize())
	}
	return time.UnixMilli(doc.FetchedAt).UTC(), ranges, true, nil
}

// SaveCache overwrites the blocked-range snapshot wholesale.
func (s *Store) SaveCache(ctx context.Context, fetchedAt time.Time, ranges []daterange.Range) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc := cacheDocument{
		FetchedAt: fetchedAt.UnixMilli(),
		Ranges:    make([]cacheRangeElement, 0, len(ranges)),
	}
	for _, r := range ranges {
		doc.Ranges = append(doc.Ranges, cacheRangeElement{Start: r.Start, End: r.End})
	}
	return s.write(cacheKey, doc)
}

func (s *Store) read(key string, v any) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("local: decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) write(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("local: encode %s: %w", key, err)
	}
	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
