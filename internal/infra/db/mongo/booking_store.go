package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "cabinbook/internal/domain/booking"
	"cabinbook/internal/domain/shared/daterange"
)

// BookingStore is the remote booking collection: equality queries on status,
// ordered listing, single-document appends. Status updates exist for the
// admin dashboard only.
type BookingStore struct {
	col *mongo.Collection
}

func NewBookingStore(db *mongo.Database) *BookingStore {
	return &BookingStore{col: db.Collection("bookings")}
}

func (s *BookingStore) ListByStatus(ctx context.Context, status domainbooking.Status) ([]domainbooking.Record, error) {
	return s.find(ctx, bson.M{"status": string(status)})
}

func (s *BookingStore) List(ctx context.Context) ([]domainbooking.Record, error) {
	return s.find(ctx, bson.M{})
}

func (s *BookingStore) find(ctx context.Context, filter bson.M) ([]domainbooking.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domainbooking.Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toRecord())
	}
	return out, nil
}

func (s *BookingStore) Append(ctx context.Context, rec domainbooking.Record) error {
	_, err := s.col.InsertOne(ctx, newBookingDocument(rec))
	return err
}

func (s *BookingStore) UpdateStatus(ctx context.Context, id string, status domainbooking.Status) error {
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainbooking.ErrNotFound
	}
	return nil
}

type bookingDocument struct {
	ID        string        `bson:"_id"`
	StartDate int64         `bson:"start_date"`
	EndDate   int64         `bson:"end_date"`
	Guest     guestDocument `bson:"guest"`
	Status    string        `bson:"status"`
	Source    string        `bson:"source"`
	CreatedAt int64         `bson:"created_at"`
}

type guestDocument struct {
	Name            string `bson:"name"`
	Email           string `bson:"email"`
	Notes           string `bson:"notes,omitempty"`
	Adults          int    `bson:"adults"`
	Children        int    `bson:"children"`
	HasPets         bool   `bson:"has_pets"`
	Firewood        bool   `bson:"firewood"`
	LateCheckout    bool   `bson:"late_checkout"`
	TotalPriceCents int64  `bson:"total_price_cents"`
}

func newBookingDocument(rec domainbooking.Record) bookingDocument {
	return bookingDocument{
		ID:        rec.ID,
		StartDate: rec.Range.Start.UnixMilli(),
		EndDate:   rec.Range.End.UnixMilli(),
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
		CreatedAt: rec.CreatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toRecord() domainbooking.Record {
	return domainbooking.Record{
		ID:    d.ID,
		Range: daterange.Range{Start: timestampToTime(d.StartDate), End: timestampToTime(d.EndDate)}.Normalize(),
		Guest: domainbooking.Guest{
			Name:            d.Guest.Name,
			Email:           d.Guest.Email,
			Notes:           d.Guest.Notes,
			Adults:          d.Guest.Adults,
			Children:        d.Guest.Children,
			HasPets:         d.Guest.HasPets,
			Extras:          domainbooking.Extras{Firewood: d.Guest.Firewood, LateCheckout: d.Guest.LateCheckout},
			TotalPriceCents: d.Guest.TotalPriceCents,
		},
		Status:    domainbooking.Status(d.Status),
		Source:    d.Source,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
