package dto

import (
	"time"

	"cabinbook/internal/domain/booking"
)

type GuestDetails struct {
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

type BookingSummary struct {
	ID        string       `json:"id"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	Guest     GuestDetails `json:"guest"`
	Status    string       `json:"status"`
	Source    string       `json:"source"`
	CreatedAt time.Time    `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

func MapBookingSummary(rec booking.Record) BookingSummary {
	return BookingSummary{
		ID:        rec.ID,
		StartDate: rec.Range.Start,
		EndDate:   rec.Range.End,
		Guest: GuestDetails{
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

func MapBookingCollection(recs []booking.Record) BookingCollection {
	items := make([]BookingSummary, 0, len(recs))
	for _, rec := range recs {
		items = append(items, MapBookingSummary(rec))
	}
	return BookingCollection{Items: items}
}
