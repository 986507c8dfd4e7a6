package kafka

import (
	"context"
	"encoding/json"
	"time"

	"cabinbook/internal/domain/booking"
)

const confirmedTopic = "booking.confirmed"

// Notifier publishes booking confirmations for downstream consumers (guest
// confirmation mail, operator notification). Delivery is fire-and-forget from
// the resolver's point of view; a failed publish never rolls back a booking.
type Notifier struct {
	Producer    *Producer
	TopicPrefix string
}

type confirmedEvent struct {
	BookingID    string    `json:"booking_id"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Notes        string    `json:"notes,omitempty"`
	Adults       int       `json:"adults"`
	Children     int       `json:"children"`
	HasPets      bool      `json:"has_pets"`
	Firewood     bool      `json:"firewood"`
	LateCheckout bool      `json:"late_checkout"`
	TotalCents   int64     `json:"total_price_cents"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"created_at"`
}

func (n *Notifier) BookingConfirmed(ctx context.Context, rec booking.Record) error {
	payload, err := json.Marshal(confirmedEvent{
		BookingID:    rec.ID,
		StartDate:    rec.Range.Start,
		EndDate:      rec.Range.End,
		Name:         rec.Guest.Name,
		Email:        rec.Guest.Email,
		Notes:        rec.Guest.Notes,
		Adults:       rec.Guest.Adults,
		Children:     rec.Guest.Children,
		HasPets:      rec.Guest.HasPets,
		Firewood:     rec.Guest.Extras.Firewood,
		LateCheckout: rec.Guest.Extras.LateCheckout,
		TotalCents:   rec.Guest.TotalPriceCents,
		Source:       rec.Source,
		CreatedAt:    rec.CreatedAt,
	})
	if err != nil {
		return err
	}
	return n.Producer.Publish(ctx, n.topic(), rec.ID, payload)
}

func (n *Notifier) topic() string {
	if n.TopicPrefix == "" {
		return confirmedTopic
	}
	return n.TopicPrefix + "." + confirmedTopic
}
