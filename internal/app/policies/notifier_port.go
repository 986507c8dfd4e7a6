package policies

import (
	"context"

	"cabinbook/internal/domain/booking"
)

// Notifier delivers guest and operator notifications for a committed booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, rec booking.Record) error
}

// NopNotifier is used when no broker is configured.
type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(ctx context.Context, rec booking.Record) error { return nil }
