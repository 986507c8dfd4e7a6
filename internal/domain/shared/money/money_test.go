package money

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		currency string
		want     Money
		wantErr  error
	}{
		{
			name:     "valid currency",
			amount:   12000,
			currency: "EUR",
			want:     Money{Amount: 12000, Currency: "EUR"},
		},
		{
			name:     "lowercase currency is uppercased",
			amount:   500,
			currency: "eur",
			want:     Money{Amount: 500, Currency: "EUR"},
		},
		{
			name:     "empty currency rejected",
			amount:   100,
			currency: "",
			wantErr:  ErrInvalidCurrency,
		},
		{
			name:     "short code rejected",
			amount:   100,
			currency: "EU",
			wantErr:  ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(tt.amount, tt.currency)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("New() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMustPanicsOnInvalidCurrency(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected Must to panic on invalid currency")
		}
	}()
	Must(100, "X")
}

func TestAdd(t *testing.T) {
	a := Must(12000, "EUR")
	b := Must(1500, "EUR")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if sum.Amount != 13500 || sum.Currency != "EUR" {
		t.Errorf("Add() = %v, want 13500 EUR", sum)
	}

	if _, err := a.Add(Must(100, "USD")); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
	if _, err := a.Add(Money{Amount: 100}); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("expected ErrInvalidCurrency for empty currency, got %v", err)
	}
}

func TestSubAndNeg(t *testing.T) {
	a := Must(2000, "EUR")
	b := Must(500, "EUR")

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if diff.Amount != 1500 {
		t.Errorf("Sub() = %d, want 1500", diff.Amount)
	}

	neg := b.Neg()
	if neg.Amount != -500 || neg.Currency != "EUR" {
		t.Errorf("Neg() = %v, want -500 EUR", neg)
	}
}

func TestMultiply(t *testing.T) {
	nightly := Must(12000, "EUR")

	got := nightly.Multiply(3)
	if got.Amount != 36000 || got.Currency != "EUR" {
		t.Errorf("Multiply(3) = %v, want 36000 EUR", got)
	}
	if zero := nightly.Multiply(0); !zero.IsZero() || zero.Currency != "EUR" {
		t.Errorf("Multiply(0) = %v, want zero EUR", zero)
	}
}

func TestIsZero(t *testing.T) {
	if !Must(0, "EUR").IsZero() {
		t.Error("zero amount should report IsZero")
	}
	if Must(1, "EUR").IsZero() {
		t.Error("non-zero amount must not report IsZero")
	}
}
