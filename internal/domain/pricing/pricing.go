package pricing

import (
	"errors"

	"cabinbook/internal/domain/booking"
	"cabinbook/internal/domain/shared/money"
)

var ErrInvalidNights = errors.New("pricing: nights must be positive")

const Currency = "EUR"

// Tariff is the fixed rate card for the unit. Per-night and per-stay fees
// are money values in a single currency.
type Tariff struct {
	BaseNightly    money.Money
	ExtraAdult     money.Money
	ExtraChild     money.Money
	PetFee         money.Money
	Firewood       money.Money
	LateCheckout   money.Money
	IncludedGuests int
}

// DefaultTariff mirrors the published price list.
var DefaultTariff = Tariff{
	BaseNightly:    money.Must(12000, Currency),
	ExtraAdult:     money.Must(1500, Currency),
	ExtraChild:     money.Must(1000, Currency),
	PetFee:         money.Must(2000, Currency),
	Firewood:       money.Must(1000, Currency),
	LateCheckout:   money.Must(2000, Currency),
	IncludedGuests: 2,
}

// Breakdown itemizes a quote. Derived, never persisted.
type Breakdown struct {
	Nights      int
	Base        money.Money
	ExtraAdults int
	ExtraKids   int
	ExtraGuests money.Money
	Pets        money.Money
	Extras      money.Money
	Total       money.Money
}

// Quote computes the stay price against the tariff. Pure function: no I/O,
// no state. The base rate covers IncludedGuests people; adults fill the
// included slots first, children take whatever slots remain.
func (t Tariff) Quote(nights, adults, children int, hasPets bool, extras booking.Extras) (Breakdown, error) {
	if nights <= 0 {
		return Breakdown{}, ErrInvalidNights
	}
	if adults < 0 {
		adults = 0
	}
	if children < 0 {
		children = 0
	}

	includedAdults := min(adults, t.IncludedGuests)
	includedChildren := min(children, t.IncludedGuests-includedAdults)
	extraAdults := adults - includedAdults
	extraChildren := children - includedChildren

	base := t.BaseNightly.Multiply(int64(nights))
	extraGuests, err := t.ExtraAdult.Multiply(int64(extraAdults)).Add(t.ExtraChild.Multiply(int64(extraChildren)))
	if err != nil {
		return Breakdown{}, err
	}

	pets := t.zero()
	if hasPets {
		pets = t.PetFee
	}

	addons := t.zero()
	if extras.Firewood {
		if addons, err = addons.Add(t.Firewood); err != nil {
			return Breakdown{}, err
		}
	}
	if extras.LateCheckout {
		if addons, err = addons.Add(t.LateCheckout); err != nil {
			return Breakdown{}, err
		}
	}

	total := base
	for _, part := range []money.Money{extraGuests, pets, addons} {
		if total, err = total.Add(part); err != nil {
			return Breakdown{}, err
		}
	}

	return Breakdown{
		Nights:      nights,
		Base:        base,
		ExtraAdults: extraAdults,
		ExtraKids:   extraChildren,
		ExtraGuests: extraGuests,
		Pets:        pets,
		Extras:      addons,
		Total:       total,
	}, nil
}

func (t Tariff) zero() money.Money {
	return money.Money{Currency: t.BaseNightly.Currency}
}
