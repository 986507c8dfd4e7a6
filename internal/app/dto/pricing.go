package dto

import "cabinbook/internal/domain/pricing"

type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type PricingBreakdown struct {
	Nights      int      `json:"nights"`
	Base        MoneyDTO `json:"base"`
	ExtraAdults int      `json:"extra_adults"`
	ExtraKids   int      `json:"extra_children"`
	ExtraGuests MoneyDTO `json:"extra_guests"`
	Pets        MoneyDTO `json:"pets"`
	Extras      MoneyDTO `json:"extras"`
	Total       MoneyDTO `json:"total"`
}

func MapPricingBreakdown(b pricing.Breakdown) PricingBreakdown {
	return PricingBreakdown{
		Nights:      b.Nights,
		Base:        MoneyDTO{Amount: b.Base.Amount, Currency: b.Base.Currency},
		ExtraAdults: b.ExtraAdults,
		ExtraKids:   b.ExtraKids,
		ExtraGuests: MoneyDTO{Amount: b.ExtraGuests.Amount, Currency: b.ExtraGuests.Currency},
		Pets:        MoneyDTO{Amount: b.Pets.Amount, Currency: b.Pets.Currency},
		Extras:      MoneyDTO{Amount: b.Extras.Amount, Currency: b.Extras.Currency},
		Total:       MoneyDTO{Amount: b.Total.Amount, Currency: b.Total.Currency},
	}
}
