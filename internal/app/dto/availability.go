package dto

import (
	"time"

	"cabinbook/internal/domain/shared/daterange"
)

type BlockedRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type BlockedRanges struct {
	Ranges []BlockedRange `json:"ranges"`
}

func MapBlockedRanges(ranges []daterange.Range) BlockedRanges {
	out := make([]BlockedRange, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, BlockedRange{Start: r.Start, End: r.End})
	}
	return BlockedRanges{Ranges: out}
}
