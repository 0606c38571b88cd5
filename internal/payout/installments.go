package payout

import (
	"github.com/shopspring/decimal"
)

type Phase string

const (
	PhaseFirst Phase = "first"
	PhaseFinal Phase = "final"
)

type Installment struct {
	Phase       Phase `json:"phase"`
	AmountCents int64 `json:"amountCents"`
	IsFinal     bool  `json:"isFinal"`
}

type share struct {
	phase   Phase
	percent decimal.Decimal
}

// Traveler pays half up front and the rest once the owner's resort booking is verified.
var travelerSchedule = []share{
	{phase: PhaseFirst, percent: decimal.NewFromInt(50)},
	{phase: PhaseFinal, percent: decimal.NewFromInt(50)},
}

// Installments computes the traveler's payment phases for a gross price.
//
// Percentages are applied against the gross (not the remainder) and rounded to
// whole cents; any rounding delta lands on the final installment so the sum
// always equals gross.
func Installments(grossCents int64) []Installment {
	if grossCents <= 0 {
		return nil
	}

	total := decimal.NewFromInt(grossCents)
	hundred := decimal.NewFromInt(100)

	out := make([]Installment, 0, len(travelerSchedule))
	var sum int64
	for i, s := range travelerSchedule {
		amt := total.Mul(s.percent).Div(hundred).Round(0).IntPart()
		out = append(out, Installment{
			Phase:       s.phase,
			AmountCents: amt,
			IsFinal:     i == len(travelerSchedule)-1,
		})
		sum += amt
	}

	if delta := grossCents - sum; delta != 0 {
		out[len(out)-1].AmountCents += delta
	}
	return out
}
