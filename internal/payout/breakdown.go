package payout

import (
	"github.com/shopspring/decimal"
)

// PlatformFeeRate is the share of the gross stay price kept by the platform.
var PlatformFeeRate = decimal.RequireFromString("0.05")

type Breakdown struct {
	GrossAmountCents int64 `json:"grossAmountCents"`
	PlatformFeeCents int64 `json:"platformFeeCents"`
	OwnerNetCents    int64 `json:"ownerNetCents"`
}

// CalculateBreakdown splits a gross price into platform fee and owner net.
// The fee is rounded half-up to the nearest cent; owner net never goes below zero.
func CalculateBreakdown(grossCents int64) Breakdown {
	gross := decimal.NewFromInt(grossCents)
	fee := gross.Mul(PlatformFeeRate).Round(0).IntPart()

	net := grossCents - fee
	if net < 0 {
		net = 0
	}

	return Breakdown{
		GrossAmountCents: grossCents,
		PlatformFeeCents: fee,
		OwnerNetCents:    net,
	}
}
