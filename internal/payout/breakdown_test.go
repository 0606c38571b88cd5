package payout

import "testing"

func TestCalculateBreakdown_Example(t *testing.T) {
	got := CalculateBreakdown(100000)
	want := Breakdown{GrossAmountCents: 100000, PlatformFeeCents: 5000, OwnerNetCents: 95000}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestCalculateBreakdown_RoundsHalfUp(t *testing.T) {
	// 10 * 0.05 = 0.5 -> 1
	if got := CalculateBreakdown(10); got.PlatformFeeCents != 1 || got.OwnerNetCents != 9 {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
	// 29 * 0.05 = 1.45 -> 1
	if got := CalculateBreakdown(29); got.PlatformFeeCents != 1 {
		t.Fatalf("expected fee 1, got %d", got.PlatformFeeCents)
	}
	// 30 * 0.05 = 1.5 -> 2
	if got := CalculateBreakdown(30); got.PlatformFeeCents != 2 {
		t.Fatalf("expected fee 2, got %d", got.PlatformFeeCents)
	}
}

func TestCalculateBreakdown_Invariants(t *testing.T) {
	for _, gross := range []int64{0, 1, 2, 9, 19, 20, 21, 99, 101, 12345, 987654321} {
		b := CalculateBreakdown(gross)
		if b.OwnerNetCents < 0 {
			t.Fatalf("gross %d: negative owner net %d", gross, b.OwnerNetCents)
		}
		if b.PlatformFeeCents+b.OwnerNetCents != gross {
			t.Fatalf("gross %d: fee %d + net %d does not add up", gross, b.PlatformFeeCents, b.OwnerNetCents)
		}
		wantFee := (gross*5 + 50) / 100
		if b.PlatformFeeCents != wantFee {
			t.Fatalf("gross %d: expected fee %d, got %d", gross, wantFee, b.PlatformFeeCents)
		}
	}
}

func TestInstallments_SumEqualsGross(t *testing.T) {
	for _, gross := range []int64{1, 2, 3, 101, 99999, 150000} {
		parts := Installments(gross)
		if len(parts) != 2 {
			t.Fatalf("gross %d: expected 2 installments, got %d", gross, len(parts))
		}
		if !parts[1].IsFinal || parts[0].IsFinal {
			t.Fatalf("gross %d: expected only last installment final", gross)
		}
		if parts[0].AmountCents+parts[1].AmountCents != gross {
			t.Fatalf("gross %d: installments do not sum: %+v", gross, parts)
		}
	}
}

func TestInstallments_OddCentGoesToFinal(t *testing.T) {
	// 101 * 50% = 50.5 -> 51, final absorbs the delta.
	parts := Installments(101)
	if parts[0].AmountCents != 51 || parts[1].AmountCents != 50 {
		t.Fatalf("unexpected split: %+v", parts)
	}
}

func TestInstallments_NonPositive(t *testing.T) {
	if got := Installments(0); got != nil {
		t.Fatalf("expected nil, got %+v", got)
	}
}
