package tradejournal

import "testing"

func TestFee(t *testing.T) {
	fees := DefaultFees("USD")
	tests := []struct {
		q    float64
		want Money
	}{
		{0, USD(0)},
		{-5, USD(0)},
		{1, USD(3.5078)},
		{100, USD(4.28)},
		{150, USD(4.67)},
	}
	for _, tc := range tests {
		if got := fees.Fee(Q(tc.q)); !got.Equal(tc.want) {
			t.Errorf("Fee(%v) = %v, want %v", tc.q, got.Decimal(), tc.want.Decimal())
		}
	}
}

func TestFeeMonotonic(t *testing.T) {
	for _, fees := range []FeeSchedule{
		DefaultFees("USD"),
		{Base: USD(3.5), PerShare: USD(0.0048)},
		{Base: USD(0), PerShare: USD(0.01)},
	} {
		prev := fees.Fee(Q(0))
		if !prev.IsZero() {
			t.Errorf("Fee(0) = %v, want 0", prev)
		}
		for _, q := range []float64{0.5, 1, 2, 10, 150, 1000} {
			fee := fees.Fee(Q(q))
			if !fee.GreaterThan(prev) {
				t.Errorf("Fee(%v) = %v, want more than %v", q, fee.Decimal(), prev.Decimal())
			}
			prev = fee
		}
	}
}

func TestRecordFees(t *testing.T) {
	fees := FeeSchedule{Base: USD(3.5), PerShare: USD(0.01), ChargeExit: true}
	open := TradeRecord{Ticker: "ABC", EntryPrice: USD(10), Quantity: Q(100)}
	closed := TradeRecord{Ticker: "XYZ", EntryPrice: USD(20), ExitPrice: USD(25), Quantity: Q(100)}

	if got, want := fees.RecordFees(open), USD(4.5); !got.Equal(want) {
		t.Errorf("RecordFees(open) = %v, want %v", got.Decimal(), want.Decimal())
	}
	if got, want := fees.RecordFees(closed), USD(9); !got.Equal(want) {
		t.Errorf("RecordFees(closed) = %v, want %v", got.Decimal(), want.Decimal())
	}

	fees.ChargeExit = false
	if got, want := fees.RecordFees(closed), USD(4.5); !got.Equal(want) {
		t.Errorf("RecordFees(closed, no exit fee) = %v, want %v", got.Decimal(), want.Decimal())
	}
}
