package models

import "testing"

func TestSplitAmountSumsToGross(t *testing.T) {
	cases := []struct {
		gross int64
		rate  float64
	}{
		{10000, 0.15},
		{9999, 0.15},
		{1, 0.15},
		{0, 0.15},
		{3333, 0.10},
		{100, 0.333},
		{12345, 0.2},
		{1, 0.99},
	}
	for _, c := range cases {
		commission, payout := SplitAmount(c.gross, c.rate)
		if commission+payout != c.gross {
			t.Errorf("SplitAmount(%d, %v): %d + %d != %d",
				c.gross, c.rate, commission, payout, c.gross)
		}
		if commission < 0 || payout < 0 {
			t.Errorf("SplitAmount(%d, %v): negative part (%d, %d)",
				c.gross, c.rate, commission, payout)
		}
	}
}

func TestSplitAmountRounding(t *testing.T) {
	// 15% of 9999 is 1499.85, which rounds to 1500.
	commission, payout := SplitAmount(9999, 0.15)
	if commission != 1500 {
		t.Errorf("commission = %d, want 1500", commission)
	}
	if payout != 8499 {
		t.Errorf("payout = %d, want 8499", payout)
	}
}

func TestSplitAmountCommissionNeverExceedsGross(t *testing.T) {
	commission, payout := SplitAmount(1, 1.0)
	if commission != 1 || payout != 0 {
		t.Errorf("SplitAmount(1, 1.0) = (%d, %d), want (1, 0)", commission, payout)
	}
}
