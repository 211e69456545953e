package types

import "testing"

func TestParseDirection(t *testing.T) {
	cases := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"buy", DirectionBuy, true},
		{"BUY", DirectionBuy, true},
		{" Sell ", DirectionSell, true},
		{"sell", DirectionSell, true},
		{"hold", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, err := ParseDirection(tc.in)
		if tc.ok && err != nil {
			t.Errorf("ParseDirection(%q) unexpected error: %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseDirection(%q) expected error", tc.in)
		}
		if got != tc.want {
			t.Errorf("ParseDirection(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
