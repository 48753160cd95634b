package service_test

import (
	"testing"

	"stockbook/internal/service"

	"github.com/shopspring/decimal"
)

func TestCalculateGST(t *testing.T) {
	tests := []struct {
		name       string
		unitPrice  string
		quantity   int
		rate       string
		interState bool
		want       [5]string // subtotal, cgst, sgst, igst, total
	}{
		{"intra state splits the rate", "100", 2, "18", false, [5]string{"200", "18", "18", "0", "236"}},
		{"inter state charges igst", "100", 2, "18", true, [5]string{"200", "0", "0", "36", "236"}},
		{"heads rounded half up", "33.33", 3, "5", false, [5]string{"99.99", "2.5", "2.5", "0", "104.99"}},
		{"zero rate", "49.5", 4, "0", true, [5]string{"198", "0", "0", "0", "198"}},
		{"zero quantity", "100", 0, "18", false, [5]string{"0", "0", "0", "0", "0"}},
		{"negative quantity propagates", "100", -1, "18", false, [5]string{"-100", "-9", "-9", "0", "-118"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.CalculateGST(dec(tt.unitPrice), tt.quantity, dec(tt.rate), tt.interState)
			heads := []decimal.Decimal{got.Subtotal, got.CGST, got.SGST, got.IGST, got.Total}
			for i, h := range heads {
				if !h.Equal(dec(tt.want[i])) {
					t.Errorf("head %d = %s, want %s", i, h, tt.want[i])
				}
			}
			sum := got.Subtotal.Add(got.CGST).Add(got.SGST).Add(got.IGST)
			if !sum.Equal(got.Total) {
				t.Errorf("total %s does not equal sum of heads %s", got.Total, sum)
			}
		})
	}
}

func TestIsInterState(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{"27", "27", false},
		{"27", "29", true},
		{"", "29", false},
		{"27", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := service.IsInterState(tt.from, tt.to); got != tt.want {
			t.Errorf("IsInterState(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
