package youtube

import "testing"

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		iso  string
		want int
	}{
		{"PT3M45S", 225},
		{"PT1H", 3600},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT61S", 61},
		{"PT10M", 600},
		{"PT0S", 0},
		{"", 0},
		{"garbage", 0},
		{"P1D", 0},
		{"PT", 0},
	}

	for _, tt := range tests {
		t.Run(tt.iso, func(t *testing.T) {
			if got := ParseISODuration(tt.iso); got != tt.want {
				t.Errorf("ParseISODuration(%q) = %d, want %d", tt.iso, got, tt.want)
			}
		})
	}
}
