package cli

import (
	"testing"
	"time"
)

func TestParseSinceDuration(t *testing.T) {
	tests := []struct {
		input   string
		wantAgo time.Duration
		wantErr bool
	}{
		{"7d", 7 * 24 * time.Hour, false},
		{"30d", 30 * 24 * time.Hour, false},
		{"1d", 24 * time.Hour, false},
		{"24h", 24 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"", 7 * 24 * time.Hour, false},
		{"  7d ", 7 * 24 * time.Hour, false},
		{"xd", 0, true},
		{"sevendays", 0, true},
	}

	for _, tt := range tests {
		got, err := parseSinceDuration(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseSinceDuration(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseSinceDuration(%q) failed: %v", tt.input, err)
			continue
		}

		want := time.Now().UTC().Add(-tt.wantAgo)
		if diff := got.Sub(want); diff < -time.Minute || diff > time.Minute {
			t.Errorf("parseSinceDuration(%q) = %v, want about %v", tt.input, got, want)
		}
	}
}
