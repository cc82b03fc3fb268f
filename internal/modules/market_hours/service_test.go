package market_hours

import (
	"testing"
	"time"
)

func mustLoadNY(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("failed to load America/New_York: %v", err)
	}
	return loc
}

func TestIsNYSEOpen(t *testing.T) {
	svc := NewService()
	ny := mustLoadNY(t)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{
			name: "mid session Wednesday",
			at:   time.Date(2024, 6, 12, 12, 0, 0, 0, ny),
			want: true,
		},
		{
			name: "exactly at open",
			at:   time.Date(2024, 6, 12, 9, 30, 0, 0, ny),
			want: true,
		},
		{
			name: "exactly at close",
			at:   time.Date(2024, 6, 12, 16, 0, 0, 0, ny),
			want: true,
		},
		{
			name: "one minute before open",
			at:   time.Date(2024, 6, 12, 9, 29, 0, 0, ny),
			want: false,
		},
		{
			name: "one minute after close",
			at:   time.Date(2024, 6, 12, 16, 1, 0, 0, ny),
			want: false,
		},
		{
			name: "Saturday midday",
			at:   time.Date(2024, 6, 15, 12, 0, 0, 0, ny),
			want: false,
		},
		{
			name: "Sunday midday",
			at:   time.Date(2024, 6, 16, 12, 0, 0, 0, ny),
			want: false,
		},
		{
			name: "UTC time inside session",
			// 14:30 UTC == 10:30 ET during daylight saving
			at:   time.Date(2024, 6, 12, 14, 30, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "UTC time after session",
			// 21:00 UTC == 17:00 ET during daylight saving
			at:   time.Date(2024, 6, 12, 21, 0, 0, 0, time.UTC),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.IsNYSEOpen(tt.at); got != tt.want {
				t.Errorf("IsNYSEOpen(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}
