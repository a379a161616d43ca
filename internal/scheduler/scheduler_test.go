package scheduler

import (
	"testing"
	"time"

	"github.com/dukex/integrail/internal/domain"
)

func TestDue(t *testing.T) {
	now := time.Date(2026, 8, 3, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		w    *domain.Workflow
		want bool
	}{
		{
			name: "no interval never due",
			w:    &domain.Workflow{PollingIntervalSeconds: 0},
			want: false,
		},
		{
			name: "never run is due",
			w:    &domain.Workflow{PollingIntervalSeconds: 30},
			want: true,
		},
		{
			name: "interval elapsed",
			w: &domain.Workflow{
				PollingIntervalSeconds: 30,
				LastRunAt:              timePtr(now.Add(-31 * time.Second)),
			},
			want: true,
		},
		{
			name: "interval not yet elapsed",
			w: &domain.Workflow{
				PollingIntervalSeconds: 30,
				LastRunAt:              timePtr(now.Add(-10 * time.Second)),
			},
			want: false,
		},
		{
			name: "exactly at the boundary is due",
			w: &domain.Workflow{
				PollingIntervalSeconds: 30,
				LastRunAt:              timePtr(now.Add(-30 * time.Second)),
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := due(tt.w, now); got != tt.want {
				t.Fatalf("due() = %v, want %v", got, tt.want)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }
