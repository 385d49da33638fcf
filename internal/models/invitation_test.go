package models

import (
	"testing"
	"time"
)

func TestInvitationStatus(t *testing.T) {
	expires := time.Date(2025, 9, 3, 10, 0, 0, 0, time.UTC)
	consumed := expires.Add(-time.Hour)

	tests := []struct {
		name string
		inv  Invitation
		now  time.Time
		want string
	}{
		{
			name: "pending before expiry",
			inv:  Invitation{ExpiresAt: expires},
			now:  expires.Add(-time.Minute),
			want: "PENDING",
		},
		{
			name: "expired at the boundary",
			inv:  Invitation{ExpiresAt: expires},
			now:  expires,
			want: "EXPIRED",
		},
		{
			name: "expired after",
			inv:  Invitation{ExpiresAt: expires},
			now:  expires.Add(time.Hour),
			want: "EXPIRED",
		},
		{
			name: "consumed wins over expiry",
			inv:  Invitation{ExpiresAt: expires, ConsumedAt: &consumed},
			now:  expires.Add(time.Hour),
			want: "CONSUMED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inv.Status(tt.now); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
