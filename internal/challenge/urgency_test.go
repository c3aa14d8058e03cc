package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestUrgencyTheme(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    UrgencyLevel
	}{
		{"zero is critical", 0, UrgencyCritical},
		{"just under one hour", 3599, UrgencyCritical},
		{"exactly one hour", 3600, UrgencyUrgent},
		{"just under three hours", 3*3600 - 1, UrgencyUrgent},
		{"exactly three hours", 3 * 3600, UrgencyWarning},
		{"just under twelve hours", 12*3600 - 1, UrgencyWarning},
		{"exactly twelve hours", 12 * 3600, UrgencyNormal},
		{"whole day left", 23 * 3600, UrgencyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, UrgencyTheme(tt.seconds))
		})
	}
}

func TestSecondsUntilEndOfDay(t *testing.T) {
	loc := mustLoc(t)

	now := time.Date(2026, 9, 10, 23, 0, 0, 0, loc)
	require.Equal(t, 3599, SecondsUntilEndOfDay(now))

	midnight := time.Date(2026, 9, 10, 0, 0, 0, 0, loc)
	require.Equal(t, 23*3600+59*60+59, SecondsUntilEndOfDay(midnight))

	// 23:59:59 之后不出负数
	lastTick := time.Date(2026, 9, 10, 23, 59, 59, 500000000, loc)
	require.Equal(t, 0, SecondsUntilEndOfDay(lastTick))
}
