package challenge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func defaultRules() Rules {
	return Rules{
		DailyGoalKm:         3.0,
		MinUploadKm:         1.0,
		MaxPaceMinPerKm:     20.0,
		PenaltyPerMissedDay: 20000,
	}
}

func TestTruncateDistance(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"rounds down not up", 2.99, 2.9},
		{"exact one decimal unchanged", 3.1, 3.1},
		{"integer unchanged", 5, 5},
		{"negative becomes zero", -1.2, 0},
		{"NaN becomes zero", math.NaN(), 0},
		{"positive infinity becomes zero", math.Inf(1), 0},
		{"negative infinity becomes zero", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, TruncateDistance(tt.raw), 1e-9)
		})
	}
}

func TestEvaluate(t *testing.T) {
	rules := defaultRules()

	tests := []struct {
		name     string
		distance float64
		duration float64
		accepted bool
		reason   string
		wantKm   float64
	}{
		{"normal run accepted", 5.23, 30, true, "", 5.2},
		{"below minimum rejected", 0.9, 10, false, ReasonDistanceBelowMinimum, 0.9},
		{"exactly minimum accepted", 1.0, 10, true, "", 1.0},
		{"zero duration rejected", 3.0, 0, false, ReasonDurationUnreadable, 3.0},
		{"negative duration treated as unreadable", 3.0, -5, false, ReasonDurationUnreadable, 3.0},
		{"pace over limit rejected", 2.0, 41, false, ReasonPaceTooSlow, 2.0},
		{"pace exactly at limit accepted", 2.0, 40, true, "", 2.0},
		{"garbage distance rejected on minimum", math.NaN(), 30, false, ReasonDistanceBelowMinimum, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := rules.Evaluate(tt.distance, tt.duration)
			require.Equal(t, tt.accepted, v.Accepted)
			require.Equal(t, tt.reason, v.Reason)
			if tt.accepted || tt.reason != ReasonDistanceBelowMinimum {
				require.InDelta(t, tt.wantKm, v.DistanceKm, 1e-9)
			}
			if !tt.accepted {
				require.NotEmpty(t, v.Message)
			}
		})
	}
}

func TestEvaluateTruncatedDistanceAccepted(t *testing.T) {
	rules := defaultRules()

	// 1.09 截断成 1.0，恰好卡在门槛上，应当接受
	v := rules.Evaluate(1.09, 10)
	require.True(t, v.Accepted)
	require.InDelta(t, 1.0, v.DistanceKm, 1e-9)
}

func TestEvaluatePaceUsesTruncatedDistance(t *testing.T) {
	rules := defaultRules()

	// 原始距离 2.09 截断成 2.0，配速按 2.0 算是 21 min/km，超限
	v := rules.Evaluate(2.09, 42)
	require.False(t, v.Accepted)
	require.Equal(t, ReasonPaceTooSlow, v.Reason)
	require.InDelta(t, 21.0, v.PaceMinPerKm, 1e-9)

	// 提示里的配速保留一位小数
	require.Contains(t, v.Message, "Pace 21.0 min/km")
}
