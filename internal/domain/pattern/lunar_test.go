package pattern

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMoonPhaseAtReferenceEpoch(t *testing.T) {
	state := MoonPhase(referenceNewMoon.Add(time.Hour))
	require.Equal(t, 0, state.PhaseIndex)
	require.Equal(t, PhaseNewMoon, state.Phase)
	require.Equal(t, 100.0, state.Illumination)
	require.Equal(t, Influence{Focus: 90, Creativity: 95, Social: 50}, state.Influence)
	require.Equal(t, "🌑", state.Emoji)
}

func TestMoonPhaseFullMoonAfterFifteenDays(t *testing.T) {
	state := MoonPhase(referenceNewMoon.Add(15*24*time.Hour + time.Hour))
	require.Equal(t, 4, state.PhaseIndex)
	require.Equal(t, PhaseFullMoon, state.Phase)
	require.Equal(t, Influence{Focus: 60, Creativity: 70, Social: 95}, state.Influence)
}

func TestMoonPhaseCountsWholeDays(t *testing.T) {
	start := referenceNewMoon.Add(3 * 24 * time.Hour)
	require.Equal(t, PhaseFraction(start), PhaseFraction(start.Add(23*time.Hour)))
}

func TestMoonPhaseCyclesThroughAllPhases(t *testing.T) {
	seen := make(map[int]bool)
	prev := 0
	for day := 0; day < 30; day++ {
		idx := MoonPhase(referenceNewMoon.Add(time.Duration(day)*24*time.Hour + time.Hour)).PhaseIndex
		if day < 29 {
			require.GreaterOrEqual(t, idx, prev, "day %d", day)
		}
		prev = idx
		seen[idx] = true
	}
	require.Len(t, seen, 8)
}

func TestMoonPhasePeriodicity(t *testing.T) {
	// 100 synodic periods is a whole number of days, so the elapsed-day count moves by exactly 2953.
	period := 2953 * 24 * time.Hour
	base := time.Date(2024, time.March, 3, 12, 0, 0, 0, time.UTC)
	for day := 0; day < 60; day++ {
		at := base.Add(time.Duration(day) * 24 * time.Hour)
		f1 := PhaseFraction(at)
		f2 := PhaseFraction(at.Add(period))
		delta := math.Abs(f1 - f2)
		delta = math.Min(delta, 1-delta)
		require.Less(t, delta, 1e-9, "day %d", day)
		if nearBucketEdge(f1) {
			continue
		}
		require.Equal(t, PhaseIndex(f1), PhaseIndex(f2), "day %d", day)
	}
}

func TestMoonPhaseStableForFixedClock(t *testing.T) {
	at := time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC)
	require.Equal(t, MoonPhase(at), MoonPhase(at))
}

func TestPhaseFractionBeforeEpoch(t *testing.T) {
	f := PhaseFraction(time.Date(1999, time.December, 1, 0, 0, 0, 0, time.UTC))
	require.GreaterOrEqual(t, f, 0.0)
	require.Less(t, f, 1.0)
}

func TestIlluminationSymmetry(t *testing.T) {
	for i := 0; i <= 100; i++ {
		f := float64(i) / 100
		require.InDelta(t, Illumination(f), Illumination(1-f), 1e-9, "fraction %v", f)
	}
	require.InDelta(t, 0.0, Illumination(0.25), 1e-9)
	require.InDelta(t, 100.0, Illumination(0.5), 1e-9)
}

func TestPhaseByIndexWraps(t *testing.T) {
	require.Equal(t, PhaseByIndex(0), PhaseByIndex(8))
	require.Equal(t, "Waning Crescent", PhaseByIndex(-1).Phase)
	require.Equal(t, Influence{Focus: 80, Creativity: 80, Social: 70}, PhaseByIndex(6).Influence)
}

func nearBucketEdge(fraction float64) bool {
	scaled := fraction * 8
	return math.Abs(scaled-math.Round(scaled)) < 1e-6
}

func TestRound1UsesExactBinaryValue(t *testing.T) {
	cases := map[float64]float64{
		0.15:              0.1,
		0.25:              0.2,
		1.45:              1.4,
		12.25:             12.2,
		38.25:             38.2,
		54.45000000000001: 54.5,
		65.44999999999999: 65.4,
		-2.35:             -2.4,
	}
	for in, want := range cases {
		require.Equal(t, want, round1(in), "round1(%v)", in)
	}
}
