package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForecastBaselineAtPeakAnchors(t *testing.T) {
	require.InDelta(t, 50, forecastBaseline(10).Mental, 1e-9)
	require.InDelta(t, 50, forecastBaseline(17).Physical, 1e-9)
	require.InDelta(t, 50, forecastBaseline(14).Creative, 1e-9)
	require.InDelta(t, 50, forecastBaseline(19).Social, 1e-9)
	require.InDelta(t, 85, forecastBaseline(16).Mental, 1e-9)
	require.InDelta(t, 90, forecastBaseline(23).Physical, 1e-9)
}

func TestCurrentEnergyUsesSnapshotAmplitudes(t *testing.T) {
	e := CurrentEnergy(16)
	require.Equal(t, 80.0, e.Mental)
	require.Equal(t, 50.0, CurrentEnergy(17).Physical)
	require.Equal(t, 75.0, CurrentEnergy(20).Creative)
	require.Equal(t, 20.0, CurrentEnergy(13).Social)
	require.NotEqual(t, forecastBaseline(16).Mental, e.Mental)
}

func TestCurrentEnergyBounded(t *testing.T) {
	for h := 0; h < 24; h++ {
		e := CurrentEnergy(h)
		for _, v := range []float64{e.Mental, e.Physical, e.Creative, e.Social} {
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 100.0)
		}
	}
}

func TestScheduleReturnsCopy(t *testing.T) {
	s := Schedule()
	require.Equal(t, Window{Start: 10, End: 12, Level: 95}, s["peak_focus"])
	require.Len(t, s, 6)
	s["peak_focus"] = Window{}
	require.Equal(t, Window{Start: 10, End: 12, Level: 95}, Schedule()["peak_focus"])
}
