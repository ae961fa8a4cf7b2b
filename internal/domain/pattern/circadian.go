package pattern

import "math"

// Peak hours of the four energy channels.
const (
	mentalPeakHour   = 10
	physicalPeakHour = 17
	creativePeakHour = 14
	socialPeakHour   = 19
)

// Energy is a set of channel levels.
type Energy struct {
	Mental   float64 `json:"mental"`
	Physical float64 `json:"physical"`
	Creative float64 `json:"creative"`
	Social   float64 `json:"social"`
}

func wave(hour int, peak int, amplitude float64) float64 {
	return 50 + amplitude*math.Sin(float64(hour-peak)*math.Pi/12)
}

// forecastBaseline is the unclamped baseline used by the 24-hour forecast.
func forecastBaseline(hour int) Energy {
	return Energy{
		Mental:   wave(hour, mentalPeakHour, 35),
		Physical: wave(hour, physicalPeakHour, 40),
		Creative: wave(hour, creativePeakHour, 30),
		Social:   wave(hour, socialPeakHour, 35),
	}
}

// CurrentEnergy is the snapshot for the present hour. It uses its own amplitude set,
// distinct from the forecast, and is clamped and rounded to one decimal.
func CurrentEnergy(hour int) Energy {
	return Energy{
		Mental:   round1(clamp(wave(hour, mentalPeakHour, 30))),
		Physical: round1(clamp(wave(hour, physicalPeakHour, 35))),
		Creative: round1(clamp(wave(hour, creativePeakHour, 25))),
		Social:   round1(clamp(wave(hour, socialPeakHour, 30))),
	}
}

// Window is a fixed circadian schedule window.
type Window struct {
	Start int     `json:"start"`
	End   int     `json:"end"`
	Level float64 `json:"level"`
}

var schedule = map[string]Window{
	"peak_focus":    {Start: 10, End: 12, Level: 95},
	"creative_peak": {Start: 14, End: 16, Level: 90},
	"physical_peak": {Start: 17, End: 19, Level: 92},
	"social_peak":   {Start: 18, End: 21, Level: 88},
	"deep_sleep":    {Start: 2, End: 4, Level: 100},
	"cortisol_peak": {Start: 8, End: 9, Level: 95},
}

// ChronotypeGuess is reported until a questionnaire exists to refine it.
const ChronotypeGuess = "intermediate"

// Schedule returns a copy of the circadian schedule windows.
func Schedule() map[string]Window {
	out := make(map[string]Window, len(schedule))
	for k, v := range schedule {
		out[k] = v
	}
	return out
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
