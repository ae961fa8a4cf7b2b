package pattern

import (
	"math"
	"strconv"
	"time"
)

// SynodicPeriod is the mean length of a lunar cycle in days.
const SynodicPeriod = 29.53

// referenceNewMoon is a known new moon.
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

var phaseNames = [8]string{
	"New Moon",
	"Waxing Crescent",
	"First Quarter",
	"Waxing Gibbous",
	"Full Moon",
	"Waning Gibbous",
	"Last Quarter",
	"Waning Crescent",
}

var phaseEmoji = [8]string{"🌑", "🌒", "🌓", "🌔", "🌕", "🌖", "🌗", "🌘"}

// Influence scales the mental, creative and social channels per phase. Values are percentages.
type Influence struct {
	Focus      float64 `json:"focus"`
	Creativity float64 `json:"creativity"`
	Social     float64 `json:"social"`
}

var phaseInfluence = [8]Influence{
	{Focus: 90, Creativity: 95, Social: 50},
	{Focus: 85, Creativity: 90, Social: 60},
	{Focus: 75, Creativity: 80, Social: 70},
	{Focus: 70, Creativity: 75, Social: 80},
	{Focus: 60, Creativity: 70, Social: 95},
	{Focus: 70, Creativity: 75, Social: 85},
	{Focus: 80, Creativity: 80, Social: 70},
	{Focus: 85, Creativity: 85, Social: 60},
}

// Phase names referenced by the insight rules.
const (
	PhaseNewMoon        = "New Moon"
	PhaseWaxingCrescent = "Waxing Crescent"
	PhaseFullMoon       = "Full Moon"
)

// LunarState describes the moon at a point in time.
type LunarState struct {
	Phase        string    `json:"phase"`
	PhaseIndex   int       `json:"phaseIndex"`
	Illumination float64   `json:"illumination"`
	Influence    Influence `json:"influence"`
	Emoji        string    `json:"emoji"`
}

// MoonPhase computes the lunar state at now.
func MoonPhase(now time.Time) LunarState {
	fraction := PhaseFraction(now)
	idx := PhaseIndex(fraction)
	return LunarState{
		Phase:        phaseNames[idx],
		PhaseIndex:   idx,
		Illumination: round1(Illumination(fraction)),
		Influence:    phaseInfluence[idx],
		Emoji:        phaseEmoji[idx],
	}
}

// PhaseFraction is the position in the cycle, in [0, 1), counted in whole elapsed days.
func PhaseFraction(now time.Time) float64 {
	days := math.Floor(now.Sub(referenceNewMoon).Hours() / 24)
	rem := math.Mod(days, SynodicPeriod)
	if rem < 0 {
		rem += SynodicPeriod
	}
	return rem / SynodicPeriod
}

// PhaseIndex buckets a cycle fraction into one of the eight named phases.
func PhaseIndex(fraction float64) int {
	idx := int(math.Floor(fraction*8)) % 8
	if idx < 0 {
		idx += 8
	}
	return idx
}

// Illumination returns the lit percentage for a cycle fraction, unrounded.
func Illumination(fraction float64) float64 {
	return math.Abs(math.Cos((fraction-0.5)*2*math.Pi)) * 100
}

// PhaseByIndex returns the lunar state for a phase index, with illumination at the
// start of that phase. Out of range indexes wrap.
func PhaseByIndex(idx int) LunarState {
	idx = ((idx % 8) + 8) % 8
	fraction := float64(idx) / 8
	return LunarState{
		Phase:        phaseNames[idx],
		PhaseIndex:   idx,
		Illumination: round1(Illumination(fraction)),
		Influence:    phaseInfluence[idx],
		Emoji:        phaseEmoji[idx],
	}
}

// round1 rounds the exact binary value to one decimal, so 0.15 (really 0.1499...) gives 0.1.
func round1(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	return r
}
