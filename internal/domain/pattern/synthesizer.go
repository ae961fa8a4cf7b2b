package pattern

import (
	"fmt"
	"time"
)

// ForecastHours is the length of the hourly forecast.
const ForecastHours = 24

// Synthesize runs the whole engine for one request. now should already be in the
// location's local time; it drives both the lunar phase and the starting hour.
func Synthesize(now time.Time, location Location, weather WeatherObservation) AnalysisResult {
	moon := MoonPhase(now)
	predictions := Forecast(now.Hour(), weather, moon)
	return AnalysisResult{
		HourlyPredictions: predictions,
		Insights:          Insights(predictions, weather, moon, location),
		Factors: Factors{
			WeatherImpact:     round1(WeatherFactor(weather.Condition) * 100),
			TemperatureImpact: round1(TemperatureFactor(weather.Temperature) * 100),
			MoonPhase:         moon.Phase,
			Location:          location.Label(),
		},
	}
}

// Forecast builds the 24 hourly predictions starting at startHour and wrapping past midnight.
func Forecast(startHour int, weather WeatherObservation, moon LunarState) []HourlyPrediction {
	wf := WeatherFactor(weather.Condition)
	tf := TemperatureFactor(weather.Temperature)
	focus := moon.Influence.Focus / 100
	creativity := moon.Influence.Creativity / 100
	social := moon.Influence.Social / 100

	out := make([]HourlyPrediction, 0, ForecastHours)
	for i := 0; i < ForecastHours; i++ {
		hour := ((startHour+i)%24 + 24) % 24
		base := forecastBaseline(hour)

		mental := clamp(base.Mental * wf * focus * tf)
		physical := clamp(base.Physical * wf * tf)
		creative := clamp(base.Creative * wf * creativity * tf)
		soc := clamp(base.Social * wf * social * tf)
		rest := 100 - (mental+physical)/2

		activity, score := bestActivity(mental, creative, physical, soc, rest)
		out = append(out, HourlyPrediction{
			Hour:                hour,
			Time:                hourLabel(hour),
			Mental:              mental,
			Physical:            physical,
			Creative:            creative,
			Social:              soc,
			Rest:                rest,
			RecommendedActivity: activity,
			Confidence:          round1(score),
		})
	}
	return out
}

type scoredActivity struct {
	activity Activity
	score    float64
}

// bestActivity picks the strict maximum; earlier entries win ties.
func bestActivity(mental, creative, physical, social, rest float64) (Activity, float64) {
	candidates := [...]scoredActivity{
		{ActivityDeepWork, mental},
		{ActivityCreative, creative},
		{ActivityExercise, physical},
		{ActivitySocializing, social},
		{ActivityRest, rest},
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return best.activity, best.score
}

func hourLabel(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Rounded returns a copy with the energy channels rounded to one decimal place.
func (p HourlyPrediction) Rounded() HourlyPrediction {
	p.Mental = round1(p.Mental)
	p.Physical = round1(p.Physical)
	p.Creative = round1(p.Creative)
	p.Social = round1(p.Social)
	p.Rest = round1(p.Rest)
	return p
}

// Rounded returns a copy of the result with every prediction rounded for display.
func (r AnalysisResult) Rounded() AnalysisResult {
	preds := make([]HourlyPrediction, len(r.HourlyPredictions))
	for i, p := range r.HourlyPredictions {
		preds[i] = p.Rounded()
	}
	insights := make([]Insight, len(r.Insights))
	copy(insights, r.Insights)
	r.HourlyPredictions = preds
	r.Insights = insights
	return r
}
