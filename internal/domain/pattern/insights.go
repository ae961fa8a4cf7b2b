package pattern

import (
	"fmt"
	"strconv"
)

// Insights derives the ranked recommendations. The first three are always present;
// weather, cosmic and temperature insights depend on conditions.
func Insights(predictions []HourlyPrediction, weather WeatherObservation, moon LunarState, location Location) []Insight {
	insights := make([]Insight, 0, 6)
	if len(predictions) > 0 {
		mental := peakBy(predictions, func(p HourlyPrediction) float64 { return p.Mental })
		creative := peakBy(predictions, func(p HourlyPrediction) float64 { return p.Creative })
		physical := peakBy(predictions, func(p HourlyPrediction) float64 { return p.Physical })

		insights = append(insights,
			hourInsight(InsightPeakPerformance, "🎯", "Peak Focus Window",
				fmt.Sprintf("Your mental clarity peaks at %s. Schedule your most challenging tasks then.", mental.Time),
				mental, 95),
			hourInsight(InsightCreative, "🎨", "Creative Sweet Spot",
				fmt.Sprintf("Maximum creativity expected around %s. Perfect for brainstorming and innovation.", creative.Time),
				creative, 88),
			hourInsight(InsightPhysical, "💪", "Optimal Workout Time",
				fmt.Sprintf("Your body is primed for exercise at %s. You'll see better results training then.", physical.Time),
				physical, 90),
		)
	}

	switch weather.Condition {
	case ConditionClearSky, ConditionMainlyClear:
		insights = append(insights, Insight{
			Type:       InsightWeather,
			Icon:       "☀️",
			Title:      "Weather Boost",
			Message:    fmt.Sprintf("Perfect weather in %s! Natural light will enhance your mood by 15%%.", location.City),
			Confidence: 85,
		})
	case ConditionLightRain, ConditionModerateRain:
		insights = append(insights, Insight{
			Type:       InsightWeather,
			Icon:       "🌧️",
			Title:      "Cozy Day Ahead",
			Message:    "Rainy weather detected. Great for indoor focus work and creative writing.",
			Confidence: 80,
		})
	}

	switch moon.Phase {
	case PhaseNewMoon, PhaseWaxingCrescent:
		insights = append(insights, Insight{
			Type:       InsightCosmic,
			Icon:       moon.Emoji,
			Title:      moon.Phase + " Energy",
			Message:    "New beginnings phase. Ideal for starting new projects and setting intentions.",
			Confidence: 75,
		})
	case PhaseFullMoon:
		insights = append(insights, Insight{
			Type:       InsightCosmic,
			Icon:       moon.Emoji,
			Title:      "Full Moon Peak",
			Message:    "High energy period. Perfect for social activities and completing ongoing projects.",
			Confidence: 75,
		})
	}

	temp := strconv.FormatFloat(weather.Temperature, 'f', -1, 64)
	switch {
	case weather.Temperature > 28:
		insights = append(insights, Insight{
			Type:       InsightTemperature,
			Icon:       "🌡️",
			Title:      "Heat Advisory",
			Message:    fmt.Sprintf("Hot day (%s°C). Stay hydrated and schedule demanding work for cooler hours.", temp),
			Confidence: 92,
		})
	case weather.Temperature < 5:
		insights = append(insights, Insight{
			Type:       InsightTemperature,
			Icon:       "❄️",
			Title:      "Cold Day Alert",
			Message:    fmt.Sprintf("Chilly weather (%s°C). Your body needs extra energy. Eat warming foods.", temp),
			Confidence: 92,
		})
	}

	return insights
}

// peakBy returns the first prediction holding the maximum of the selected channel.
func peakBy(predictions []HourlyPrediction, value func(HourlyPrediction) float64) HourlyPrediction {
	best := predictions[0]
	for _, p := range predictions[1:] {
		if value(p) > value(best) {
			best = p
		}
	}
	return best
}

func hourInsight(kind InsightType, icon, title, message string, at HourlyPrediction, confidence float64) Insight {
	hour := at.Hour
	return Insight{
		Type:       kind,
		Icon:       icon,
		Title:      title,
		Message:    message,
		Time:       at.Time,
		Hour:       &hour,
		Confidence: confidence,
	}
}
