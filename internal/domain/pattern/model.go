// Package pattern holds the synthesis engine: lunar phase, circadian baselines,
// environmental factors, the 24-hour forecast and the insights derived from it.
// Everything here is a pure function of its inputs.
package pattern

// Source tags how a Location was resolved.
type Source string

const (
	SourceGPS    Source = "gps"
	SourceManual Source = "manual"
	SourceIP     Source = "ip"
)

// Label is the human readable provenance shown next to a location.
func (s Source) Label() string {
	switch s {
	case SourceGPS:
		return "GPS (exact)"
	case SourceManual:
		return "Manual entry"
	case SourceIP:
		return "IP (approximate)"
	default:
		return "Unknown"
	}
}

// Location is resolved once per request by a collaborator.
type Location struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Region    string  `json:"region,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Timezone  string  `json:"timezone"`
	Source    Source  `json:"source"`
}

// Label renders "City, Country".
func (l Location) Label() string {
	return l.City + ", " + l.Country
}

// WeatherObservation is the current conditions at a Location.
type WeatherObservation struct {
	Temperature float64       `json:"temperature"`
	Humidity    float64       `json:"humidity"`
	WindSpeed   float64       `json:"windSpeed"`
	Pressure    float64       `json:"pressure"`
	Condition   string        `json:"condition"`
	Code        int           `json:"code"`
	Timezone    string        `json:"timezone,omitempty"`
	Hourly      []WeatherHour `json:"hourly,omitempty"`
}

// WeatherHour is one upstream hourly forecast point. The engine does not read it.
type WeatherHour struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Condition   string  `json:"condition"`
}

// Weather condition labels used by the factor and insight rules.
const (
	ConditionClearSky     = "Clear sky"
	ConditionMainlyClear  = "Mainly clear"
	ConditionLightRain    = "Light rain"
	ConditionModerateRain = "Moderate rain"
	ConditionHeavyRain    = "Heavy rain"
	ConditionThunderstorm = "Thunderstorm"
)

var weatherCodes = map[int]string{
	0:  ConditionClearSky,
	1:  ConditionMainlyClear,
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Foggy",
	48: "Foggy",
	51: "Light drizzle",
	53: "Moderate drizzle",
	61: ConditionLightRain,
	63: ConditionModerateRain,
	65: ConditionHeavyRain,
	71: "Light snow",
	73: "Moderate snow",
	75: "Heavy snow",
	95: ConditionThunderstorm,
}

// ConditionForCode maps a WMO weather code to its label. Unknown codes read as clear sky.
func ConditionForCode(code int) string {
	if label, ok := weatherCodes[code]; ok {
		return label
	}
	return ConditionClearSky
}

// DefaultWeather is used whenever the weather collaborator fails.
func DefaultWeather() WeatherObservation {
	return WeatherObservation{
		Temperature: 22,
		Humidity:    65,
		WindSpeed:   10,
		Pressure:    1013,
		Condition:   ConditionClearSky,
	}
}

// Activity is the recommendation for an hour.
type Activity string

const (
	ActivityDeepWork    Activity = "Deep Work"
	ActivityCreative    Activity = "Creative Tasks"
	ActivityExercise    Activity = "Exercise"
	ActivitySocializing Activity = "Socializing"
	ActivityRest        Activity = "Rest"
)

// HourlyPrediction is one slot of the 24-hour forecast.
type HourlyPrediction struct {
	Hour                int      `json:"hour"`
	Time                string   `json:"time"`
	Mental              float64  `json:"mental"`
	Physical            float64  `json:"physical"`
	Creative            float64  `json:"creative"`
	Social              float64  `json:"social"`
	Rest                float64  `json:"rest"`
	RecommendedActivity Activity `json:"recommendedActivity"`
	Confidence          float64  `json:"confidence"`
}

// InsightType categorises an Insight.
type InsightType string

const (
	InsightPeakPerformance InsightType = "peak_performance"
	InsightCreative        InsightType = "creative"
	InsightPhysical        InsightType = "physical"
	InsightWeather         InsightType = "weather"
	InsightCosmic          InsightType = "cosmic"
	InsightTemperature     InsightType = "temperature"
)

// Insight is a ranked recommendation. Confidence is a fixed weight per rule.
type Insight struct {
	Type       InsightType `json:"type"`
	Icon       string      `json:"icon"`
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	Time       string      `json:"time,omitempty"`
	Hour       *int        `json:"hour,omitempty"`
	Confidence float64     `json:"confidence"`
}

// Factors summarises the environmental adjustments of an analysis.
type Factors struct {
	WeatherImpact     float64 `json:"weatherImpact"`
	TemperatureImpact float64 `json:"temperatureImpact"`
	MoonPhase         string  `json:"moonPhase"`
	Location          string  `json:"location"`
}

// AnalysisResult is the output of Synthesize.
type AnalysisResult struct {
	HourlyPredictions []HourlyPrediction `json:"hourlyPredictions"`
	Insights          []Insight          `json:"insights"`
	Factors           Factors            `json:"factors"`
}
