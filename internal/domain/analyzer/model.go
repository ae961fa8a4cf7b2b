package analyzer

import "github.com/yanqian/lifepattern/internal/domain/pattern"

// Request is the payload accepted by the analyze endpoint. Coordinates win over City;
// with neither, the caller's IP address is geolocated.
type Request struct {
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	City     string   `json:"city"`
	Country  string   `json:"country"`
	Region   string   `json:"region"`
	Timezone string   `json:"timezone"`
	ClientIP string   `json:"-"`
}

// Response is the analysis envelope returned to API consumers.
type Response struct {
	Success   bool                       `json:"success"`
	RequestID string                     `json:"requestId,omitempty"`
	Timestamp string                     `json:"timestamp"`
	Location  LocationView               `json:"location"`
	Weather   pattern.WeatherObservation `json:"weather"`
	Moon      pattern.LunarState         `json:"moon"`
	Circadian Circadian                  `json:"circadian"`
	Analysis  pattern.AnalysisResult     `json:"analysis"`
	Tip       string                     `json:"tip"`
}

// LocationView adds the provenance label to a resolved location.
type LocationView struct {
	pattern.Location
	SourceLabel string `json:"sourceLabel"`
}

// Circadian is the present-hour energy snapshot plus the fixed schedule.
type Circadian struct {
	CurrentEnergy   pattern.Energy            `json:"currentEnergy"`
	Schedule        map[string]pattern.Window `json:"schedule"`
	ChronotypeGuess string                    `json:"chronotypeGuess"`
}

// QuickInsight is a lightweight response that skips location and weather.
type QuickInsight struct {
	Success     bool   `json:"success"`
	MoonPhase   string `json:"moonPhase"`
	MoonEmoji   string `json:"moonEmoji"`
	CurrentTime string `json:"currentTime"`
	Tip         string `json:"tip"`
}

// Config wires runtime options for the analyzer.
type Config struct {
	// UseLocationTimezone evaluates hour-of-day in the resolved location's zone
	// instead of the server clock's zone.
	UseLocationTimezone bool
}
