package pattern

// WeatherFactor scales energy by sky condition. Unrecognised conditions are neutral.
func WeatherFactor(condition string) float64 {
	switch condition {
	case ConditionClearSky, ConditionMainlyClear:
		return 1.1
	case ConditionLightRain, ConditionModerateRain:
		return 0.9
	case ConditionHeavyRain, ConditionThunderstorm:
		return 0.7
	default:
		return 1.0
	}
}

// TemperatureFactor scales energy by air temperature in °C.
func TemperatureFactor(celsius float64) float64 {
	switch {
	case celsius >= 18 && celsius <= 24:
		return 1.1
	case celsius < 10 || celsius > 30:
		return 0.85
	default:
		return 1.0
	}
}
