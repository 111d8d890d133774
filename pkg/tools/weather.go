package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/schema"
)

// WeatherToolName is the name the model uses to request a forecast.
const WeatherToolName = "get_weather"

var weatherTable = map[string]string{
	"lagos":    "🌦️ Lagos is currently 28°C with scattered clouds.",
	"london":   "🌧️ London is currently 15°C with light rain.",
	"new york": "☀️ New York is currently 22°C and sunny.",
}

type weatherArgs struct {
	City string `json:"city"`
}

// Weather returns the get_weather tool, backed by a fixed table.
func Weather() domain.Tool {
	return domain.Tool{
		Name:        WeatherToolName,
		Description: "Get current weather for a city.",
		Parameters: schema.Schema{
			schema.Required("city", schema.String(), "Name of the city"),
		},
		Handler: func(_ context.Context, args map[string]any) (string, error) {
			var in weatherArgs
			if err := decode(args, &in); err != nil {
				return fmt.Sprintf("Error getting weather: %v", err), nil
			}
			return LookupWeather(in.City), nil
		},
	}
}

// LookupWeather answers from the table, matching the city case-insensitively.
func LookupWeather(city string) string {
	if report, ok := weatherTable[strings.ToLower(strings.TrimSpace(city))]; ok {
		return report
	}
	return fmt.Sprintf("I don't have weather data for %s.", city)
}
