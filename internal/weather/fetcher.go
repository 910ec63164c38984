package weather

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/atmoview/atmoview/internal/cache"
	"github.com/atmoview/atmoview/internal/transport"
)

const (
	defaultBaseURL = "https://api.open-meteo.com/v1/forecast"

	cacheTTL = 10 * time.Minute
)

// Current holds the current-conditions fields reported by the forecast API.
type Current struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature_2m"`
	Apparent      float64 `json:"apparent_temperature"`
	Humidity      float64 `json:"relative_humidity_2m"`
	Pressure      float64 `json:"surface_pressure"`
	WindSpeed     float64 `json:"wind_speed_10m"`
	WeatherCode   int     `json:"weather_code"`
	ConditionText string  `json:"weathercode_text"`
}

// Hourly is the hourly temperature series with its timestamps.
type Hourly struct {
	Time        []string  `json:"time"`
	Temperature []float64 `json:"temperature_2m"`
}

// Daily is the daily UV index maximum series.
type Daily struct {
	Time       []string  `json:"time"`
	UVIndexMax []float64 `json:"uv_index_max"`
}

// Report is the full forecast payload for one location.
type Report struct {
	Current Current `json:"current"`
	Hourly  Hourly  `json:"hourly"`
	Daily   Daily   `json:"daily"`
}

// conditionText maps Open-Meteo weather codes to display labels.
var conditionText = map[int]string{
	0:  "Clear",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Drizzle",
	61: "Rain",
	71: "Snow",
	80: "Rain showers",
	95: "Thunderstorm",
}

// ConditionText returns the label for an Open-Meteo weather code,
// or a placeholder for codes outside the table.
func ConditionText(code int) string {
	if text, ok := conditionText[code]; ok {
		return text
	}
	return "—"
}

// Fetcher retrieves forecasts from the Open-Meteo forecast API.
type Fetcher struct {
	client  *transport.Client
	cache   *cache.Cache
	baseURL string
}

// NewFetcher creates a Fetcher. baseURL is optional and falls back to the
// Open-Meteo forecast endpoint when empty.
func NewFetcher(client *transport.Client, c *cache.Cache, baseURL string) *Fetcher {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Fetcher{
		client:  client,
		cache:   c,
		baseURL: baseURL,
	}
}

// Fetch returns current conditions, the hourly temperature series and the
// daily UV maximum for the given coordinates. Transport failures propagate
// unchanged; there is no fallback source for weather.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64) (*Report, error) {
	key := fmt.Sprintf("wx:%.2f,%.2f", lat, lon)

	var cached Report
	if f.cache.Get(key, cacheTTL, &cached) {
		return &cached, nil
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("hourly", "temperature_2m")
	values.Set("daily", "uv_index_max")
	values.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,surface_pressure,wind_speed_10m,weather_code")
	values.Set("timezone", "auto")

	var report Report
	if err := f.client.GetJSON(ctx, fmt.Sprintf("%s?%s", f.baseURL, values.Encode()), &report); err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}

	report.Current.ConditionText = ConditionText(report.Current.WeatherCode)

	f.cache.Set(key, &report)
	return &report, nil
}
