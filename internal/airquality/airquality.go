package airquality

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/atmoview/atmoview/internal/cache"
	"github.com/atmoview/atmoview/internal/common"
	"github.com/atmoview/atmoview/internal/transport"
)

const (
	defaultMeasuredBaseURL = "https://api.openaq.org/v2/latest"
	defaultModeledBaseURL  = "https://air-quality-api.open-meteo.com/v1/air-quality"

	// searchRadiusM and stationLimit bound the measured-source query.
	searchRadiusM = 10000
	stationLimit  = 100

	// maxSources caps how many station/source names a snapshot carries.
	maxSources = 10

	// DefaultUnit is assumed when a measurement does not state one.
	DefaultUnit = "μg/m³"

	modeledSourceName = "Open-Meteo Air Quality"

	cacheTTL = 15 * time.Minute
)

// Source tiers for a snapshot.
const (
	SourceMeasured = "measured"
	SourceModeled  = "modeled"
)

var errNoStations = errors.New("no monitoring stations near location")

// Reading is one pollutant value with its unit.
type Reading struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Snapshot is the normalized multi-source air quality view for one location.
// StationCount is nil when the data is modeled rather than measured.
type Snapshot struct {
	StationCount *int               `json:"stationCount"`
	Parameters   map[string]Reading `json:"parameters"`
	Sources      []string           `json:"sources"`
	SourceType   string             `json:"sourceType"`
}

// trackedParams are the pollutants this service aggregates.
var trackedParams = map[string]bool{
	"pm25": true, "pm10": true, "co": true, "no2": true, "so2": true, "o3": true,
}

// Fetcher retrieves air quality data, preferring measured station readings
// and falling back to modeled estimates.
type Fetcher struct {
	client          *transport.Client
	cache           *cache.Cache
	measuredBaseURL string
	modeledBaseURL  string
}

// NewFetcher creates a Fetcher. The base URLs are optional and fall back to
// the OpenAQ and Open-Meteo Air Quality endpoints when empty.
func NewFetcher(client *transport.Client, c *cache.Cache, measuredBaseURL, modeledBaseURL string) *Fetcher {
	if measuredBaseURL == "" {
		measuredBaseURL = defaultMeasuredBaseURL
	}
	if modeledBaseURL == "" {
		modeledBaseURL = defaultModeledBaseURL
	}
	return &Fetcher{
		client:          client,
		cache:           c,
		measuredBaseURL: measuredBaseURL,
		modeledBaseURL:  modeledBaseURL,
	}
}

// Fetch returns an air quality snapshot for the given coordinates.
// A failed measured-source attempt is downgraded to a logged warning and
// answered from the modeled source; only a modeled-source failure propagates.
func (f *Fetcher) Fetch(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	key := fmt.Sprintf("aqi:%.2f,%.2f", lat, lon)

	var cached Snapshot
	if f.cache.Get(key, cacheTTL, &cached) {
		return &cached, nil
	}

	snap, err := f.fetchMeasured(ctx, lat, lon)
	if err != nil {
		log.Printf("WARN: measured air quality unavailable for %.2f,%.2f, falling back to modeled: %v", lat, lon, err)
		snap, err = f.fetchModeled(ctx, lat, lon)
		if err != nil {
			return nil, fmt.Errorf("fetching modeled air quality: %w", err)
		}
	}

	f.cache.Set(key, snap)
	return snap, nil
}

// fetchMeasured queries nearby monitoring stations and averages their
// readings per pollutant. Zero stations counts as a failure so the caller
// falls back to modeled data.
func (f *Fetcher) fetchMeasured(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	values := url.Values{}
	values.Set("coordinates", fmt.Sprintf("%v,%v", lat, lon))
	values.Set("radius", strconv.Itoa(searchRadiusM))
	values.Set("limit", strconv.Itoa(stationLimit))
	values.Set("parameter", "pm25,pm10,co,no2,so2,o3")

	var payload struct {
		Results []struct {
			SourceName   string   `json:"sourceName"`
			Sources      []string `json:"sources"`
			Measurements []struct {
				Parameter string `json:"parameter"`
				Value     any    `json:"value"`
				Unit      string `json:"unit"`
			} `json:"measurements"`
		} `json:"results"`
	}
	if err := f.client.GetJSON(ctx, fmt.Sprintf("%s?%s", f.measuredBaseURL, values.Encode()), &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, errNoStations
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	units := make(map[string]string)
	var sources []string
	seenSource := make(map[string]bool)

	addSource := func(name string) {
		if name == "" || seenSource[name] {
			return
		}
		seenSource[name] = true
		if len(sources) < maxSources {
			sources = append(sources, name)
		}
	}

	for _, station := range payload.Results {
		for _, m := range station.Measurements {
			p := strings.ToLower(m.Parameter)
			if !trackedParams[p] {
				continue
			}
			v, ok := numericValue(m.Value)
			if !ok {
				continue
			}
			sums[p] += v
			counts[p]++
			if units[p] == "" {
				units[p] = strings.TrimSpace(m.Unit)
			}
		}
		addSource(station.SourceName)
		for _, s := range station.Sources {
			addSource(s)
		}
	}

	parameters := make(map[string]Reading, len(sums))
	for p, total := range sums {
		unit := units[p]
		if unit == "" {
			unit = DefaultUnit
		}
		parameters[p] = Reading{
			Value: common.Round1(total / float64(counts[p])),
			Unit:  unit,
		}
	}

	count := len(payload.Results)
	return &Snapshot{
		StationCount: &count,
		Parameters:   parameters,
		Sources:      sources,
		SourceType:   SourceMeasured,
	}, nil
}

// fetchModeled takes the most recent value of each hourly pollutant series
// from the forecast-style air quality API.
func (f *Fetcher) fetchModeled(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", lat))
	values.Set("longitude", fmt.Sprintf("%f", lon))
	values.Set("hourly", "pm2_5,pm10,carbon_monoxide,nitrogen_dioxide,sulphur_dioxide,ozone")
	values.Set("timezone", "auto")

	var payload struct {
		Hourly struct {
			PM25 []float64 `json:"pm2_5"`
			PM10 []float64 `json:"pm10"`
			CO   []float64 `json:"carbon_monoxide"`
			NO2  []float64 `json:"nitrogen_dioxide"`
			SO2  []float64 `json:"sulphur_dioxide"`
			O3   []float64 `json:"ozone"`
		} `json:"hourly"`
	}
	if err := f.client.GetJSON(ctx, fmt.Sprintf("%s?%s", f.modeledBaseURL, values.Encode()), &payload); err != nil {
		return nil, err
	}

	parameters := make(map[string]Reading)
	put := func(p string, series []float64) {
		if len(series) == 0 {
			return
		}
		parameters[p] = Reading{
			Value: common.Round1(series[len(series)-1]),
			Unit:  DefaultUnit,
		}
	}
	put("pm25", payload.Hourly.PM25)
	put("pm10", payload.Hourly.PM10)
	put("co", payload.Hourly.CO)
	put("no2", payload.Hourly.NO2)
	put("so2", payload.Hourly.SO2)
	put("o3", payload.Hourly.O3)

	return &Snapshot{
		Parameters: parameters,
		Sources:    []string{modeledSourceName},
		SourceType: SourceModeled,
	}, nil
}

// numericValue converts a loosely typed measurement value, rejecting
// non-numeric and non-finite entries.
func numericValue(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
