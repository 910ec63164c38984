// Package lookup composes place resolution, weather and air quality
// into the single pipeline the API surface exposes.
package lookup

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/atmoview/atmoview/internal/airquality"
	"github.com/atmoview/atmoview/internal/aqi"
	"github.com/atmoview/atmoview/internal/geo"
	"github.com/atmoview/atmoview/internal/weather"
)

// hourlyWindow caps the hourly temperature series in a report.
const hourlyWindow = 24

// Report bundles everything known about one queried location.
type Report struct {
	Place   *geo.Place           `json:"place"`
	Weather *weather.Report      `json:"weather"`
	Air     *airquality.Snapshot `json:"airQuality"`
	AQI     aqi.Assessment       `json:"aqi"`
}

// Service is the library-facing pipeline.
type Service struct {
	resolver *geo.Resolver
	weather  *weather.Fetcher
	air      *airquality.Fetcher
}

// NewService creates a Service from its three stages.
func NewService(resolver *geo.Resolver, wf *weather.Fetcher, af *airquality.Fetcher) *Service {
	return &Service{
		resolver: resolver,
		weather:  wf,
		air:      af,
	}
}

// ResolvePlace resolves free text into a place, or nil when nothing matches.
func (s *Service) ResolvePlace(ctx context.Context, query string) (*geo.Place, error) {
	return s.resolver.Resolve(ctx, query)
}

// FetchWeather returns the forecast for the given coordinates.
func (s *Service) FetchWeather(ctx context.Context, lat, lon float64) (*weather.Report, error) {
	return s.weather.Fetch(ctx, lat, lon)
}

// FetchAirQuality returns the air quality snapshot for the given coordinates.
func (s *Service) FetchAirQuality(ctx context.Context, lat, lon float64) (*airquality.Snapshot, error) {
	return s.air.Fetch(ctx, lat, lon)
}

// ComputeAQI scores a snapshot against the country's breakpoint tables.
func (s *Service) ComputeAQI(snap *airquality.Snapshot, country string) aqi.Assessment {
	return aqi.Compute(snap, country)
}

// Lookup runs the full pipeline: resolve the query, fetch weather and air
// quality in parallel, then score the snapshot for the resolved country.
// A query that resolves to no place returns (nil, nil).
func (s *Service) Lookup(ctx context.Context, query string) (*Report, error) {
	place, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	if place == nil {
		return nil, nil
	}

	var (
		wx   *weather.Report
		snap *airquality.Snapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		wx, err = s.weather.Fetch(gctx, place.Lat, place.Lon)
		return err
	})
	g.Go(func() error {
		var err error
		snap, err = s.air.Fetch(gctx, place.Lat, place.Lon)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lookup %q: %w", place.Name, err)
	}

	trimmed := *wx
	if len(trimmed.Hourly.Time) > hourlyWindow {
		trimmed.Hourly.Time = trimmed.Hourly.Time[:hourlyWindow]
	}
	if len(trimmed.Hourly.Temperature) > hourlyWindow {
		trimmed.Hourly.Temperature = trimmed.Hourly.Temperature[:hourlyWindow]
	}

	return &Report{
		Place:   place,
		Weather: &trimmed,
		Air:     snap,
		AQI:     aqi.Compute(snap, place.Country),
	}, nil
}
