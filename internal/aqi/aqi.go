// Package aqi converts normalized pollutant readings into air quality
// index values using region-appropriate breakpoint tables.
package aqi

import (
	"math"
	"strings"

	"github.com/atmoview/atmoview/internal/airquality"
	"github.com/atmoview/atmoview/internal/common"
)

// Region selects which breakpoint table set applies.
type Region string

const (
	RegionUS Region = "US"
	RegionIN Region = "IN"
)

// RegionFor maps a resolved place's country to a table region. India gets
// the CPCB/NAQI tables; everything else, including an absent country,
// gets the US EPA tables.
func RegionFor(country string) Region {
	if strings.EqualFold(strings.TrimSpace(country), "IN") {
		return RegionIN
	}
	return RegionUS
}

// Result is one computed index with its category.
type Result struct {
	AQI   int    `json:"aqi"`
	Label string `json:"label"`
	Class string `json:"class"`
}

// PollutantResult is a sub-index attributed to its pollutant.
type PollutantResult struct {
	Pollutant string `json:"pollutant"`
	Result
}

// Assessment is the full index computation for one snapshot. Overall is nil
// when no pollutant produced a sub-index.
type Assessment struct {
	Region     Region            `json:"region"`
	Pollutants []PollutantResult `json:"pollutants"`
	Overall    *Result           `json:"overall"`
}

// Interp locates the bracket containing value and interpolates linearly
// within it. Values above the top bracket clamp to the top bracket's
// index rather than extrapolating. Values below every bracket (negative
// concentrations) yield nil.
func Interp(value float64, t Table) *Result {
	for _, bp := range t {
		if value >= bp.ConcLow && value <= bp.ConcHigh {
			span := float64(bp.IndexHigh-bp.IndexLow) / (bp.ConcHigh - bp.ConcLow)
			idx := span*(value-bp.ConcLow) + float64(bp.IndexLow)
			return &Result{
				AQI:   int(math.Round(idx)),
				Label: bp.Label,
				Class: bp.Class,
			}
		}
	}

	last := t[len(t)-1]
	if value > last.ConcHigh {
		return &Result{AQI: last.IndexHigh, Label: last.Label, Class: last.Class}
	}
	return nil
}

// PickMax returns the entry with the greatest index. Equal indices keep
// the earlier entry, mirroring the "worst pollutant governs" convention.
func PickMax(parts []PollutantResult) *Result {
	if len(parts) == 0 {
		return nil
	}
	best := parts[0]
	for _, p := range parts[1:] {
		if p.AQI > best.AQI {
			best = p
		}
	}
	r := best.Result
	return &r
}

// Compute evaluates every pollutant the region's tables cover and combines
// the sub-indices into one overall result.
func Compute(snap *airquality.Snapshot, country string) Assessment {
	region := RegionFor(country)

	tables := usTables
	if region == RegionIN {
		tables = inTables
	}

	assessment := Assessment{Region: region}
	for _, pt := range tables {
		reading, ok := snap.Parameters[pt.Pollutant]
		if !ok {
			continue
		}

		value := reading.Value
		if region == RegionIN && pt.Pollutant == "co" {
			// NAQI CO breakpoints are defined in mg/m³.
			value = toMgPerM3(value, reading.Unit)
		}

		res := Interp(value, pt.Table)
		if res == nil {
			continue
		}
		assessment.Pollutants = append(assessment.Pollutants, PollutantResult{
			Pollutant: pt.Pollutant,
			Result:    *res,
		})
	}

	assessment.Overall = PickMax(assessment.Pollutants)
	return assessment
}

// toMgPerM3 converts a μg/m³ reading to mg/m³; readings already denoted
// in mg/m³, or with an unrecognized unit, pass through unchanged.
func toMgPerM3(value float64, unit string) float64 {
	if unit == "" {
		return value
	}
	u := strings.ToLower(unit)
	if common.HasAny(u, "mg/m") {
		return value
	}
	if common.HasAny(u, "µg/m", "ug/m", "μg/m") {
		return value / 1000
	}
	return value
}
