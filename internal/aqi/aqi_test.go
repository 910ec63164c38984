package aqi

import (
	"testing"

	"github.com/atmoview/atmoview/internal/airquality"
)

func TestInterpAtBracketBoundaries(t *testing.T) {
	// US PM2.5: 12.0 closes the Good bracket, 12.1 opens Moderate.
	if got := Interp(12.0, usPM25); got == nil || got.AQI != 50 {
		t.Fatalf("expected AQI 50 at 12.0, got %+v", got)
	}
	if got := Interp(12.1, usPM25); got == nil || got.AQI != 51 {
		t.Fatalf("expected AQI 51 at 12.1, got %+v", got)
	}
}

func TestInterpInsideBracket(t *testing.T) {
	// 20.0 μg/m³ lies in [12.1, 35.4] -> [51, 100]:
	// (100-51)/(35.4-12.1)*(20-12.1)+51 = 67.6..., rounds to 68.
	got := Interp(20.0, usPM25)
	if got == nil {
		t.Fatal("expected a result")
	}
	if got.AQI != 68 {
		t.Fatalf("expected AQI 68, got %d", got.AQI)
	}
	if got.Label != "Moderate" || got.Class != "moderate" {
		t.Fatalf("unexpected category: %+v", got)
	}
}

func TestInterpClampsAboveTopBracket(t *testing.T) {
	got := Interp(9999, usPM10)
	if got == nil {
		t.Fatal("expected clamped result, not nil")
	}
	if got.AQI != 500 || got.Label != "Hazardous" {
		t.Fatalf("expected top bracket clamp, got %+v", got)
	}
}

func TestInterpNegativeValue(t *testing.T) {
	if got := Interp(-1, usPM25); got != nil {
		t.Fatalf("expected nil for value below every bracket, got %+v", got)
	}
}

func TestPickMaxPrefersFirstOnTie(t *testing.T) {
	parts := []PollutantResult{
		{Pollutant: "pm25", Result: Result{AQI: 120, Label: "first"}},
		{Pollutant: "pm10", Result: Result{AQI: 120, Label: "second"}},
		{Pollutant: "no2", Result: Result{AQI: 80}},
	}
	got := PickMax(parts)
	if got == nil || got.Label != "first" {
		t.Fatalf("expected first entry to win the tie, got %+v", got)
	}
}

func TestPickMaxEmpty(t *testing.T) {
	if got := PickMax(nil); got != nil {
		t.Fatalf("expected nil for no parts, got %+v", got)
	}
}

func TestRegionFor(t *testing.T) {
	cases := map[string]Region{
		"IN":    RegionIN,
		"in":    RegionIN,
		" In ":  RegionIN,
		"US":    RegionUS,
		"FR":    RegionUS,
		"India": RegionUS, // region selection is by ISO code only
		"":      RegionUS,
	}
	for country, want := range cases {
		if got := RegionFor(country); got != want {
			t.Errorf("RegionFor(%q) = %v, want %v", country, got, want)
		}
	}
}

func TestComputeIndiaConvertsCO(t *testing.T) {
	snap := &airquality.Snapshot{
		Parameters: map[string]airquality.Reading{
			"co": {Value: 10000, Unit: "µg/m³"},
		},
	}

	got := Compute(snap, "in")
	if got.Region != RegionIN {
		t.Fatalf("expected India region, got %v", got.Region)
	}
	if len(got.Pollutants) != 1 || got.Pollutants[0].Pollutant != "co" {
		t.Fatalf("expected one CO sub-index, got %+v", got.Pollutants)
	}
	// 10000 μg/m³ -> 10 mg/m³, the top of the [2.1,10]->[101,200] bracket.
	if got.Pollutants[0].AQI != 200 {
		t.Fatalf("expected CO AQI 200, got %d", got.Pollutants[0].AQI)
	}
}

func TestComputeCOAlreadyInMg(t *testing.T) {
	snap := &airquality.Snapshot{
		Parameters: map[string]airquality.Reading{
			"co": {Value: 10, Unit: "mg/m³"},
		},
	}
	got := Compute(snap, "IN")
	if len(got.Pollutants) != 1 || got.Pollutants[0].AQI != 200 {
		t.Fatalf("expected mg/m³ reading to pass through, got %+v", got.Pollutants)
	}
}

func TestComputeUSScoresOnlyParticulates(t *testing.T) {
	snap := &airquality.Snapshot{
		Parameters: map[string]airquality.Reading{
			"pm25": {Value: 12.0, Unit: "μg/m³"},
			"pm10": {Value: 54, Unit: "μg/m³"},
			"no2":  {Value: 900, Unit: "μg/m³"},
			"o3":   {Value: 900, Unit: "μg/m³"},
		},
	}

	got := Compute(snap, "US")
	if len(got.Pollutants) != 2 {
		t.Fatalf("expected pm25 and pm10 only, got %+v", got.Pollutants)
	}
	if got.Overall == nil || got.Overall.AQI != 50 {
		t.Fatalf("expected overall AQI 50, got %+v", got.Overall)
	}
}

func TestComputeWorstPollutantGoverns(t *testing.T) {
	snap := &airquality.Snapshot{
		Parameters: map[string]airquality.Reading{
			"pm25": {Value: 20, Unit: "μg/m³"},  // IN: Good
			"so2":  {Value: 900, Unit: "μg/m³"}, // IN: Very Poor
		},
	}

	got := Compute(snap, "IN")
	if got.Overall == nil {
		t.Fatal("expected an overall result")
	}
	if got.Overall.Label != "Very Poor" {
		t.Fatalf("expected SO2 to govern, got %+v", got.Overall)
	}
}

func TestComputeEmptySnapshot(t *testing.T) {
	got := Compute(&airquality.Snapshot{Parameters: map[string]airquality.Reading{}}, "US")
	if got.Overall != nil {
		t.Fatalf("expected unknown overall for empty snapshot, got %+v", got.Overall)
	}
}
