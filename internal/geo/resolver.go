package geo

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/atmoview/atmoview/internal/cache"
	"github.com/atmoview/atmoview/internal/transport"
)

const (
	defaultBaseURL = "https://geocoding-api.open-meteo.com/v1/search"

	// candidateLimit caps how many geocoding matches are scored per query.
	candidateLimit = 10

	cacheTTL = 60 * time.Minute
)

// Place is a resolved location. Lat/Lon are finite degrees within range.
type Place struct {
	Name    string  `json:"name"`
	Admin   string  `json:"admin"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// candidate is a raw geocoding record, consumed only during resolution.
type candidate struct {
	Name             string   `json:"name"`
	AlternativeNames []string `json:"alternative_names"`
	CountryCode      string   `json:"country_code"`
	Country          string   `json:"country"`
	Admin1           string   `json:"admin1"`
	Admin2           string   `json:"admin2"`
	Population       float64  `json:"population"`
	FeatureCode      string   `json:"feature_code"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
}

var (
	// "City, IN" or "City, India" - trailing token is an optional country bias.
	biasRe = regexp.MustCompile(`^(.*?)[,\s]+([A-Za-z]{2}|[A-Za-z ]{3,})$`)

	coordRe = regexp.MustCompile(`^\s*([-+]?\d+(\.\d+)?)\s*,\s*([-+]?\d+(\.\d+)?)\s*$`)

	adminSeatRe = regexp.MustCompile(`^PPL[AC]$`)
)

// Resolver turns free-text queries into a single best-matching Place.
type Resolver struct {
	client  *transport.Client
	cache   *cache.Cache
	baseURL string
}

// NewResolver creates a Resolver. baseURL is optional and falls back to the
// Open-Meteo geocoding endpoint when empty.
func NewResolver(client *transport.Client, c *cache.Cache, baseURL string) *Resolver {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Resolver{
		client:  client,
		cache:   c,
		baseURL: baseURL,
	}
}

// Resolve parses query, geocodes it and returns the highest-scoring place.
// A query with no geocoding match returns (nil, nil): "not found" is a valid
// outcome, not an error. Coordinate-literal queries short-circuit without any
// network call and are never cached.
func (r *Resolver) Resolve(ctx context.Context, query string) (*Place, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}

	if lat, lon, ok := parseCoords(q); ok {
		return &Place{Name: "Location", Lat: lat, Lon: lon}, nil
	}

	cityPart, countryBias := splitCountryBias(q)

	key := "geo:" + strings.ToLower(cityPart)
	if countryBias != "" {
		key += ":" + countryBias
	}

	var cached Place
	if r.cache.Get(key, cacheTTL, &cached) {
		return &cached, nil
	}

	values := url.Values{}
	values.Set("name", cityPart)
	values.Set("count", strconv.Itoa(candidateLimit))
	values.Set("language", "en")
	values.Set("format", "json")

	var payload struct {
		Results []candidate `json:"results"`
	}
	if err := r.client.GetJSON(ctx, fmt.Sprintf("%s?%s", r.baseURL, values.Encode()), &payload); err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", cityPart, err)
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}

	best := pickBestMatch(payload.Results, cityPart, countryBias)

	place := &Place{
		Name:    best.Name,
		Admin:   firstNonEmpty(best.Admin1, best.Admin2),
		Country: firstNonEmpty(best.Country, best.CountryCode),
		Lat:     best.Latitude,
		Lon:     best.Longitude,
	}
	r.cache.Set(key, place)
	return place, nil
}

// parseCoords accepts "lat, lon" literals within valid ranges.
func parseCoords(q string) (lat, lon float64, ok bool) {
	m := coordRe.FindStringSubmatch(q)
	if m == nil {
		return 0, 0, false
	}
	lat, err1 := strconv.ParseFloat(m[1], 64)
	lon, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	return lat, lon, true
}

// splitCountryBias peels a trailing country token off the query, if present.
// Two-letter tokens are treated as ISO codes; longer ones as country names.
func splitCountryBias(q string) (city, bias string) {
	m := biasRe.FindStringSubmatch(q)
	if m == nil {
		return q, ""
	}
	city = strings.TrimSpace(m[1])
	tail := strings.TrimSpace(m[2])
	if len(tail) == 2 {
		return city, strings.ToUpper(tail)
	}
	return city, normalizeCountryName(tail)
}

func normalizeCountryName(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "india":
		return "IN"
	case "united states", "usa", "us":
		return "US"
	case "united kingdom", "uk":
		return "GB"
	}
	return strings.ToUpper(name)
}

// pickBestMatch scores every candidate and keeps the maximum. The scan is
// stable: on equal scores the earlier candidate wins.
func pickBestMatch(list []candidate, cityPart, countryBias string) candidate {
	nameLc := strings.ToLower(cityPart)

	var bias2, biasName string
	if len(countryBias) == 2 {
		bias2 = strings.ToUpper(countryBias)
	} else if len(countryBias) > 2 {
		biasName = strings.ToLower(countryBias)
	}

	best := list[0]
	bestScore := scoreCandidate(list[0], nameLc, bias2, biasName)
	for _, c := range list[1:] {
		if s := scoreCandidate(c, nameLc, bias2, biasName); s > bestScore {
			bestScore = s
			best = c
		}
	}
	return best
}

func scoreCandidate(c candidate, nameLc, bias2, biasName string) float64 {
	cName := strings.ToLower(c.Name)
	cCountry := strings.ToUpper(firstNonEmpty(c.CountryCode, c.Country))
	cCountryName := strings.ToLower(c.Country)

	var score float64
	if cName == nameLc || containsLower(c.AlternativeNames, nameLc) {
		score += 50
	}
	if bias2 != "" && cCountry == bias2 {
		score += 40
	}
	if biasName != "" && strings.Contains(cCountryName, biasName) {
		score += 30
	}
	if adminSeatRe.MatchString(strings.ToUpper(c.FeatureCode)) {
		score += 20
	}

	pop := c.Population
	if pop < 0 {
		pop = 0
	}
	score += math.Log10(pop+1) * 5
	score -= float64(levenshtein(cName, nameLc)) * 0.5
	return score
}

func containsLower(list []string, want string) bool {
	for _, s := range list {
		if strings.ToLower(s) == want {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
