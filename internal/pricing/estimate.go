package pricing

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"timeshare/internal/apperr"
)

const (
	MinNightlyUSD = 40
	MaxNightlyUSD = 50000
	DefaultAdults = 2
	MaxAdults     = 8
	Source        = "serpapi/google_hotels"
)

var (
	isoDate  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	nonPrice = regexp.MustCompile(`[^0-9.]`)
)

type Request struct {
	Destination string `json:"destination"`
	ResortName  string `json:"resortName"`
	Country     string `json:"country"`
	CheckIn     string `json:"checkIn"`
	CheckOut    string `json:"checkOut"`
	// Adults may arrive as a number, a numeric string or a bool.
	Adults json.RawMessage `json:"adults"`
}

// Lookup is a validated request, ready to send upstream.
type Lookup struct {
	Query    string
	CheckIn  string
	CheckOut string
	Adults   int
	Nights   int
}

func (l Lookup) CacheKey() string {
	return strings.Join([]string{"hotel-pricing", strings.ToLower(l.Query), l.CheckIn, l.CheckOut, strconv.Itoa(l.Adults)}, "|")
}

func (r Request) Validate() (Lookup, error) {
	dest := strings.TrimSpace(r.Destination)
	if dest == "" {
		dest = strings.TrimSpace(r.ResortName)
	}
	checkIn, checkOut := strings.TrimSpace(r.CheckIn), strings.TrimSpace(r.CheckOut)
	if dest == "" || !isoDate.MatchString(checkIn) || !isoDate.MatchString(checkOut) {
		return Lookup{}, apperr.Invalid("VALIDATION_FAILED", "destination, checkIn, and checkOut are required.")
	}
	in, err1 := time.Parse("2006-01-02", checkIn)
	out, err2 := time.Parse("2006-01-02", checkOut)
	if err1 != nil || err2 != nil {
		return Lookup{}, apperr.Invalid("VALIDATION_FAILED", "checkIn and checkOut must be valid dates.")
	}
	if !out.After(in) {
		return Lookup{}, apperr.Invalid("INVALID_DATE_RANGE", "checkOut must be after checkIn.")
	}

	query := dest
	if c := strings.TrimSpace(r.Country); c != "" {
		query = dest + ", " + c
	}
	return Lookup{
		Query:    query,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   clampAdults(r.Adults),
		Nights:   nights(in, out),
	}, nil
}

func clampAdults(raw json.RawMessage) int {
	v := toNumber(raw)
	switch {
	case v == 0 || math.IsNaN(v):
		return DefaultAdults
	case math.IsInf(v, 1):
		return MaxAdults
	case math.IsInf(v, -1):
		return 1
	}
	n := int(math.Trunc(v))
	if n < 1 {
		return 1
	}
	if n > MaxAdults {
		return MaxAdults
	}
	return n
}

// toNumber converts a JSON value to a number with loose coercion: numeric
// strings parse, blank strings and false are 0, true is 1, and anything else
// (absent, null, objects, arrays, text) is NaN.
func toNumber(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return math.NaN()
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return math.NaN()
	}
	switch x := v.(type) {
	case float64:
		return x
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func nights(in, out time.Time) int {
	n := int(math.Round(out.Sub(in).Hours() / 24))
	if n < 1 {
		return 1
	}
	return n
}

type Quote struct {
	NightlyUSD int64  `json:"nightlyUsd"`
	TotalUSD   int64  `json:"totalUsd"`
	Nights     int    `json:"nights"`
	Source     string `json:"source"`
}

// CollectCandidates walks an arbitrarily nested JSON value and appends every
// positive number it finds. Strings count too once stripped to digits and dots.
func CollectCandidates(node any, out []float64) []float64 {
	switch v := node.(type) {
	case nil:
		return out
	case float64:
		if v > 0 && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	case string:
		if cleaned := nonPrice.ReplaceAllString(v, ""); cleaned != "" {
			if f, err := strconv.ParseFloat(cleaned, 64); err == nil && f > 0 && !math.IsInf(f, 0) {
				out = append(out, f)
			}
		}
	case []any:
		for _, item := range v {
			out = CollectCandidates(item, out)
		}
	case map[string]any:
		for _, item := range v {
			out = CollectCandidates(item, out)
		}
	}
	return out
}

// Estimate picks the cheapest plausible nightly rate from a google_hotels response.
func Estimate(doc map[string]any, nights int) (Quote, bool) {
	var candidates []float64
	for _, key := range []string{"properties", "hotels", "prices"} {
		candidates = CollectCandidates(doc[key], candidates)
	}

	lowest := math.Inf(1)
	for _, c := range candidates {
		if c >= MinNightlyUSD && c <= MaxNightlyUSD && c < lowest {
			lowest = c
		}
	}
	if math.IsInf(lowest, 1) {
		return Quote{}, false
	}
	nightly := int64(math.Floor(lowest + 0.5))
	return Quote{
		NightlyUSD: nightly,
		TotalUSD:   nightly * int64(nights),
		Nights:     nights,
		Source:     Source,
	}, true
}
