package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"timeshare/internal/apperr"
)

type SortKey string

const (
	SortCheckIn     SortKey = "check_in"
	SortPriceAsc    SortKey = "price_asc"
	SortPriceDesc   SortKey = "price_desc"
	SortSavingsDesc SortKey = "savings_desc"
)

type SearchParams struct {
	Query          string
	CheckIn        string
	CheckOut       string
	MinPriceCents  *int64
	MaxPriceCents  *int64
	UnitType       string
	MinOwnerRating *float64
	Sort           SortKey
}

// ParseSearchParams reads the /search query string.
func ParseSearchParams(v url.Values) (SearchParams, error) {
	p := SearchParams{
		Query:    strings.TrimSpace(v.Get("q")),
		CheckIn:  strings.TrimSpace(v.Get("checkIn")),
		CheckOut: strings.TrimSpace(v.Get("checkOut")),
		UnitType: strings.TrimSpace(v.Get("unitType")),
		Sort:     SortKey(strings.TrimSpace(v.Get("sort"))),
	}

	var from, to time.Time
	var err error
	if p.CheckIn != "" {
		if from, err = time.Parse(dateLayout, p.CheckIn); err != nil {
			return p, apperr.Invalid("INVALID_DATE", "checkIn must be YYYY-MM-DD")
		}
	}
	if p.CheckOut != "" {
		if to, err = time.Parse(dateLayout, p.CheckOut); err != nil {
			return p, apperr.Invalid("INVALID_DATE", "checkOut must be YYYY-MM-DD")
		}
	}
	if p.CheckIn != "" && p.CheckOut != "" && !to.After(from) {
		return p, apperr.Invalid("INVALID_DATE_RANGE", "checkOut must be after checkIn")
	}

	if p.MinPriceCents, err = optionalCents(v.Get("minPriceCents"), "minPriceCents"); err != nil {
		return p, err
	}
	if p.MaxPriceCents, err = optionalCents(v.Get("maxPriceCents"), "maxPriceCents"); err != nil {
		return p, err
	}
	if p.MinPriceCents != nil && p.MaxPriceCents != nil && *p.MinPriceCents > *p.MaxPriceCents {
		return p, apperr.Invalid("VALIDATION_FAILED", "minPriceCents must not exceed maxPriceCents")
	}

	if raw := strings.TrimSpace(v.Get("minRating")); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 || f > 5 {
			return p, apperr.Invalid("VALIDATION_FAILED", "minRating must be between 0 and 5")
		}
		if f > 0 {
			p.MinOwnerRating = &f
		}
	}

	switch p.Sort {
	case "":
		p.Sort = SortCheckIn
	case SortCheckIn, SortPriceAsc, SortPriceDesc, SortSavingsDesc:
	default:
		return p, apperr.Invalid("VALIDATION_FAILED", "sort must be one of: check_in, price_asc, price_desc, savings_desc")
	}
	return p, nil
}

func optionalCents(raw, name string) (*int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return nil, apperr.Invalid("VALIDATION_FAILED", name+" must be a non-negative integer")
	}
	return &n, nil
}

// RatingRow is one raw review score for a subject (owner id or resort key).
type RatingRow struct {
	SubjectID string
	Rating    int
}

type Aggregate struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// AverageBySubject groups review rows and averages them per subject.
func AverageBySubject(rows []RatingRow) map[string]Aggregate {
	sums := map[string]int{}
	counts := map[string]int{}
	for _, r := range rows {
		sums[r.SubjectID] += r.Rating
		counts[r.SubjectID]++
	}
	out := make(map[string]Aggregate, len(counts))
	for id, n := range counts {
		out[id] = Aggregate{Average: float64(sums[id]) / float64(n), Count: n}
	}
	return out
}

type Result struct {
	Listing
	SavingsCents int64      `json:"savingsCents"`
	OwnerRating  *Aggregate `json:"ownerRating,omitempty"`
	ResortRating *Aggregate `json:"resortRating,omitempty"`
}

// Rank applies the owner rating floor and the requested sort. With a floor,
// owners without reviews are dropped; without one everybody stays.
func Rank(items []Listing, ownerRatings, resortRatings map[string]Aggregate, p SearchParams) []Result {
	out := make([]Result, 0, len(items))
	for _, l := range items {
		res := Result{Listing: l, SavingsCents: l.SavingsCents()}
		if agg, ok := ownerRatings[l.OwnerID]; ok {
			a := agg
			res.OwnerRating = &a
		}
		if agg, ok := resortRatings[ResortKey(l.ResortName)]; ok {
			a := agg
			res.ResortRating = &a
		}
		if p.MinOwnerRating != nil {
			if res.OwnerRating == nil || res.OwnerRating.Average < *p.MinOwnerRating {
				continue
			}
		}
		out = append(out, res)
	}

	less := func(a, b Result) bool {
		switch p.Sort {
		case SortPriceAsc:
			if a.OwnerPriceCents != b.OwnerPriceCents {
				return a.OwnerPriceCents < b.OwnerPriceCents
			}
		case SortPriceDesc:
			if a.OwnerPriceCents != b.OwnerPriceCents {
				return a.OwnerPriceCents > b.OwnerPriceCents
			}
		case SortSavingsDesc:
			if a.SavingsCents != b.SavingsCents {
				return a.SavingsCents > b.SavingsCents
			}
		}
		// ISO dates compare lexically.
		if a.CheckInDate != b.CheckInDate {
			return a.CheckInDate < b.CheckInDate
		}
		return a.ID < b.ID
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
