package listing

import (
	"net/url"
	"testing"
)

func TestAverageBySubject(t *testing.T) {
	got := AverageBySubject([]RatingRow{
		{"a", 5}, {"a", 4}, {"b", 3}, {"a", 4},
	})
	if got["a"].Count != 3 || got["a"].Average < 4.33 || got["a"].Average > 4.34 {
		t.Fatalf("unexpected aggregate for a: %+v", got["a"])
	}
	if got["b"].Average != 3 || got["b"].Count != 1 {
		t.Fatalf("unexpected aggregate for b: %+v", got["b"])
	}
	if _, ok := got["c"]; ok {
		t.Fatalf("unrated subject should be absent")
	}
}

func sample() []Listing {
	return []Listing{
		{ID: "1", OwnerID: "high", ResortName: "A", CheckInDate: "2026-03-01", OwnerPriceCents: 90000, NormalPriceCents: 100000},
		{ID: "2", OwnerID: "low", ResortName: "B", CheckInDate: "2026-01-01", OwnerPriceCents: 50000, NormalPriceCents: 150000},
		{ID: "3", OwnerID: "none", ResortName: "C", CheckInDate: "2026-02-01", OwnerPriceCents: 70000, NormalPriceCents: 90000},
	}
}

func ids(rs []Result) string {
	s := ""
	for _, r := range rs {
		s += r.ID
	}
	return s
}

func TestRank_RatingFloor(t *testing.T) {
	ratings := map[string]Aggregate{
		"high": {Average: 4.5, Count: 2},
		"low":  {Average: 4.4, Count: 9},
	}
	floor := 4.5
	got := Rank(sample(), ratings, nil, SearchParams{Sort: SortCheckIn, MinOwnerRating: &floor})
	if ids(got) != "1" {
		t.Fatalf("expected only the 4.5 owner, got %s", ids(got))
	}

	got = Rank(sample(), ratings, nil, SearchParams{Sort: SortCheckIn})
	if len(got) != 3 {
		t.Fatalf("without a floor unrated owners stay, got %s", ids(got))
	}
	if got[2].OwnerRating == nil || got[0].OwnerRating == nil || got[1].OwnerRating != nil {
		t.Fatalf("owner ratings not attached as expected")
	}
}

func TestRank_Sorts(t *testing.T) {
	cases := map[SortKey]string{
		SortCheckIn:     "231",
		SortPriceAsc:    "231",
		SortPriceDesc:   "132",
		SortSavingsDesc: "231",
	}
	for key, want := range cases {
		if got := ids(Rank(sample(), nil, nil, SearchParams{Sort: key})); got != want {
			t.Fatalf("%s: expected %s, got %s", key, want, got)
		}
	}
}

func TestRank_ResortRatingByName(t *testing.T) {
	items := []Listing{{ID: "1", ResortName: "  Ko Olina ", CheckInDate: "2026-01-01"}}
	got := Rank(items, nil, map[string]Aggregate{"ko olina": {Average: 5, Count: 1}}, SearchParams{Sort: SortCheckIn})
	if got[0].ResortRating == nil {
		t.Fatalf("expected resort rating to match case-insensitively")
	}
}

func TestParseSearchParams(t *testing.T) {
	p, err := ParseSearchParams(url.Values{
		"q":             {" maui "},
		"checkIn":       {"2026-05-01"},
		"checkOut":      {"2026-05-08"},
		"minPriceCents": {"1000"},
		"maxPriceCents": {"500000"},
		"minRating":     {"4.5"},
		"sort":          {"price_desc"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Query != "maui" || p.Sort != SortPriceDesc || *p.MinPriceCents != 1000 || *p.MinOwnerRating != 4.5 {
		t.Fatalf("unexpected params: %+v", p)
	}

	p, err = ParseSearchParams(url.Values{})
	if err != nil || p.Sort != SortCheckIn || p.MinOwnerRating != nil {
		t.Fatalf("defaults: %+v %v", p, err)
	}

	bad := []url.Values{
		{"sort": {"rating"}},
		{"checkIn": {"2026-5-1"}},
		{"checkIn": {"2026-05-08"}, "checkOut": {"2026-05-01"}},
		{"minPriceCents": {"-1"}},
		{"minPriceCents": {"900"}, "maxPriceCents": {"100"}},
		{"minRating": {"6"}},
	}
	for _, v := range bad {
		if _, err := ParseSearchParams(v); err == nil {
			t.Fatalf("expected error for %v", v)
		}
	}
}
