package listing

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SuggestionSampleSize bounds how many recent active listings feed autocomplete.
const SuggestionSampleSize = 300

type Place struct {
	ResortName string
	City       string
	Country    string
}

// BuildSuggestions collects resort names, cities and "city, country" pairs,
// drops case-insensitive duplicates (first spelling wins) and sorts them for display.
func BuildSuggestions(places []Place) []string {
	seen := map[string]bool{}
	out := []string{}
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		key := strings.ToLower(s)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}
	for _, p := range places {
		add(p.ResortName)
		add(p.City)
		city, country := strings.TrimSpace(p.City), strings.TrimSpace(p.Country)
		if city != "" && country != "" {
			add(city + ", " + country)
		}
	}

	// Collators are not safe for concurrent use.
	c := collate.New(language.English)
	c.SortStrings(out)
	return out
}

// FilterSuggestions keeps entries containing q, case-insensitively.
func FilterSuggestions(all []string, q string, limit int) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []string{}
	for _, s := range all {
		if q == "" || strings.Contains(strings.ToLower(s), q) {
			out = append(out, s)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}
