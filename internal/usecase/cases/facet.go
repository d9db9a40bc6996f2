package cases

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cilip-de/polizeischuesse/internal/domain"
)

// BuildFacets computes the selectable filter options for a result set: the
// distinct values of year, state, place, weapon and age, each with its
// occurrence count.
func BuildFacets(list []domain.Case) domain.OptionFacets {
	years := make(map[string]int)
	states := make(map[string]int)
	places := make(map[string]int)
	weapons := make(map[string]int)
	ages := make(map[int]int)

	for _, c := range list {
		years[strconv.Itoa(c.Year)]++
		states[c.State]++
		places[c.Place]++
		ages[c.Age]++
		// A case with several weapon types contributes to each of them.
		for _, w := range strings.Split(c.Weapon, ",") {
			w = strings.TrimSpace(w)
			if w == "" {
				continue
			}
			weapons[w]++
		}
	}

	return domain.OptionFacets{
		Year:   yearFacets(years),
		State:  countFacets(states),
		Place:  countFacets(places),
		Weapon: countFacets(weapons),
		Age:    ageFacets(ages),
	}
}

// yearFacets orders years descending by value.
func yearFacets(counts map[string]int) []domain.Facet {
	out := toFacets(counts)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}

// countFacets orders by count descending, ties alphabetically.
func countFacets(counts map[string]int) []domain.Facet {
	out := toFacets(counts)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// ageFacets orders buckets ascending with the unknown bucket last. Numeric
// buckets get a two-number year-range label.
func ageFacets(counts map[int]int) []domain.Facet {
	buckets := make([]int, 0, len(counts))
	for b := range counts {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		// AgeUnknown sorts after every numeric bucket.
		if buckets[i] == domain.AgeUnknown {
			return false
		}
		if buckets[j] == domain.AgeUnknown {
			return true
		}
		return buckets[i] < buckets[j]
	})

	out := make([]domain.Facet, len(buckets))
	for i, b := range buckets {
		out[i] = domain.Facet{
			Value: domain.AgeValue(b),
			Label: domain.AgeLabel(b),
			Count: counts[b],
		}
	}
	return out
}

func toFacets(counts map[string]int) []domain.Facet {
	out := make([]domain.Facet, 0, len(counts))
	for v, n := range counts {
		out = append(out, domain.Facet{Value: v, Label: v, Count: n})
	}
	return out
}
