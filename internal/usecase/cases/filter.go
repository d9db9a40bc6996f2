package cases

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cilip-de/polizeischuesse/internal/domain"
	"github.com/cilip-de/polizeischuesse/internal/domain/selection"
)

// applyFilters produces the filtered list from a base list and a selection.
// All criteria compose by logical AND; an absent criterion is no constraint.
// An empty result is a valid outcome, not an error.
func applyFilters(base []domain.Case, sel *selection.Selection) []domain.Case {
	out := make([]domain.Case, 0, len(base))
	for _, c := range base {
		if !matches(&c, sel) {
			continue
		}
		out = append(out, c)
	}

	// Relevance mode (and no-query requests) preserve the incoming order:
	// search-rank order when a query was used, dataset order otherwise.
	if sel.Sort() == selection.SortDate {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date)
		})
	}
	return out
}

func matches(c *domain.Case, sel *selection.Selection) bool {
	if y := sel.Year(); y != "" && strconv.Itoa(c.Year) != y {
		return false
	}
	if s := sel.State(); s != "" && c.State != s {
		return false
	}
	if p := sel.Place(); p != "" && c.Place != p {
		return false
	}
	if a := sel.Age(); a != "" && domain.AgeValue(c.Age) != a {
		return false
	}
	// Weapon is a substring match against the raw multi-value string,
	// case-sensitive.
	if w := sel.Weapon(); w != "" && !strings.Contains(c.Weapon, w) {
		return false
	}
	for _, tf := range sel.Tags() {
		if c.Flag(tf.Tag) == tf.Negate {
			return false
		}
	}
	return true
}
