package domain

// Facet is a distinct filterable value and its occurrence count within a
// result set.
type Facet struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
	Count int    `json:"count"`
}

// OptionFacets holds the selectable filter options derived from a result set.
type OptionFacets struct {
	Year   []Facet `json:"year"`
	State  []Facet `json:"state"`
	Place  []Facet `json:"place"`
	Weapon []Facet `json:"weapon"`
	Age    []Facet `json:"age"`
}
