package domain

// YearCount holds per-year totals for the stats view. Total counts the full
// dataset, Hits counts the filtered subset.
type YearCount struct {
	Year  int `json:"year"`
	Total int `json:"total"`
	Hits  int `json:"hits"`
}
