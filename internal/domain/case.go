package domain

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// AgeUnknown is the sentinel age bucket for non-numeric or missing ages.
const AgeUnknown = -1

// AgeBucketSize is the width of an age bucket in years.
const AgeBucketSize = 5

// reunification is the East/West cutoff date (1990-10-03).
var reunification = time.Date(1990, time.October, 3, 0, 0, 0, 0, time.UTC)

// eastStates are the five post-reunification East German states.
// Berlin is deliberately not a member.
var eastStates = map[string]bool{
	"Brandenburg":            true,
	"Mecklenburg-Vorpommern": true,
	"Sachsen":                true,
	"Sachsen-Anhalt":         true,
	"Thüringen":              true,
}

// Case is one documented fatal police shooting with derived fields.
// A Case is derived deterministically and purely from its RawRecord; the only
// cross-record dependency is Key, which is the record's position in the
// date-descending sort order of the full dataset.
type Case struct {
	Key       int    `json:"key"`
	Fall      string `json:"fall"`
	Name      string `json:"name"`
	Szenarium string `json:"szenarium"`

	Date                time.Time `json:"-"`
	DateDisplay         string    `json:"date"`
	Year                int       `json:"year"`
	Month               int       `json:"month"`
	DayOfMonth          int       `json:"dayOfMonth"`
	DayOfWeek           string    `json:"dayOfWeek"`
	BeforeReunification bool      `json:"beforeReunification"`

	Place string `json:"place"`
	State string `json:"state"`
	East  bool   `json:"east"`

	Weapon       string `json:"weapon"`
	Sex          string `json:"sex"`
	ShotLocation string `json:"shotLocation"`

	// Age is the 5-year bucket floor of the victim's age, or AgeUnknown.
	Age int `json:"age"`

	Shootout    bool `json:"shootout"`
	SEK         bool `json:"sek"`
	Injured     bool `json:"injured"`
	Preparation bool `json:"preparation"`
	Psychiatric bool `json:"psychiatric"`
	Substances  bool `json:"substances"`
	Domestic    bool `json:"domestic"`
	Unintended  bool `json:"unintended"`
	Indoor      bool `json:"indoor"`
	Men         bool `json:"men"`
}

// NewCase derives a Case from a raw record. key is the record's position in
// the date-descending order of the full dataset.
func NewCase(raw RawRecord, key int) Case {
	date, _ := time.Parse("2006-01-02", strings.TrimSpace(raw.Datum))

	state := strings.TrimSpace(raw.Bundesland)

	return Case{
		Key:       key,
		Fall:      strings.TrimSpace(raw.Fall),
		Name:      strings.TrimSpace(raw.Name),
		Szenarium: raw.Szenarium,

		Date:                date,
		DateDisplay:         FormatDate(date),
		Year:                date.Year(),
		Month:               int(date.Month()),
		DayOfMonth:          date.Day(),
		DayOfWeek:           Weekday(date),
		BeforeReunification: date.Before(reunification),

		Place: strings.TrimSpace(raw.Ort),
		State: state,
		East:  eastStates[state],

		Weapon:       raw.Waffen,
		Sex:          strings.TrimSpace(raw.Geschlecht),
		ShotLocation: strings.TrimSpace(raw.Schussort),

		Age: AgeBucket(raw.Alter),

		Shootout:    isYes(raw.Schusswechsel),
		SEK:         isYes(raw.Sondereinsatzbeamte),
		Injured:     isYes(raw.VerletzteBeamte),
		Preparation: isYes(raw.VorbereiteteAktion),
		Psychiatric: isYes(raw.PsychischeAusnahme),
		Substances:  isYes(raw.AlkoholDrogen),
		Domestic:    isYes(raw.FamiliaereGewalt),
		Unintended:  isYes(raw.UnbeabsichtigtSchuss),
		Indoor:      isYes(raw.SchussortInnenraum),
		Men:         isYes(raw.Maennlich),
	}
}

// DeriveCases sorts raw records by date descending (stable, so key assignment
// is deterministic for a fixed input file) and derives a Case per record.
func DeriveCases(raws []RawRecord) []Case {
	sorted := make([]RawRecord, len(raws))
	copy(sorted, raws)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Datum > sorted[j].Datum
	})

	cases := make([]Case, len(sorted))
	for i, raw := range sorted {
		cases[i] = NewCase(raw, i)
	}
	return cases
}

// AgeBucket maps a raw age string to its 5-year bucket floor, truncating.
// Anything that does not parse to a finite number maps to AgeUnknown.
func AgeBucket(raw string) int {
	age, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || age < 0 {
		return AgeUnknown
	}
	return int(age/AgeBucketSize) * AgeBucketSize
}

// AgeValue renders an age bucket as a selectable filter value: the stringified
// bucket floor, or "Unbekannt" for the unknown sentinel. Equality filters on
// age compare against this representation.
func AgeValue(bucket int) string {
	if bucket == AgeUnknown {
		return "Unbekannt"
	}
	return strconv.Itoa(bucket)
}

// AgeLabel renders an age bucket for display: "20-24" for a numeric bucket,
// "Unbekannt" for the unknown sentinel.
func AgeLabel(bucket int) string {
	if bucket == AgeUnknown {
		return "Unbekannt"
	}
	return strconv.Itoa(bucket) + "-" + strconv.Itoa(bucket+AgeBucketSize-1)
}

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

var germanWeekdays = [...]string{
	"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag",
}

// FormatDate renders a date in German long form, e.g. "3. Oktober 1990".
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return strconv.Itoa(d.Day()) + ". " + germanMonths[d.Month()-1] + " " + strconv.Itoa(d.Year())
}

// Weekday returns the German weekday name.
func Weekday(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return germanWeekdays[d.Weekday()]
}

func isYes(v string) bool {
	return strings.TrimSpace(v) == "Ja"
}
