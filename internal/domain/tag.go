package domain

import "fmt"

// Tag is a named boolean attribute of a case.
type Tag string

const (
	TagShootout    Tag = "shootout"    // Schusswechsel
	TagSEK         Tag = "sek"         // Sondereinsatzbeamte
	TagInjured     Tag = "injured"     // Verletzte oder getötete Beamte
	TagPreparation Tag = "preparation" // Vorbereitete Polizeiaktion
	TagPsychiatric Tag = "psychiatric" // Hinweise auf psychische Ausnahmesituation
	TagSubstances  Tag = "substances"  // Hinweise auf Alkohol- und/oder Drogenkonsum
	TagDomestic    Tag = "domestic"    // Hinweise auf familiäre oder häusliche Gewalt
	TagUnintended  Tag = "unintended"  // Unbeabsichtigte Schussabgabe
	TagIndoor      Tag = "indoor"      // Schussort Innenraum
	TagMen         Tag = "men"         // männlich
)

// Tags lists all known tags in a stable order.
var Tags = []Tag{
	TagShootout, TagSEK, TagInjured, TagPreparation, TagPsychiatric,
	TagSubstances, TagDomestic, TagUnintended, TagIndoor, TagMen,
}

// ParseTag validates a tag name from the wire.
func ParseTag(name string) (Tag, error) {
	for _, t := range Tags {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTag, name)
}

// Flag reports whether the tag is set on the case.
func (c *Case) Flag(t Tag) bool {
	switch t {
	case TagShootout:
		return c.Shootout
	case TagSEK:
		return c.SEK
	case TagInjured:
		return c.Injured
	case TagPreparation:
		return c.Preparation
	case TagPsychiatric:
		return c.Psychiatric
	case TagSubstances:
		return c.Substances
	case TagDomestic:
		return c.Domestic
	case TagUnintended:
		return c.Unintended
	case TagIndoor:
		return c.Indoor
	case TagMen:
		return c.Men
	default:
		return false
	}
}
