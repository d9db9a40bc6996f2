package domain

// RawRecord is one row of the source CSV. The csv tags carry the exact German
// column headers of the hand-maintained data file; they must not change, or
// decoding the published file breaks.
type RawRecord struct {
	Fall       string `csv:"Fall"`
	Datum      string `csv:"Datum"`
	Name       string `csv:"Name"`
	Szenarium  string `csv:"Szenarium"`
	Bundesland string `csv:"Bundesland"`
	Ort        string `csv:"Ort"`
	Alter      string `csv:"Alter"`
	Geschlecht string `csv:"Geschlecht"`
	Waffen     string `csv:"Waffen"`
	Schussort  string `csv:"Schussort"`

	// Boolean tag columns, "Ja" or empty.
	Schusswechsel        string `csv:"Schusswechsel"`
	Sondereinsatzbeamte  string `csv:"Sondereinsatzbeamte"`
	VerletzteBeamte      string `csv:"Verletzte oder getötete Beamte"`
	VorbereiteteAktion   string `csv:"Vorbereitete Polizeiaktion"`
	PsychischeAusnahme   string `csv:"Hinweise auf psychische Ausnahmesituation"`
	AlkoholDrogen        string `csv:"Hinweise auf Alkohol- und/oder Drogenkonsum"`
	FamiliaereGewalt     string `csv:"Hinweise auf familiäre oder häusliche Gewalt"`
	UnbeabsichtigtSchuss string `csv:"Unbeabsichtigte Schussabgabe"`
	SchussortInnenraum   string `csv:"Schussort Innenraum"`
	Maennlich            string `csv:"männlich"`
}
