package shipping

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tier is a coarse distance bucket measured from the dispatch hub
type Tier string

const (
	TierSameCity     Tier = "SAME_CITY"
	TierMetro        Tier = "METRO"
	TierNearInterior Tier = "NEAR_INTERIOR"
	TierMidInterior  Tier = "MID_INTERIOR"
	TierInState      Tier = "IN_STATE"
	TierInterstate   Tier = "INTERSTATE"
)

// DistanceTable maps a destination to an approximate road distance from the hub.
// It is a fixed lookup, not a geocoded calculation.
type DistanceTable struct {
	hubState   string
	hubCity    string
	hubCityKm  int
	cities     map[string]cityDistance
	inStateKm  int
	states     map[string]int
	fallbackKm int
}

type cityDistance struct {
	tier Tier
	km   int
}

// CityGroup lists hub-state cities that share a tier
type CityGroup struct {
	Tier   Tier
	Km     int
	Cities []string
}

// NewDistanceTable builds a table for a hub.
// inStateKm applies to hub-state cities not listed in groups;
// fallbackKm applies to states missing from stateKm.
func NewDistanceTable(hubState, hubCity string, hubCityKm int, groups []CityGroup, inStateKm int, stateKm map[string]int, fallbackKm int) *DistanceTable {
	t := &DistanceTable{
		hubState:   NormalizeKey(hubState),
		hubCity:    NormalizeKey(hubCity),
		hubCityKm:  hubCityKm,
		cities:     make(map[string]cityDistance),
		inStateKm:  inStateKm,
		states:     make(map[string]int, len(stateKm)),
		fallbackKm: fallbackKm,
	}
	for _, g := range groups {
		for _, city := range g.Cities {
			t.cities[NormalizeKey(city)] = cityDistance{tier: g.Tier, km: g.Km}
		}
	}
	for state, km := range stateKm {
		t.states[NormalizeKey(state)] = km
	}
	return t
}

// DefaultDistanceTable returns the table for the São Paulo dispatch hub
func DefaultDistanceTable() *DistanceTable {
	return NewDistanceTable("SP", "São Paulo", 15,
		[]CityGroup{
			{Tier: TierMetro, Km: 25, Cities: []string{
				"Guarulhos", "Osasco", "Santo André", "São Bernardo do Campo",
				"Diadema", "Mauá", "Carapicuíba", "Barueri",
			}},
			{Tier: TierNearInterior, Km: 80, Cities: []string{
				"Campinas", "Jundiaí", "Sorocaba", "São José dos Campos",
			}},
			{Tier: TierMidInterior, Km: 250, Cities: []string{
				"Ribeirão Preto", "Santos", "São José do Rio Preto", "Piracicaba",
			}},
		},
		450,
		map[string]int{
			"RJ": 450, "MG": 600, "PR": 400, "SC": 700, "RS": 1100,
			"ES": 900, "MS": 1000, "MT": 1700, "GO": 900, "DF": 1000,
			"BA": 1900, "SE": 2100, "AL": 2300, "PE": 2700, "PB": 2900,
			"RN": 3000, "CE": 3100, "PI": 2800, "MA": 3000, "TO": 1700,
			"PA": 2800, "AP": 3400, "RR": 4000, "AM": 3800, "AC": 3500,
			"RO": 2900,
		},
		1500,
	)
}

// Locate returns the tier and approximate distance in km for a destination
func (t *DistanceTable) Locate(dest Destination) (Tier, int) {
	state := NormalizeKey(dest.State)
	if state != t.hubState {
		if km, ok := t.states[state]; ok {
			return TierInterstate, km
		}
		return TierInterstate, t.fallbackKm
	}

	city := NormalizeKey(dest.City)
	if city == t.hubCity {
		return TierSameCity, t.hubCityKm
	}
	if cd, ok := t.cities[city]; ok {
		return cd.tier, cd.km
	}
	return TierInState, t.inStateKm
}

// NormalizeKey folds case, accents and inner whitespace so that
// "São  Paulo", "SAO PAULO" and "sao paulo" share one key.
func NormalizeKey(s string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(folded)), " ")
}
