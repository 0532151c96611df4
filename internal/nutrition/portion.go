package nutrition

import "strings"

// Portion is one alternative serving description supplied by the USDA source
// for a food. GramWeight is the mass of Amount units of Unit.
type Portion struct {
	Description string  `json:"description"`
	GramWeight  float64 `json:"gramWeight"`
	Amount      float64 `json:"amount"`
	Unit        string  `json:"unit"`
}

type unitAlias struct {
	canonical string
	aliases   []string
}

// unitAliases is scanned in order and the first entry that matches wins, so
// the order of this table is part of the matching contract.
var unitAliases = []unitAlias{
	{"cup", []string{"cup", "cups", "c"}},
	{"tbsp", []string{"tbsp", "tablespoon", "tablespoons", "tbs", "t"}},
	{"tsp", []string{"tsp", "teaspoon", "teaspoons"}},
	{"whole", []string{"whole", "unit", "piece", "item", "each"}},
	{"slice", []string{"slice", "slices"}},
	{"medium", []string{"medium", "med"}},
	{"large", []string{"large", "lg"}},
	{"small", []string{"small", "sm"}},
}

func canonicalUnit(unit string) string {
	for _, entry := range unitAliases {
		for _, a := range entry.aliases {
			if a == unit {
				return entry.canonical
			}
		}
		if strings.Contains(unit, entry.canonical) {
			return entry.canonical
		}
	}
	return ""
}

// FindMatchingPortion scans portions in their given order and returns the
// absolute gram weight of servingSize units of servingUnit, or false if no
// portion matches.
//
// The scan is deliberately first-match, not best-match: for an ambiguous
// portion list the first entry in USDA order decides the gram weight, and
// stored ingredient records depend on that.
func FindMatchingPortion(portions []Portion, servingSize float64, servingUnit string) (float64, bool) {
	unit := strings.ToLower(servingUnit)
	canonical := canonicalUnit(unit)

	for _, p := range portions {
		if p.Amount <= 0 || p.GramWeight <= 0 {
			continue
		}
		pUnit := strings.ToLower(p.Unit)
		pDesc := strings.ToLower(p.Description)

		if pUnit == unit || strings.Contains(pDesc, unit) {
			return (p.GramWeight / p.Amount) * servingSize, true
		}
		if canonical != "" && (strings.Contains(pUnit, canonical) || strings.Contains(pDesc, canonical)) {
			return (p.GramWeight / p.Amount) * servingSize, true
		}
	}
	return 0, false
}
