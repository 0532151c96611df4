package nutrition

import (
	"math"
	"strings"
)

// Vector represents a nutrient profile, either per 100g (the canonical USDA
// representation) or per serving after scaling. Fiber and sugar are optional
// because many USDA records omit them.
type Vector struct {
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Fiber    *float64 `json:"fiber"`
	Sugar    *float64 `json:"sugar"`
}

// gramsPerUnit maps weight unit spellings to grams per one unit. Lookup is
// exact (after lower-casing) — volume and count units are handled by the
// portion matcher, not here.
var gramsPerUnit = map[string]float64{
	"g":      1,
	"gram":   1,
	"grams":  1,
	"oz":     28.3495,
	"ounce":  28.3495,
	"ounces": 28.3495,
	"lb":     453.592,
	"pound":  453.592,
	"pounds": 453.592,
	"kg":     1000,
}

// GramsPerUnit returns the grams-per-unit constant for a weight unit, or
// false if the unit is not a plain weight unit.
func GramsPerUnit(unit string) (float64, bool) {
	g, ok := gramsPerUnit[strings.ToLower(unit)]
	return g, ok
}

// Scale multiplies a per-100g vector by a multiplier and rounds each field
// the way nutrition labels display them: calories to the nearest whole
// number, everything else to one decimal place. Fiber and sugar stay nil
// when absent from the input.
func Scale(per100g Vector, multiplier float64) Vector {
	out := Vector{
		Calories: math.Round(per100g.Calories * multiplier),
		Protein:  roundTenth(per100g.Protein * multiplier),
		Carbs:    roundTenth(per100g.Carbs * multiplier),
		Fat:      roundTenth(per100g.Fat * multiplier),
	}
	if per100g.Fiber != nil {
		v := roundTenth(*per100g.Fiber * multiplier)
		out.Fiber = &v
	}
	if per100g.Sugar != nil {
		v := roundTenth(*per100g.Sugar * multiplier)
		out.Sugar = &v
	}
	return out
}

func roundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}
