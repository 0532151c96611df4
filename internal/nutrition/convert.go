package nutrition

// Conversion methods, in the order the orchestrator tries them.
const (
	MethodWeight      = "weight"
	MethodUSDAPortion = "usda_portion"
	MethodFailed      = "failed"
)

// ConversionResult is the outcome of converting a serving to grams and
// scaling a per-100g vector to it. Nutrition is nil exactly when Method is
// MethodFailed; GramWeight is only meaningful on success.
type ConversionResult struct {
	Nutrition  *Vector `json:"nutrition"`
	Method     string  `json:"method"`
	GramWeight float64 `json:"gram_weight,omitempty"`
}

// Convert turns servingSize units of servingUnit into grams and scales the
// per-100g vector accordingly. It tries a direct weight-unit conversion
// first, then a USDA portion match, and otherwise reports failure.
//
// Failure is not exceptional: the caller keeps previously stored per-serving
// macros untouched and still persists the per-100g reference values.
func Convert(per100g Vector, servingSize float64, servingUnit string, portions []Portion) ConversionResult {
	if g, ok := GramsPerUnit(servingUnit); ok {
		servingGrams := servingSize * g
		scaled := Scale(per100g, servingGrams/100)
		return ConversionResult{Nutrition: &scaled, Method: MethodWeight, GramWeight: servingGrams}
	}

	if grams, ok := FindMatchingPortion(portions, servingSize, servingUnit); ok && grams > 0 {
		scaled := Scale(per100g, grams/100)
		return ConversionResult{Nutrition: &scaled, Method: MethodUSDAPortion, GramWeight: grams}
	}

	return ConversionResult{Method: MethodFailed}
}
