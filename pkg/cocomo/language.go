package cocomo

// defaultProductivity maps language names to line-productivity factors.
// A factor above 1.0 means the language packs more functionality per line,
// so fewer effective lines are charged; below 1.0 (JavaScript) means
// equivalent functionality is assumed to take more lines.
var defaultProductivity = map[string]float64{
	"R":          1.0,
	"Go":         1.0,
	"Python":     1.1,
	"TypeScript": 0.95,
	"SQL":        1.3,
	"JavaScript": 0.9,
	"CSS":        1.2,
	"HTML":       1.3,
	"Markdown":   1.5,
	"Quarto":     1.5,
	"YAML":       1.5,
	"JSON":       1.5,
}

// DefaultProductivity returns a copy of the standard productivity table.
// Copying keeps the package-level table immutable even if callers edit
// their config.
func DefaultProductivity() map[string]float64 {
	table := make(map[string]float64, len(defaultProductivity))
	for lang, factor := range defaultProductivity {
		table[lang] = factor
	}
	return table
}

// EffectiveKLOC reduces a per-language line mix to a single
// productivity-weighted size in thousands of lines. Languages missing from
// the table are charged at factor 1.0.
func EffectiveKLOC(mix map[string]int, productivity map[string]float64) float64 {
	var weighted float64
	for lang, lines := range mix {
		factor := productivity[lang]
		if factor == 0 {
			factor = 1.0
		}
		weighted += float64(lines) / factor
	}
	return weighted / 1000.0
}
