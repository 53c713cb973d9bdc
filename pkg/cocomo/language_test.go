package cocomo

import (
	"math"
	"testing"
)

func TestDefaultProductivity(t *testing.T) {
	table := DefaultProductivity()

	// Compatibility defaults that callers depend on.
	want := map[string]float64{
		"R":          1.0,
		"Python":     1.1,
		"SQL":        1.3,
		"JavaScript": 0.9,
		"CSS":        1.2,
		"HTML":       1.3,
		"Markdown":   1.5,
		"YAML":       1.5,
		"JSON":       1.5,
	}
	for lang, factor := range want {
		if table[lang] != factor {
			t.Errorf("%s factor = %f, want %f", lang, table[lang], factor)
		}
	}

	// Mutating the returned copy must not leak into later copies.
	table["Python"] = 99
	if DefaultProductivity()["Python"] != 1.1 {
		t.Error("DefaultProductivity() must return an independent copy")
	}
}

func TestEffectiveKLOC(t *testing.T) {
	table := DefaultProductivity()

	tests := []struct {
		name string
		mix  map[string]int
		want float64
	}{
		{
			name: "empty mix",
			mix:  map[string]int{},
			want: 0,
		},
		{
			name: "neutral language",
			mix:  map[string]int{"R": 10000},
			want: 10.0,
		},
		{
			name: "expressive language charges less",
			mix:  map[string]int{"Markdown": 15000},
			want: 10.0,
		},
		{
			name: "verbose language charges more",
			mix:  map[string]int{"JavaScript": 9000},
			want: 10.0,
		},
		{
			name: "unknown language defaults to 1.0",
			mix:  map[string]int{"Brainfuck": 5000},
			want: 5.0,
		},
		{
			name: "mixed repository",
			mix:  map[string]int{"Python": 11000, "SQL": 1300, "YAML": 1500},
			want: 10.0 + 1.0 + 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectiveKLOC(tt.mix, table)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("EffectiveKLOC(%v) = %f, want %f", tt.mix, got, tt.want)
			}
		})
	}
}
