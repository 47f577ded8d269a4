package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatManeuver_ExactMatch(t *testing.T) {
	tests := []struct {
		name     string
		maneuver *Maneuver
		expected string
	}{
		{"turn left", &Maneuver{Type: "turn", Modifier: "left"}, "Поверніть ліворуч"},
		{"turn right", &Maneuver{Type: "turn", Modifier: "right"}, "Поверніть праворуч"},
		{"slight left", &Maneuver{Type: "turn", Modifier: "slight left"}, "Злегка ліворуч"},
		{"slight right", &Maneuver{Type: "turn", Modifier: "slight right"}, "Злегка праворуч"},
		{"sharp left", &Maneuver{Type: "turn", Modifier: "sharp left"}, "Різко ліворуч"},
		{"sharp right", &Maneuver{Type: "turn", Modifier: "sharp right"}, "Різко праворуч"},
		{"continue straight", &Maneuver{Type: "continue", Modifier: "straight"}, "Продовжуйте прямо"},
		{"depart", &Maneuver{Type: "depart"}, "Почніть рух"},
		{"arrive", &Maneuver{Type: "arrive"}, "Прибуття"},
		{"roundabout", &Maneuver{Type: "roundabout"}, "Кільце"},
		{"rotary", &Maneuver{Type: "rotary"}, "Кільцевий рух"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatManeuver(tt.maneuver))
		})
	}
}

func TestFormatManeuver_FallbackChain(t *testing.T) {
	// Unknown modifier on a type that has a type-only entry falls back to it.
	assert.Equal(t, "Прибуття", FormatManeuver(&Maneuver{Type: "arrive", Modifier: "left"}))

	// Unknown modifier on a type without a type-only entry degrades to the
	// generic text, not an error.
	assert.Equal(t, "Продовжуйте", FormatManeuver(&Maneuver{Type: "turn", Modifier: "unknown-modifier"}))

	// Unknown type entirely.
	assert.Equal(t, "Продовжуйте", FormatManeuver(&Maneuver{Type: "merge", Modifier: "left"}))
}

func TestFormatManeuver_Absent(t *testing.T) {
	assert.Equal(t, "Продовжуйте", FormatManeuver(nil))
}

func TestFormatManeuver_Idempotent(t *testing.T) {
	m := &Maneuver{Type: "turn", Modifier: "left"}
	first := FormatManeuver(m)
	second := FormatManeuver(m)
	assert.Equal(t, first, second)
}
