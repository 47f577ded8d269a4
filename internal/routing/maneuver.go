package routing

// maneuverText is the closed translation table for turn instructions. Keys
// are "{type}-{modifier}"; type-only entries use an empty modifier suffix.
var maneuverText = map[string]string{
	"turn-left":         "Поверніть ліворуч",
	"turn-right":        "Поверніть праворуч",
	"turn-slight left":  "Злегка ліворуч",
	"turn-slight right": "Злегка праворуч",
	"turn-sharp left":   "Різко ліворуч",
	"turn-sharp right":  "Різко праворуч",
	"continue-straight": "Продовжуйте прямо",
	"depart-":           "Почніть рух",
	"arrive-":           "Прибуття",
	"roundabout-":       "Кільце",
	"rotary-":           "Кільцевий рух",
}

const maneuverDefault = "Продовжуйте"

// FormatManeuver maps a maneuver descriptor to its instruction text. Lookup
// degrades from the exact type+modifier pair to the type alone, then to the
// generic continue text. Unknown maneuver types are accepted, not errors.
func FormatManeuver(m *Maneuver) string {
	if m == nil {
		return maneuverDefault
	}

	if text, ok := maneuverText[m.Type+"-"+m.Modifier]; ok {
		return text
	}
	if text, ok := maneuverText[m.Type+"-"]; ok {
		return text
	}
	return maneuverDefault
}
