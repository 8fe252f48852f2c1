package formats

import "strings"

// AnimationLabels maps the animation names used in CGS file names to
// readable labels.
var AnimationLabels = map[string]string{
	"idle":          "Idle",
	"atk":           "Attack",
	"limit_atk":     "Limit Burst",
	"magic_atk":     "Magic Attack",
	"magic_standby": "Magic Standby",
	"standby":       "Standby",
	"move":          "Move",
	"jump":          "Jump",
	"dying":         "Dying",
	"dead":          "Dead",
	"win":           "Victory",
	"win_before":    "Victory Intro",
	"dmg":           "Damage",
}

// AnimationLabel returns a readable label for an animation name. Unknown
// names are returned with underscores replaced by spaces.
func AnimationLabel(name string) string {
	if label, ok := AnimationLabels[name]; ok {
		return label
	}
	return strings.ReplaceAll(name, "_", " ")
}
