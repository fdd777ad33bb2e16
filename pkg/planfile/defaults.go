package planfile

import (
	"github.com/ha1tch/plangrid/pkg/sheet"
)

// Colour options of the default plan. The first is the fallback.
var colourOptions = []string{"auto", "blå", "grønn", "gul", "rød", "lilla"}

var colourAliases = map[string]string{
	"blue":   "blå",
	"green":  "grønn",
	"yellow": "gul",
	"red":    "rød",
	"purple": "lilla",
}

// DefaultColumns returns the column layout of a new plan: activity, start,
// end, working-day duration, dependency note and bar colour.
func DefaultColumns() []sheet.Column {
	aliases := make(map[string]string, len(colourAliases))
	for k, v := range colourAliases {
		aliases[k] = v
	}
	return []sheet.Column{
		{Key: "activity", Title: "Activity", Width: 260, IsTitle: true},
		{Key: "start", Title: "Start", Width: 120, Type: sheet.TypeDate, DateRole: sheet.RoleStart},
		{Key: "end", Title: "End", Width: 120, Type: sheet.TypeDate, DateRole: sheet.RoleEnd},
		{
			Key: "duration", Title: "Duration", Width: 100, Type: sheet.TypeNumber, Summarizable: true,
			DurationOf: &sheet.DurationPair{StartKey: "start", EndKey: "end"},
		},
		{Key: "depends", Title: "Depends", Width: 100},
		{
			Key: "colour", Title: "Colour", Width: 90, Type: sheet.TypeSelect,
			Options: append([]string(nil), colourOptions...), Aliases: aliases,
		},
	}
}
