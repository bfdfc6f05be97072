package charsheet

import "fmt"

// Warning is a rule violation found by Check.
type Warning struct {
	// Field is the dotted path of the offending value, e.g.
	// "abilities.strength".
	Field   string
	Message string
}

func (w Warning) String() string { return w.Field + ": " + w.Message }

// xpThresholds[level-1] is the experience needed to reach level.
var xpThresholds = [20]int{
	0, 300, 900, 2700, 6500, 14000, 23000, 34000, 48000, 64000,
	85000, 100000, 120000, 140000, 165000, 195000, 225000, 265000, 305000, 355000,
}

// ExperienceForLevel returns the experience needed to reach level, and
// false for levels outside 1-20.
func ExperienceForLevel(level int) (int, bool) {
	if level < 1 || level > 20 {
		return 0, false
	}
	return xpThresholds[level-1], true
}

var spellListNames = [10]string{
	"cantrips", "first_level", "second_level", "third_level", "fourth_level",
	"fifth_level", "sixth_level", "seventh_level", "eighth_level", "ninth_level",
}

// SheetSpellLines is the number of spell lines per level on the official
// sheet, cantrips first. Spells listed past a level's lines cannot be shown.
var SheetSpellLines = [10]int{8, 12, 13, 12, 13, 9, 9, 9, 7, 7}

// Check reports values that break the 5e rules: ability scores outside
// 1-20, a level outside 1-20, too little experience for the level, and
// spells filed under the wrong level. It also flags spells that do not fit
// on the sheet.
func Check(c *CharacterData) []Warning {
	var out []Warning

	for _, a := range Abilities {
		if s := c.Abilities.Score(a); s < 1 || s > 20 {
			out = append(out, Warning{
				Field:   "abilities." + string(a),
				Message: fmt.Sprintf("score %d must be between 1 and 20", s),
			})
		}
	}

	level := c.Character.Level
	if level < 1 || level > 20 {
		out = append(out, Warning{
			Field:   "character.level",
			Message: fmt.Sprintf("level %d must be between 1 and 20", level),
		})
	}

	if xp := c.Character.ExperiencePoints; xp != nil {
		if required, ok := ExperienceForLevel(level); ok && *xp < required {
			out = append(out, Warning{
				Field:   "character.experience_points",
				Message: fmt.Sprintf("%d XP is below the %d required for level %d", *xp, required, level),
			})
		}
	}

	for lvl, list := range c.Spells.ByLevel() {
		for i, sp := range list {
			if i >= SheetSpellLines[lvl] {
				out = append(out, Warning{
					Field:   fmt.Sprintf("spells.%s[%d]", spellListNames[lvl], i),
					Message: fmt.Sprintf("%s was left off: the sheet has %d lines for this level", sp.Name, SheetSpellLines[lvl]),
				})
				continue
			}
			if sp.Level == nil || *sp.Level == lvl {
				continue
			}
			field := fmt.Sprintf("spells.%s[%d].level", spellListNames[lvl], i)
			msg := fmt.Sprintf("%s has level %d but is listed with level %d spells", sp.Name, *sp.Level, lvl)
			if lvl == 0 {
				msg = fmt.Sprintf("cantrip %s must be level 0, got %d", sp.Name, *sp.Level)
			}
			out = append(out, Warning{Field: field, Message: msg})
		}
	}

	return out
}
