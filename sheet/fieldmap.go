package sheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ggoodman/dnd-sheet-mcp/charsheet"
)

// NarrativeLimit is the longest narrative text, in characters, written to
// the sheet. Longer text is cut and marked with "...".
const NarrativeLimit = 500

var abilityFields = map[charsheet.Ability]string{
	charsheet.Strength:     "STR",
	charsheet.Dexterity:    "DEX",
	charsheet.Constitution: "CON",
	charsheet.Intelligence: "INT",
	charsheet.Wisdom:       "WIS",
	charsheet.Charisma:     "CHA",
}

// saveBoxes holds the proficiency check box of each saving throw, in
// charsheet.Abilities order.
var saveBoxes = [6]int{11, 18, 19, 20, 21, 22}

// skillFields holds the sheet field of each skill, in charsheet.Skills order.
// The proficiency check boxes follow the same order from Check Box 23.
var skillFields = [18]string{
	"Acrobatics", "Animal", "Arcana", "Athletics", "Deception", "History",
	"Insight", "Intimidation", "Investigation", "Medicine", "Nature",
	"Perception", "Performance", "Persuasion", "Religion", "SleightofHand",
	"Stealth", "Survival",
}

const firstSkillBox = 23

// spellFields lists the spell name fields of each spell level in the order
// the lines appear on the sheet. The numbering of the official sheet is not
// monotonic.
var spellFields = [10][]int{
	{1014, 1016, 1017, 1018, 1019, 1020, 1021, 1022},
	{1015, 1023, 1024, 1025, 1026, 1027, 1028, 1029, 1030, 1031, 1032, 1033},
	{1046, 1034, 1035, 1036, 1037, 1038, 1039, 1040, 1041, 1042, 1043, 1044, 1045},
	{1048, 1047, 1049, 1050, 1051, 1052, 1053, 1054, 1055, 1056, 1057, 1059},
	{1061, 1060, 1062, 1063, 1064, 1065, 1066, 1067, 1068, 1069, 1070, 1071, 1072},
	{1074, 1073, 1075, 1076, 1077, 1078, 1079, 1080, 1081},
	{1083, 1082, 1084, 1085, 1086, 1087, 1088, 1089, 1090},
	{1092, 1091, 1093, 1094, 1095, 1096, 1097, 1098, 1099},
	{10101, 10100, 10102, 10103, 10104, 10105, 10106},
	{10108, 10107, 10109, 101010, 101011, 101012, 101013},
}

var preparedBoxBase = [10]int{314, 322, 334, 347, 360, 373, 386, 399, 412, 425}

const firstSlotField = 19

// SpellField returns the name field of the index-th spell of a level.
// index must be below SpellCapacity(level).
func SpellField(level, index int) string {
	return fmt.Sprintf("Spells %d", spellFields[level][index])
}

// PreparedField returns the prepared check box of the index-th spell of a
// level. index must be below SpellCapacity(level).
func PreparedField(level, index int) string {
	return fmt.Sprintf("Check Box %d", preparedBoxBase[level]+index)
}

// SpellCapacity returns the number of spell lines the official sheet has
// for a level.
func SpellCapacity(level int) int { return len(spellFields[level]) }

// Truncate shortens s to at most limit characters, replacing the tail with
// "..." when it is cut.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	keep := limit - 3
	if keep < 0 {
		keep = 0
	}
	return string(r[:keep]) + "..."
}

// FieldValues maps a character record onto the form fields of the official
// 5e character sheet. Optional record members that are absent produce no
// entry, so the template keeps whatever the field already shows.
func FieldValues(c *charsheet.CharacterData) map[string]string {
	v := make(map[string]string, 128)
	set := func(field, value string) {
		if value != "" {
			v[field] = value
		}
	}
	setInt := func(field string, n *int) {
		if n != nil {
			v[field] = strconv.Itoa(*n)
		}
	}

	ch := c.Character
	set("CharacterName", ch.Name)
	set("ClassLevel", strings.TrimSpace(fmt.Sprintf("%s %d", ch.Class, ch.Level)))
	set("Race", ch.Race)
	set("Background", ch.Background)
	set("PlayerName", ch.PlayerName)
	set("Alignment", ch.Alignment)
	setInt("ExperiencePoints", ch.ExperiencePoints)

	for i, a := range charsheet.Abilities {
		field := abilityFields[a]
		v[field] = strconv.Itoa(c.Abilities.Score(a))
		v[field+"mod"] = charsheet.FormatBonus(c.Modifier(a))
		v["ST "+a.Title()] = charsheet.FormatBonus(c.SavingThrow(a))
		if c.SaveProficient(a) {
			v[checkBox(saveBoxes[i])] = "Yes"
		}
	}
	v["ProfBonus"] = charsheet.FormatBonus(c.ProficiencyBonus())

	for i, sk := range charsheet.Skills {
		v[skillFields[i]] = charsheet.FormatBonus(c.SkillBonus(sk))
		if c.SkillProficiency(sk) > 0 {
			v[checkBox(firstSkillBox+i)] = "Yes"
		}
	}
	v["Passive"] = strconv.Itoa(c.PassivePerception())
	v["Initiative"] = charsheet.FormatBonus(c.Initiative())

	if cb := c.Combat; cb != nil {
		setInt("AC", cb.ArmorClass)
		setInt("Speed", cb.Speed)
		setInt("HPMax", cb.HitPointMaximum)
		setInt("HPCurrent", cb.CurrentHitPoints)
		setInt("HPTemp", cb.TemporaryHitPoints)
		set("HD", cb.HitDice)
		setInt("HDTotal", cb.HitDiceTotal)
	}

	if eq := c.Equipment; eq != nil {
		if cur := eq.Currency; cur != nil {
			setInt("CP", cur.CP)
			setInt("SP", cur.SP)
			setInt("EP", cur.EP)
			setInt("GP", cur.GP)
			setInt("PP", cur.PP)
		}
		set("Equipment", eq.Items)
	}

	if ft := c.FeaturesTraits; ft != nil {
		lines := append(append([]string{}, ft.Features...), ft.Traits...)
		set("Features and Traits", strings.Join(lines, "\n"))
	}

	if n := c.Narrative; n != nil {
		set("Personality", Truncate(n.PersonalityTraits, NarrativeLimit))
		set("Ideals", Truncate(n.Ideals, NarrativeLimit))
		set("Bonds", Truncate(n.Bonds, NarrativeLimit))
		set("Flaws", Truncate(n.Flaws, NarrativeLimit))
	}

	if sc, ok := c.Spellcasting(); ok {
		set("Spellcasting Class 2", sc.Class)
		v["SpellcastingAbility 2"] = sc.Ability.Title()
		v["SpellSaveDC  2"] = strconv.Itoa(sc.SaveDC)
		v["SpellAtkBonus 2"] = charsheet.FormatBonus(sc.AttackBonus)
	}
	for i, n := range charsheet.SpellSlots(ch.Class, ch.Level) {
		if n > 0 {
			v[fmt.Sprintf("SlotsTotal %d", firstSlotField+i)] = strconv.Itoa(n)
		}
	}

	for level, list := range c.Spells.ByLevel() {
		// Spells past the last line are reported by charsheet.Check.
		for i, sp := range list[:min(len(list), SpellCapacity(level))] {
			set(SpellField(level, i), sp.Name)
			if sp.Prepared {
				v[PreparedField(level, i)] = "Yes"
			}
		}
	}

	return v
}

func checkBox(n int) string { return "Check Box " + strconv.Itoa(n) }
