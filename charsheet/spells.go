package charsheet

import "strings"

// CasterType classifies a class by how it gains spell slots.
type CasterType int

const (
	CasterNone CasterType = iota
	CasterFull
	CasterHalf
	CasterThird
	CasterPact
)

func (t CasterType) String() string {
	switch t {
	case CasterFull:
		return "full"
	case CasterHalf:
		return "half"
	case CasterThird:
		return "third"
	case CasterPact:
		return "pact"
	}
	return "none"
}

type classInfo struct {
	caster  CasterType
	ability Ability
}

// Fighter and Rogue cast through their Eldritch Knight and Arcane Trickster
// subclasses. They get slots but no default spellcasting ability, so their
// spellcasting block is only filled when the record names one.
var classes = map[string]classInfo{
	"bard":      {CasterFull, Charisma},
	"cleric":    {CasterFull, Wisdom},
	"druid":     {CasterFull, Wisdom},
	"sorcerer":  {CasterFull, Charisma},
	"wizard":    {CasterFull, Intelligence},
	"paladin":   {CasterHalf, Charisma},
	"ranger":    {CasterHalf, Wisdom},
	"fighter":   {CasterThird, ""},
	"rogue":     {CasterThird, ""},
	"warlock":   {CasterPact, Charisma},
	"barbarian": {CasterNone, ""},
	"monk":      {CasterNone, ""},
}

func lookupClass(class string) classInfo {
	return classes[strings.ToLower(strings.TrimSpace(class))]
}

// CasterTypeFor returns the caster type of class.
func CasterTypeFor(class string) CasterType {
	return lookupClass(class).caster
}

// fullCasterSlots[level-1][spellLevel-1] is the slot count for a full caster.
var fullCasterSlots = [20][9]int{
	{2},
	{3},
	{4, 2},
	{4, 3},
	{4, 3, 2},
	{4, 3, 3},
	{4, 3, 3, 1},
	{4, 3, 3, 2},
	{4, 3, 3, 3, 1},
	{4, 3, 3, 3, 2},
	{4, 3, 3, 3, 2, 1},
	{4, 3, 3, 3, 2, 1},
	{4, 3, 3, 3, 2, 1, 1},
	{4, 3, 3, 3, 2, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 2, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 1, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 1, 1, 1},
	{4, 3, 3, 3, 3, 2, 2, 1, 1},
}

// SpellSlots returns the slot count per spell level (index 0 is first
// level) for a class at a character level. Levels outside 1-20 have no
// slots.
func SpellSlots(class string, level int) [9]int {
	var none [9]int
	if level < 1 || level > 20 {
		return none
	}

	switch lookupClass(class).caster {
	case CasterFull:
		return fullCasterSlots[level-1]
	case CasterHalf:
		if level < 2 {
			return none
		}
		return fullCasterSlots[(level+1)/2-1]
	case CasterThird:
		if level < 3 {
			return none
		}
		return fullCasterSlots[(level+2)/3-1]
	case CasterPact:
		return pactSlots(level)
	}
	return none
}

// pactSlots returns warlock pact magic: every slot is of the same level.
func pactSlots(level int) [9]int {
	var slots [9]int
	count := 1
	switch {
	case level >= 17:
		count = 4
	case level >= 11:
		count = 3
	case level >= 2:
		count = 2
	}
	slotLevel := (level + 1) / 2
	if slotLevel > 5 {
		slotLevel = 5
	}
	slots[slotLevel-1] = count
	return slots
}

// Spellcasting is the derived spellcasting block.
type Spellcasting struct {
	Class       string
	Ability     Ability
	SaveDC      int
	AttackBonus int
}

// Spellcasting returns the spellcasting block. The ability comes from
// spells.spellcasting_ability when set, otherwise from the class; ok is false
// when neither yields one.
func (c *CharacterData) Spellcasting() (Spellcasting, bool) {
	sc := Spellcasting{Class: c.Character.Class}
	ability := lookupClass(c.Character.Class).ability
	if c.Spells != nil {
		if c.Spells.SpellcastingClass != "" {
			sc.Class = c.Spells.SpellcastingClass
		}
		if a, ok := ParseAbility(c.Spells.SpellcastingAbility); ok {
			ability = a
		}
	}
	if ability == "" {
		return Spellcasting{}, false
	}

	sc.Ability = ability
	mod := c.Modifier(ability)
	prof := c.ProficiencyBonus()
	sc.SaveDC = 8 + prof + mod
	sc.AttackBonus = prof + mod
	return sc, true
}
