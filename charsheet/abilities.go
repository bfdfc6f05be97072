package charsheet

import (
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
)

// Ability names one of the six ability scores.
type Ability string

const (
	Strength     Ability = "strength"
	Dexterity    Ability = "dexterity"
	Constitution Ability = "constitution"
	Intelligence Ability = "intelligence"
	Wisdom       Ability = "wisdom"
	Charisma     Ability = "charisma"
)

// Abilities lists the abilities in sheet order.
var Abilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// Title returns the capitalized ability name, e.g. "Wisdom".
func (a Ability) Title() string { return strcase.ToCamel(string(a)) }

// Abbrev returns the three letter abbreviation, e.g. "WIS".
func (a Ability) Abbrev() string { return strings.ToUpper(string(a)[:3]) }

var abilityAliases = map[string]Ability{
	"str": Strength,
	"dex": Dexterity,
	"con": Constitution,
	"int": Intelligence,
	"wis": Wisdom,
	"cha": Charisma,
}

// ParseAbility resolves a user-supplied ability name or abbreviation.
func ParseAbility(s string) (Ability, bool) {
	key := normalize(s)
	for _, a := range Abilities {
		if string(a) == key {
			return a, true
		}
	}
	a, ok := abilityAliases[key]
	return a, ok
}

func normalize(s string) string {
	return strcase.ToSnake(strings.TrimSpace(s))
}

// Score returns the score for a.
func (s AbilityScores) Score(a Ability) int {
	switch a {
	case Strength:
		return s.Strength
	case Dexterity:
		return s.Dexterity
	case Constitution:
		return s.Constitution
	case Intelligence:
		return s.Intelligence
	case Wisdom:
		return s.Wisdom
	case Charisma:
		return s.Charisma
	}
	return 10
}

// Modifier returns the ability modifier for score, rounding down.
func Modifier(score int) int {
	d := score - 10
	if d < 0 {
		return -((-d + 1) / 2)
	}
	return d / 2
}

// FormatBonus renders n with an explicit sign: "+2", "+0", "-1".
func FormatBonus(n int) string {
	if n >= 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// ProficiencyBonus returns the proficiency bonus for a character level.
// Levels outside 1-20 get the first-tier bonus.
func ProficiencyBonus(level int) int {
	switch {
	case level >= 1 && level <= 4:
		return 2
	case level >= 5 && level <= 8:
		return 3
	case level >= 9 && level <= 12:
		return 4
	case level >= 13 && level <= 16:
		return 5
	case level >= 17 && level <= 20:
		return 6
	}
	return 2
}

// Skill is one of the eighteen skills with its governing ability.
type Skill struct {
	Key     string
	Ability Ability
}

// Skills lists the skills in alphabetical order, the order in which they are
// printed on the sheet.
var Skills = []Skill{
	{"acrobatics", Dexterity},
	{"animal_handling", Wisdom},
	{"arcana", Intelligence},
	{"athletics", Strength},
	{"deception", Charisma},
	{"history", Intelligence},
	{"insight", Wisdom},
	{"intimidation", Charisma},
	{"investigation", Intelligence},
	{"medicine", Wisdom},
	{"nature", Intelligence},
	{"perception", Wisdom},
	{"performance", Charisma},
	{"persuasion", Charisma},
	{"religion", Intelligence},
	{"sleight_of_hand", Dexterity},
	{"stealth", Dexterity},
	{"survival", Wisdom},
}

// ParseSkill resolves a user-supplied skill name.
func ParseSkill(s string) (Skill, bool) {
	key := normalize(s)
	for _, sk := range Skills {
		if sk.Key == key {
			return sk, true
		}
	}
	return Skill{}, false
}

// Modifier returns the modifier of ability a.
func (c *CharacterData) Modifier(a Ability) int {
	return Modifier(c.Abilities.Score(a))
}

// ProficiencyBonus returns the proficiency bonus for the character's level.
func (c *CharacterData) ProficiencyBonus() int {
	return ProficiencyBonus(c.Character.Level)
}

// SaveProficient reports whether the character is proficient in saving
// throws of a.
func (c *CharacterData) SaveProficient(a Ability) bool {
	if c.Proficiencies == nil {
		return false
	}
	for _, s := range c.Proficiencies.SavingThrows {
		if got, ok := ParseAbility(s); ok && got == a {
			return true
		}
	}
	return false
}

// SavingThrow returns the saving throw bonus for a.
func (c *CharacterData) SavingThrow(a Ability) int {
	bonus := c.Modifier(a)
	if c.SaveProficient(a) {
		bonus += c.ProficiencyBonus()
	}
	return bonus
}

// SkillProficiency returns 0, 1 or 2: none, proficient, or expertise.
func (c *CharacterData) SkillProficiency(sk Skill) int {
	if c.Proficiencies == nil {
		return 0
	}
	has := func(list []string) bool {
		for _, s := range list {
			if got, ok := ParseSkill(s); ok && got.Key == sk.Key {
				return true
			}
		}
		return false
	}
	switch {
	case has(c.Proficiencies.Expertise):
		return 2
	case has(c.Proficiencies.Skills):
		return 1
	}
	return 0
}

// SkillBonus returns the check bonus for sk.
func (c *CharacterData) SkillBonus(sk Skill) int {
	return c.Modifier(sk.Ability) + c.SkillProficiency(sk)*c.ProficiencyBonus()
}

// PassivePerception returns 10 plus the Perception bonus.
func (c *CharacterData) PassivePerception() int {
	sk, _ := ParseSkill("perception")
	return 10 + c.SkillBonus(sk)
}

// Initiative returns the combat initiative, defaulting to the Dexterity
// modifier.
func (c *CharacterData) Initiative() int {
	if c.Combat != nil && c.Combat.Initiative != nil {
		return *c.Combat.Initiative
	}
	return c.Modifier(Dexterity)
}
