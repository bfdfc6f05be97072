// Package charsheet models a D&D 5th edition character as submitted to the
// sheet filler, and derives the values a printed sheet shows next to the raw
// numbers: ability modifiers, proficiency bonus, saving throws, skills,
// passive perception, spellcasting statistics and spell slots.
//
// Nothing here enforces game rules. Check reports rule violations as
// warnings; callers decide whether they block a fill.
package charsheet

// CharacterData is the complete record accepted by the fill tool. Only
// Character and Abilities are required.
type CharacterData struct {
	Character      Character       `json:"character" jsonschema:"description=Identity and class of the character"`
	Abilities      AbilityScores   `json:"abilities" jsonschema:"description=The six ability scores"`
	Proficiencies  *Proficiencies  `json:"proficiencies,omitempty" jsonschema:"description=Proficient saving throws and skills"`
	Combat         *Combat         `json:"combat,omitempty" jsonschema:"description=Armor class and hit points"`
	Spells         *Spells         `json:"spells,omitempty" jsonschema:"description=Known spells by level"`
	Equipment      *Equipment      `json:"equipment,omitempty" jsonschema:"description=Coins and carried items"`
	Narrative      *Narrative      `json:"narrative,omitempty" jsonschema:"description=Personality traits and ideals and bonds and flaws"`
	FeaturesTraits *FeaturesTraits `json:"features_traits,omitempty" jsonschema:"description=Class features and racial traits"`
}

// Character identifies the character.
type Character struct {
	Name             string `json:"name" jsonschema:"description=Character name"`
	Class            string `json:"class" jsonschema:"description=Character class such as Fighter or Wizard"`
	Level            int    `json:"level" jsonschema:"description=Character level"`
	Race             string `json:"race" jsonschema:"description=Character race"`
	Background       string `json:"background,omitempty"`
	PlayerName       string `json:"player_name,omitempty"`
	Alignment        string `json:"alignment,omitempty"`
	ExperiencePoints *int   `json:"experience_points,omitempty"`
}

// AbilityScores holds the six ability scores.
type AbilityScores struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Constitution int `json:"constitution"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
}

// Proficiencies lists what the character adds its proficiency bonus to.
// Names are matched case-insensitively in any of the usual spellings
// ("Sleight of Hand", "sleight_of_hand", "sleightOfHand", "STR").
type Proficiencies struct {
	SavingThrows []string `json:"saving_throws,omitempty" jsonschema:"description=Abilities with saving throw proficiency"`
	Skills       []string `json:"skills,omitempty" jsonschema:"description=Proficient skills"`
	Expertise    []string `json:"expertise,omitempty" jsonschema:"description=Skills that add double proficiency"`
}

// Combat holds the combat block. Initiative defaults to the Dexterity
// modifier when absent.
type Combat struct {
	ArmorClass         *int   `json:"armor_class,omitempty"`
	Initiative         *int   `json:"initiative,omitempty"`
	Speed              *int   `json:"speed,omitempty"`
	HitPointMaximum    *int   `json:"hit_point_maximum,omitempty"`
	CurrentHitPoints   *int   `json:"current_hit_points,omitempty"`
	TemporaryHitPoints *int   `json:"temporary_hit_points,omitempty"`
	HitDice            string `json:"hit_dice,omitempty" jsonschema:"description=Hit dice such as 1d10"`
	HitDiceTotal       *int   `json:"hit_dice_total,omitempty"`
}

// Spell is one entry of a spell list. Level defaults to the level of the
// list holding the spell.
type Spell struct {
	Name     string `json:"name"`
	Level    *int   `json:"level,omitempty"`
	Prepared bool   `json:"prepared,omitempty"`
}

// Spells groups the character's spells by level.
type Spells struct {
	SpellcastingClass   string  `json:"spellcasting_class,omitempty"`
	SpellcastingAbility string  `json:"spellcasting_ability,omitempty" jsonschema:"description=Overrides the class default spellcasting ability"`
	Cantrips            []Spell `json:"cantrips,omitempty"`
	FirstLevel          []Spell `json:"first_level,omitempty"`
	SecondLevel         []Spell `json:"second_level,omitempty"`
	ThirdLevel          []Spell `json:"third_level,omitempty"`
	FourthLevel         []Spell `json:"fourth_level,omitempty"`
	FifthLevel          []Spell `json:"fifth_level,omitempty"`
	SixthLevel          []Spell `json:"sixth_level,omitempty"`
	SeventhLevel        []Spell `json:"seventh_level,omitempty"`
	EighthLevel         []Spell `json:"eighth_level,omitempty"`
	NinthLevel          []Spell `json:"ninth_level,omitempty"`
}

// ByLevel returns the spell lists indexed by spell level, cantrips at 0.
func (s *Spells) ByLevel() [10][]Spell {
	if s == nil {
		return [10][]Spell{}
	}
	return [10][]Spell{
		s.Cantrips, s.FirstLevel, s.SecondLevel, s.ThirdLevel, s.FourthLevel,
		s.FifthLevel, s.SixthLevel, s.SeventhLevel, s.EighthLevel, s.NinthLevel,
	}
}

// Equipment holds coins and gear.
type Equipment struct {
	Currency *Currency `json:"currency,omitempty"`
	Items    string    `json:"items,omitempty" jsonschema:"description=Free-form equipment list"`
}

// Currency counts coins by denomination.
type Currency struct {
	CP *int `json:"cp,omitempty"`
	SP *int `json:"sp,omitempty"`
	EP *int `json:"ep,omitempty"`
	GP *int `json:"gp,omitempty"`
	PP *int `json:"pp,omitempty"`
}

// Narrative holds the personality block.
type Narrative struct {
	PersonalityTraits string `json:"personality_traits,omitempty"`
	Ideals            string `json:"ideals,omitempty"`
	Bonds             string `json:"bonds,omitempty"`
	Flaws             string `json:"flaws,omitempty"`
}

// FeaturesTraits lists features and traits, one entry per line on the sheet.
type FeaturesTraits struct {
	Features []string `json:"features,omitempty"`
	Traits   []string `json:"traits,omitempty"`
}
