package sheet

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ggoodman/dnd-sheet-mcp/charsheet"
	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

func testFighter() *charsheet.CharacterData {
	return &charsheet.CharacterData{
		Character: charsheet.Character{Name: "Test", Class: "Fighter", Level: 1, Race: "Human"},
		Abilities: charsheet.AbilityScores{Strength: 15, Dexterity: 14, Constitution: 13, Intelligence: 12, Wisdom: 10, Charisma: 8},
	}
}

func testWizard() *charsheet.CharacterData {
	return &charsheet.CharacterData{
		Character: charsheet.Character{Name: "Elminster", Class: "Wizard", Level: 1, Race: "Human", Background: "Sage"},
		Abilities: charsheet.AbilityScores{Strength: 8, Dexterity: 14, Constitution: 12, Intelligence: 16, Wisdom: 13, Charisma: 10},
		Proficiencies: &charsheet.Proficiencies{
			SavingThrows: []string{"Intelligence", "Wisdom"},
			Skills:       []string{"Arcana", "History"},
		},
		Combat: &charsheet.Combat{ArmorClass: intp(12), HitPointMaximum: intp(6), HitDice: "1d6"},
		Spells: &charsheet.Spells{
			Cantrips:   []charsheet.Spell{{Name: "Fire Bolt"}, {Name: "Mage Hand"}},
			FirstLevel: []charsheet.Spell{{Name: "Magic Missile", Prepared: true}, {Name: "Shield"}},
		},
		Equipment:      &charsheet.Equipment{Currency: &charsheet.Currency{GP: intp(15)}, Items: "Spellbook"},
		Narrative:      &charsheet.Narrative{Ideals: "Knowledge"},
		FeaturesTraits: &charsheet.FeaturesTraits{Features: []string{"Arcane Recovery"}, Traits: []string{"Extra Language"}},
	}
}

func TestFieldValuesFighter(t *testing.T) {
	v := FieldValues(testFighter())

	assert.Equal(t, "Test", v["CharacterName"])
	assert.Equal(t, "Fighter 1", v["ClassLevel"])
	assert.Equal(t, "Human", v["Race"])
	assert.Equal(t, "15", v["STR"])
	assert.Equal(t, "+2", v["STRmod"])
	assert.Equal(t, "+0", v["WISmod"])
	assert.Equal(t, "-1", v["CHAmod"])
	assert.Equal(t, "+2", v["ProfBonus"])
	assert.Equal(t, "+2", v["ST Strength"])
	assert.Equal(t, "+2", v["Initiative"])
	assert.Equal(t, "10", v["Passive"])
	assert.Equal(t, "+2", v["Acrobatics"])
	assert.Equal(t, "-1", v["Persuasion"])

	for _, absent := range []string{"AC", "Background", "Check Box 11", "Spellcasting Class 2", "SlotsTotal 19", "Personality"} {
		assert.NotContains(t, v, absent)
	}
}

func TestFieldValuesWizard(t *testing.T) {
	v := FieldValues(testWizard())

	assert.Equal(t, "Sage", v["Background"])
	assert.Equal(t, "Yes", v["Check Box 20"], "intelligence save")
	assert.Equal(t, "Yes", v["Check Box 21"], "wisdom save")
	assert.Equal(t, "Yes", v["Check Box 25"], "arcana")
	assert.Equal(t, "Yes", v["Check Box 28"], "history")
	assert.Equal(t, "+5", v["Arcana"])
	assert.Equal(t, "+5", v["ST Intelligence"])

	assert.Equal(t, "12", v["AC"])
	assert.Equal(t, "6", v["HPMax"])
	assert.Equal(t, "1d6", v["HD"])
	assert.Equal(t, "15", v["GP"])
	assert.NotContains(t, v, "CP")
	assert.Equal(t, "Spellbook", v["Equipment"])
	assert.Equal(t, "Arcane Recovery\nExtra Language", v["Features and Traits"])
	assert.Equal(t, "Knowledge", v["Ideals"])

	assert.Equal(t, "Wizard", v["Spellcasting Class 2"])
	assert.Equal(t, "Intelligence", v["SpellcastingAbility 2"])
	assert.Equal(t, "13", v["SpellSaveDC  2"])
	assert.Equal(t, "+5", v["SpellAtkBonus 2"])
	assert.Equal(t, "2", v["SlotsTotal 19"])
	assert.NotContains(t, v, "SlotsTotal 20")

	assert.Equal(t, "Fire Bolt", v["Spells 1014"])
	assert.Equal(t, "Mage Hand", v["Spells 1016"])
	assert.Equal(t, "Magic Missile", v["Spells 1015"])
	assert.Equal(t, "Shield", v["Spells 1023"])
	assert.Equal(t, "Yes", v["Check Box 322"])
	assert.NotContains(t, v, "Check Box 323")
}

func TestSpellFieldNames(t *testing.T) {
	assert.Equal(t, "Spells 1046", SpellField(2, 0))
	assert.Equal(t, "Spells 1059", SpellField(3, 11))
	assert.Equal(t, "Spells 101010", SpellField(9, 3))
	assert.Equal(t, "Spells 10100", SpellField(8, 1))
	assert.Equal(t, "Check Box 425", PreparedField(9, 0))
	assert.Equal(t, "Check Box 349", PreparedField(3, 2))
	assert.Equal(t, 8, SpellCapacity(0))
	assert.Equal(t, 13, SpellCapacity(2))
}

func TestSpellCapacityMatchesRules(t *testing.T) {
	for level := range spellFields {
		assert.Equal(t, charsheet.SheetSpellLines[level], SpellCapacity(level), "level %d", level)
	}
}

func TestFieldValuesDropsSpellsPastCapacity(t *testing.T) {
	c := testWizard()
	c.Spells.Cantrips = nil
	for i := 1; i <= 9; i++ {
		c.Spells.Cantrips = append(c.Spells.Cantrips, charsheet.Spell{Name: fmt.Sprintf("Cantrip%d", i)})
	}
	c.Spells.Cantrips[8].Prepared = true
	c.Spells.FirstLevel = []charsheet.Spell{{Name: "Shield"}}

	v := FieldValues(c)
	assert.Equal(t, "Cantrip8", v["Spells 1022"])
	assert.Equal(t, "Shield", v["Spells 1015"])
	assert.NotContains(t, v, "Check Box 322", "first level-1 box belongs to Shield")
	for _, value := range v {
		assert.NotEqual(t, "Cantrip9", value)
	}

	var fields []string
	for _, w := range charsheet.Check(c) {
		fields = append(fields, w.Field)
	}
	assert.Equal(t, []string{"spells.cantrips[8]"}, fields)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", NarrativeLimit))

	exact := strings.Repeat("a", NarrativeLimit)
	assert.Equal(t, exact, Truncate(exact, NarrativeLimit))

	long := strings.Repeat("b", NarrativeLimit+100)
	got := Truncate(long, NarrativeLimit)
	assert.Len(t, got, NarrativeLimit)
	assert.True(t, strings.HasSuffix(got, "..."))

	runes := strings.Repeat("é", NarrativeLimit+1)
	got = Truncate(runes, NarrativeLimit)
	assert.Equal(t, NarrativeLimit, len([]rune(got)))
	assert.Equal(t, strings.Repeat("é", NarrativeLimit-3)+"...", got)
}

func TestNarrativeTruncatedInFieldValues(t *testing.T) {
	c := testFighter()
	c.Narrative = &charsheet.Narrative{PersonalityTraits: strings.Repeat("x", 800)}
	v := FieldValues(c)
	assert.Len(t, v["Personality"], NarrativeLimit)
}

func TestBlankTemplateCarriesMappedFields(t *testing.T) {
	doc, err := BlankTemplate()
	if !assert.NoError(t, err) {
		return
	}
	fields, err := doc.Fields()
	assert.NoError(t, err)
	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		names[f.Name] = true
	}

	for field := range FieldValues(testWizard()) {
		assert.True(t, names[field], "blank template lacks %q", field)
	}
	c := testWizard()
	c.Character.Level = 20
	c.Spells.NinthLevel = []charsheet.Spell{{Name: "Wish", Prepared: true}}
	for field := range FieldValues(c) {
		assert.True(t, names[field], "blank template lacks %q", field)
	}
}
