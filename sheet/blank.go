package sheet

import (
	"fmt"
	"sync"

	"github.com/ggoodman/dnd-sheet-mcp/charsheet"
	"github.com/ggoodman/dnd-sheet-mcp/pdfform"
	"github.com/psanford/memfs"
)

// BlankTemplateName is the name BlankSource serves the blank sheet under.
const BlankTemplateName = "blank_character_sheet.pdf"

// column places labelled fields top to bottom at a fixed x position.
type column struct {
	page *pdfform.PageBuilder
	x, y float64
	w    float64
	step float64
}

func newColumn(p *pdfform.PageBuilder, x, y, w, step float64) *column {
	return &column{page: p, x: x, y: y, w: w, step: step}
}

func (c *column) text(label, name string) {
	c.page.Label(c.x, c.y, 6, label)
	c.page.TextField(name, pdfform.Rect{X: c.x, Y: c.y - c.step + 8, W: c.w, H: c.step - 10})
	c.y -= c.step
}

// pair places two fields side by side under one label.
func (c *column) pair(label, left, right string) {
	half := (c.w - 4) / 2
	c.page.Label(c.x, c.y, 6, label)
	c.page.TextField(left, pdfform.Rect{X: c.x, Y: c.y - c.step + 8, W: half, H: c.step - 10})
	c.page.TextField(right, pdfform.Rect{X: c.x + half + 4, Y: c.y - c.step + 8, W: half, H: c.step - 10})
	c.y -= c.step
}

// checked places a check box followed by a text field on one line.
func (c *column) checked(box, name, label string) {
	c.page.CheckBox(box, pdfform.Rect{X: c.x, Y: c.y - 9, W: 9, H: 9})
	c.page.TextField(name, pdfform.Rect{X: c.x + 12, Y: c.y - 11, W: 30, H: 12})
	c.page.Label(c.x+46, c.y-8, 7, label)
	c.y -= c.step
}

func (c *column) multiline(label, name string, h float64) {
	c.page.Label(c.x, c.y, 6, label)
	c.page.MultilineTextField(name, pdfform.Rect{X: c.x, Y: c.y - h - 2, W: c.w, H: h})
	c.y -= h + 14
}

func (c *column) heading(text string) {
	c.page.Label(c.x, c.y-8, 8, text)
	c.y -= c.step
}

var skillLabels = [18]string{
	"Acrobatics (Dex)", "Animal Handling (Wis)", "Arcana (Int)", "Athletics (Str)",
	"Deception (Cha)", "History (Int)", "Insight (Wis)", "Intimidation (Cha)",
	"Investigation (Int)", "Medicine (Wis)", "Nature (Int)", "Perception (Wis)",
	"Performance (Cha)", "Persuasion (Cha)", "Religion (Int)",
	"Sleight of Hand (Dex)", "Stealth (Dex)", "Survival (Wis)",
}

var spellLevelLabels = [10]string{
	"Cantrips", "Level 1", "Level 2", "Level 3", "Level 4",
	"Level 5", "Level 6", "Level 7", "Level 8", "Level 9",
}

// BlankTemplate returns a fillable two page character sheet that carries
// every field FieldValues writes, with the field names of the official 5e
// sheet. It stands in for the official sheet when none is installed. The
// document is built once and shared.
func BlankTemplate() (*pdfform.Document, error) { return blankOnce() }

var blankOnce = sync.OnceValues(buildBlank)

// BlankSource serves BlankTemplate from memory.
func BlankSource() (TemplateSource, error) {
	doc, err := BlankTemplate()
	if err != nil {
		return TemplateSource{}, err
	}
	data, err := doc.Bytes()
	if err != nil {
		return TemplateSource{}, err
	}
	fsys := memfs.New()
	if err := fsys.WriteFile(BlankTemplateName, data, 0o644); err != nil {
		return TemplateSource{}, err
	}
	return FSSource(fsys, BlankTemplateName), nil
}

func buildBlank() (*pdfform.Document, error) {
	b := pdfform.NewBuilder()

	front := b.AddPage()
	front.Label(30, 772, 14, "D&D 5E CHARACTER SHEET")

	id := newColumn(front, 30, 750, 130, 26)
	id.text("CHARACTER NAME", "CharacterName")
	id.text("CLASS & LEVEL", "ClassLevel")
	id.text("BACKGROUND", "Background")
	id.text("PLAYER NAME", "PlayerName")
	id.text("RACE", "Race")
	id.text("ALIGNMENT", "Alignment")
	id.text("EXPERIENCE POINTS", "ExperiencePoints")
	for _, a := range charsheet.Abilities {
		field := abilityFields[a]
		id.pair(a.Abbrev()+" / MODIFIER", field, field+"mod")
	}
	id.text("PROFICIENCY BONUS", "ProfBonus")
	id.text("PASSIVE WISDOM (PERCEPTION)", "Passive")

	saves := newColumn(front, 180, 750, 120, 18)
	saves.heading("SAVING THROWS")
	for i, a := range charsheet.Abilities {
		saves.checked(checkBox(saveBoxes[i]), "ST "+a.Title(), a.Title())
	}
	saves.heading("SKILLS")
	for i := range charsheet.Skills {
		saves.checked(checkBox(firstSkillBox+i), skillFields[i], skillLabels[i])
	}

	combat := newColumn(front, 320, 750, 120, 26)
	combat.text("ARMOR CLASS", "AC")
	combat.text("INITIATIVE", "Initiative")
	combat.text("SPEED", "Speed")
	combat.text("HIT POINT MAXIMUM", "HPMax")
	combat.text("CURRENT HIT POINTS", "HPCurrent")
	combat.text("TEMPORARY HIT POINTS", "HPTemp")
	combat.text("HIT DICE", "HD")
	combat.text("TOTAL HIT DICE", "HDTotal")
	for _, coin := range []string{"CP", "SP", "EP", "GP", "PP"} {
		combat.text(coin, coin)
	}
	combat.multiline("EQUIPMENT", "Equipment", 200)

	story := newColumn(front, 460, 750, 130, 26)
	story.multiline("PERSONALITY TRAITS", "Personality", 80)
	story.multiline("IDEALS", "Ideals", 70)
	story.multiline("BONDS", "Bonds", 70)
	story.multiline("FLAWS", "Flaws", 70)
	story.multiline("FEATURES & TRAITS", "Features and Traits", 300)

	back := b.AddPage()
	back.Label(30, 772, 14, "SPELLCASTING")
	header := newColumn(back, 30, 750, 130, 26)
	header.text("SPELLCASTING CLASS", "Spellcasting Class 2")
	header = newColumn(back, 175, 750, 120, 26)
	header.text("SPELLCASTING ABILITY", "SpellcastingAbility 2")
	header = newColumn(back, 310, 750, 120, 26)
	header.text("SPELL SAVE DC", "SpellSaveDC  2")
	header = newColumn(back, 445, 750, 120, 26)
	header.text("SPELL ATTACK BONUS", "SpellAtkBonus 2")
	for i := 0; i < 9; i++ {
		slots := newColumn(back, 30+float64(i)*62, 718, 50, 26)
		slots.text(fmt.Sprintf("SLOTS L%d", i+1), fmt.Sprintf("SlotsTotal %d", firstSlotField+i))
	}

	groups := [][]int{{0, 1, 2}, {3, 4, 5}, {6, 7, 8, 9}}
	for g, levels := range groups {
		col := newColumn(back, 30+float64(g)*190, 680, 150, 16)
		for _, level := range levels {
			col.heading(spellLevelLabels[level])
			for i := 0; i < SpellCapacity(level); i++ {
				col.page.CheckBox(PreparedField(level, i), pdfform.Rect{X: col.x, Y: col.y - 9, W: 9, H: 9})
				col.page.TextField(SpellField(level, i), pdfform.Rect{X: col.x + 12, Y: col.y - 12, W: col.w, H: 12})
				col.y -= col.step
			}
		}
	}

	return b.Build()
}
