package view

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/glabrego/pokedex-cli/internal/catalog"
	"github.com/glabrego/pokedex-cli/internal/derive"
	tuitheme "github.com/glabrego/pokedex-cli/internal/tui/theme"
)

var reANSICodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type ItemLineParams struct {
	Item   derive.Item
	Active bool
	Width  int
}

func RenderItemLine(p ItemLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := fmt.Sprintf("  %s %s  ", cursorMarker, th.Number.Render(FormatNumber(p.Item.ID)))
	available := p.Width - visibleLen(prefix)
	if available < 1 {
		available = 1
	}
	label := truncateRunes(catalog.DisplayName(p.Item.Name), available)
	return th.RenderActiveLine(p.Active, prefix+label)
}

type CardLineParams struct {
	Card   derive.Card
	Active bool
	Width  int
}

// RenderCardLine draws one gallery row: number and name on the left,
// categories on the right. Provisional cards show an ellipsis until their
// categories resolve.
func RenderCardLine(p CardLineParams, th tuitheme.Theme) string {
	cursorMarker := " "
	if p.Active {
		cursorMarker = ">"
	}
	prefix := fmt.Sprintf("  %s %s  ", cursorMarker, th.Number.Render(FormatNumber(p.Card.ID)))

	right := th.Provisional.Render("…")
	if !p.Card.Provisional {
		styled := make([]string, 0, len(p.Card.Categories))
		for _, c := range p.Card.Categories {
			styled = append(styled, th.StyleCategory(c))
		}
		right = strings.Join(styled, " / ")
	}

	available := p.Width - visibleLen(prefix) - 1 - visibleLen(right)
	if available < 1 {
		available = 1
	}
	label := truncateRunes(catalog.DisplayName(p.Card.Name), available)
	if p.Card.Provisional {
		label = th.Provisional.Render(label)
	}
	gap := p.Width - visibleLen(prefix) - visibleLen(label) - visibleLen(right)
	if gap < 1 {
		gap = 1
	}
	return th.RenderActiveLine(p.Active, prefix+label+strings.Repeat(" ", gap)+right)
}

// RenderCategoryBar lays the category chips out over as many lines as width
// requires. cursor marks the chip the toggle key acts on.
func RenderCategoryBar(labels, selected []string, cursor, width int, th tuitheme.Theme) []string {
	if len(labels) == 0 {
		return nil
	}
	if width < 10 {
		width = 10
	}
	isSelected := make(map[string]bool, len(selected))
	for _, s := range selected {
		isSelected[strings.ToLower(s)] = true
	}

	lines := make([]string, 0, 2)
	line := ""
	for i, label := range labels {
		text := label
		if i == cursor {
			text = "[" + label + "]"
		} else {
			text = " " + label + " "
		}
		chip := th.Chip.Render(text)
		if isSelected[strings.ToLower(label)] {
			chip = th.ChipActive.Render(text)
		}
		if line != "" && visibleLen(line)+1+visibleLen(chip) > width {
			lines = append(lines, line)
			line = ""
		}
		if line == "" {
			line = chip
			continue
		}
		line += " " + chip
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// FormatNumber renders a catalog number as "#025". Unknown ids render as "#???".
func FormatNumber(id int) string {
	if id <= 0 {
		return "#???"
	}
	return fmt.Sprintf("#%03d", id)
}

func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return strings.Repeat(".", maxLen)
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}

func visibleLen(s string) int {
	return utf8.RuneCountInString(stripANSIText(s))
}

func stripANSIText(s string) string {
	return reANSICodes.ReplaceAllString(s, "")
}
