package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Title       lipgloss.Style
	ModePill    lipgloss.Style
	Section     lipgloss.Style
	Count       lipgloss.Style
	ActiveLine  lipgloss.Style
	MetaLabel   lipgloss.Style
	MetaValue   lipgloss.Style
	StateIdle   lipgloss.Style
	StateWarn   lipgloss.Style
	StateLoad   lipgloss.Style
	Chip        lipgloss.Style
	ChipActive  lipgloss.Style
	Provisional lipgloss.Style
	Number      lipgloss.Style

	categories map[string]lipgloss.Style
}

func Default() Theme {
	cpRosewater := lipgloss.Color("#f5e0dc")
	cpFlamingo := lipgloss.Color("#f2cdcd")
	cpPink := lipgloss.Color("#f5c2e7")
	cpMauve := lipgloss.Color("#cba6f7")
	cpRed := lipgloss.Color("#f38ba8")
	cpMaroon := lipgloss.Color("#eba0ac")
	cpPeach := lipgloss.Color("#fab387")
	cpYellow := lipgloss.Color("#f9e2af")
	cpGreen := lipgloss.Color("#a6e3a1")
	cpTeal := lipgloss.Color("#94e2d5")
	cpSky := lipgloss.Color("#89dceb")
	cpSapphire := lipgloss.Color("#74c7ec")
	cpBlue := lipgloss.Color("#89b4fa")
	cpLavender := lipgloss.Color("#b4befe")
	cpText := lipgloss.Color("#cdd6f4")
	cpSubtext0 := lipgloss.Color("#a6adc8")
	cpSubtext1 := lipgloss.Color("#bac2de")
	cpOverlay1 := lipgloss.Color("#7f849c")
	cpSurface0 := lipgloss.Color("#313244")
	cpSurface2 := lipgloss.Color("#585b70")

	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return Theme{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(cpMauve),
		ModePill:    lipgloss.NewStyle().Foreground(cpLavender).Background(cpSurface0).Padding(0, 1),
		Section:     lipgloss.NewStyle().Bold(true).Foreground(cpTeal),
		Count:       lipgloss.NewStyle().Foreground(cpYellow).Bold(true),
		ActiveLine:  lipgloss.NewStyle().Background(cpSurface0).Foreground(cpText),
		MetaLabel:   fg(cpOverlay1),
		MetaValue:   fg(cpSubtext1),
		StateIdle:   fg(cpGreen),
		StateWarn:   fg(cpRed),
		StateLoad:   fg(cpPeach),
		Chip:        fg(cpSubtext0),
		ChipActive:  lipgloss.NewStyle().Bold(true).Foreground(cpSurface0).Background(cpLavender),
		Provisional: lipgloss.NewStyle().Italic(true).Foreground(cpOverlay1),
		Number:      fg(cpSurface2),
		categories: map[string]lipgloss.Style{
			"normal":   fg(cpSubtext1),
			"fire":     fg(cpPeach),
			"water":    fg(cpBlue),
			"grass":    fg(cpGreen),
			"electric": fg(cpYellow),
			"ice":      fg(cpSky),
			"fighting": fg(cpMaroon),
			"poison":   fg(cpMauve),
			"ground":   fg(cpFlamingo),
			"flying":   fg(cpLavender),
			"psychic":  fg(cpPink),
			"bug":      fg(cpTeal),
			"rock":     fg(cpRosewater),
			"ghost":    fg(cpOverlay1),
			"dragon":   fg(cpSapphire),
			"dark":     fg(cpSurface2),
			"steel":    fg(cpSubtext0),
			"fairy":    fg(cpPink),
		},
	}
}

// StyleCategory colours a category label; unknown labels are returned as is.
func (t Theme) StyleCategory(label string) string {
	if label == "" {
		return label
	}
	style, ok := t.categories[strings.ToLower(label)]
	if !ok {
		return label
	}
	return style.Render(label)
}

func (t Theme) RenderActiveLine(active bool, line string) string {
	if !active {
		return line
	}
	return t.ActiveLine.Render(line)
}
