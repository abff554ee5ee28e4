package view

import (
	"fmt"
	"strings"

	"github.com/glabrego/pokedex-cli/internal/catalog"
	tuitheme "github.com/glabrego/pokedex-cli/internal/tui/theme"
)

const maxBaseStat = 255

type ImagePreviewState struct {
	Enabled bool
	Loading bool
	Raw     string
	Err     string
}

// DetailLines builds the scrollable body of the detail view.
func DetailLines(d catalog.Detail, width int, preview ImagePreviewState, th tuitheme.Theme) []string {
	title := catalog.DisplayName(d.Name) + "  " + FormatNumber(d.ID)
	lines := make([]string, 0, 32)
	lines = append(lines, truncateRunes(title, max(width, 1)))
	lines = append(lines, strings.Repeat("=", max(1, min(width, visibleLen(title)))))
	lines = append(lines, "")

	styled := make([]string, 0, len(d.Categories))
	for _, c := range d.Categories {
		styled = append(styled, th.StyleCategory(c))
	}
	if len(styled) == 0 {
		styled = append(styled, "unknown")
	}
	lines = append(lines, th.MetaLabel.Render("Types:")+" "+strings.Join(styled, " / "))
	lines = append(lines, th.MetaLabel.Render("Height:")+" "+FormatHeight(d.Height))
	lines = append(lines, th.MetaLabel.Render("Weight:")+" "+FormatWeight(d.Weight))
	baseExp := "unknown"
	if d.BaseExperience != nil {
		baseExp = fmt.Sprintf("%d", *d.BaseExperience)
	}
	lines = append(lines, th.MetaLabel.Render("Base experience:")+" "+baseExp)

	if len(d.Attributes) > 0 {
		lines = append(lines, "", th.Section.Render("Base stats"))
		labelWidth := 0
		for _, a := range d.Attributes {
			labelWidth = max(labelWidth, len(a.Label))
		}
		barWidth := width - labelWidth - 10
		for _, a := range d.Attributes {
			lines = append(lines, fmt.Sprintf("  %-*s %3d %s", labelWidth, a.Label, a.Value, StatBar(a.Value, barWidth)))
		}
	}

	if d.ImageRef != "" {
		lines = append(lines, "")
		lines = append(lines, WrapText("Artwork: "+d.ImageRef, width)...)
	}
	return appendImagePreview(lines, preview, width)
}

// StatBar scales value against the highest possible base stat.
func StatBar(value, width int) string {
	if width < 1 {
		return ""
	}
	if width > 40 {
		width = 40
	}
	filled := value * width / maxBaseStat
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatHeight converts decimetres to metres.
func FormatHeight(dm int) string {
	return fmt.Sprintf("%.1f m", float64(dm)/10)
}

// FormatWeight converts hectograms to kilograms.
func FormatWeight(hg int) string {
	return fmt.Sprintf("%.1f kg", float64(hg)/10)
}

func DetailMaxTop(linesLen, bodyHeight int) int {
	maxTop := linesLen - bodyHeight
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

func RenderDetailLines(lines []string, top, maxLines int) string {
	if len(lines) == 0 {
		return ""
	}
	if top < 0 {
		top = 0
	}
	if top > len(lines)-1 {
		top = len(lines) - 1
	}
	end := len(lines)
	if maxLines > 0 && top+maxLines < end {
		end = top + maxLines
	}
	return strings.Join(lines[top:end], "\n") + "\n"
}

func appendImagePreview(lines []string, preview ImagePreviewState, width int) []string {
	if !preview.Enabled {
		return lines
	}
	switch {
	case preview.Loading:
		return append(lines, "", "Loading sprite preview...")
	case strings.TrimSpace(preview.Raw) != "":
		raw := strings.TrimRight(preview.Raw, "\r\n")
		if ContainsKittyGraphicsEscape(raw) {
			return append(lines, "", raw)
		}
		return append(append(lines, ""), centerLines(strings.Split(raw, "\n"), width)...)
	case strings.TrimSpace(preview.Err) != "":
		return append(lines, "", "Sprite preview unavailable: "+preview.Err)
	}
	return lines
}

func centerLines(lines []string, width int) []string {
	if width <= 0 || len(lines) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		visible := visibleLen(line)
		if visible >= width {
			out[i] = line
			continue
		}
		out[i] = strings.Repeat(" ", (width-visible)/2) + line
	}
	return out
}

func WrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}
	paragraphs := strings.Split(text, "\n")
	out := make([]string, 0, len(paragraphs))

	for _, p := range paragraphs {
		words := strings.Fields(p)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for len(word) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				out = append(out, word[:width])
				word = word[width:]
			}

			if line == "" {
				line = word
				continue
			}
			if len(line)+1+len(word) <= width {
				line += " " + word
				continue
			}
			out = append(out, line)
			line = word
		}
		if line != "" {
			out = append(out, line)
		}
	}

	return out
}
