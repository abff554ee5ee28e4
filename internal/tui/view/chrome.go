package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/pokedex-cli/internal/tui/theme"
)

func Toolbar(mode string, searching bool) string {
	if searching {
		return "type to filter | enter/esc: done | ctrl+l: clear"
	}
	switch mode {
	case "detail":
		return "j/k scroll | [ ] prev/next | o open artwork | y copy URL | esc back | ? help | q quit"
	case "gallery":
		return "j/k move | h/l category | space toggle | c clear | enter open | tab list | ? help | q quit"
	default:
		return "j/k move | / search | s sort | d direction | i ids | enter open | tab gallery | ? help | q quit"
	}
}

type FooterParams struct {
	Mode      string
	Shown     int
	Total     int
	Query     string
	Sort      string
	Selected  []string
	Pending   int
	Position  string
	Sequence  string
	MatchesID bool
}

func Footer(p FooterParams, th tuitheme.Theme) string {
	parts := []string{
		th.MetaLabel.Render("mode") + " " + th.MetaValue.Render(p.Mode),
	}
	switch p.Mode {
	case "detail":
		if p.Position != "" {
			parts = append(parts, th.MetaLabel.Render("position")+" "+th.MetaValue.Render(p.Position))
		}
		if p.Sequence != "" {
			parts = append(parts, th.MetaLabel.Render("sequence")+" "+th.MetaValue.Render(p.Sequence))
		}
	case "gallery":
		parts = append(parts, th.MetaValue.Render(fmt.Sprintf("%d of %d shown", p.Shown, p.Total)))
		if len(p.Selected) > 0 {
			parts = append(parts, th.MetaLabel.Render("types")+" "+th.MetaValue.Render(strings.Join(p.Selected, "+")))
		}
		if p.Pending > 0 {
			parts = append(parts, th.MetaLabel.Render("pending")+" "+th.MetaValue.Render(fmt.Sprintf("%d", p.Pending)))
		}
	default:
		parts = append(parts,
			th.MetaLabel.Render("sort")+" "+th.MetaValue.Render(p.Sort),
			th.MetaValue.Render(fmt.Sprintf("%d of %d shown", p.Shown, p.Total)),
		)
		if p.Query != "" {
			label := fmt.Sprintf("%q", p.Query)
			if p.MatchesID {
				label += " +ids"
			}
			parts = append(parts, th.MetaLabel.Render("search")+" "+th.MetaValue.Render(label))
		}
	}
	return strings.Join(parts, " • ")
}

// MessageLine renders the status row. spin is the spinner frame shown while loading.
func MessageLine(loading bool, spin string, hasWarning bool, status, warning string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
		if spin != "" {
			state = spin + " " + state
		}
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}

func HelpLines() []string {
	return []string{
		"Views:",
		"  tab switches list and gallery, enter opens detail, esc/backspace goes back",
		"List:",
		"  / search by name, i also match numbers, s sort by id/name, d reverse",
		"Gallery:",
		"  h/l pick a type, space toggles it, c clears; every selected type must match",
		"Detail:",
		"  [ and ] step through the list you came from, wrapping at the ends",
		"  o opens the artwork in a browser, y copies its URL",
		"Navigation:",
		"  j/k or arrows move, g/G jump top/bottom, pgup/pgdown jump page",
	}
}
