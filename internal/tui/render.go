package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glabrego/pokedex-cli/internal/app"
	"github.com/glabrego/pokedex-cli/internal/navigation"
	"github.com/glabrego/pokedex-cli/internal/pokeapi"
	tuistate "github.com/glabrego/pokedex-cli/internal/tui/state"
	tuiview "github.com/glabrego/pokedex-cli/internal/tui/view"
)

func (m Model) View() string {
	var b strings.Builder
	if m.kittyPlaced && m.mode != ModeDetail {
		b.WriteString(tuiview.ClearKittyGraphicsSequence())
	}
	b.WriteString(m.th.Title.Render("Pokedex"))
	b.WriteString(" ")
	b.WriteString(m.th.ModePill.Render(string(m.mode)))
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString("Help (? to close)\n\n")
		b.WriteString(strings.Join(tuiview.HelpLines(), "\n"))
		b.WriteString("\n\n")
		b.WriteString(m.messagePanel())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(tuiview.Toolbar(string(m.mode), m.searching))
	b.WriteString("\n")

	switch m.mode {
	case ModeDetail:
		b.WriteString("\n")
		b.WriteString(m.detailView())
	case ModeGallery:
		b.WriteString(m.galleryView())
	default:
		b.WriteString(m.listView())
	}

	b.WriteString("\n")
	b.WriteString(m.messagePanel())
	b.WriteString("\n")
	b.WriteString(m.footer())
	b.WriteString("\n")
	return b.String()
}

func (m Model) listView() string {
	var b strings.Builder
	if m.searching || m.query.Text != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.listLoading {
		b.WriteString("Loading Pokémon...\n")
		return b.String()
	}
	if len(m.visible) == 0 {
		if len(m.items) == 0 {
			b.WriteString("Nothing to show.\n")
		} else {
			b.WriteString("No Pokémon match the search.\n")
		}
		return b.String()
	}

	start, end := tuistate.CenteredWindow(len(m.visible), m.cursor, m.listBodyHeight())
	for i := start; i < end; i++ {
		b.WriteString(tuiview.RenderItemLine(tuiview.ItemLineParams{
			Item:   m.visible[i],
			Active: i == m.cursor,
			Width:  m.contentWidth(),
		}, m.th))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) galleryView() string {
	var b strings.Builder
	b.WriteString("\n")
	if bar := tuiview.RenderCategoryBar(m.categories, m.selected, m.categoryCursor, m.contentWidth(), m.th); len(bar) > 0 {
		b.WriteString(strings.Join(bar, "\n"))
		b.WriteString("\n\n")
	}

	if m.galleryLoading {
		b.WriteString("Loading gallery...\n")
		return b.String()
	}
	if len(m.cards) == 0 {
		if len(m.selected) > 0 {
			b.WriteString("No Pokémon have all the selected types.\n")
		} else {
			b.WriteString("Nothing to show.\n")
		}
		return b.String()
	}

	start, end := tuistate.CenteredWindow(len(m.cards), m.galleryCursor, m.listBodyHeight())
	for i := start; i < end; i++ {
		b.WriteString(tuiview.RenderCardLine(tuiview.CardLineParams{
			Card:   m.cards[i],
			Active: i == m.galleryCursor,
			Width:  m.contentWidth(),
		}, m.th))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) detailView() string {
	if m.detailLoading {
		return fmt.Sprintf("Loading %s...\n", m.detailKey)
	}
	if m.detailErr != nil {
		if errors.Is(m.detailErr, pokeapi.ErrNotFound) {
			return fmt.Sprintf("Not found: %s\n", m.detailKey)
		}
		return fmt.Sprintf("Failed to load %s.\n", m.detailKey)
	}
	lines := m.detailLines()
	if len(lines) == 0 {
		return "Nothing selected.\n"
	}
	return tuiview.RenderDetailLines(lines, m.detailTop, m.detailBodyHeight())
}

func (m Model) detailLines() []string {
	if m.detail == nil {
		return nil
	}
	key := m.detail.Name
	preview := tuiview.ImagePreviewState{
		Enabled: m.imagePreviewEnabled && m.detail.ImageRef != "",
		Loading: m.imagePreviewLoading[key],
		Raw:     m.imagePreview[key],
		Err:     m.imagePreviewErr[key],
	}
	return tuiview.DetailLines(*m.detail, m.contentWidth(), preview, m.th)
}

func (m Model) messagePanel() string {
	loading := m.listLoading || m.galleryLoading || m.detailLoading || m.galleryInFlight
	warning := ""
	if m.err != nil {
		warning = m.err.Error()
	}
	return tuiview.MessageLine(loading, m.spinner.View(), m.err != nil, m.status, warning, m.th)
}

func (m Model) footer() string {
	p := tuiview.FooterParams{Mode: string(m.mode)}
	switch m.mode {
	case ModeDetail:
		if len(m.sequence) > 0 {
			current := m.detailKey
			if m.detail != nil {
				current = m.detail.Name
			}
			if i, ok := navigation.Locate(current, m.sequence); ok {
				p.Position = fmt.Sprintf("%d/%d", i+1, len(m.sequence))
			} else {
				p.Position = fmt.Sprintf("-/%d", len(m.sequence))
			}
		}
		switch m.sequenceSource {
		case app.SourcePublished:
			p.Sequence = "current list"
		case app.SourceFallback:
			p.Sequence = "default list"
		}
	case ModeGallery:
		p.Shown = len(m.cards)
		p.Total = len(m.galleryItems)
		p.Selected = m.selected
		for _, it := range m.galleryItems {
			if _, ok := m.resolved[it.Name]; !ok {
				p.Pending++
			}
		}
	default:
		p.Shown = len(m.visible)
		p.Total = len(m.items)
		p.Query = m.query.Text
		p.MatchesID = m.query.MatchID
		direction := "asc"
		if m.query.Descending {
			direction = "desc"
		}
		p.Sort = string(m.query.Key) + " " + direction
	}
	return tuiview.Footer(p, m.th)
}
