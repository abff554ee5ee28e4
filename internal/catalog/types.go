package catalog

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/glabrego/pokedex-cli/internal/pokeapi"
)

// Reference is a listing row before its detail has been fetched.
type Reference struct {
	Name    string
	Locator string
}

// ID derives the numeric identifier from the last path segment of Locator.
func (r Reference) ID() (int, bool) {
	parts := strings.Split(strings.TrimRight(r.Locator, "/"), "/")
	if len(parts) == 0 {
		return 0, false
	}
	id, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

type Attribute struct {
	Label string
	Value int
}

// Detail is the full record of one entity. Categories keep the service slot order.
type Detail struct {
	ID             int
	Name           string
	Categories     []string
	Attributes     []Attribute
	Height         int
	Weight         int
	BaseExperience *int
	ImageRef       string
}

// DisplayName capitalises a service name for presentation ("mr-mime" -> "Mr-Mime").
// Casers are stateful, so each call builds its own.
func DisplayName(name string) string {
	return cases.Title(language.English).String(name)
}

func referencesFromResources(resources []pokeapi.NamedResource) []Reference {
	out := make([]Reference, 0, len(resources))
	for _, r := range resources {
		out = append(out, Reference{Name: r.Name, Locator: r.URL})
	}
	return out
}

func detailFromPokemon(p pokeapi.Pokemon) Detail {
	d := Detail{
		ID:             p.ID,
		Name:           p.Name,
		Categories:     make([]string, 0, len(p.Types)),
		Attributes:     make([]Attribute, 0, len(p.Stats)),
		Height:         p.Height,
		Weight:         p.Weight,
		BaseExperience: p.BaseExperience,
	}

	types := append([]pokeapi.PokemonType(nil), p.Types...)
	sortTypesBySlot(types)
	for _, t := range types {
		d.Categories = append(d.Categories, t.Type.Name)
	}
	for _, s := range p.Stats {
		d.Attributes = append(d.Attributes, Attribute{Label: s.Stat.Name, Value: s.BaseStat})
	}

	switch {
	case p.Sprites.Other.OfficialArtwork.FrontDefault != nil && *p.Sprites.Other.OfficialArtwork.FrontDefault != "":
		d.ImageRef = *p.Sprites.Other.OfficialArtwork.FrontDefault
	case p.Sprites.FrontDefault != nil:
		d.ImageRef = *p.Sprites.FrontDefault
	}
	return d
}

func sortTypesBySlot(types []pokeapi.PokemonType) {
	sort.SliceStable(types, func(i, j int) bool { return types[i].Slot < types[j].Slot })
}
