// Package derive computes the filtered and sorted views shown by the list
// and gallery screens. Everything here is pure.
package derive

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortByID   SortKey = "id"
	SortByName SortKey = "name"
)

func ParseSortKey(s string) (SortKey, bool) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortByID:
		return SortByID, true
	case SortByName:
		return SortByName, true
	}
	return "", false
}

type Item struct {
	ID   int
	Name string
}

type Query struct {
	Text       string
	MatchID    bool
	Key        SortKey
	Descending bool
}

// Apply filters items by q.Text and sorts the survivors. The input slice is
// left untouched.
func Apply(items []Item, q Query) []Item {
	needle := strings.ToLower(strings.TrimSpace(q.Text))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if matches(it, needle, q.MatchID) {
			out = append(out, it)
		}
	}
	Sort(out, q.Key, q.Descending)
	return out
}

func matches(it Item, needle string, matchID bool) bool {
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(it.Name), needle) {
		return true
	}
	return matchID && it.ID > 0 && strings.Contains(strconv.Itoa(it.ID), needle)
}

// Sort orders items in place: numerically by ID or by locale-aware name
// comparison. Ties keep their input order.
func Sort(items []Item, key SortKey, descending bool) {
	switch key {
	case SortByName:
		col := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			c := col.CompareString(items[i].Name, items[j].Name)
			if descending {
				return c > 0
			}
			return c < 0
		})
	default:
		sort.SliceStable(items, func(i, j int) bool {
			if descending {
				return items[i].ID > items[j].ID
			}
			return items[i].ID < items[j].ID
		})
	}
}

// Names projects items onto their names, the form published as the visible sequence.
func Names(items []Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

// NormalizeLabels lowercases and trims category labels, dropping blanks and
// repeats. Order is kept.
func NormalizeLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// MatchesAll reports whether categories contain every selected label.
// Labels compare case-insensitively; an empty selection matches anything.
func MatchesAll(categories, selected []string) bool {
	for _, want := range selected {
		found := false
		for _, have := range categories {
			if strings.EqualFold(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type Card struct {
	Item
	Categories  []string
	Provisional bool
}

// Gallery applies the category filter. Items whose categories are not in
// resolved yet are kept as provisional cards and re-evaluated once resolved
// gains their entry.
func Gallery(items []Item, resolved map[string][]string, selected []string) []Card {
	out := make([]Card, 0, len(items))
	for _, it := range items {
		cats, ok := resolved[it.Name]
		if !ok {
			out = append(out, Card{Item: it, Provisional: true})
			continue
		}
		if MatchesAll(cats, selected) {
			out = append(out, Card{Item: it, Categories: cats})
		}
	}
	return out
}

func CardNames(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Name
	}
	return out
}
