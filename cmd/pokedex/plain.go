package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/glabrego/pokedex-cli/internal/app"
	"github.com/glabrego/pokedex-cli/internal/catalog"
	"github.com/glabrego/pokedex-cli/internal/derive"
	tuitheme "github.com/glabrego/pokedex-cli/internal/tui/theme"
	tuiview "github.com/glabrego/pokedex-cli/internal/tui/view"
)

const plainWidth = 80

type catalogReader interface {
	ListReferences(ctx context.Context, limit int) ([]catalog.Reference, error)
	GetDetail(ctx context.Context, idOrName string) (catalog.Detail, error)
	FetchDetails(ctx context.Context, keys []string) catalog.BatchResult
}

// writeList prints one "#025  Pikachu" row per matching entry.
func writeList(ctx context.Context, out io.Writer, svc catalogReader, limit int, q derive.Query) error {
	refs, err := svc.ListReferences(ctx, limit)
	if err != nil {
		return fmt.Errorf("load list: %w", err)
	}
	for _, it := range derive.Apply(app.ItemsFromReferences(refs), q) {
		if _, err := fmt.Fprintf(out, "%s  %s\n", tuiview.FormatNumber(it.ID), catalog.DisplayName(it.Name)); err != nil {
			return err
		}
	}
	return nil
}

// writeGallery resolves every shown entry before filtering, so plain output
// never contains provisional rows.
func writeGallery(ctx context.Context, out io.Writer, svc catalogReader, limit int, selected []string) error {
	refs, err := svc.ListReferences(ctx, limit)
	if err != nil {
		return fmt.Errorf("load gallery: %w", err)
	}
	items := app.ItemsFromReferences(refs)
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Name
	}

	batch := svc.FetchDetails(ctx, keys)
	if err := ctx.Err(); err != nil {
		return err
	}
	resolved := make(map[string][]string, len(items))
	for _, d := range batch.Details {
		resolved[d.Name] = d.Categories
	}
	for _, name := range batch.Failed {
		resolved[name] = nil
	}

	for _, card := range derive.Gallery(items, resolved, derive.NormalizeLabels(selected)) {
		line := fmt.Sprintf("%s  %-14s %s", tuiview.FormatNumber(card.ID), catalog.DisplayName(card.Name), strings.Join(card.Categories, "/"))
		if _, err := fmt.Fprintln(out, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func writeDetail(ctx context.Context, out io.Writer, svc catalogReader, key string) error {
	d, err := svc.GetDetail(ctx, strings.ToLower(strings.TrimSpace(key)))
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	lines := tuiview.DetailLines(d, plainWidth, tuiview.ImagePreviewState{}, tuitheme.Default())
	_, err = fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}
