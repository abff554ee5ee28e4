package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/glabrego/pokedex-cli/internal/catalog"
)

type fakeCatalog struct {
	refs      []catalog.Reference
	listErr   error
	listCalls int
	lastLimit int
}

func (f *fakeCatalog) ListReferences(_ context.Context, limit int) ([]catalog.Reference, error) {
	f.listCalls++
	f.lastLimit = limit
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.refs, nil
}

func (f *fakeCatalog) GetDetail(_ context.Context, idOrName string) (catalog.Detail, error) {
	return catalog.Detail{Name: idOrName}, nil
}

func (f *fakeCatalog) ListCategories(context.Context) ([]string, error) {
	return []string{"fire"}, nil
}

func (f *fakeCatalog) FetchDetails(context.Context, []string) catalog.BatchResult {
	return catalog.BatchResult{}
}

type fakeSequences struct {
	seq       []string
	published bool
}

func (f *fakeSequences) Publish(_ context.Context, seq []string) error {
	f.seq = append([]string(nil), seq...)
	f.published = true
	return nil
}

func (f *fakeSequences) Read(context.Context) ([]string, bool) {
	return f.seq, f.published
}

func TestService_ResolveSequence_FallsBackWhenNothingPublished(t *testing.T) {
	cat := &fakeCatalog{refs: []catalog.Reference{{Name: "bulbasaur"}, {Name: "ivysaur"}}}
	svc := NewService(cat, &fakeSequences{}, nil, 300)

	seq, source, err := svc.ResolveSequence(context.Background())
	if err != nil {
		t.Fatalf("ResolveSequence returned error: %v", err)
	}
	if source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", source)
	}
	if cat.lastLimit != 300 {
		t.Fatalf("expected fallback limit 300, got %d", cat.lastLimit)
	}
	if len(seq) != 2 || seq[1] != "ivysaur" {
		t.Fatalf("unexpected fallback sequence: %v", seq)
	}
}

func TestService_ResolveSequence_PrefersPublished(t *testing.T) {
	cat := &fakeCatalog{}
	nav := &fakeSequences{}
	svc := NewService(cat, nav, nil, 300)
	ctx := context.Background()

	if err := svc.PublishSequence(ctx, []string{"charizard", "charmander"}); err != nil {
		t.Fatalf("PublishSequence returned error: %v", err)
	}
	seq, source, err := svc.ResolveSequence(ctx)
	if err != nil {
		t.Fatalf("ResolveSequence returned error: %v", err)
	}
	if source != SourcePublished || len(seq) != 2 || seq[0] != "charizard" {
		t.Fatalf("unexpected resolution: source=%s seq=%v", source, seq)
	}
	if cat.listCalls != 0 {
		t.Fatalf("expected no fallback fetch, got %d calls", cat.listCalls)
	}
}

func TestService_ResolveSequence_PropagatesFallbackError(t *testing.T) {
	svc := NewService(&fakeCatalog{listErr: errors.New("offline")}, &fakeSequences{}, nil, 0)

	if _, _, err := svc.ResolveSequence(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestService_StagedSequenceResolvesBeforePersist(t *testing.T) {
	cat := &fakeCatalog{}
	nav := &fakeSequences{seq: []string{"stale"}, published: true}
	svc := NewService(cat, nav, nil, 300)

	svc.StageSequence([]string{"charmander", "charizard"})
	seq, source, err := svc.ResolveSequence(context.Background())
	if err != nil {
		t.Fatalf("ResolveSequence returned error: %v", err)
	}
	if source != SourcePublished || strings.Join(seq, ",") != "charmander,charizard" {
		t.Fatalf("expected staged sequence, got source=%s seq=%v", source, seq)
	}
	if strings.Join(nav.seq, ",") != "stale" {
		t.Fatalf("expected store untouched before persist, got %v", nav.seq)
	}
}

func TestService_StagedEmptySequenceFallsBack(t *testing.T) {
	cat := &fakeCatalog{refs: []catalog.Reference{{Name: "bulbasaur"}}}
	nav := &fakeSequences{seq: []string{"stale"}, published: true}
	svc := NewService(cat, nav, nil, 300)

	svc.StageSequence(nil)
	seq, source, err := svc.ResolveSequence(context.Background())
	if err != nil {
		t.Fatalf("ResolveSequence returned error: %v", err)
	}
	if source != SourceFallback || len(seq) != 1 || seq[0] != "bulbasaur" {
		t.Fatalf("expected fallback for empty staged sequence, got source=%s seq=%v", source, seq)
	}
}

func TestService_PersistSkipsSupersededVersions(t *testing.T) {
	nav := &fakeSequences{}
	svc := NewService(&fakeCatalog{}, nav, nil, 300)
	ctx := context.Background()

	older := svc.StageSequence([]string{"a", "b", "c"})
	newer := svc.StageSequence([]string{"b"})
	if err := svc.PersistSequence(ctx, newer); err != nil {
		t.Fatalf("PersistSequence(newer) returned error: %v", err)
	}
	if err := svc.PersistSequence(ctx, older); err != nil {
		t.Fatalf("PersistSequence(older) returned error: %v", err)
	}
	if strings.Join(nav.seq, ",") != "b" {
		t.Fatalf("expected store to keep newest sequence, got %v", nav.seq)
	}
}

func TestService_StagedSequenceIsCopied(t *testing.T) {
	svc := NewService(&fakeCatalog{}, &fakeSequences{}, nil, 300)
	names := []string{"pikachu"}
	svc.StageSequence(names)
	names[0] = "mutated"

	seq, _, _ := svc.ResolveSequence(context.Background())
	seq[0] = "also-mutated"
	again, _, _ := svc.ResolveSequence(context.Background())
	if again[0] != "pikachu" {
		t.Fatalf("expected staged copy to be isolated, got %v", again)
	}
}

func TestService_Neighbor_Wraps(t *testing.T) {
	nav := &fakeSequences{seq: []string{"a", "b", "c"}, published: true}
	svc := NewService(&fakeCatalog{}, nav, nil, 300)
	ctx := context.Background()

	prev, ok, err := svc.Neighbor(ctx, "a", -1)
	if err != nil || !ok || prev != "c" {
		t.Fatalf("Neighbor(a,-1) = (%q, %v, %v), want c", prev, ok, err)
	}
	next, ok, err := svc.Neighbor(ctx, "c", 1)
	if err != nil || !ok || next != "a" {
		t.Fatalf("Neighbor(c,+1) = (%q, %v, %v), want a", next, ok, err)
	}
	if _, ok, _ := svc.Neighbor(ctx, "zubat", 1); ok {
		t.Fatal("expected unknown current to report not found")
	}
}

func TestItemsFromReferences(t *testing.T) {
	items := ItemsFromReferences([]catalog.Reference{
		{Name: "pikachu", Locator: "https://pokeapi.co/api/v2/pokemon/25/"},
		{Name: "odd", Locator: "not-a-url"},
	})
	if len(items) != 2 || items[0].ID != 25 || items[1].ID != 0 {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestService_CloseRunsClosersInReverse(t *testing.T) {
	svc := NewService(&fakeCatalog{}, &fakeSequences{}, nil, 0)
	var order []int
	svc.closers = []func() error{
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return errors.New("second failed") },
	}

	err := svc.Close()
	if err == nil {
		t.Fatal("expected joined close error")
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Fatalf("unexpected close order: %v", order)
	}
}
