package storage

import (
	"context"
	"errors"
	"os"
	"testing"
)

func TestSessionStore_SetGetOverwrite(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSession(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, ok, err := store.Get(ctx, "current_list"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "current_list", `["a"]`); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if err := store.Set(ctx, "current_list", `["b","c"]`); err != nil {
		t.Fatalf("second Set returned error: %v", err)
	}

	value, ok, err := store.Get(ctx, "current_list")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !ok || value != `["b","c"]` {
		t.Fatalf("expected overwritten value, got ok=%v value=%q", ok, value)
	}

	if err := store.Delete(ctx, "current_list"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "current_list"); ok {
		t.Fatal("expected key to be gone after delete")
	}
}

func TestSessionStore_CloseRemovesDatabase(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSession(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("expected session file to exist: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected session file removed, stat err=%v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

func TestSessionStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := OpenSession(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	t.Cleanup(func() { _ = first.Close() })
	if err := first.Set(ctx, "current_list", `["pikachu"]`); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	second, err := OpenSession(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSession returned error: %v", err)
	}
	t.Cleanup(func() { _ = second.Close() })

	if first.ID() == second.ID() {
		t.Fatal("expected distinct session ids")
	}
	if _, ok, _ := second.Get(ctx, "current_list"); ok {
		t.Fatal("expected new session to start empty")
	}
}
