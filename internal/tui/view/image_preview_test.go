package view

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestSupportsKittyGraphics(t *testing.T) {
	t.Setenv("KITTY_WINDOW_ID", "")
	t.Setenv("TERM_PROGRAM", "ghostty")
	t.Setenv("TERM", "dumb")
	if !SupportsKittyGraphics() {
		t.Fatal("expected ghostty to support kitty graphics")
	}

	t.Setenv("TERM_PROGRAM", "")
	t.Setenv("TERM", "xterm-256color")
	if SupportsKittyGraphics() {
		t.Fatal("expected plain xterm-256color not to support kitty graphics")
	}
}

func TestChafaArgs(t *testing.T) {
	got := ChafaArgs(10, false, "none")
	want := []string{"--size", "20x14", "--view-size", "20x14", "--align", "top,center", "--format", "symbols", "--symbols", "block", "-"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ChafaArgs symbols = %v, want %v", got, want)
	}

	got = ChafaArgs(200, true, "screen")
	if got[1] != "48x14" {
		t.Fatalf("expected width clamp to 48, got %q", got[1])
	}
	if !strings.Contains(strings.Join(got, " "), "--format kitty --passthrough screen") {
		t.Fatalf("expected kitty args, got %v", got)
	}
}

func TestSpriteRenderer_MissingChafa(t *testing.T) {
	r := SpriteRenderer{
		Client:   http.DefaultClient,
		LookPath: func(string) (string, error) { return "", errors.New("not found") },
	}
	if _, err := r.Render("https://img.example/1.png", 40); err == nil || !strings.Contains(err.Error(), "chafa is not installed") {
		t.Fatalf("expected missing chafa error, got %v", err)
	}
}

func TestSpriteRenderer_DownloadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	r := SpriteRenderer{
		Client:   ts.Client(),
		LookPath: func(string) (string, error) { return "/usr/bin/chafa", nil },
	}
	if _, err := r.Render(ts.URL+"/1.png", 40); err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestKittyHelpers(t *testing.T) {
	if !ContainsKittyGraphicsEscape("\x1b_Ga=T,f=32\x1b\\") {
		t.Fatal("expected kitty graphics escape detection")
	}
	if ContainsKittyGraphicsEscape("plain text") {
		t.Fatal("did not expect escape detection for plain text")
	}

	t.Setenv("TMUX", "")
	if got := KittyPassthroughMode(); got != "none" {
		t.Fatalf("KittyPassthroughMode() = %q, want %q", got, "none")
	}
	if got := ClearKittyGraphicsSequence(); got != "\x1b_Ga=d,d=A\x1b\\" {
		t.Fatalf("unexpected clear sequence: %q", got)
	}

	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	if got := KittyPassthroughMode(); got != "screen" {
		t.Fatalf("KittyPassthroughMode() = %q, want %q", got, "screen")
	}
	if got := ClearKittyGraphicsSequence(); !strings.HasPrefix(got, "\x1bPtmux;\x1b") {
		t.Fatalf("expected tmux passthrough prefix, got %q", got)
	}
}
