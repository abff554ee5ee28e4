package view

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	spritePreviewRows     = 14
	spritePreviewMaxWidth = 48
	maxSpriteBytes        = 2 * 1024 * 1024
)

// SpriteRenderer downloads artwork and turns it into terminal output via chafa.
type SpriteRenderer struct {
	Client   *http.Client
	LookPath func(string) (string, error)
}

func NewSpriteRenderer() SpriteRenderer {
	return SpriteRenderer{
		Client:   &http.Client{Timeout: 8 * time.Second},
		LookPath: exec.LookPath,
	}
}

func (r SpriteRenderer) Render(imageURL string, width int) (string, error) {
	chafaPath, err := r.LookPath("chafa")
	if err != nil {
		return "", fmt.Errorf("chafa is not installed")
	}

	resp, err := r.Client.Get(imageURL)
	if err != nil {
		return "", fmt.Errorf("download sprite: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("download sprite: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSpriteBytes))
	if err != nil {
		return "", fmt.Errorf("read sprite: %w", err)
	}

	kitty := SupportsKittyGraphics()
	cmd := exec.Command(chafaPath, ChafaArgs(width, kitty, KittyPassthroughMode())...)
	cmd.Stdin = bytes.NewReader(data)
	output, err := cmd.CombinedOutput()
	raw := string(output)
	trimmed := strings.TrimSpace(raw)
	if err != nil {
		return "", fmt.Errorf("render sprite via chafa: %w: %s", err, trimmed)
	}
	if kitty && ContainsKittyGraphicsEscape(raw) {
		return strings.TrimRight(raw, "\r\n"), nil
	}
	if trimmed == "" {
		return "", fmt.Errorf("empty output")
	}
	return trimmed, nil
}

// ChafaArgs builds the chafa invocation for a sprite preview of the given width.
func ChafaArgs(width int, kitty bool, passthrough string) []string {
	if width < 20 {
		width = 20
	}
	if width > spritePreviewMaxWidth {
		width = spritePreviewMaxWidth
	}
	size := fmt.Sprintf("%dx%d", width, spritePreviewRows)
	args := []string{"--size", size, "--view-size", size, "--align", "top,center"}
	if kitty {
		return append(args, "--format", "kitty", "--passthrough", passthrough, "--relative", "on", "-")
	}
	return append(args, "--format", "symbols", "--symbols", "block", "-")
}

func SupportsKittyGraphics() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	termProgram := strings.ToLower(strings.TrimSpace(os.Getenv("TERM_PROGRAM")))
	if strings.Contains(termProgram, "ghostty") || strings.Contains(termProgram, "kitty") {
		return true
	}
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	return strings.Contains(term, "xterm-kitty") || strings.Contains(term, "ghostty")
}

func ContainsKittyGraphicsEscape(s string) bool {
	return strings.Contains(s, "\x1b_G")
}

// ClearKittyGraphicsSequence removes every placed kitty image, wrapped for tmux when needed.
func ClearKittyGraphicsSequence() string {
	base := "\x1b_Ga=d,d=A\x1b\\"
	if os.Getenv("TMUX") == "" {
		return base
	}
	escaped := strings.ReplaceAll(base, "\x1b", "\x1b\x1b")
	return "\x1bPtmux;\x1b" + escaped + "\x1b\\"
}

func KittyPassthroughMode() string {
	if os.Getenv("TMUX") != "" {
		return "screen"
	}
	return "none"
}
