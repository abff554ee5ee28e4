package state

import "strings"

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	maxStart := totalRows - height
	if start > maxStart {
		start = maxStart
	}
	return start, start + height
}

// ToggleLabel adds label to selected when absent and removes it otherwise,
// keeping the original selection order. Labels compare case-insensitively.
func ToggleLabel(selected []string, label string) []string {
	out := make([]string, 0, len(selected)+1)
	removed := false
	for _, s := range selected {
		if strings.EqualFold(s, label) {
			removed = true
			continue
		}
		out = append(out, s)
	}
	if !removed {
		out = append(out, label)
	}
	return out
}

func HasLabel(selected []string, label string) bool {
	for _, s := range selected {
		if strings.EqualFold(s, label) {
			return true
		}
	}
	return false
}

// ScrollTop clamps a detail scroll offset so the last page stays filled.
func ScrollTop(top, totalLines, height int) int {
	maxTop := totalLines - height
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		return maxTop
	}
	if top < 0 {
		return 0
	}
	return top
}
