package tui

import (
	"fmt"
	"strings"
)

// FormatCount formats a number with K/M suffix
// Examples: 892 -> "892", 1234 -> "1.2K", 1500000 -> "1.5M"
func FormatCount(count int64) string {
	if count >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(count)/1000000)
	}
	if count >= 1000 {
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	}
	return fmt.Sprintf("%d", count)
}

// FormatTranscriptStats summarizes a transcript for the status line
// Example: "42 lines · 1.2K chars"
func FormatTranscriptStats(transcript string) string {
	if transcript == "" {
		return "---"
	}
	lines := int64(strings.Count(transcript, "\n") + 1)
	chars := int64(len([]rune(transcript)))

	unit := "lines"
	if lines == 1 {
		unit = "line"
	}
	return fmt.Sprintf("%s %s · %s chars", FormatCount(lines), unit, FormatCount(chars))
}
