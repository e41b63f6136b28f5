package domain

import (
	"fmt"
	"strings"
	"time"
)

// Segment represents one unit of a fetched transcript.
// Start and Duration are zero when the API does not report timing.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// End returns the time the segment stops being spoken
func (s Segment) End() float64 {
	return s.Start + s.Duration
}

// Transcript represents the full retrieval result for one video
type Transcript struct {
	VideoID   string    `json:"video_id"`
	Segments  []Segment `json:"segments"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ToText joins the segment texts in order, one per line.
// Texts are kept byte-for-byte; an empty segment still takes its line.
func (t *Transcript) ToText() string {
	parts := make([]string, len(t.Segments))
	for i, seg := range t.Segments {
		parts[i] = seg.Text
	}
	return strings.Join(parts, "\n")
}

// ToSRT returns the transcript in SRT subtitle format
func (t *Transcript) ToSRT() string {
	var sb strings.Builder

	for i, seg := range t.Segments {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", formatSRTTime(seg.Start), formatSRTTime(seg.End())))
		sb.WriteString(strings.TrimSpace(seg.Text))
		sb.WriteString("\n\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

// formatSRTTime converts seconds to SRT timestamp format (HH:MM:SS,mmm)
func formatSRTTime(seconds float64) string {
	totalMillis := int64(seconds*1000 + 0.5)
	hours := totalMillis / 3_600_000
	minutes := (totalMillis % 3_600_000) / 60_000
	secs := (totalMillis % 60_000) / 1000
	millis := totalMillis % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
