package domain

import (
	"fmt"
	"regexp"
	"unicode/utf16"
)

// VideoIDLength is the length of every YouTube video identifier
const VideoIDLength = 11

// Video represents a YouTube video resolved from user input
type Video struct {
	ID   string `json:"id"`
	Link string `json:"link"` // the input the ID was extracted from
}

// WatchURL builds the canonical watch URL for a video
func (v *Video) WatchURL() string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.ID)
}

// Matches short links (youtu.be/ID), /v/ID, /u/X/ID, /embed/ID, watch?v=ID and &v=ID.
// The ID runs until the next #, & or ? (or end of input).
// The leading run is greedy, so the last recognised prefix in the input wins.
// "Any character" excludes line terminators (\n, \r, U+2028, U+2029): a
// prefix on a later line than the start of the input does not match.
var videoLinkPattern = regexp.MustCompile(
	`^[^\n\r\x{2028}\x{2029}]*(youtu[^\n\r\x{2028}\x{2029}]be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`,
)

// idLength counts UTF-16 code units, the unit browsers use for string length
func idLength(id string) int {
	return len(utf16.Encode([]rune(id)))
}

// ExtractVideoID pulls the 11-character video ID out of a YouTube link.
// Input is matched as-is: no trimming, no case folding, no existence check.
func ExtractVideoID(link string) (string, error) {
	matches := videoLinkPattern.FindStringSubmatch(link)
	if len(matches) < 3 || idLength(matches[2]) != VideoIDLength {
		return "", ErrInvalidURL
	}
	return matches[2], nil
}

// ParseVideoInput extracts a Video from a link
func ParseVideoInput(link string) (*Video, error) {
	id, err := ExtractVideoID(link)
	if err != nil {
		return nil, err
	}

	return &Video{
		ID:   id,
		Link: link,
	}, nil
}
