package domain

import "errors"

var (
	// Retrieval errors, surfaced to the user by message only
	ErrInvalidURL   = errors.New("Invalid YouTube URL")
	ErrFetchFailed  = errors.New("Failed to fetch transcript")
	ErrNoTranscript = errors.New("No transcript available for this video")

	// Configuration errors
	ErrMissingAPIKey = errors.New("no SearchAPI key configured")

	// Clipboard errors
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// userFacing lists the retrieval errors in the order they are matched.
// ErrNoTranscript is checked before ErrFetchFailed so a wrapped parse
// failure is never reported as a transport failure.
var userFacing = []error{ErrInvalidURL, ErrNoTranscript, ErrFetchFailed}

// UserMessage converts any retrieval error into the single message string
// shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, known := range userFacing {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return err.Error()
}
