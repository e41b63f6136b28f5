package ports

import (
	"context"
	"net/http"

	"github.com/devbush/yt2transcript/internal/domain"
)

// HTTPClient is the transport used for outbound API calls.
// Both *http.Client and the browser-fingerprinted client satisfy it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// TranscriptFetcher retrieves the transcript of a single video
type TranscriptFetcher interface {
	// Fetch issues exactly one request for the given video ID.
	// Failures wrap domain.ErrFetchFailed or domain.ErrNoTranscript.
	Fetch(ctx context.Context, videoID string) (*domain.Transcript, error)
}
