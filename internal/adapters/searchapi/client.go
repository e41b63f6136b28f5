package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/devbush/yt2transcript/internal/config"
	"github.com/devbush/yt2transcript/internal/domain"
	"github.com/devbush/yt2transcript/internal/logging"
	"github.com/devbush/yt2transcript/internal/ports"
)

// Client implements ports.TranscriptFetcher against SearchAPI
type Client struct {
	http    ports.HTTPClient
	apiKey  string
	baseURL string
	origin  string
	now     func() time.Time
}

// Option customizes Client creation
type Option func(*Client)

// WithBaseURL points the client at a different endpoint
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithOrigin sends an Origin header with every request
func WithOrigin(origin string) Option {
	return func(c *Client) {
		c.origin = origin
	}
}

// NewClient creates a SearchAPI transcript client
func NewClient(httpClient ports.HTTPClient, apiKey string, opts ...Option) *Client {
	c := &Client{
		http:    httpClient,
		apiKey:  apiKey,
		baseURL: config.DefaultBaseURL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// requestURL builds the endpoint URL, keeping any query already on the base
func (c *Client) requestURL(videoID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("video_id", videoID)
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Fetch issues a single GET for the video's transcript
func (c *Client) Fetch(ctx context.Context, videoID string) (*domain.Transcript, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, domain.ErrMissingAPIKey)
	}

	endpoint, err := c.requestURL(videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", domain.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logging.FromContext(ctx).Debug("failed to close response body", zap.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP %d", domain.ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %w", domain.ErrFetchFailed, err)
	}

	segments, err := decodeSegments(body)
	if err != nil {
		return nil, err
	}

	return &domain.Transcript{
		VideoID:   videoID,
		Segments:  segments,
		FetchedAt: c.now(),
	}, nil
}

// decodeSegments reads the transcript array out of a response body.
//
// A body that is not a JSON object, or whose transcript field is missing,
// null, false, zero, an empty string or not an array, has no transcript.
// An empty array is a valid, empty transcript.
func decodeSegments(body []byte) ([]domain.Segment, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoTranscript, err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(envelope["transcript"], &items); err != nil || items == nil {
		return nil, fmt.Errorf("%w: transcript field missing or not a list", domain.ErrNoTranscript)
	}

	segments := make([]domain.Segment, 0, len(items))
	for i, item := range items {
		seg, err := decodeSegment(item)
		if err != nil {
			return nil, fmt.Errorf("%w: segment %d: %w", domain.ErrNoTranscript, i, err)
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

// decodeSegment converts one transcript entry. Non-object entries and
// entries without text contribute an empty line; a null entry is an error.
// A non-string text value is kept as its JSON literal.
func decodeSegment(raw json.RawMessage) (domain.Segment, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return domain.Segment{}, fmt.Errorf("null entry")
	}
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return domain.Segment{}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return domain.Segment{}, err
	}

	seg := domain.Segment{
		Text:     textValue(fields["text"]),
		Start:    numberValue(fields["start"]),
		Duration: numberValue(fields["duration"]),
	}
	return seg, nil
}

func textValue(raw json.RawMessage) string {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func numberValue(raw json.RawMessage) float64 {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil {
		return 0
	}
	return f
}

var _ ports.TranscriptFetcher = (*Client)(nil)
