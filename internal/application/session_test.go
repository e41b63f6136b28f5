package application

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbush/yt2transcript/internal/domain"
)

// mockClipboard implements ports.Clipboard for testing
type mockClipboard struct {
	written []string
	err     error
}

func (m *mockClipboard) WriteText(text string) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, text)
	return nil
}

const validLink = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"

func TestSession_FetchSuccess(t *testing.T) {
	session := NewSession(NewTranscriptService(&mockFetcher{}))
	session.SetLink(validLink)

	snap := session.Fetch(context.Background())

	assert.Equal(t, "Hello\nworld", snap.Transcript)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.Loading)
	assert.Equal(t, validLink, snap.Link)
	assert.Equal(t, uint64(1), snap.Attempt)
}

func TestSession_TransportFailure(t *testing.T) {
	session := NewSession(NewTranscriptService(failingFetcher(fmt.Errorf("%w: HTTP 500", domain.ErrFetchFailed))))
	session.SetLink(validLink)

	snap := session.Fetch(context.Background())

	assert.Equal(t, "Failed to fetch transcript", snap.Error)
	assert.Empty(t, snap.Transcript)
	assert.False(t, snap.Loading)
}

func TestSession_InvalidLink(t *testing.T) {
	for _, link := range []string{"", "https://example.com"} {
		t.Run(link, func(t *testing.T) {
			fetcher := &mockFetcher{}
			session := NewSession(NewTranscriptService(fetcher))
			session.SetLink(link)

			snap := session.Fetch(context.Background())

			assert.Equal(t, "Invalid YouTube URL", snap.Error)
			assert.False(t, snap.Loading)
			assert.Zero(t, fetcher.callCount())
		})
	}
}

func TestSession_BeginClearsPreviousResult(t *testing.T) {
	session := NewSession(NewTranscriptService(&mockFetcher{}))
	session.SetLink(validLink)
	session.Fetch(context.Background())

	session.SetLink("not a link")
	attempt := session.Begin()

	snap := session.Snapshot()
	assert.True(t, snap.Loading)
	assert.Empty(t, snap.Transcript, "stale transcript must be cleared before the fetch")
	assert.Empty(t, snap.Error)

	snap = attempt.Run(context.Background())
	assert.False(t, snap.Loading)
	assert.Equal(t, "Invalid YouTube URL", snap.Error)
}

func TestSession_ErrorClearedByNextAttempt(t *testing.T) {
	session := NewSession(NewTranscriptService(&mockFetcher{}))
	session.SetLink("bad")
	session.Fetch(context.Background())

	session.SetLink(validLink)
	snap := session.Fetch(context.Background())

	assert.Empty(t, snap.Error)
	assert.Equal(t, "Hello\nworld", snap.Transcript)
}

func TestSession_StaleAttemptIsIgnored(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetcher := &mockFetcher{fetch: func(_ context.Context, id string) (*domain.Transcript, error) {
		if id == "aaaaaaaaaaa" {
			close(started)
			<-release
			return &domain.Transcript{Segments: []domain.Segment{{Text: "stale"}}}, nil
		}
		return &domain.Transcript{Segments: []domain.Segment{{Text: "fresh"}}}, nil
	}}
	session := NewSession(NewTranscriptService(fetcher))

	session.SetLink("https://youtu.be/aaaaaaaaaaa")
	first := session.Begin()
	done := make(chan Snapshot)
	go func() { done <- first.Run(context.Background()) }()
	<-started

	session.SetLink("https://youtu.be/bbbbbbbbbbb")
	snap := session.Fetch(context.Background())
	require.Equal(t, "fresh", snap.Transcript)
	require.False(t, snap.Loading)

	close(release)
	<-done

	snap = session.Snapshot()
	assert.Equal(t, "fresh", snap.Transcript, "superseded attempt overwrote the result")
	assert.False(t, snap.Loading)
	assert.Equal(t, uint64(2), snap.Attempt)
}

func TestSession_StaleFinishKeepsNewAttemptLoading(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	fetcher := &mockFetcher{fetch: func(_ context.Context, id string) (*domain.Transcript, error) {
		close(started)
		<-release
		return nil, domain.ErrFetchFailed
	}}
	session := NewSession(NewTranscriptService(fetcher))
	session.SetLink(validLink)

	first := session.Begin()
	done := make(chan Snapshot)
	go func() { done <- first.Run(context.Background()) }()
	<-started

	session.SetLink("bad")
	second := session.Begin()

	close(release)
	<-done

	assert.True(t, session.Snapshot().Loading, "stale attempt lowered the loading flag")
	assert.Empty(t, session.Snapshot().Error)

	snap := second.Run(context.Background())
	assert.False(t, snap.Loading)
	assert.Equal(t, "Invalid YouTube URL", snap.Error)
}

func TestSession_CopyEmptyTranscriptIsNoop(t *testing.T) {
	session := NewSession(NewTranscriptService(&mockFetcher{}))
	clipboard := &mockClipboard{}

	copied, err := session.Copy(context.Background(), clipboard)

	assert.NoError(t, err)
	assert.False(t, copied)
	assert.Empty(t, clipboard.written)
}

func TestSession_CopyWritesExactTranscript(t *testing.T) {
	session := NewSession(NewTranscriptService(&mockFetcher{}))
	session.SetLink(validLink)
	session.Fetch(context.Background())
	clipboard := &mockClipboard{}

	copied, err := session.Copy(context.Background(), clipboard)

	require.NoError(t, err)
	assert.True(t, copied)
	assert.Equal(t, []string{"Hello\nworld"}, clipboard.written)
}

func TestSession_CopyFailureLeavesStateAlone(t *testing.T) {
	session := NewSession(NewTranscriptService(&mockFetcher{}))
	session.SetLink(validLink)
	before := session.Fetch(context.Background())

	copied, err := session.Copy(context.Background(), &mockClipboard{err: errors.New("no display")})

	assert.Error(t, err)
	assert.False(t, copied)
	assert.Equal(t, before, session.Snapshot())
}

func TestCopyText(t *testing.T) {
	clipboard := &mockClipboard{}

	copied, err := CopyText(context.Background(), clipboard, "")
	assert.NoError(t, err)
	assert.False(t, copied)

	copied, err = CopyText(context.Background(), clipboard, " spaced\n")
	require.NoError(t, err)
	assert.True(t, copied)
	assert.Equal(t, []string{" spaced\n"}, clipboard.written)
}
