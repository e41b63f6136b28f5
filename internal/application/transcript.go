package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/devbush/yt2transcript/internal/domain"
	"github.com/devbush/yt2transcript/internal/logging"
	"github.com/devbush/yt2transcript/internal/ports"
)

// RetrieveResult contains the outcome of one successful retrieval
type RetrieveResult struct {
	Video      *domain.Video
	Transcript *domain.Transcript
	Text       string // newline-joined segment texts
}

// TranscriptService orchestrates link validation and the transcript fetch
type TranscriptService struct {
	fetcher ports.TranscriptFetcher
}

// NewTranscriptService creates a new transcript service
func NewTranscriptService(fetcher ports.TranscriptFetcher) *TranscriptService {
	return &TranscriptService{fetcher: fetcher}
}

// Retrieve resolves a video link and fetches its transcript.
// An unparseable link fails with domain.ErrInvalidURL before any network call.
func (s *TranscriptService) Retrieve(ctx context.Context, link string) (*RetrieveResult, error) {
	video, err := domain.ParseVideoInput(link)
	if err != nil {
		logging.FromContext(ctx).Debug("rejected video link", zap.String("link", link))
		return nil, err
	}

	return s.RetrieveVideo(ctx, video)
}

// RetrieveVideo fetches the transcript of an already resolved video
func (s *TranscriptService) RetrieveVideo(ctx context.Context, video *domain.Video) (*RetrieveResult, error) {
	logger := logging.FromContext(ctx).With(zap.String("video_id", video.ID))
	logger.Debug("fetching transcript")

	transcript, err := s.fetcher.Fetch(ctx, video.ID)
	if err != nil {
		logger.Debug("transcript fetch failed", zap.Error(err))
		return nil, err
	}

	logger.Debug("transcript fetched", zap.Int("segments", len(transcript.Segments)))

	return &RetrieveResult{
		Video:      video,
		Transcript: transcript,
		Text:       transcript.ToText(),
	}, nil
}
