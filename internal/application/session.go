package application

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/devbush/yt2transcript/internal/domain"
	"github.com/devbush/yt2transcript/internal/logging"
	"github.com/devbush/yt2transcript/internal/ports"
)

// CopyConfirmation is shown after the transcript reaches the clipboard
const CopyConfirmation = "Transcript copied to clipboard!"

// Snapshot is a read-only view of the session state
type Snapshot struct {
	Link       string
	Transcript string
	Error      string
	Loading    bool
	Attempt    uint64 // number of attempts started so far
}

// Session owns the link, transcript, error and loading state of the
// interactive form. It is the only writer of that state; renderers read
// it through Snapshot.
//
// Every attempt carries a token. When attempts overlap, only the most
// recently started one may report results or clear the loading flag.
type Session struct {
	svc *TranscriptService

	mu         sync.Mutex
	link       string
	transcript string
	errMsg     string
	loading    bool
	attempt    uint64
}

// NewSession creates an empty session backed by svc
func NewSession(svc *TranscriptService) *Session {
	return &Session{svc: svc}
}

// SetLink records the current input
func (s *Session) SetLink(link string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.link = link
}

// Snapshot returns a copy of the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Link:       s.link,
		Transcript: s.transcript,
		Error:      s.errMsg,
		Loading:    s.loading,
		Attempt:    s.attempt,
	}
}

// Attempt is one retrieval cycle started by Begin
type Attempt struct {
	session *Session
	token   uint64
	link    string
}

// Begin clears the previous result and raises the loading flag before
// any I/O happens, then returns the attempt for Run.
func (s *Session) Begin() *Attempt {
	token, link := s.beginAttempt()
	return &Attempt{session: s, token: token, link: link}
}

// Fetch runs a complete attempt for the current link
func (s *Session) Fetch(ctx context.Context) Snapshot {
	return s.Begin().Run(ctx)
}

// Run performs the retrieval and finalizes the attempt.
// The loading flag is lowered exactly once, whatever the outcome.
func (a *Attempt) Run(ctx context.Context) Snapshot {
	s := a.session

	result, err := s.svc.Retrieve(ctx, a.link)
	if err != nil {
		s.reportError(a.token, err)
	} else {
		s.reportSuccess(a.token, result.Text)
	}
	s.finish(a.token)

	return s.Snapshot()
}

// Copy writes the transcript to the clipboard. It does nothing when the
// transcript is empty. A clipboard failure is logged and returned but
// never becomes the session error.
func (s *Session) Copy(ctx context.Context, clipboard ports.Clipboard) (bool, error) {
	return CopyText(ctx, clipboard, s.Snapshot().Transcript)
}

// CopyText writes text to the clipboard unless it is empty
func CopyText(ctx context.Context, clipboard ports.Clipboard, text string) (bool, error) {
	if text == "" {
		return false, nil
	}

	if err := clipboard.WriteText(text); err != nil {
		logging.FromContext(ctx).Warn("Failed to copy", zap.Error(err))
		return false, err
	}
	return true, nil
}

func (s *Session) beginAttempt() (uint64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempt++
	s.errMsg = ""
	s.transcript = ""
	s.loading = true
	return s.attempt, s.link
}

func (s *Session) reportError(token uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.attempt {
		return
	}
	s.errMsg = domain.UserMessage(err)
}

func (s *Session) reportSuccess(token uint64, transcript string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.attempt {
		return
	}
	s.transcript = transcript
}

func (s *Session) finish(token uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.attempt {
		return
	}
	s.loading = false
}
