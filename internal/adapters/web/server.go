package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/devbush/yt2transcript/internal/application"
	"github.com/devbush/yt2transcript/internal/domain"
	"github.com/devbush/yt2transcript/internal/logging"
)

// Labels shared with the terminal form
const (
	Title        = "YouTube Transcript Fetcher"
	FetchLabel   = "Fetch Transcript"
	LoadingLabel = "Loading..."
	Placeholder  = "Enter YouTube video link"
)

// APIPath serves transcript lookups for the page
const APIPath = "/api/transcript"

var page = template.Must(template.New("index").Parse(pageTemplate))

// TranscriptResponse is the JSON body of APIPath
type TranscriptResponse struct {
	VideoID    string `json:"video_id,omitempty"`
	Transcript string `json:"transcript"`
	Error      string `json:"error,omitempty"`
}

// Server serves the transcript form. The API key stays on the server;
// the browser only ever sees the transcript text.
type Server struct {
	Addr    string
	Service *application.TranscriptService
	Logger  *zap.Logger
}

func (s *Server) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// Handler returns the routes of the web form
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(APIPath, s.handleTranscript)
	mux.HandleFunc("/", s.handleIndex)
	return mux
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return logging.WithLogger(ctx, s.logger()) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger().Info("Starting web form", zap.String("addr", "http://"+s.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := struct {
		Title, Placeholder, FetchLabel, LoadingLabel, CopyConfirmation, APIPath string
	}{Title, Placeholder, FetchLabel, LoadingLabel, application.CopyConfirmation, APIPath}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, data); err != nil {
		s.logger().Error("Template execution failed", zap.Error(err), zap.String("remote", r.RemoteAddr))
	}
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := logging.WithLogger(r.Context(), s.logger())
	link := r.URL.Query().Get("link")

	result, err := s.Service.Retrieve(ctx, link)
	if err != nil {
		status := statusFor(err)
		s.logger().Debug("transcript request failed",
			zap.Int("status", status), zap.String("remote", r.RemoteAddr), zap.Error(err))
		s.respondJSON(w, status, TranscriptResponse{Error: domain.UserMessage(err)})
		return
	}

	s.respondJSON(w, http.StatusOK, TranscriptResponse{
		VideoID:    result.Video.ID,
		Transcript: result.Text,
	})
}

// statusFor maps a retrieval error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidURL):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNoTranscript):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrFetchFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger().Error("JSON encoding failed", zap.Error(err))
	}
}
