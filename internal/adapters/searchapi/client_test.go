package searchapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbush/yt2transcript/internal/config"
	"github.com/devbush/yt2transcript/internal/domain"
)

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *int32, *http.Request) {
	t.Helper()
	var calls int32
	captured := &http.Request{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		*captured = *r.Clone(context.Background())
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, captured
}

func TestClient_Fetch_Success(t *testing.T) {
	srv, calls, req := newTestServer(t, http.StatusOK, `{"transcript":[{"text":"Hello","start":0.5,"duration":1.5},{"text":"world"}]}`)
	client := NewClient(srv.Client(), "test-key", WithBaseURL(srv.URL+"/api/v1/youtube/transcript"))

	tr, err := client.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "Hello\nworld", tr.ToText())
	assert.Equal(t, "dQw4w9WgXcQ", tr.VideoID)
	assert.InDelta(t, 0.5, tr.Segments[0].Start, 1e-9)
	assert.InDelta(t, 2.0, tr.Segments[0].End(), 1e-9)
	assert.False(t, tr.FetchedAt.IsZero())

	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/v1/youtube/transcript", req.URL.Path)
	assert.Equal(t, "dQw4w9WgXcQ", req.URL.Query().Get("video_id"))
	assert.Equal(t, "test-key", req.URL.Query().Get("api_key"))
	assert.Equal(t, "application/json", req.Header.Get("Accept"))
	assert.Empty(t, req.Header.Get("Origin"))
	assert.Empty(t, req.Header.Get("Access-Control-Allow-Origin"))
}

func TestClient_Fetch_Origin(t *testing.T) {
	srv, _, req := newTestServer(t, http.StatusOK, `{"transcript":[]}`)
	client := NewClient(srv.Client(), "k", WithBaseURL(srv.URL), WithOrigin("https://transcripts.example"))

	_, err := client.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "https://transcripts.example", req.Header.Get("Origin"))
}

func TestClient_Fetch_KeepsBaseQuery(t *testing.T) {
	srv, _, req := newTestServer(t, http.StatusOK, `{"transcript":[]}`)
	client := NewClient(srv.Client(), "k", WithBaseURL(srv.URL+"?lang=en"))

	_, err := client.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.Equal(t, "en", req.URL.Query().Get("lang"))
	assert.Equal(t, "dQw4w9WgXcQ", req.URL.Query().Get("video_id"))
}

func TestClient_Fetch_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv, _, _ := newTestServer(t, status, `{"transcript":[{"text":"ignored"}]}`)
			client := NewClient(srv.Client(), "k", WithBaseURL(srv.URL))

			_, err := client.Fetch(context.Background(), "dQw4w9WgXcQ")

			assert.ErrorIs(t, err, domain.ErrFetchFailed)
			assert.NotErrorIs(t, err, domain.ErrNoTranscript)
		})
	}
}

func TestClient_Fetch_MissingKeySkipsRequest(t *testing.T) {
	srv, calls, _ := newTestServer(t, http.StatusOK, `{}`)
	client := NewClient(srv.Client(), "", WithBaseURL(srv.URL))

	_, err := client.Fetch(context.Background(), "dQw4w9WgXcQ")

	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
	assert.Zero(t, atomic.LoadInt32(calls))
}

type failingTransport struct{}

func (failingTransport) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestClient_Fetch_TransportError(t *testing.T) {
	client := NewClient(failingTransport{}, "k")

	_, err := client.Fetch(context.Background(), "dQw4w9WgXcQ")

	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDecodeSegments(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantText string
		wantErr  bool
	}{
		{"two segments", `{"transcript":[{"text":"Hello"},{"text":"world"}]}`, "Hello\nworld", false},
		{"empty list", `{"transcript":[]}`, "", false},
		{"missing text", `{"transcript":[{"text":"a"},{"start":1},{"text":"b"}]}`, "a\n\nb", false},
		{"null text", `{"transcript":[{"text":null},{"text":"b"}]}`, "\nb", false},
		{"numeric text", `{"transcript":[{"text":42}]}`, "42", false},
		{"string entry", `{"transcript":["loose", {"text":"b"}]}`, "\nb", false},
		{"extra fields ignored", `{"search_metadata":{"id":"x"},"transcript":[{"text":"hi","lang":"en"}]}`, "hi", false},
		{"missing field", `{"error":"nope"}`, "", true},
		{"null field", `{"transcript":null}`, "", true},
		{"false field", `{"transcript":false}`, "", true},
		{"string field", `{"transcript":"text"}`, "", true},
		{"object field", `{"transcript":{"text":"x"}}`, "", true},
		{"wrong case", `{"Transcript":[{"text":"x"}]}`, "", true},
		{"null entry", `{"transcript":[null]}`, "", true},
		{"not json", `<html>rate limited</html>`, "", true},
		{"top-level array", `[{"text":"x"}]`, "", true},
		{"top-level null", `null`, "", true},
		{"empty body", ``, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, err := decodeSegments([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrNoTranscript)
				return
			}
			require.NoError(t, err)
			tr := &domain.Transcript{Segments: segments}
			assert.Equal(t, tt.wantText, tr.ToText())
		})
	}
}

func TestClient_Fetch_InvalidBody(t *testing.T) {
	srv, _, _ := newTestServer(t, http.StatusOK, `not json at all`)
	client := NewClient(srv.Client(), "k", WithBaseURL(srv.URL))

	_, err := client.Fetch(context.Background(), "dQw4w9WgXcQ")

	assert.ErrorIs(t, err, domain.ErrNoTranscript)
	assert.True(t, strings.Contains(domain.UserMessage(err), "No transcript"))
}

func TestClient_DefaultEndpoint(t *testing.T) {
	client := NewClient(failingTransport{}, "k")

	endpoint, err := client.requestURL("dQw4w9WgXcQ")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(endpoint, config.DefaultBaseURL+"?"), endpoint)
	assert.Contains(t, endpoint, "video_id=dQw4w9WgXcQ")
}
