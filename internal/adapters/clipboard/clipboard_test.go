package clipboard

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbush/yt2transcript/internal/domain"
)

func noEnv(string) string { return "" }

func TestTerminal_WriteText(t *testing.T) {
	var buf bytes.Buffer
	cb := Terminal{Out: &buf, Getenv: noEnv}

	require.NoError(t, cb.WriteText("Hello\nworld"))

	out := buf.String()
	assert.Contains(t, out, "\x1b]52;c;")
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("Hello\nworld")))
}

func TestTerminal_WriteText_Tmux(t *testing.T) {
	var buf bytes.Buffer
	cb := Terminal{Out: &buf, Getenv: func(k string) string {
		if k == "TMUX" {
			return "/tmp/tmux-1000/default,1,0"
		}
		return ""
	}}

	require.NoError(t, cb.WriteText("x"))
	assert.Contains(t, buf.String(), "\x1bPtmux;")
}

func TestTerminal_WriteText_NoOutput(t *testing.T) {
	err := Terminal{}.WriteText("x")
	assert.ErrorIs(t, err, domain.ErrClipboardUnavailable)
}

type stubClipboard struct {
	err  error
	text string
}

func (s *stubClipboard) WriteText(text string) error {
	if s.err != nil {
		return s.err
	}
	s.text = text
	return nil
}

func TestChain_FallsBack(t *testing.T) {
	first := &stubClipboard{err: errors.New("no display")}
	second := &stubClipboard{}

	require.NoError(t, Chain{first, second}.WriteText("abc"))
	assert.Equal(t, "abc", second.text)
}

func TestChain_StopsAtFirstSuccess(t *testing.T) {
	first := &stubClipboard{}
	second := &stubClipboard{}

	require.NoError(t, Chain{first, second}.WriteText("abc"))
	assert.Equal(t, "abc", first.text)
	assert.Empty(t, second.text)
}

func TestChain_AllFail(t *testing.T) {
	err := Chain{
		&stubClipboard{err: errors.New("no display")},
		&stubClipboard{err: errors.New("no tty")},
	}.WriteText("abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
	assert.Contains(t, err.Error(), "no tty")
}

func TestChain_Empty(t *testing.T) {
	assert.ErrorIs(t, Chain{}.WriteText("abc"), domain.ErrClipboardUnavailable)
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	cb, err := New(ModeOSC52, &buf)
	require.NoError(t, err)
	assert.IsType(t, Terminal{}, cb)

	cb, err = New(ModeSystem, &buf)
	require.NoError(t, err)
	assert.IsType(t, System{}, cb)

	cb, err = New("", &buf)
	require.NoError(t, err)
	assert.IsType(t, Chain{}, cb)

	_, err = New("carrier-pigeon", &buf)
	assert.Error(t, err)
}
