package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devbush/yt2transcript/internal/application"
	"github.com/devbush/yt2transcript/internal/ports"
)

// Labels shown by the form
const (
	FormTitle       = "YouTube Transcript Fetcher"
	FetchLabel      = "Fetch Transcript"
	LoadingLabel    = "Loading..."
	CopyLabel       = "Copy Transcript"
	LinkPlaceholder = "Enter YouTube video link"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// rows taken by title, input, hint, error, box border and help
	chromeHeight = 10
)

type focusArea int

const (
	focusInput focusArea = iota
	focusTranscript
)

type fetchDoneMsg struct {
	snapshot application.Snapshot
}

type copyDoneMsg struct {
	copied bool
	err    error
}

// FormModel is the bubbletea model for the transcript form.
// All state that matters lives in the Session; the model only mirrors
// the last snapshot for rendering.
type FormModel struct {
	ctx       context.Context
	session   *application.Session
	clipboard ports.Clipboard

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	snapshot application.Snapshot
	focus    focusArea
	notice   string
	width    int
	height   int
}

// NewFormModel creates the form for session
func NewFormModel(ctx context.Context, session *application.Session, clipboard ports.Clipboard) FormModel {
	ti := textinput.New()
	ti.Placeholder = LinkPlaceholder
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := FormModel{
		ctx:       ctx,
		session:   session,
		clipboard: clipboard,
		input:     ti,
		spinner:   sp,
		snapshot:  session.Snapshot(),
	}
	m.resize(defaultWidth, defaultHeight)
	m.input.SetValue(m.snapshot.Link)
	return m
}

func (m FormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *FormModel) resize(width, height int) {
	m.width, m.height = width, height
	m.input.Width = max(width-4, 10)

	vpHeight := max(height-chromeHeight, 3)
	vpWidth := max(width-4, 10)
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(vpWidth, vpHeight)
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.setTranscript(m.snapshot.Transcript)
}

func (m *FormModel) setTranscript(text string) {
	if text == "" {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(lipgloss.NewStyle().Width(m.viewport.Width).Render(text))
}

func (m FormModel) hasTranscript() bool {
	return m.snapshot.Transcript != ""
}

func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case fetchDoneMsg:
		m.snapshot = m.session.Snapshot()
		m.setTranscript(m.snapshot.Transcript)
		m.viewport.GotoTop()
		if !m.hasTranscript() {
			m.setFocus(focusInput)
		}
		return m, nil

	case copyDoneMsg:
		if msg.copied {
			m.notice = application.CopyConfirmation
		}
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m FormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// The copy notice blocks until dismissed
	if m.notice != "" {
		m.notice = ""
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "enter":
		if m.focus == focusInput {
			return m.startFetch()
		}
	case "tab", "shift+tab":
		if m.hasTranscript() {
			if m.focus == focusInput {
				m.setFocus(focusTranscript)
			} else {
				m.setFocus(focusInput)
			}
		}
		return m, nil
	case "ctrl+y":
		return m, m.copyCmd()
	}

	if m.focus == focusTranscript {
		if msg.String() == "c" {
			return m, m.copyCmd()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetLink(m.input.Value())
	m.snapshot.Link = m.input.Value()
	return m, cmd
}

func (m *FormModel) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// startFetch begins an attempt synchronously so the form shows the
// loading state on the very next frame, then runs it in the background.
func (m FormModel) startFetch() (tea.Model, tea.Cmd) {
	if m.snapshot.Loading {
		return m, nil
	}

	attempt := m.session.Begin()
	m.snapshot = m.session.Snapshot()
	m.setTranscript("")
	m.setFocus(focusInput)

	ctx := m.ctx
	run := func() tea.Msg {
		return fetchDoneMsg{snapshot: attempt.Run(ctx)}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

func (m FormModel) copyCmd() tea.Cmd {
	if !m.hasTranscript() {
		return nil
	}
	ctx, session, clipboard := m.ctx, m.session, m.clipboard
	return func() tea.Msg {
		copied, err := session.Copy(ctx, clipboard)
		return copyDoneMsg{copied: copied, err: err}
	}
}

func (m FormModel) View() string {
	if m.notice != "" {
		box := noticeStyle.Render(m.notice + "\n\n" + hintStyle.Render("press any key"))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(FormTitle))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.snapshot.Loading {
		b.WriteString(m.spinner.View() + " " + loadingStyle.Render(LoadingLabel))
	} else {
		b.WriteString(keyStyle.Render("[enter]") + " " + hintStyle.Render(FetchLabel))
	}
	b.WriteString("\n")

	if m.snapshot.Error != "" {
		b.WriteString(errorStyle.Render(m.snapshot.Error))
		b.WriteString("\n")
	}

	if m.hasTranscript() {
		box := transcriptBox
		if m.focus == focusTranscript {
			box = focusedBox
		}
		b.WriteString("\n")
		b.WriteString(box.Render(m.viewport.View()))
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(FormatTranscriptStats(m.snapshot.Transcript)))
		b.WriteString("\n")
		b.WriteString(keyStyle.Render("[c/ctrl+y]") + " " + hintStyle.Render(CopyLabel) + "  ")
		b.WriteString(keyStyle.Render("[tab]") + " " + hintStyle.Render("scroll") + "  ")
	}

	b.WriteString(keyStyle.Render("[esc]") + " " + hintStyle.Render("quit"))
	return b.String()
}

// Snapshot returns the state the form last rendered
func (m FormModel) Snapshot() application.Snapshot {
	return m.snapshot
}

// Notice returns the modal message currently shown, if any
func (m FormModel) Notice() string {
	return m.notice
}

// RunForm shows the interactive form until the user quits
func RunForm(ctx context.Context, session *application.Session, clipboard ports.Clipboard) error {
	model := NewFormModel(ctx, session, clipboard)
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
