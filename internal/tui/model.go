// Package tui is a terminal front end for the chat relay.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"relaychat/internal/client"
	"relaychat/internal/model"
)

// DocumentExtractor turns a local file into text the relay can use as context.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, filename string, r io.Reader) (*model.ExtractedDocument, error)
}

// streamUpdateMsg reports that the placeholder grew.
type streamUpdateMsg struct{}

// streamDoneMsg ends a reply; err is nil on a clean end.
type streamDoneMsg struct{ err error }

type documentLoadedMsg struct {
	doc *model.ExtractedDocument
	err error
}

// Model is the Bubble Tea model of the chat screen.
type Model struct {
	session   *client.Session
	extractor DocumentExtractor

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	initialDoc string

	status  string
	docName string
	events  chan tea.Msg
	cancel  context.CancelFunc
	ready   bool
}

// Option customises a Model.
type Option func(*Model)

// WithDocument loads the file at path as soon as the program starts.
func WithDocument(path string) Option {
	return func(m *Model) { m.initialDoc = path }
}

func New(session *client.Session, extractor DocumentExtractor, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message, Enter to send, /help for commands"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.CharLimit = 0
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := Model{
		session:   session,
		extractor: extractor,
		input:     ta,
		viewport:  viewport.New(80, 20),
		spinner:   sp,
		renderer:  newRenderer(80),
		status:    "Ready.",
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(20, width-4)),
	)
	if err != nil {
		// Fall back to plain text.
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	if m.initialDoc != "" {
		return tea.Batch(textarea.Blink, loadDocument(m.extractor, m.initialDoc))
	}
	return textarea.Blink
}

func (m Model) streaming() bool {
	return m.session.Store().State() == client.StateAwaitingResponse
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		inputHeight := m.input.Height() + inputBoxStyle.GetVerticalFrameSize()
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-inputHeight-2)
		m.input.SetWidth(max(20, msg.Width-inputBoxStyle.GetHorizontalFrameSize()))
		m.renderer = newRenderer(msg.Width)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case tea.KeyEsc:
			if m.cancel != nil {
				m.cancel()
				m.status = "Cancelling..."
			}
			return m, nil
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			if strings.HasPrefix(text, "/") {
				m.input.Reset()
				return m.runCommand(text)
			}
			if m.streaming() {
				m.status = "Still answering the previous message."
				return m, nil
			}
			cmd := m.send(text)
			return m, cmd
		}

	case streamUpdateMsg:
		m.refresh()
		return m, waitForEvent(m.events)

	case streamDoneMsg:
		m.cancel = nil
		m.events = nil
		switch {
		case msg.err == nil:
			m.status = "Ready."
		case errors.Is(msg.err, context.Canceled):
			m.status = "Cancelled."
		default:
			m.status = "Error: " + msg.err.Error()
		}
		m.refresh()
		return m, nil

	case documentLoadedMsg:
		if msg.err != nil {
			m.status = "Could not load document: " + msg.err.Error()
			return m, nil
		}
		m.session.SetDocument(msg.doc.Content)
		m.docName = msg.doc.Filename
		m.status = fmt.Sprintf("Attached %s (%d characters).", msg.doc.Filename, msg.doc.Characters)
		return m, nil

	case spinner.TickMsg:
		if !m.streaming() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// send records the message and its placeholder at once, then streams the
// reply in the background. Progress arrives as messages on m.events, read one
// at a time by waitForEvent.
func (m *Model) send(text string) tea.Cmd {
	req, err := m.session.Begin(text)
	if err != nil {
		m.status = "Error: " + err.Error()
		return nil
	}
	m.input.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan tea.Msg, 64)
	m.cancel = cancel
	m.events = events
	m.status = "Thinking..."
	m.refresh()

	session := m.session
	go func() {
		defer cancel()
		err := session.Stream(ctx, req, func(model.Message) {
			select {
			case events <- streamUpdateMsg{}:
			default:
				// A refresh is already queued.
			}
		})
		events <- streamDoneMsg{err: err}
	}()

	return tea.Batch(waitForEvent(events), m.spinner.Tick)
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg { return <-events }
}

func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderMessages())
	if atBottom || m.streaming() {
		m.viewport.GotoBottom()
	}
}

func (m Model) renderMessages() string {
	msgs := m.session.Store().Messages()
	if len(msgs) == 0 {
		return hintStyle.Render("No messages yet.")
	}

	streaming := m.streaming()
	var b strings.Builder
	for i, msg := range msgs {
		last := i == len(msgs)-1
		switch msg.Role {
		case model.RoleUser:
			b.WriteString(userLabelStyle.Render("You"))
			b.WriteString("\n")
			b.WriteString(msg.Content)
		default:
			b.WriteString(assistantLabelStyle.Render("Assistant"))
			b.WriteString("\n")
			if last && streaming {
				// Partial markdown renders badly; show raw text until the end.
				b.WriteString(msg.Content)
			} else {
				b.WriteString(m.renderMarkdown(msg.Content))
			}
		}
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderMarkdown(content string) string {
	if m.renderer == nil || content == "" {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	status := m.status
	if m.streaming() {
		status = m.spinner.View() + " " + status
	}
	if m.docName != "" {
		status += docStyle.Render("  [" + m.docName + "]")
	}

	return m.viewport.View() + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		statusStyle.Render(status)
}
