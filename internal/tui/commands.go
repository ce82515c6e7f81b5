package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const helpText = "/load <file> attach a document · /unload detach it · /quit exit · Esc cancels a reply"

func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	name, args := fields[0], fields[1:]

	switch name {
	case "/load":
		if len(args) == 0 {
			m.status = "Usage: /load <file>"
			return m, nil
		}
		path := strings.Join(args, " ")
		m.status = "Loading " + filepath.Base(path) + "..."
		return m, loadDocument(m.extractor, path)
	case "/unload":
		m.session.ClearDocument()
		m.docName = ""
		m.status = "Document detached."
		return m, nil
	case "/quit", "/exit":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case "/help":
		m.status = helpText
		return m, nil
	default:
		m.status = "Unknown command " + name + ". " + helpText
		return m, nil
	}
}

func loadDocument(extractor DocumentExtractor, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return documentLoadedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		doc, err := extractor.ExtractDocument(ctx, filepath.Base(path), f)
		return documentLoadedMsg{doc: doc, err: err}
	}
}
