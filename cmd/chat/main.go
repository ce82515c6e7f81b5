package main

import (
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"relaychat/internal/client"
	"relaychat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	defaultServer := os.Getenv("RELAYCHAT_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8000"
	}

	var serverURL, docPath string
	var history int
	flag.StringVar(&serverURL, "server", defaultServer, "Base URL of the relay server (env RELAYCHAT_SERVER)")
	flag.StringVar(&docPath, "doc", "", "Document to attach at start-up (same as /load)")
	flag.IntVar(&history, "history", client.DefaultHistoryLimit, "Number of prior messages sent with each request")
	flag.Parse()

	c := client.NewClient(serverURL, nil)
	session := client.NewSession(c, client.NewStore(history))

	var opts []tui.Option
	if docPath != "" {
		opts = append(opts, tui.WithDocument(docPath))
	}

	m := tui.New(session, c, opts...)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
