package main

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/blackjackd/internal/game"
	"github.com/lox/blackjackd/internal/randutil"
	"github.com/lox/blackjackd/internal/tui"
)

// PlayCmd runs a local single-player game in the terminal
type PlayCmd struct {
	Seed    *int64 `kong:"help='Deterministic RNG seed (optional)'"`
	LogFile string `kong:"help='Write debug logs to this file'"`
}

func (c *PlayCmd) Run() error {
	// The TUI owns the terminal, so logs go to a file or nowhere.
	logWriter := io.Writer(io.Discard)
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		logWriter = f
	}
	logger := log.NewWithOptions(logWriter, log.Options{ReportTimestamp: true})
	logger.SetLevel(log.DebugLevel)

	var src randutil.Source
	if c.Seed != nil {
		src = randutil.NewSeeded(*c.Seed)
	} else {
		src = randutil.Crypto{}
	}

	lipgloss.SetColorProfile(termenv.ColorProfile())

	round := game.NewRound(src)
	program := tea.NewProgram(tui.NewModel(round, logger), tea.WithAltScreen())

	_, err := program.Run()
	return err
}
