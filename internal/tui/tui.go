package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/blackjackd/internal/deck"
	"github.com/lox/blackjackd/internal/game"
)

// Model is the Bubble Tea model for local single-player play. It drives a
// game.Round directly; all updates happen on the Bubble Tea event loop, so
// the round needs no locking.
type Model struct {
	round  *game.Round
	logger *log.Logger

	logViewport viewport.Model
	input       textinput.Model

	gameLog  []string
	quitting bool

	width       int
	height      int
	initialized bool
}

// NewModel creates a TUI model around the given round.
func NewModel(round *game.Round, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "bet 50, hit, stand, double, deal, quit"
	ti.Focus()
	ti.CharLimit = 40
	ti.Width = 40
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	m := &Model{
		round:       round,
		logger:      logger.WithPrefix("tui"),
		logViewport: vp,
		input:       ti,
	}
	m.appendLog(InfoStyle.Render("Welcome to the table. Place a bet to start: bet <amount>"))
	return m
}

// Init initializes the TUI model
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages in the TUI
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logViewport.Width = msg.Width - 2
		m.logViewport.Height = max(msg.Height-10, 3)
		m.initialized = true
		m.refreshLog()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "enter":
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line != "" {
				if quit := m.handleCommand(line); quit {
					m.quitting = true
					return m, tea.Sequence(tea.ClearScreen, tea.Quit)
				}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleCommand parses and applies one input line, reporting whether the
// player asked to quit.
func (m *Model) handleCommand(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	cmd := fields[0]

	var err error
	switch cmd {
	case "quit", "exit", "q":
		return true

	case "bet", "b":
		if len(fields) < 2 {
			m.appendLog(ErrorStyle.Render("Usage: bet <amount>"))
			return false
		}
		var bet int
		bet, err = strconv.Atoi(fields[1])
		if err != nil {
			m.appendLog(ErrorStyle.Render("Bet must be a number"))
			return false
		}
		err = m.round.StartRound(bet)

	case "hit", "h":
		err = m.round.Hit()

	case "stand", "s":
		err = m.round.Stand()

	case "double", "d":
		err = m.round.Double()

	case "deal", "restart", "r":
		err = m.round.Restart()

	default:
		m.appendLog(ErrorStyle.Render("Unknown command: " + cmd))
		return false
	}

	if err != nil {
		m.logger.Debug("command failed", "command", cmd, "error", err)
		m.appendLog(ErrorStyle.Render(err.Error()))
		return false
	}

	m.logRoundState()
	return false
}

// logRoundState appends the current hands and any result to the log.
func (m *Model) logRoundState() {
	snap := m.round.Snapshot()

	if len(snap.PlayerCards) > 0 {
		m.appendLog(fmt.Sprintf("Your hand:   %s (%d)", renderCards(snap.PlayerCards), snap.PlayerTotal))
	}
	if len(snap.DealerCards) > 0 {
		dealer := renderCards(snap.DealerCards)
		if snap.DealerHoleCardHidden {
			dealer += " " + InfoStyle.Render("[hidden]")
		}
		m.appendLog(fmt.Sprintf("Dealer hand: %s (%d)", dealer, snap.DealerTotal))
	}

	if snap.Message != "" {
		style := SuccessStyle
		switch snap.Outcome {
		case "dealer_blackjack", "player_bust", "dealer_win":
			style = ErrorStyle
		case "push":
			style = InfoStyle
		}
		m.appendLog(style.Render(snap.Message))
		m.appendLog(InfoStyle.Render("Type 'deal' for another round."))
	}
}

// renderCards colors each card red or black by suit.
func renderCards(cards []deck.Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		if c.IsRed() {
			parts[i] = RedCardStyle.Render(c.String())
		} else {
			parts[i] = BlackCardStyle.Render(c.String())
		}
	}
	return strings.Join(parts, " ")
}

func (m *Model) appendLog(line string) {
	m.gameLog = append(m.gameLog, line)
	m.refreshLog()
}

func (m *Model) refreshLog() {
	m.logViewport.SetContent(GameLogStyle.Render(strings.Join(m.gameLog, "\n")))
	m.logViewport.GotoBottom()
}

// View renders the TUI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.round.Snapshot()

	header := HeaderStyle.Render(" blackjackd ")
	status := BalanceStyle.Render(fmt.Sprintf("Balance: $%d", snap.Balance))
	if snap.Bet > 0 {
		status += InfoStyle.Render(fmt.Sprintf("  Bet: $%d", snap.Bet))
	}

	var actions []string
	switch {
	case snap.CanHit:
		actions = append(actions, "hit", "stand")
		if snap.CanDouble {
			actions = append(actions, "double")
		}
	case snap.CanRestart:
		actions = append(actions, "deal")
	default:
		actions = append(actions, "bet <amount>")
	}
	actionBar := ActionsStyle.Render("Actions: " + strings.Join(actions, " | "))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		status,
		"",
		m.logViewport.View(),
		"",
		actionBar,
		m.input.View(),
	)
}
