package main

import (
	"fmt"
	"strings"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

type model struct {
	human   domain.Cell
	botName string
	cursor  int

	state   matchUpdate
	started bool
	notice  string

	input   chan<- int
	updates <-chan matchUpdate
}

func newModel(human domain.Cell, botName string, input chan<- int, updates <-chan matchUpdate) model {
	return model{
		human:   human,
		botName: botName,
		cursor:  domain.CenterColumn,
		input:   input,
		updates: updates,
	}
}

// matchClosedMsg reports that the match goroutine has stopped.
type matchClosedMsg struct{}

func waitForUpdate(updates <-chan matchUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return matchClosedMsg{}
		}
		return u
	}
}

func (m model) Init() tea.Cmd {
	return waitForUpdate(m.updates)
}

func (m model) yourTurn() bool {
	return m.started && !m.state.Finished && m.state.Err == nil && m.state.ToMove == m.human
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < domain.Columns-1 {
				m.cursor++
			}
		case "enter", " ":
			m.drop()
		default:
			if len(key) == 1 && key[0] >= '1' && key[0] < '1'+domain.Columns {
				m.cursor = int(key[0] - '1')
				m.drop()
			}
		}
		return m, nil

	case matchUpdate:
		m.state = msg
		m.started = true
		m.notice = msg.Notice
		if msg.Err != nil {
			m.notice = msg.Err.Error()
		}
		return m, waitForUpdate(m.updates)

	case matchClosedMsg:
		return m, nil
	}
	return m, nil
}

// drop hands the cursor column to the human strategy.
func (m *model) drop() {
	if !m.yourTurn() {
		m.notice = "wait for your turn"
		return
	}
	select {
	case m.input <- m.cursor:
		m.notice = ""
	default:
		m.notice = "move already sent"
	}
}

func (m model) View() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Connect 4: you (%c) vs %s (%c)\n\n", m.human.Glyph(), m.botName, m.human.Opponent().Glyph())

	sb.WriteString(" ")
	for c := 0; c < domain.Columns; c++ {
		if c == m.cursor && m.yourTurn() {
			fmt.Fprintf(&sb, " %c", m.human.Glyph())
		} else {
			sb.WriteString("  ")
		}
	}
	sb.WriteString("\n")
	sb.WriteString(m.state.Board.String())
	sb.WriteString("\n")

	switch {
	case !m.started:
		sb.WriteString("Starting...\n")
	case m.state.Err != nil:
		sb.WriteString("Match stopped.\n")
	case m.state.Status == domain.StatusDraw:
		sb.WriteString("Draw.\n")
	case m.state.Status == domain.StatusWon:
		winner := m.botName + " wins"
		if m.state.Winner == m.human {
			winner = "You win"
		}
		if line := m.state.Line; line != nil {
			fmt.Fprintf(&sb, "%s: %v from %v to %v.\n", winner, line.Axis, line.Start, line.End)
		} else {
			sb.WriteString(winner + ".\n")
		}
	case m.yourTurn():
		sb.WriteString("Your move.\n")
	default:
		fmt.Fprintf(&sb, "%s is thinking...\n", m.botName)
	}
	if m.notice != "" {
		fmt.Fprintf(&sb, "(%s)\n", m.notice)
	}

	sb.WriteString("\n<-/-> or h/l to aim, enter to drop, 1-7 to drop directly, q to quit.\n")
	return sb.String()
}
