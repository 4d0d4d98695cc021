package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
	tea "github.com/charmbracelet/bubbletea"
)

func collect(t *testing.T, updates <-chan matchUpdate) []matchUpdate {
	t.Helper()
	var out []matchUpdate
	timeout := time.After(10 * time.Second)
	for {
		select {
		case u, ok := <-updates:
			if !ok {
				return out
			}
			out = append(out, u)
		case <-timeout:
			t.Fatalf("match did not finish")
		}
	}
}

func TestRunMatchPlaysToTheEnd(t *testing.T) {
	updates := make(chan matchUpdate)
	seats := [2]bot.Strategy{bot.NewRandomMover(3), &bot.MinimaxSearcher{Depth: 2}}
	go runMatch(context.Background(), seats, updates)

	got := collect(t, updates)
	last := got[len(got)-1]
	if !last.Finished || last.Err != nil {
		t.Fatalf("last update %+v", last)
	}
	if got[0].Move != nil || got[0].ToMove != domain.PlayerOne {
		t.Fatalf("first update %+v", got[0])
	}
	if plies := len(got) - 1; plies != last.Board.PieceCount(domain.PlayerOne)+last.Board.PieceCount(domain.PlayerTwo) {
		t.Fatalf("%d moves for %d pieces", plies, last.Board.PieceCount(domain.PlayerOne)+last.Board.PieceCount(domain.PlayerTwo))
	}
	if last.Status == domain.StatusWon && last.Line == nil {
		t.Fatalf("win without a line")
	}
}

func TestRunMatchAsksAgainAfterFullColumn(t *testing.T) {
	input := make(chan int, 16)
	// the human fills column 0 against a bot that also plays column 0,
	// then tries it once more before switching
	for _, col := range []int{0, 0, 0, 0, 1} {
		input <- col
	}
	close(input)

	updates := make(chan matchUpdate)
	seats := [2]bot.Strategy{&bot.Human{Input: input}, leftmost{}}
	go runMatch(context.Background(), seats, updates)
	got := collect(t, updates)

	var notices int
	for _, u := range got {
		if u.Notice != "" {
			notices++
		}
	}
	if notices != 1 {
		t.Fatalf("%d notices, want 1", notices)
	}
	// input ran out, so the match stops with an error
	if last := got[len(got)-1]; last.Err == nil {
		t.Fatalf("last update %+v", last)
	}
}

type leftmost struct{}

func (leftmost) Name() string { return "leftmost" }

func (leftmost) ChooseColumn(ctx context.Context, board domain.Board, player domain.Cell) (int, error) {
	return board.LegalColumns()[0], nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(model)
	}
	return m
}

func TestModelCursorAndDrop(t *testing.T) {
	input := make(chan int, 1)
	m := newModel(domain.PlayerOne, "Bob", input, nil)

	m = press(m, "enter")
	if m.notice != "wait for your turn" || len(input) != 0 {
		t.Fatalf("dropped before the match started: %q", m.notice)
	}

	next, _ := m.Update(matchUpdate{Board: domain.NewBoard(), ToMove: domain.PlayerOne, Status: domain.StatusActive})
	m = next.(model)

	m = press(m, "right", "right", "right", "right")
	if m.cursor != domain.Columns-1 {
		t.Fatalf("cursor %d", m.cursor)
	}
	m = press(m, "enter")
	if got := <-input; got != domain.Columns-1 {
		t.Fatalf("dropped %d", got)
	}

	for i := 0; i < 10; i++ {
		m = press(m, "h")
	}
	if m.cursor != 0 {
		t.Fatalf("cursor %d", m.cursor)
	}
	m = press(m, "3")
	if got := <-input; got != 2 || m.cursor != 2 {
		t.Fatalf("direct drop %d, cursor %d", got, m.cursor)
	}
	m = press(m, "9")
	if len(input) != 0 {
		t.Fatalf("out of range key dropped a piece")
	}

	if !strings.Contains(m.View(), "Your move.") {
		t.Fatalf("view:\n%s", m.View())
	}
}

func TestModelShowsResult(t *testing.T) {
	m := newModel(domain.PlayerTwo, "Charles", make(chan int, 1), nil)
	line := domain.Line{Player: domain.PlayerOne, Start: domain.Point{Row: 5, Col: 0}, End: domain.Point{Row: 2, Col: 0}, Length: 4}
	next, _ := m.Update(matchUpdate{Board: domain.NewBoard(), Status: domain.StatusWon, Winner: domain.PlayerOne, Line: &line, Finished: true})
	m = next.(model)

	if view := m.View(); !strings.Contains(view, "Charles wins") {
		t.Fatalf("view:\n%s", view)
	}
	if m.yourTurn() {
		t.Fatalf("finished game still expects a move")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Fatalf("q should quit")
	}
}
