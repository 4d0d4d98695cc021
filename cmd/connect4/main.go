package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/config"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/bot"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	difficulty := flag.String("difficulty", bot.DifficultyMedium, "Bot difficulty: easy, medium or hard")
	player := flag.Int("player", 1, "Your seat: 1 opens, 2 replies")
	seed := flag.Int64("seed", 0, "Seed for the easy bot (0 picks one)")
	logFile := flag.String("log", "", "Write logs to this file instead of discarding them")
	flag.Parse()

	if !bot.IsValidDifficulty(*difficulty) {
		fmt.Fprintf(os.Stderr, "unknown difficulty %q\n", *difficulty)
		os.Exit(2)
	}
	human := domain.Cell(*player)
	if err := domain.ValidatePlayer(human); err != nil {
		fmt.Fprintf(os.Stderr, "seat must be 1 or 2\n")
		os.Exit(2)
	}

	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "connect4")
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	opponent := bot.NewStrategy(*difficulty, bot.Options{
		MediumDepth: cfg.BotDepthMedium,
		HardDepth:   cfg.BotDepthHard,
		Seed:        *seed,
	})
	input := make(chan int, 1)
	var seats [2]bot.Strategy
	seats[human-1] = &bot.Human{Input: input}
	seats[human.Opponent()-1] = opponent

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := make(chan matchUpdate)
	go runMatch(ctx, seats, updates)

	log.Printf("[GAME] Console game: human as %v vs %s (%s)", human, bot.GetBotName(*difficulty), *difficulty)
	p := tea.NewProgram(newModel(human, bot.GetBotName(*difficulty), input, updates))
	if _, err := p.Run(); err != nil {
		log.Printf("[GAME] UI error: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
