package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/config"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/repository/dataset"
	"github.com/JKelly423/connect-4-reinforced-learning/internal/service/selfplay"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	playerA := flag.String("a", "minimax:4", "First strategy: random, easy, medium, hard, minimax:N or parallel:N")
	playerB := flag.String("b", "random", "Second strategy, same names as -a")
	games := flag.Int("games", 100, "Number of games to play")
	workers := flag.Int("workers", 4, "Games played at the same time")
	seed := flag.Int64("seed", 0, "Base seed; game i seeds its strategies from seed+2i and seed+2i+1 (0 picks one)")
	outDir := flag.String("out-dir", cfg.SelfPlayOutDir, "Output directory for the parquet file")
	noWrite := flag.Bool("no-write", false, "Play without writing plies")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	a, err := selfplay.ParsePlayer(*playerA, *seed)
	if err != nil {
		log.Fatalf("[SELFPLAY] -a: %v", err)
	}
	b, err := selfplay.ParsePlayer(*playerB, *seed)
	if err != nil {
		log.Fatalf("[SELFPLAY] -b: %v", err)
	}

	arena := &selfplay.Arena{A: a, B: b, Workers: *workers, Seed: *seed}
	log.Printf("[SELFPLAY] %s vs %s, %d games, seed %d", *playerA, *playerB, *games, *seed)

	var writer *dataset.BatchWriter
	if !*noWrite {
		writer, err = dataset.NewBatchWriter(*outDir)
		if err != nil {
			log.Fatalf("[SELFPLAY] Failed to create output: %v", err)
		}
		arena.Sink = writer
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum, runErr := arena.Run(ctx, *games)
	if runErr != nil {
		log.Printf("[SELFPLAY] Run stopped: %v", runErr)
	}

	if writer != nil {
		path, written, rows, err := writer.Finalize()
		if err != nil {
			log.Fatalf("[SELFPLAY] Failed to write dataset: %v", err)
		}
		if path != "" {
			log.Printf("[SELFPLAY] Wrote %d games (%d plies) to %s", written, rows, path)
		}
	}

	log.Printf("[SELFPLAY] %d games in %s: %s won %d, %s won %d, %d draws, %d plies",
		sum.Games, time.Since(start).Round(time.Millisecond), *playerA, sum.WinsA, *playerB, sum.WinsB, sum.Draws, sum.Plies)
	log.Printf("[SELFPLAY] Elo: %s %d, %s %d", *playerA, sum.RatingA, *playerB, sum.RatingB)
	if runErr != nil {
		os.Exit(1)
	}
}
