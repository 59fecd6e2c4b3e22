package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/birostris/PadelRanking/internal/simulate"
	"github.com/birostris/PadelRanking/pkg/logger"
)

// Default configuration constants.
const (
	defaultPlayers        = 12
	defaultGames          = 200
	defaultTimeout        = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
	defaultAmericanoRatio = 0.25
	defaultDoublesRatio   = 0.6
)

func main() {
	var (
		baseURL        = flag.String("url", "http://localhost:8880", "Base URL of the service")
		players        = flag.Int("players", defaultPlayers, "Number of players to register")
		games          = flag.Int("games", defaultGames, "Number of matches to submit")
		workers        = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout        = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		americanoRatio = flag.Float64("americano", defaultAmericanoRatio, "Fraction of americano matches")
		doublesRatio   = flag.Float64("doubles", defaultDoublesRatio, "Fraction of doubles matches")
		verbose        = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:        *baseURL,
		NumPlayers:     *players,
		NumGames:       *games,
		Workers:        *workers,
		Timeout:        *timeout,
		AmericanoRatio: *americanoRatio,
		DoublesRatio:   *doublesRatio,
		Verbose:        *verbose,
	}
	if err := simulate.Run(ctx, config); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
