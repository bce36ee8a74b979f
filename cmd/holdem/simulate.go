package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/display"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/internal/statistics"
	"github.com/lox/holdem/internal/table"
)

type SimulateCmd struct {
	Sessions int    `short:"n" default:"100" help:"Number of sessions to play"`
	Hands    int    `default:"1000" help:"Maximum hands per session"`
	Seats    int    `default:"6" help:"Bots per session when no config is given"`
	Chips    int    `default:"1000" help:"Starting chips when no config is given"`
	Parallel int    `short:"p" default:"0" help:"Sessions run concurrently (0 for one per CPU)"`
	Seed     int64  `default:"0" help:"RNG seed (0 for random)"`
	Config   string `short:"c" help:"HCL file for seats, blinds and bot policy"`
	LogLevel string `short:"l" default:"warn" help:"Log level (debug|info|warn|error)"`
}

// summary aggregates the reports of every session.
type summary struct {
	Sessions    int
	Finished    int
	Hands       int
	Showdowns   int
	SessionLens statistics.Statistics // hands per finished session
	Seats       statistics.Statistics // per-seat results in big blinds
	Elapsed     time.Duration
}

func (c *SimulateCmd) Run() error {
	logger, err := newLogger(os.Stderr, c.LogLevel, log.WarnLevel)
	if err != nil {
		return err
	}

	cfg := config.Default()
	cfg.Seats = cfg.Seats[:0]
	for i := 1; i <= c.Seats; i++ {
		cfg.Seats = append(cfg.Seats, config.SeatSettings{Name: fmt.Sprintf("Bot %d", i), Chips: c.Chips})
	}
	if c.Config != "" {
		if cfg, err = config.Load(c.Config); err != nil {
			return err
		}
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seed := c.Seed
	if seed == 0 {
		seed = randutil.Seed()
	}
	parallel := c.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	logger.Info("starting simulation", "sessions", c.Sessions, "hands", c.Hands, "parallel", parallel, "seed", seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	sum, err := simulate(ctx, cfg, c.Sessions, c.Hands, parallel, seed, logger)
	if err != nil {
		return err
	}
	sum.Elapsed = time.Since(start)
	printSummary(os.Stdout, sum, seed)
	return nil
}

// simulate plays sessions concurrently. Session i is seeded from randutil.Derive(seed, i)
// so the outcome does not depend on scheduling.
func simulate(ctx context.Context, cfg *config.Config, sessions, hands, parallel int, seed int64, logger *log.Logger) (*summary, error) {
	seats := cfg.SessionSeats()
	for i := range seats {
		seats[i].Human = false
	}

	reports := make([]*table.Report, sessions)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range sessions {
		g.Go(func() error {
			sessionSeed := randutil.Derive(seed, i)
			session, err := game.NewSession(seats,
				game.WithBlinds(cfg.Table.SmallBlind, cfg.Table.BigBlind),
				game.WithRNG(randutil.New(sessionSeed)),
			)
			if err != nil {
				return err
			}
			report, err := table.RunHeadless(ctx, session, cfg.BotParams(),
				randutil.New(randutil.Derive(sessionSeed, 0)), logger.With("session", i), hands)
			if err != nil {
				return fmt.Errorf("session %d (seed %d): %w", i, sessionSeed, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &summary{Sessions: sessions}
	for _, r := range reports {
		sum.Hands += r.Hands
		sum.Showdowns += r.Showdowns
		sum.Seats.Merge(&r.Stats)
		if r.Winner >= 0 {
			sum.Finished++
			sum.SessionLens.Add(statistics.HandResult{NetBB: float64(r.Hands)})
		}
	}
	if sum.Hands > 0 {
		if err := sum.Seats.Validate(); err != nil {
			return nil, fmt.Errorf("inconsistent statistics: %w", err)
		}
	}
	return sum, nil
}

func printSummary(w io.Writer, sum *summary, seed int64) {
	fmt.Fprintln(w, display.HeaderStyle.Render(" Simulation results "))
	fmt.Fprintf(w, "Seed:              %d\n", seed)
	fmt.Fprintf(w, "Sessions:          %d (%d played to a winner)\n", sum.Sessions, sum.Finished)
	fmt.Fprintf(w, "Hands:             %d in %s\n", sum.Hands, sum.Elapsed.Round(time.Millisecond))
	if sum.Hands == 0 {
		return
	}
	fmt.Fprintf(w, "Showdowns:         %.1f%%\n", 100*float64(sum.Showdowns)/float64(sum.Hands))
	if sum.Finished > 0 {
		fmt.Fprintf(w, "Hands per session: mean %.1f, median %.0f, p90 %.0f\n",
			sum.SessionLens.Mean(), sum.SessionLens.Median(), sum.SessionLens.Percentile(0.9))
	}

	s := &sum.Seats
	fmt.Fprintf(w, "Largest pot:       %d chips (%.0f bb), %d pots of 50bb or more\n", s.MaxPotChips, s.MaxPotBB, s.BigPots)
	fmt.Fprintf(w, "Seat result:       %.3f bb/hand, stddev %.2f\n", s.Mean(), s.StdDev())

	fmt.Fprintln(w, display.HandInfoStyle.Render("By position (seats after the button):"))
	for pos, ps := range s.PositionResults {
		if ps.Hands == 0 {
			continue
		}
		label := fmt.Sprintf("+%d", pos)
		if pos == 0 {
			label = "BTN"
		}
		fmt.Fprintf(w, "  %-4s %8d hands  %+8.3f bb/hand\n", label, ps.Hands, s.PositionMean(pos))
	}
}
