package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/lox/holdem/internal/config"
	"github.com/lox/holdem/internal/display"
	"github.com/lox/holdem/internal/game"
	"github.com/lox/holdem/internal/randutil"
	"github.com/lox/holdem/internal/table"
)

type PlayCmd struct {
	Config   string `short:"c" default:"holdem.hcl" help:"Path to HCL configuration file"`
	Seed     int64  `default:"0" help:"RNG seed (0 for random)"`
	LogFile  string `default:"holdem.log" help:"Write logs to this file"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logFile, err := openLogFile(c.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger, err := newLogger(logFile, c.LogLevel, cfg.Level())
	if err != nil {
		return err
	}

	seed := c.Seed
	if seed == 0 {
		seed = randutil.Seed()
	}
	logger.Info("starting table", "seed", seed, "seats", len(cfg.Seats), "config", c.Config)

	session, err := game.NewSession(cfg.SessionSeats(),
		game.WithBlinds(cfg.Table.SmallBlind, cfg.Table.BigBlind),
		game.WithRNG(randutil.New(seed)),
	)
	if err != nil {
		return err
	}
	tbl := table.New(session,
		table.WithLogger(logger),
		table.WithBotDelay(cfg.BotDelay()),
		table.WithNextHandDelay(cfg.NextHandDelay()),
		table.WithBotParams(cfg.BotParams()),
		table.WithBotRNG(randutil.New(randutil.Derive(seed, 0))),
	)
	defer tbl.Close()

	names := make(map[int]string, len(cfg.Seats))
	for i, s := range cfg.Seats {
		names[i] = s.Name
	}
	return newPrompt(tbl, session.HumanID(), names, os.Stdin, os.Stdout).run()
}

// prompt drives the human seat from line-based input.
type prompt struct {
	tbl     *table.Table
	humanID int
	names   map[int]string
	in      io.Reader
	out     io.Writer
	turn    chan struct{}
	printed chan string
	done    chan struct{}
	stop    sync.Once
}

func newPrompt(tbl *table.Table, humanID int, names map[int]string, in io.Reader, out io.Writer) *prompt {
	return &prompt{
		tbl:     tbl,
		humanID: humanID,
		names:   names,
		in:      in,
		out:     out,
		turn:    make(chan struct{}, 1),
		printed: make(chan string, 64),
		done:    make(chan struct{}),
	}
}

// onEvent runs on whichever goroutine mutated the table; output is funnelled
// through printed so only run writes to out. Once run has returned, events are dropped.
func (p *prompt) onEvent(ev game.GameEvent) {
	if line := display.Event(ev); line != "" && !p.print(line) {
		return
	}
	if end, ok := ev.(game.HandEndEvent); ok && !p.print(display.Result(&end.Result, p.names)) {
		return
	}
	snap := p.tbl.Snapshot()
	if p.humanID >= 0 && !snap.HandComplete && snap.ToAct == p.humanID {
		select {
		case p.turn <- struct{}{}:
		default:
		}
	}
}

// print queues line for run and reports false after shutdown.
func (p *prompt) print(line string) bool {
	select {
	case p.printed <- line:
		return true
	case <-p.done:
		return false
	}
}

func (p *prompt) close() {
	p.stop.Do(func() { close(p.done) })
}

func (p *prompt) run() error {
	defer p.close()
	unsubscribe := p.tbl.Subscribe(p.onEvent)
	defer unsubscribe()

	fmt.Fprintln(p.out, display.HeaderStyle.Render(" ♠ ♥ Texas Hold'em ♦ ♣ "))
	fmt.Fprintln(p.out, display.InfoStyle.Render("Commands: fold, check, call, raise N, allin, quit"))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(p.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	if err := p.tbl.Start(); err != nil {
		return err
	}

	for {
		select {
		case line := <-p.printed:
			fmt.Fprintln(p.out, line)
		case <-p.turn:
			p.drain()
			fmt.Fprint(p.out, display.Table(p.tbl.Snapshot(), p.humanID))
			fmt.Fprint(p.out, "> ")
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if quit := p.handle(line); quit {
				return nil
			}
		case <-p.tbl.Done():
			p.drain()
			fmt.Fprint(p.out, display.Table(p.tbl.Snapshot(), p.humanID))
			return p.tbl.Err()
		case <-sigs:
			return nil
		}
	}
}

// drain prints queued event lines so the table is rendered after them.
func (p *prompt) drain() {
	for {
		select {
		case line := <-p.printed:
			fmt.Fprintln(p.out, line)
		default:
			return
		}
	}
}

// handle submits one line of input and reports whether the player quit.
func (p *prompt) handle(line string) bool {
	action, amount, err := parseCommand(line)
	switch {
	case errors.Is(err, errQuit):
		return true
	case errors.Is(err, errEmpty):
		return false
	case err != nil:
		fmt.Fprintln(p.out, display.ErrorStyle.Render(err.Error()))
		fmt.Fprint(p.out, "> ")
		return false
	}
	if err := p.tbl.SubmitAction(p.humanID, action, amount); err != nil {
		fmt.Fprintln(p.out, display.ErrorStyle.Render(err.Error()))
		fmt.Fprint(p.out, "> ")
	}
	return false
}

var (
	errQuit  = errors.New("quit")
	errEmpty = errors.New("empty command")
)

// parseCommand reads "fold", "call", "raise 120" and friends.
func parseCommand(line string) (game.Action, int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, 0, errEmpty
	}
	switch strings.ToLower(fields[0]) {
	case "quit", "q", "exit":
		return 0, 0, errQuit
	}
	action, err := game.ParseAction(fields[0])
	if err != nil {
		return 0, 0, err
	}
	if action != game.Raise {
		return action, 0, nil
	}
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("raise needs an amount, e.g. raise 100")
	}
	amount, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid raise amount %q", fields[1])
	}
	return action, amount, nil
}
