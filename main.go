package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"connect4/internal/api"
	"connect4/internal/board"
	"connect4/internal/config"
	"connect4/internal/game"
	"connect4/internal/history"
	"connect4/internal/state"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const usage = `Usage: connect4 [command] [flags]

Commands:
  play                 play a game on this terminal (default)
  history              browse, replay and delete stored games
  replay <id|file>     replay one stored or exported game
  export <id> <dir>    write a stored game to <dir> as JSON
  import <path>...     store games from exported JSON files or directories
  serve                serve stored games over HTTP

Run 'connect4 play -h' for game options.
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := "play"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}
	if cmd == "help" {
		fmt.Print(usage)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logPath := cfg.LogPath
	if cmd == "serve" {
		logPath = "stderr"
	}
	log, err := config.NewLogger(logPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	store, closeStore, err := config.OpenStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	archive := history.NewArchive(store, log)

	switch cmd {
	case "play":
		return runPlay(archive, log, args)
	case "history":
		return runHistory(archive)
	case "replay":
		return runReplay(archive, args)
	case "export":
		return runExport(archive, args)
	case "import":
		return runImport(archive, args)
	case "serve":
		return runServe(archive, log, cfg.Listen)
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func runPlay(archive *history.Archive, log *zap.Logger, args []string) error {
	settings := state.DefaultSettings()
	base := baseFlag(settings.BaseTimeMinutes)
	inc := strictIntFlag(settings.IncrementSeconds)
	start := playerFlag(settings.StartingPlayer)

	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.Var(&base, "base", "Base time per player in minutes (-base=5), or 'off' for an untimed game")
	fs.Var(&inc, "inc", "Seconds added after each move (-inc=3)")
	fs.StringVar(&settings.RedPlayerName, "red", settings.RedPlayerName, "Name of the red player")
	fs.StringVar(&settings.YellowPlayerName, "yellow", settings.YellowPlayerName, "Name of the yellow player")
	fs.Var(&start, "start", "Player who moves first: red or yellow")
	alternate := fs.Bool("alternate", true, "Swap the first move on every rematch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	settings.BaseTimeMinutes = int(base)
	settings.IncrementSeconds = int(inc)
	settings.StartingPlayer = board.Player(start)

	sess, err := game.NewSession(settings, archive, log, *alternate)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newPlayModel(sess))
	_, err = p.Run()
	return err
}

func runHistory(archive *history.Archive) error {
	m, err := newHistoryModel(archive)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}

func runReplay(archive *history.Archive, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: connect4 replay <id|file>")
	}
	r, err := findRecord(archive, args[0])
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(newReplayModel(r, true)).Run()
	return err
}

func runExport(archive *history.Archive, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: connect4 export <id> <dir>")
	}
	r, err := findRecord(archive, args[0])
	if err != nil {
		return err
	}
	path, err := history.ExportRecord(args[1], r)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func runImport(archive *history.Archive, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: connect4 import <path>...")
	}
	records, err := history.LoadRecords(args)
	if err != nil {
		return err
	}
	added, err := archive.Import(records)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d of %d games\n", added, len(records))
	return nil
}

func runServe(archive *history.Archive, log *zap.Logger, addr string) error {
	app := api.New(archive, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("serving games", zap.String("addr", addr))
		errc <- app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	return app.ShutdownWithTimeout(5 * time.Second)
}

// findRecord resolves a file path, a full id or a unique id prefix such as
// the one in export file names.
func findRecord(archive *history.Archive, ref string) (history.Record, error) {
	if _, err := os.Stat(ref); err == nil {
		records, err := history.LoadRecords([]string{ref})
		if err != nil {
			return history.Record{}, err
		}
		if len(records) != 1 {
			return history.Record{}, fmt.Errorf("%s holds %d games, expected one", ref, len(records))
		}
		return records[0], nil
	}

	r, err := archive.Get(ref)
	if !errors.Is(err, history.ErrNotFound) {
		return r, err
	}

	records, err := archive.List()
	if err != nil {
		return history.Record{}, err
	}
	var matches []history.Record
	for _, r := range records {
		if strings.HasPrefix(r.ID, ref) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 0:
		return history.Record{}, fmt.Errorf("%s: %w", ref, history.ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return history.Record{}, fmt.Errorf("id prefix %q matches %d games", ref, len(matches))
}

type strictIntFlag int

func (i *strictIntFlag) String() string {
	return fmt.Sprint(int(*i))
}

func (i *strictIntFlag) Set(s string) error {
	if s == "true" {
		return fmt.Errorf("value required (format: -flag=value)")
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*i = strictIntFlag(v)
	return nil
}

// baseFlag is minutes per player, state.Untimed when off.
type baseFlag int

func (b *baseFlag) String() string {
	if int(*b) == state.Untimed {
		return "off"
	}
	return fmt.Sprint(int(*b))
}

func (b *baseFlag) Set(s string) error {
	switch s {
	case "off", "false", "-1":
		*b = baseFlag(state.Untimed)
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return fmt.Errorf("invalid base time: %s (use minutes >= 1 or 'off')", s)
	}
	*b = baseFlag(v)
	return nil
}

type playerFlag board.Player

func (p *playerFlag) String() string {
	return board.Player(*p).String()
}

func (p *playerFlag) Set(s string) error {
	var player board.Player
	if err := player.UnmarshalText([]byte(s)); err != nil {
		return err
	}
	*p = playerFlag(player)
	return nil
}
