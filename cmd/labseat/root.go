package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/0xmhha/labseat/pkg/board"
	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/config"
	"github.com/0xmhha/labseat/pkg/display"
	"github.com/0xmhha/labseat/pkg/logger"
	"github.com/0xmhha/labseat/pkg/roster"
	"github.com/0xmhha/labseat/pkg/storage"
)

// app holds the global flags shared by every command.
type app struct {
	configPath string
	format     string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "labseat",
		Short:         "Lab seat occupancy and stay-time tracker",
		Long:          "labseat records who occupies which lab seat, accumulates weekly stay time per member, ranks members on a weekly leaderboard and resets the board every night.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to configuration file")
	root.PersistentFlags().StringVar(&a.format, "format", "", "output format (table, simple, json)")

	root.AddCommand(
		newSeatCmd(a),
		newMemberCmd(a),
		newSessionCmd(a),
		newLeaderboardCmd(a),
		newWeeksCmd(a),
		newTimelineCmd(a),
		newHeatmapCmd(a),
		newNotificationsCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newTickCmd(a),
		newServeCmd(a),
		newLiveCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "labseat %s\n", version)
			return err
		},
	}
}

// loadConfig loads the configuration selected by --config.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(a.configPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// env is an opened board together with the resources behind it.
type env struct {
	cfg       *config.Config
	log       logger.Logger
	store     *storage.BoltStore
	persister *storage.Persister
	board     *board.Board
	out       display.Formatter
}

// open loads the configuration, opens the database and restores the board.
// With catchUp set the board applies any rollover or reset it missed while
// nothing was running.
func (a *app) open(cmd *cobra.Command, catchUp bool) (*env, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		Format: cfg.Logging.Format,
	})

	cal, err := calendar.Load(cfg.Board.Timezone)
	if err != nil {
		return nil, err
	}
	window, err := cfg.ResetWindow()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewBoltStore(storage.BoltConfig{
		DBPath:  cfg.Storage.DBPath,
		Timeout: cfg.Storage.OpenTimeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open board database: %w", err)
	}

	state, err := store.Load()
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load board: %w", err)
	}

	persister := storage.NewPersister(store, cfg.Storage.BatchWindow, log)
	b, err := board.New(board.Config{
		Seats:          cfg.Board.Seats,
		Calendar:       cal,
		ResetWindow:    window,
		TimelineBucket: cfg.Board.TimelineBucket,
		Sink:           persister,
		Logger:         log,
	})
	if err != nil {
		_ = persister.Close()
		_ = store.Close()
		return nil, err
	}
	b.Restore(state)

	if catchUp {
		b.Tick(b.Now())
	}

	out, err := a.formatter(cmd, cfg, cal.Location())
	if err != nil {
		_ = persister.Close()
		_ = store.Close()
		return nil, err
	}

	return &env{
		cfg:       cfg,
		log:       log,
		store:     store,
		persister: persister,
		board:     b,
		out:       out,
	}, nil
}

// Close flushes pending writes and closes the database.
func (e *env) Close() error {
	if err := e.persister.Close(); err != nil {
		_ = e.store.Close()
		return err
	}
	return e.store.Close()
}

// withBoard runs fn against an opened, caught-up board.
func (a *app) withBoard(cmd *cobra.Command, fn func(e *env) error) error {
	return a.withEnv(cmd, true, fn)
}

// withEnv runs fn against an opened board and closes it afterwards.
func (a *app) withEnv(cmd *cobra.Command, catchUp bool, fn func(e *env) error) (err error) {
	e, err := a.open(cmd, catchUp)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := e.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn(e)
}

// formatter picks the output format from --format or the config. Colour is
// only used when stdout is a terminal.
func (a *app) formatter(cmd *cobra.Command, cfg *config.Config, loc *time.Location) (display.Formatter, error) {
	name := a.format
	if name == "" {
		name = cfg.Display.Format
	}
	format, err := display.ParseFormat(name)
	if err != nil {
		return nil, err
	}

	return display.New(display.Config{
		Format:       format,
		ColorEnabled: cfg.Display.ColorEnabled && isTerminal(cmd.OutOrStdout()),
		Location:     loc,
	}), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// member resolves a member argument given as id or exact name.
func (e *env) member(arg string) (roster.Member, error) {
	m, err := e.board.LookupMember(arg)
	if err != nil {
		return roster.Member{}, fmt.Errorf("%s: %w", arg, err)
	}
	return m, nil
}

// names indexes the roster for display.
func (e *env) names() display.Names {
	return display.NamesOf(e.board.Members())
}

// parseTime reads a wall-clock time in loc. Accepted layouts are
// "2006-01-02 15:04", "2006-01-02T15:04" and RFC 3339.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (want YYYY-MM-DD HH:MM)", s)
}

// writeNotes prints the greetings raised by a seat change.
func writeNotes(w io.Writer, a board.Assignment) error {
	for _, n := range a.Notifications {
		if _, err := fmt.Fprintf(w, "  %s\n", n.Text); err != nil {
			return err
		}
	}
	return nil
}
