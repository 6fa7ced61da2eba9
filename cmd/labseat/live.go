package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xmhha/labseat/pkg/display"
	"github.com/0xmhha/labseat/pkg/leaderboard"
	"github.com/0xmhha/labseat/pkg/monitor"
	"github.com/0xmhha/labseat/pkg/scheduler"
)

const clearScreen = "\033[H\033[2J"

func newLiveCmd(a *app) *cobra.Command {
	var interval time.Duration
	var once bool

	cmd := &cobra.Command{
		Use:   "live",
		Short: "Show a continuously refreshed view of the seats",
		Long: `Show the seat grid and this week's stay totals, redrawn every
refresh interval. The nightly scheduler runs while the view is open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				if interval <= 0 {
					interval = e.cfg.Display.RefreshInterval
				}
				return live(cmd.Context(), cmd, e, interval, once)
			})
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "refresh interval (default from config)")
	cmd.Flags().BoolVar(&once, "once", false, "draw a single frame and exit")
	return cmd
}

// live redraws the board on every monitor update until interrupted.
func live(parent context.Context, cmd *cobra.Command, e *env, interval time.Duration, once bool) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon, err := monitor.New(monitor.Config{RefreshInterval: interval}, e.board, e.log)
	if err != nil {
		return err
	}
	defer func() { _ = mon.Close() }()

	if err := mon.Start(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	redraw := isTerminal(out)

	if once {
		return renderFrame(out, e, <-mon.Updates(), false)
	}

	runner, err := scheduler.NewRunner(scheduler.RunnerConfig{
		Interval: e.cfg.Schedule.TickInterval,
	}, e.board, e.log)
	if err != nil {
		return err
	}
	if err := runner.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = runner.Close() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case u, ok := <-mon.Updates():
			if !ok {
				return nil
			}
			if err := renderFrame(out, e, u, redraw); err != nil {
				return err
			}
		}
	}
}

func renderFrame(w io.Writer, e *env, u monitor.Update, redraw bool) error {
	if redraw {
		if _, err := io.WriteString(w, clearScreen); err != nil {
			return err
		}
	}

	loc := e.board.Calendar().Location()
	if _, err := fmt.Fprintf(w, "labseat live  %s\n\n", u.Timestamp.In(loc).Format("2006-01-02 15:04:05")); err != nil {
		return err
	}

	names := e.names()
	if err := e.out.FormatSeats(w, u.Seats, names); err != nil {
		return err
	}

	if err := writeStays(w, u, names); err != nil {
		return err
	}
	return writeDelta(w, u, names)
}

// writeStays lists this week's totals, longest stay first.
func writeStays(w io.Writer, u monitor.Update, names display.Names) error {
	ids := make([]string, 0, len(u.Stays))
	for id, secs := range u.Stays {
		if secs > 0 {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := u.Stays[ids[i]], u.Stays[ids[j]]
		if a != b {
			return a > b
		}
		return names.Of(ids[i]) < names.Of(ids[j])
	})

	if _, err := fmt.Fprintln(w, "\nThis week"); err != nil {
		return err
	}
	if len(ids) == 0 {
		_, err := fmt.Fprintln(w, "  no stays yet")
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintf(w, "  %s  %s\n", names.Of(id), leaderboard.FormatSeconds(u.Stays[id])); err != nil {
			return err
		}
	}
	return nil
}

// writeDelta prints the seat changes since the previous frame.
func writeDelta(w io.Writer, u monitor.Update, names display.Names) error {
	if u.Delta.Empty() {
		return nil
	}

	occupant := make(map[string]string, len(u.Seats))
	status := make(map[string]string, len(u.Seats))
	for _, s := range u.Seats {
		occupant[s.SeatID] = names.Of(s.OccupantID)
		status[s.SeatID] = string(s.Status)
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, id := range u.Delta.Left {
		if _, err := fmt.Fprintf(w, "- %s\n", id); err != nil {
			return err
		}
	}
	for _, id := range u.Delta.Arrived {
		if _, err := fmt.Fprintf(w, "+ %s %s\n", id, occupant[id]); err != nil {
			return err
		}
	}
	for _, id := range u.Delta.StatusChanged {
		if _, err := fmt.Fprintf(w, "~ %s %s\n", id, status[id]); err != nil {
			return err
		}
	}
	return nil
}
