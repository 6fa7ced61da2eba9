package main

import (
	"github.com/spf13/cobra"

	"github.com/0xmhha/labseat/pkg/aggregator"
	"github.com/0xmhha/labseat/pkg/board"
	"github.com/0xmhha/labseat/pkg/calendar"
	"github.com/0xmhha/labseat/pkg/display"
)

func newLeaderboardCmd(a *app) *cobra.Command {
	var week string

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank members by stay time for a week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				return e.out.FormatStandings(cmd.OutOrStdout(), e.board.Leaderboard(calendar.WeekKey(week)))
			})
		},
	}

	cmd.Flags().StringVar(&week, "week", "", "week to show, as its Monday (YYYY-MM-DD); default the current week")
	return cmd
}

func newWeeksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "weeks",
		Short: "Show the total stay time of every week with data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				return e.out.FormatWeeks(cmd.OutOrStdout(), e.board.Histogram())
			})
		},
	}
}

func newTimelineCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the occupancy of every seat over a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				slices, err := e.board.Timeline(date)
				if err != nil {
					return err
				}
				day := date
				if day == "" {
					day = e.board.Calendar().DateKey(e.board.Now())
				}

				seats := e.board.Seats()
				order := make([]string, len(seats))
				for i, s := range seats {
					order[i] = s.SeatID
				}
				return e.out.FormatTimeline(cmd.OutOrStdout(), day, order, slices)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to show (YYYY-MM-DD); default today")
	return cmd
}

func newHeatmapCmd(a *app) *cobra.Command {
	var preset, from, to string
	var csv bool

	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Show stay time per seat over a range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				var (
					r   aggregator.Range
					err error
				)
				if from != "" {
					r, err = e.board.DateRange(from, to)
				} else {
					r, err = e.board.PresetRange(board.Preset(preset))
				}
				if err != nil {
					return err
				}

				heatmap := e.board.Heatmap(r)
				if csv {
					return display.WriteHeatmapCSV(cmd.OutOrStdout(), heatmap)
				}
				return e.out.FormatHeatmap(cmd.OutOrStdout(), heatmap)
			})
		},
	}

	cmd.Flags().StringVar(&preset, "preset", string(board.PresetThisWeek), "range preset (today, yesterday, this_week, last_week)")
	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD); overrides --preset")
	cmd.Flags().StringVar(&to, "to", "", "last day, inclusive (YYYY-MM-DD); default --from")
	cmd.Flags().BoolVar(&csv, "csv", false, "write seatId,hours,count CSV")
	cmd.MarkFlagsMutuallyExclusive("preset", "from")
	return cmd
}

func newNotificationsCmd(a *app) *cobra.Command {
	var consume bool

	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show pending notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				notes := e.board.Notifications()
				if consume {
					notes = e.board.ConsumeNotifications()
				}
				return e.out.FormatNotifications(cmd.OutOrStdout(), notes)
			})
		},
	}

	cmd.Flags().BoolVar(&consume, "consume", false, "drain the notifications after showing them")
	return cmd
}
