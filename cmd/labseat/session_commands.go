package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/0xmhha/labseat/pkg/ledger"
)

func newSessionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect and correct stay sessions",
	}

	cmd.AddCommand(
		newSessionListCmd(a),
		newSessionAddCmd(a),
		newSessionUpdateCmd(a),
		newSessionRemoveCmd(a),
	)

	return cmd
}

func newSessionListCmd(a *app) *cobra.Command {
	var member string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				sessions := e.board.Sessions()
				if member != "" {
					m, err := e.member(member)
					if err != nil {
						return err
					}
					filtered := sessions[:0]
					for _, s := range sessions {
						if s.MemberID == m.ID {
							filtered = append(filtered, s)
						}
					}
					sessions = filtered
				}
				return e.out.FormatSessions(cmd.OutOrStdout(), sessions, e.names())
			})
		},
	}

	cmd.Flags().StringVar(&member, "member", "", "only sessions of this member (id or name)")
	return cmd
}

func newSessionAddCmd(a *app) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "add <member> <seat>",
		Short: "Record a session by hand",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				m, err := e.member(args[0])
				if err != nil {
					return err
				}
				loc := e.board.Calendar().Location()
				from, err := parseTime(start, loc)
				if err != nil {
					return err
				}
				var to *time.Time
				if end != "" {
					t, err := parseTime(end, loc)
					if err != nil {
						return err
					}
					to = &t
				}

				s, err := e.board.AddSession(m.ID, args[1], from, to)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "added session %s\n", s.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "end time (YYYY-MM-DD HH:MM); omit for an open session")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func newSessionUpdateCmd(a *app) *cobra.Command {
	var member, seatID, start, end string
	var open bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				current, ok := findSession(e.board.Sessions(), args[0])
				if !ok {
					return fmt.Errorf("%s: %w", args[0], ledger.ErrSessionNotFound)
				}

				patch := ledger.Patch{
					MemberID: current.MemberID,
					SeatID:   current.SeatID,
					Start:    current.Start,
					End:      current.End,
				}
				loc := e.board.Calendar().Location()
				if member != "" {
					m, err := e.member(member)
					if err != nil {
						return err
					}
					patch.MemberID = m.ID
				}
				if seatID != "" {
					patch.SeatID = seatID
				}
				if start != "" {
					t, err := parseTime(start, loc)
					if err != nil {
						return err
					}
					patch.Start = t
				}
				if end != "" {
					t, err := parseTime(end, loc)
					if err != nil {
						return err
					}
					patch.End = &t
				}
				if open {
					patch.End = nil
				}

				if err := e.board.UpdateSession(args[0], patch); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "updated session %s\n", args[0])
				return err
			})
		},
	}

	cmd.Flags().StringVar(&member, "member", "", "new member (id or name)")
	cmd.Flags().StringVar(&seatID, "seat", "", "new seat")
	cmd.Flags().StringVar(&start, "start", "", "new start time (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "new end time (YYYY-MM-DD HH:MM)")
	cmd.Flags().BoolVar(&open, "open", false, "clear the end time")
	cmd.MarkFlagsMutuallyExclusive("end", "open")
	return cmd
}

func newSessionRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				if !e.board.RemoveSession(args[0]) {
					return fmt.Errorf("%s: %w", args[0], ledger.ErrSessionNotFound)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "removed session %s\n", args[0])
				return err
			})
		},
	}
}

func findSession(sessions []ledger.Session, id string) (ledger.Session, bool) {
	for _, s := range sessions {
		if s.ID == id {
			return s, true
		}
	}
	return ledger.Session{}, false
}
