package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seat",
		Short: "Show and change seat occupancy",
	}

	cmd.AddCommand(
		newSeatListCmd(a),
		newSeatAssignCmd(a),
		newSeatRandomCmd(a),
		newSeatLeaveCmd(a),
		newSeatAwayCmd(a),
		newSeatMoveCmd(a),
		newSeatResetCmd(a),
	)

	return cmd
}

func newSeatListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List seats and their occupants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				return e.out.FormatSeats(cmd.OutOrStdout(), e.board.Seats(), e.names())
			})
		},
	}
}

func newSeatAssignCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <seat> <member>",
		Short: "Seat a member and start their stay",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				m, err := e.member(args[1])
				if err != nil {
					return err
				}
				assignment, err := e.board.Assign(args[0], m.ID)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if _, err := fmt.Fprintf(w, "%s seated at %s\n", m.Name, assignment.SeatID); err != nil {
					return err
				}
				return writeNotes(w, assignment)
			})
		},
	}
}

func newSeatRandomCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "random <member>",
		Short: "Seat a member at a random empty seat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				m, err := e.member(args[0])
				if err != nil {
					return err
				}
				assignment, err := e.board.AssignRandom(m.ID)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if _, err := fmt.Fprintf(w, "%s seated at %s\n", m.Name, assignment.SeatID); err != nil {
					return err
				}
				return writeNotes(w, assignment)
			})
		},
	}
}

func newSeatLeaveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <seat>",
		Short: "Empty a seat and end the occupant's stay",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				assignment, err := e.board.Leave(args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if _, err := fmt.Fprintf(w, "%s left %s\n", e.names().Of(assignment.MemberID), assignment.SeatID); err != nil {
					return err
				}
				return writeNotes(w, assignment)
			})
		},
	}
}

func newSeatAwayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "away <seat>",
		Short: "Toggle an occupied seat between present and away",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				status, err := e.board.ToggleAway(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", args[0], status)
				return err
			})
		},
	}
}

func newSeatMoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move an occupant to another seat, swapping when it is taken",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				swap, err := e.board.Move(args[0], args[1])
				if err != nil {
					return err
				}
				names := e.names()
				w := cmd.OutOrStdout()
				if _, err := fmt.Fprintf(w, "%s moved %s -> %s\n", names.Of(swap.Mover), swap.From, swap.To); err != nil {
					return err
				}
				if swap.Displaced != "" {
					_, err = fmt.Fprintf(w, "%s moved %s -> %s\n", names.Of(swap.Displaced), swap.To, swap.From)
				}
				return err
			})
		},
	}
}

func newSeatResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "End every stay and empty every seat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				n := e.board.ResetSeats()
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "cleared %d seats\n", n)
				return err
			})
		},
	}
}
