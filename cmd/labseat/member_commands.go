package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMemberCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage the member roster",
	}

	cmd.AddCommand(
		newMemberListCmd(a),
		newMemberAddCmd(a),
		newMemberRemoveCmd(a),
	)

	return cmd
}

func newMemberListCmd(a *app) *cobra.Command {
	var available bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				members := e.board.Members()
				if available {
					members = e.board.AvailableMembers()
				}
				return e.out.FormatMembers(cmd.OutOrStdout(), members)
			})
		},
	}

	cmd.Flags().BoolVar(&available, "available", false, "only members without a seat")
	return cmd
}

func newMemberAddCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				m, err := e.board.AddMember(args[0], category)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %s [%s] %s\n", m.Name, m.Category, m.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "Other", "member category (Staff, D, M, B, Other)")
	return cmd
}

func newMemberRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <member>",
		Short: "Remove a member, ending their stay and freeing their seat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBoard(cmd, func(e *env) error {
				m, err := e.member(args[0])
				if err != nil {
					return err
				}
				if err := e.board.RemoveMember(m.ID); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", m.Name)
				return err
			})
		},
	}
}
