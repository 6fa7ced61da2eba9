package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board as a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBoard(cmd, func(e *env) error {
				raw, err := e.board.Export()
				if err != nil {
					return fmt.Errorf("failed to export board: %w", err)
				}

				if output == "" || output == "-" {
					_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
					return err
				}
				if err := os.WriteFile(output, raw, 0600); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", output)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the board with an exported JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0]) // nolint:gosec
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}

			return a.withBoard(cmd, func(e *env) error {
				res := e.board.Import(raw)
				if !res.Success {
					return errors.New(res.Message)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), res.Message)
				return err
			})
		},
	}
}

func newTickCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Apply a due week rollover or nightly reset now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, false, func(e *env) error {
				out := e.board.Tick(e.board.Now())
				w := cmd.OutOrStdout()
				if !out.Changed() {
					_, err := fmt.Fprintln(w, "nothing to do")
					return err
				}
				if out.Decision.Rollover {
					if _, err := fmt.Fprintf(w, "rolled over to week %s: closed %d, reopened %d\n",
						out.Decision.Week, out.Closed, out.Reopened); err != nil {
						return err
					}
				}
				if out.Decision.Reset {
					if _, err := fmt.Fprintf(w, "nightly reset for %s: cleared %d seats\n", out.Decision.ResetDate, out.Cleared); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
