package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/0xmhha/labseat/pkg/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigPathCmd(a),
		newConfigInitCmd(a),
	)

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				_, err = fmt.Fprintln(w, string(data))
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			if _, err := fmt.Fprintf(w, "# Source: %s\n\n", a.configSource()); err != nil {
				return err
			}
			_, err = w.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	return cmd
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(w, "Configuration file search paths (in order of precedence):"); err != nil {
				return err
			}

			paths := []string{"./labseat.yaml", config.DefaultConfigPath()}
			if a.configPath != "" {
				paths = []string{a.configPath}
			}
			for i, p := range paths {
				state := "not found"
				if _, err := os.Stat(p); err == nil {
					state = "found"
				}
				if _, err := fmt.Fprintf(w, "  %d. %s [%s]\n", i+1, p, state); err != nil {
					return err
				}
			}

			_, err := fmt.Fprintf(w, "Active configuration: %s\n", a.configSource())
			return err
		},
	}
}

func newConfigInitCmd(a *app) *cobra.Command {
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := output
			if path == "" {
				path = a.configPath
			}
			if path == "" {
				path = config.DefaultConfigPath()
			}

			w := cmd.OutOrStdout()
			if _, err := os.Stat(path); err == nil && !force {
				if _, err := fmt.Fprintf(w, "Configuration file already exists at: %s\nOverwrite? [y/N]: ", path); err != nil {
					return err
				}
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.ToLower(strings.TrimSpace(answer))
				if answer != "y" && answer != "yes" {
					_, err := fmt.Fprintln(w, "Init cancelled.")
					return err
				}
			}

			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(w, "Configuration written to: %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default ~/.config/labseat/config.yaml)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite without asking")
	return cmd
}

// configSource names the file the configuration was read from.
func (a *app) configSource() string {
	path := config.NewLoader(a.configPath).Path()
	if path == "" {
		return "defaults (no config file found)"
	}
	return path
}
