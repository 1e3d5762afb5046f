package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/0xmhha/year-in-code/pkg/config"
)

// redacted replaces secrets in displayed configuration.
const redacted = "********"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	cmd.AddCommand(
		newConfigShowCmd(a),
		newConfigPathCmd(a),
		newConfigResetCmd(a),
	)
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, _, err := a.load()
			if err != nil {
				return err
			}

			shown := *cfg
			if shown.GitHub.Token != "" {
				shown.GitHub.Token = redacted
			}

			switch format {
			case "json":
				data, err := json.MarshalIndent(shown, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				fmt.Fprintln(a.stdout, string(data))
			case "yaml", "":
				data, err := yaml.Marshal(&shown)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				fmt.Fprintf(a.stdout, "# Source: %s\n\n%s", a.configSource(), data)
			default:
				return fmt.Errorf("unknown format %q: must be yaml or json", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	return cmd
}

func newConfigPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(a.stdout, "Configuration file search paths (in order of precedence):")
			fmt.Fprintln(a.stdout)
			for i, p := range a.searchPaths() {
				state := "not found"
				if _, err := os.Stat(p); err == nil {
					state = "found"
				}
				fmt.Fprintf(a.stdout, "  %d. %s [%s]\n", i+1, p, state)
			}
			fmt.Fprintln(a.stdout)
			fmt.Fprintln(a.stdout, "Active configuration:", a.configSource())
		},
	}
}

func newConfigResetCmd(a *app) *cobra.Command {
	var (
		force  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := output
			if path == "" {
				path = config.DefaultConfigPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				fmt.Fprintf(a.stdout, "Configuration file already exists at: %s\n", path)
				fmt.Fprint(a.stdout, "Overwrite? [y/N]: ")

				response, _ := bufio.NewReader(a.stdin).ReadString('\n')
				response = strings.ToLower(strings.TrimSpace(response))
				if response != "y" && response != "yes" {
					fmt.Fprintln(a.stdout, "Reset cancelled.")
					return nil
				}
			}

			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Configuration reset to defaults at: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompt")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: ~/.config/year-in-code/config.yaml)")
	return cmd
}

// searchPaths mirrors the loader's lookup order.
func (a *app) searchPaths() []string {
	var paths []string
	if a.configPath != "" {
		paths = append(paths, a.configPath)
	}
	if env := os.Getenv("YEARINCODE_CONFIG"); env != "" {
		paths = append(paths, env)
	}
	return append(paths, "./config.yaml", config.DefaultConfigPath())
}

// configSource returns the path of the active configuration file.
func (a *app) configSource() string {
	if a.configPath != "" {
		return a.configPath
	}
	for _, p := range a.searchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return "defaults (no config file found)"
}
