package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clipwright/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration file",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				switch _, err := os.Stat(target); {
				case err == nil:
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				case !errors.Is(err, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			if os.Getenv("SHOTSTACK_KEY") == "" {
				fmt.Fprintln(out, "Next: set render.api_key (or export SHOTSTACK_KEY) to enable rendering.")
			}
			if os.Getenv("OPENROUTER_API_KEY") == "" {
				fmt.Fprintln(out, "Optional: set llm.api_key (or export OPENROUTER_API_KEY) for free-text editing.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

// initTarget resolves --path, falling back to the per-user config location.
func initTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

type configReport struct {
	Path          string `json:"path"`
	FileExists    bool   `json:"fileExists"`
	RenderBaseURL string `json:"renderBaseUrl"`
	RenderKeySet  bool   `json:"renderKeySet"`
	RenderDir     string `json:"renderDir"`
	FreeText      bool   `json:"freeText"`
	APIBind       string `json:"apiBind"`
	APIAuth       bool   `json:"apiAuth"`
	Notifications bool   `json:"notifications"`
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and report what it enables",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			report := configReport{
				Path:          path,
				FileExists:    exists,
				RenderBaseURL: cfg.Render.BaseURL,
				RenderKeySet:  cfg.Render.APIKey != "",
				RenderDir:     cfg.Paths.RenderDir,
				FreeText:      cfg.LLMEnabled(),
				APIBind:       cfg.API.Bind,
				APIAuth:       cfg.API.Token != "",
				Notifications: cfg.Notifications.NtfyTopic != "",
			}
			if asJSON {
				return writeJSON(cmd, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", report.Path)
			if !report.FileExists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintf(out, "Render service: %s\n", report.RenderBaseURL)
			fmt.Fprintf(out, "Render key set: %s\n", yesNo(report.RenderKeySet))
			fmt.Fprintf(out, "Render output: %s\n", report.RenderDir)
			fmt.Fprintf(out, "Free-text resolver: %s\n", yesNo(report.FreeText))
			fmt.Fprintf(out, "API: %s (token %s)\n", report.APIBind, yesNo(report.APIAuth))
			fmt.Fprintf(out, "Notifications: %s\n", yesNo(report.Notifications))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	return cmd
}
