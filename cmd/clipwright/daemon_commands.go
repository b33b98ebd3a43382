package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"clipwright/internal/daemonctl"
	"clipwright/internal/daemonrun"
	"clipwright/internal/jobs"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var development bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{
				LogLevel:    logLevel,
				Development: development,
				Version:     version,
			})
		},
	}
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override logging.level")
	cmd.Flags().BoolVar(&development, "dev", false, "Include source locations in logs")
	return cmd
}

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the clipwright daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonExecutable()
			if err != nil {
				return err
			}
			result, err := daemonctl.EnsureStarted(cmd.Context(), ctx.configValue(), exe,
				daemonctl.LaunchOptions{ConfigPath: ctx.configPath()}, 10*time.Second)
			if err != nil {
				return err
			}
			if result.Launched {
				fmt.Fprintln(stdout, "Daemon not running, launching...")
			}
			switch result.State {
			case daemonctl.StartStateStarted:
				fmt.Fprintf(stdout, "Daemon started on %s\n", daemonctl.BaseURL(ctx.configValue()))
			case daemonctl.StartStateAlreadyRunning:
				fmt.Fprintln(stdout, "Daemon already running")
			}
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the clipwright daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.StopAndTerminate(ctx.configValue(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.ForcedKill {
				fmt.Fprintf(stdout, "Daemon did not exit in time; killed pid %d\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and render history status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			printSection(stdout, "Daemon", colorize)
			running, err := daemonctl.Running(cfg)
			switch {
			case err != nil:
				fmt.Fprintln(stdout, renderStatusLine("Process", statusError, err.Error(), colorize))
			case !running:
				fmt.Fprintln(stdout, renderStatusLine("Process", statusWarn, "not running", colorize))
			default:
				detail := "running"
				if pid := daemonrun.ReadPID(cfg); pid > 0 {
					detail = "running (pid " + strconv.Itoa(pid) + ")"
				}
				fmt.Fprintln(stdout, renderStatusLine("Process", statusOK, detail, colorize))
				health, err := daemonctl.Health(cmd.Context(), cfg)
				if err != nil {
					fmt.Fprintln(stdout, renderStatusLine("API", statusError, err.Error(), colorize))
				} else {
					fmt.Fprintln(stdout, renderStatusLine("API", statusOK,
						fmt.Sprintf("%s (version %s, %d sessions, up %ds)", daemonctl.BaseURL(cfg), health.Version, health.Sessions, health.UptimeS),
						colorize))
				}
			}
			fmt.Fprintln(stdout, renderStatusLine("Render key", boolKind(cfg.Render.APIKey != ""), yesNo(cfg.Render.APIKey != ""), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Free-text resolver", boolKind(cfg.LLMEnabled()), yesNo(cfg.LLMEnabled()), colorize))
			fmt.Fprintln(stdout)

			printSection(stdout, "Render History", colorize)
			store, err := jobs.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			summary, err := store.Summary(cmd.Context())
			if err != nil {
				return err
			}
			if summary.Total == 0 {
				fmt.Fprintln(stdout, "No renders recorded")
				return nil
			}
			rows := [][]string{
				{"Active", strconv.Itoa(summary.Active)},
				{"Done", strconv.Itoa(summary.Done)},
				{"Failed", strconv.Itoa(summary.Failed)},
				{"Cancelled", strconv.Itoa(summary.Cancelled)},
				{"Total", strconv.Itoa(summary.Total)},
			}
			fmt.Fprint(stdout, renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func boolKind(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusWarn
}

func daemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	return exe, nil
}
