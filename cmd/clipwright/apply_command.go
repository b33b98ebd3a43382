package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clipwright/internal/resolver"
	"clipwright/internal/router"
	"clipwright/internal/session"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var (
		file      string
		name      string
		withRend  bool
		printEdit bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Run an instruction file against a fresh project",
		Long: `Run instructions of the form "domain command(args)" against a new project.
One instruction per line; blank lines and lines starting with # are ignored.
Reads standard input when --file is not given.`,
		Example: `  clipwright apply -f intro.txt --render
  echo 'text add_text(Hello, 0.0, 3.0)' | clipwright apply --edit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInstructions(cmd, file)
			if err != nil {
				return err
			}
			plan, err := resolver.ParseLines(text)
			if err != nil {
				return err
			}
			if withRend {
				plan.Steps = append(plan.Steps, router.Instruction{Command: router.RenderCommand})
			}
			if plan.Empty() {
				return errors.New("no instructions to apply")
			}

			s, cleanup, err := ctx.newSession(name)
			if err != nil {
				return err
			}
			defer cleanup()

			report, runErr := s.Execute(cmd.Context(), plan)
			if asJSON {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printReport(cmd.OutOrStdout(), report)
			}
			if runErr != nil {
				return runErr
			}
			if printEdit {
				if err := writeJSON(cmd, s.Edit()); err != nil {
					return err
				}
			}
			if report.Render != nil {
				return report.Render.Err()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Instruction file (default: stdin)")
	cmd.Flags().StringVarP(&name, "name", "n", session.DefaultName, "Project name, also the rendered file name")
	cmd.Flags().BoolVar(&withRend, "render", false, "Render the project after the last instruction")
	cmd.Flags().BoolVar(&printEdit, "edit", false, "Print the render request body after applying")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the execution report as JSON")
	return cmd
}

func readInstructions(cmd *cobra.Command, file string) (string, error) {
	var reader io.Reader = cmd.InOrStdin()
	if path := strings.TrimSpace(file); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", fmt.Errorf("open instruction file: %w", err)
		}
		defer f.Close()
		reader = f
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read instructions: %w", err)
	}
	return string(data), nil
}

func printReport(out io.Writer, report session.Report) {
	if reply := strings.TrimSpace(report.Reply); reply != "" {
		fmt.Fprintln(out, reply)
	}
	if len(report.Steps) > 0 {
		rows := make([][]string, 0, len(report.Steps))
		for i, step := range report.Steps {
			rows = append(rows, []string{
				fmt.Sprintf("%d", i+1),
				step.Instruction,
				string(step.Result.Outcome),
				step.Result.Message,
			})
		}
		fmt.Fprint(out, renderTable([]string{"#", "Instruction", "Outcome", "Message"}, rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft}))
	}
	if r := report.Render; r != nil {
		fmt.Fprintf(out, "Render %s", r.State)
		if r.RemoteID != "" {
			fmt.Fprintf(out, " (id %s, %d polls)", r.RemoteID, r.Polls)
		}
		fmt.Fprintln(out)
		if r.URL != "" {
			fmt.Fprintf(out, "  url:  %s\n", r.URL)
		}
		if r.ArtifactPath != "" {
			fmt.Fprintf(out, "  file: %s\n", r.ArtifactPath)
		}
		if r.Error != "" {
			fmt.Fprintf(out, "  error: %s\n", r.Error)
		}
	}
}

func newSessionCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Edit a project interactively",
		Long: `Start an interactive editing session. Each line is either a direct
instruction ("text change_text_color(Hello, #ff0000)"), "render", or free text
when a chat model is configured. Type "edit" to print the render request,
"help" for the command catalog, and "quit" to leave.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := ctx.newSession(name)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			fmt.Fprintf(out, "Session %s (%s). Type \"quit\" to exit.\n", s.Name(), s.ID())
			for {
				fmt.Fprint(out, "> ")
				if !scanner.Scan() {
					fmt.Fprintln(out)
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch strings.ToLower(line) {
				case "":
					continue
				case "quit", "exit":
					return nil
				case "help":
					printCatalog(out, router.Domains())
					continue
				case "edit":
					if err := writeJSON(cmd, s.Edit()); err != nil {
						return err
					}
					continue
				}
				report, err := s.Utter(cmd.Context(), line)
				printReport(out, report)
				if err != nil {
					if errors.Is(err, resolver.ErrNoResolver) {
						fmt.Fprintln(out, "error: free text needs a chat model (set OPENROUTER_API_KEY); use \"domain command(args)\" instead")
						continue
					}
					fmt.Fprintf(out, "error: %v\n", err)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", session.DefaultName, "Project name, also the rendered file name")
	return cmd
}
