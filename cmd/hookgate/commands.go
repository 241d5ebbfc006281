// Package main provides the CLI command definitions for hookgate.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/hookgate/internal/buildinfo"
	"github.com/chmouel/hookgate/internal/config"
	"github.com/chmouel/hookgate/internal/gate"
	"github.com/chmouel/hookgate/internal/git"
	"github.com/chmouel/hookgate/internal/hooks"
	"github.com/chmouel/hookgate/internal/log"
	runpkg "github.com/chmouel/hookgate/internal/run"
	"github.com/chmouel/hookgate/internal/ui"
	"github.com/chmouel/hookgate/internal/watch"
)

// exitError carries a process exit code through urfave/cli's error path.
// Hooks answer with exit codes the host interprets (0 allow, 2 block,
// 1 hook error), so the code must survive to main unaltered.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := rootCommand(stdin, stdout, stderr)
	err := root.Run(ctx, args)
	_ = log.Close()
	if err == nil {
		return 0
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "%v\n", err)
	return 1
}

func rootCommand(stdin io.Reader, stdout, stderr io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "hookgate",
		Usage:     "Pre-commit coverage gate and agent-host hooks",
		Version:   buildinfo.Version(),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Commands: []*urfavecli.Command{
			gateCommand(stdout, stderr),
			hookCommand(stdin, stdout, stderr),
			watchCommand(stdout, stderr),
			versionCommand(stdout),
		},
	}
}

func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringFlag{
			Name:    "project-dir",
			Aliases: []string{"p"},
			Usage:   "Repository root (defaults to the working directory)",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
	}
}

// session is the per-invocation state shared by all subcommands.
type session struct {
	cfg        *config.Config
	projectDir string
	printer    *ui.Printer
}

// newSession resolves the project directory, loads configuration and wires
// up logging and output styling. fallbackDir, when non-empty, is used
// before the working directory; hooks pass the payload's cwd here.
func newSession(cmd *urfavecli.Command, stdout, stderr io.Writer, fallbackDir string) (*session, error) {
	projectDir := cmd.String("project-dir")
	if projectDir == "" {
		projectDir = fallbackDir
	}
	if projectDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		projectDir = wd
	}

	cfg, err := config.LoadConfig(cmd.String("config-file"), projectDir)
	if err != nil {
		return nil, err
	}

	debugLog := cmd.String("debug-log")
	if debugLog == "" {
		debugLog = cfg.DebugLog
	}
	if err := log.SetFile(debugLog); err != nil {
		fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", debugLog, err)
	}

	color := !cmd.Bool("no-color") && ui.IsTerminal(stderr)
	return &session{
		cfg:        cfg,
		projectDir: projectDir,
		printer:    ui.NewPrinter(stdout, stderr, color),
	}, nil
}

func gateCommand(stdout, stderr io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "gate",
		Usage: "Check staged files for barrels and test coverage",
		Flags: []urfavecli.Flag{
			&urfavecli.BoolFlag{
				Name:  "barrel-only",
				Usage: "Stop after the barrel check, skipping coverage",
			},
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			sess, err := newSession(cmd, stdout, stderr, "")
			if err != nil {
				return err
			}

			g := &gate.Gate{
				Cfg:     sess.cfg,
				Git:     git.NewService(&runpkg.Exec{}),
				Exec:    &runpkg.Exec{},
				Printer: sess.printer,
			}
			code := g.Run(ctx, gate.Options{
				ProjectDir: sess.projectDir,
				BarrelOnly: cmd.Bool("barrel-only"),
			})
			if code != gate.ExitSuccess {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

func hookCommand(stdin io.Reader, stdout, stderr io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "hook",
		Usage:     "Run one agent-host hook, reading its JSON payload from stdin",
		ArgsUsage: "<name>",
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				listHooks(stderr)
				return &exitError{code: 1}
			}
			h, ok := hooks.Lookup(name)
			if !ok {
				fmt.Fprintf(stderr, "Unknown hook %q.\n\n", name)
				listHooks(stderr)
				return &exitError{code: 1}
			}

			payload, err := hooks.Decode(stdin)
			if err != nil {
				// Advisory hooks swallow bad input; a policy hook that
				// cannot see the tool call must not silently allow it.
				if h.StrictInput {
					fmt.Fprintf(stderr, "Hook %s: %v\n", name, err)
					return &exitError{code: hooks.Fail.ExitCode()}
				}
				return nil
			}

			sess, err := newSession(cmd, stdout, stderr, payload.Cwd)
			if err != nil {
				return err
			}

			decision := h.Run(ctx, &hooks.Env{
				Cfg:        sess.cfg,
				Payload:    payload,
				ProjectDir: sess.projectDir,
				Git:        git.NewService(&runpkg.Exec{}),
				Exec:       &runpkg.Exec{},
				Printer:    sess.printer,
				Stdout:     stdout,
			})
			if code := decision.ExitCode(); code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}
}

func listHooks(w io.Writer) {
	fmt.Fprintln(w, "Available hooks:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, h := range hooks.All() {
		fmt.Fprintf(tw, "  %s\t%s\n", h.Name, h.Usage)
	}
	_ = tw.Flush()
}

func watchCommand(stdout, stderr io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "watch",
		Usage: "Watch the source tree and warn about barrel files as they are written",
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			sess, err := newSession(cmd, stdout, stderr, "")
			if err != nil {
				return err
			}

			svc, err := watch.New(sess.cfg, sess.projectDir, sess.printer)
			if err != nil {
				return err
			}
			if err := svc.Start(); err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}
			sess.printer.Infof("Watching %s for barrel files. Press Ctrl-C to stop.", sess.projectDir)

			<-ctx.Done()
			svc.Stop()
			return nil
		},
	}
}

func versionCommand(stdout io.Writer) *urfavecli.Command {
	return &urfavecli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(_ context.Context, _ *urfavecli.Command) error {
			buildinfo.Enrich()
			fmt.Fprintln(stdout, buildinfo.Short())
			return nil
		},
	}
}
