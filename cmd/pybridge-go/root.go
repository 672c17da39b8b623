package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/pybridge/pybridge-go/pkg/pybridge"
)

// options are the persistent flags shared by every command.
type options struct {
	configFile  string
	verbose     bool
	searchPaths []string
}

// exitError carries a process exit code through cobra's RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "pybridge-go",
		Short: "Run Python code in an embedded interpreter",
		Long: titleStyle.Render("pybridge-go") + subtitleStyle.Render(" - an embedded Python interpreter driven from Go") + `

Expressions and scripts run inside the interpreter linked into this binary.
Scripts can log through the Go logger with golog(message).

` + subtitleStyle.Render("Examples:") + `
  pybridge-go eval "2 ** 10"
  pybridge-go eval --json "{'a': [1, 2.5]}"
  pybridge-go exec script.py
  pybridge-go config schema`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging and full tracebacks")
	root.PersistentFlags().StringSliceVar(&opts.searchPaths, "search-path", nil, "directory appended to sys.path (repeatable)")

	root.AddCommand(newVersionCommand())
	root.AddCommand(newEvalCommand(opts))
	root.AddCommand(newExecCommand(opts))
	root.AddCommand(newConfigCommand(opts))
	return root
}

func execute(ctx context.Context, args []string) error {
	root := newRootCommand()
	root.SetArgs(args)
	return fang.Execute(
		ctx,
		root,
		fang.WithVersion(pybridge.WrapperVersion()),
		fang.WithNotifySignal(os.Interrupt),
	)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show wrapper and interpreter versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			interp := pybridge.InterpreterVersion()
			if interp == "" {
				interp = subtitleStyle.Render("(not built)")
			} else {
				interp = valueStyle.Render(interp)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("pybridge-go"), valueStyle.Render(pybridge.WrapperVersion()))
			fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("python"), interp)
			return nil
		},
	}
}
