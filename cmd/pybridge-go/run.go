package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pybridge/pybridge-go/pkg/pybridge"
	"github.com/pybridge/pybridge-go/pkg/pybridge/logging"
)

// newLogger returns a charmbracelet logger used as the slog handler.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := charmlog.InfoLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Prefix:          "pybridge",
		Level:           level,
		ReportTimestamp: verbose,
	})
	return slog.New(handler)
}

// session is a started runtime with the CLI's host functions bound into
// __main__.
type session struct {
	rt   *pybridge.Runtime
	main *pybridge.Object
	log  logging.Logger
}

func startSession(cmd *cobra.Command, opts *options) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	log := logging.New(newLogger(cmd.ErrOrStderr(), opts.verbose))
	cfg.Logger = log

	hosts := pybridge.NewHostRegistry()
	rt, err := pybridge.Init(cmd.Context(), cfg, hosts)
	if err != nil {
		return nil, err
	}
	s := &session{rt: rt, log: log}
	if err := s.bind(cmd.Context(), hosts); err != nil {
		_ = rt.Close()
		return nil, err
	}
	return s, nil
}

// bind exposes golog(message, *values) to scripts.
func (s *session) bind(ctx context.Context, hosts *pybridge.HostRegistry) error {
	main, err := s.rt.MainDict()
	if err != nil {
		return err
	}
	if s.main, err = main.Own(); err != nil {
		return err
	}

	golog, err := hosts.Expose(s.rt, pybridge.CallableFunc(func(args pybridge.Borrowed) (*pybridge.Object, error) {
		n := args.Len()
		if n == 0 {
			return nil, fmt.Errorf("%w: golog takes a message", pybridge.ErrArgumentShape)
		}
		msg, err := args.Item(0)
		if err != nil {
			return nil, err
		}
		fields := make([]any, 0, 2*(n-1))
		for i := 1; i < n; i++ {
			item, err := args.Item(i)
			if err != nil {
				return nil, err
			}
			fields = append(fields, fmt.Sprintf("arg%d", i), item.String())
		}
		s.log.Info(ctx, msg.String(), fields...)
		return nil, nil
	}))
	if err != nil {
		return err
	}
	defer golog.Close()

	key, err := s.rt.Str("golog")
	if err != nil {
		return err
	}
	defer key.Close()
	return s.main.SetItem(key, golog)
}

func (s *session) close() error {
	if s.main != nil {
		_ = s.main.Close()
	}
	return s.rt.Close()
}

// report prints the traceback of an interpreter exception and turns it into
// exit code 1.
func report(cmd *cobra.Command, opts *options, err error) error {
	var pe *pybridge.Error
	if !errors.As(err, &pe) {
		return err
	}
	defer pe.Close()
	if opts.verbose && pe.Traceback != "" {
		fmt.Fprint(cmd.ErrOrStderr(), subtitleStyle.Render(pe.Traceback))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(pe.TypeName+":")+" "+pe.Message)
	return &exitError{code: 1, err: err}
}

func newEvalCommand(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an expression and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := startSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			res, err := s.rt.Eval(args[0], s.main)
			if err != nil {
				return report(cmd, opts, err)
			}
			defer res.Close()

			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), res.Repr())
				return nil
			}
			native, err := s.rt.FromObject(res)
			if err != nil {
				return err
			}
			out, err := json.Marshal(jsonable(native))
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

// jsonable replaces objects without a Go form by their repr.
func jsonable(v any) any {
	switch t := v.(type) {
	case *pybridge.Object:
		defer t.Close()
		return t.Repr()
	case []any:
		for i, item := range t {
			t[i] = jsonable(item)
		}
	case map[string]any:
		for k, item := range t {
			t[k] = jsonable(item)
		}
	}
	return v
}

func newExecCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <file|->",
		Short: "Run a Python script; - reads it from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := readScript(cmd, args[0])
			if err != nil {
				return err
			}
			s, err := startSession(cmd, opts)
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.rt.Exec(code, s.main); err != nil {
				return report(cmd, opts, err)
			}
			return nil
		},
	}
}

func readScript(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}
