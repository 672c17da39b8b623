package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	schemavalidator "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pybridge/pybridge-go/pkg/pybridge"
)

const envPrefix = "PYBRIDGE"

// loadConfig merges defaults, the config file, PYBRIDGE_* variables and the
// --search-path flag, in increasing priority, and validates the result.
func loadConfig(opts *options) (pybridge.Config, error) {
	v := viper.New()

	defaults := pybridge.DefaultConfig()
	v.SetDefault("program_name", defaults.ProgramName)
	v.SetDefault("home", defaults.Home)
	v.SetDefault("search_paths", []string{})
	v.SetDefault("isolated", defaults.Isolated)
	v.SetDefault("use_environment", defaults.UseEnvironment)
	v.SetDefault("install_signal_handlers", defaults.InstallSignalHandlers)

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
		if err := v.ReadInConfig(); err != nil {
			return pybridge.Config{}, fmt.Errorf("read config %s: %w", opts.configFile, err)
		}
	}

	var cfg pybridge.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return pybridge.Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.SearchPaths = append(cfg.SearchPaths, opts.searchPaths...)
	if err := cfg.Validate(); err != nil {
		return pybridge.Config{}, err
	}
	return cfg, nil
}

// configSchema returns the JSON schema of a config file.
func configSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		Anonymous:                  true,
		ExpandedStruct:             true,
		RequiredFromJSONSchemaTags: true,
	}
	schema := reflector.Reflect(&pybridge.Config{})

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return out, nil
}

// validateConfigFile checks a config file against configSchema. Unlike
// loadConfig it rejects unknown keys and mistyped values.
func validateConfigFile(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	// Round trip through JSON so the document has the types the validator
	// expects, whatever the file format.
	raw, err := json.Marshal(v.AllSettings())
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	schema, err := configSchema()
	if err != nil {
		return err
	}
	compiler := schemavalidator.NewCompiler()
	if err := compiler.AddResource("config.json", bytes.NewReader(schema)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	sch, err := compiler.Compile("config.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s: %v", pybridge.ErrInvalidConfig, path, err)
	}

	var cfg pybridge.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return cfg.Validate()
}

func newConfigCommand(opts *options) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect pybridge configuration",
		Long: `Inspect pybridge configuration.

Settings come from, in increasing priority: built-in defaults, the file
given with --config, PYBRIDGE_<KEY> environment variables (for example
PYBRIDGE_PROGRAM_NAME) and command line flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			showConfig(cmd, opts, cfg)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := configSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check a config file against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfigFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", valueStyle.Render("valid:"), args[0])
			return nil
		},
	})

	return cfgCmd
}

func showConfig(cmd *cobra.Command, opts *options, cfg pybridge.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	source := subtitleStyle.Render("(using defaults)")
	if opts.configFile != "" {
		source = opts.configFile
	}
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), source)
	fmt.Fprintln(out)

	home := cfg.Home
	if home == "" {
		home = subtitleStyle.Render("(interpreter default)")
	}
	paths := subtitleStyle.Render("(none)")
	if len(cfg.SearchPaths) > 0 {
		paths = valueStyle.Render(strings.Join(cfg.SearchPaths, ", "))
	}
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("program_name"), valueStyle.Render(cfg.ProgramName))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("home"), home)
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("search_paths"), paths)
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("isolated"), valueStyle.Render(fmt.Sprint(cfg.Isolated)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("use_environment"), valueStyle.Render(fmt.Sprint(cfg.UseEnvironment)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("install_signal_handlers"), valueStyle.Render(fmt.Sprint(cfg.InstallSignalHandlers)))
}
