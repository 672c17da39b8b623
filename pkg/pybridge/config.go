package pybridge

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pybridge/pybridge-go/internal/bindings"
	"github.com/pybridge/pybridge-go/pkg/pybridge/logging"
)

var validate = newValidator()

// newValidator adds "nonul", which rejects strings the C API would cut
// short at a NUL byte.
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nonul", func(fl validator.FieldLevel) bool {
		return !strings.ContainsRune(fl.Field().String(), 0)
	})
	return v
}

// Config controls how the embedded interpreter starts.
type Config struct {
	// ProgramName is reported as sys.executable's base name. Empty keeps the
	// interpreter default.
	ProgramName string `mapstructure:"program_name" json:"program_name,omitempty" jsonschema:"description=Program name reported to the interpreter" validate:"omitempty,max=255,nonul"`

	// Home overrides PYTHONHOME.
	Home string `mapstructure:"home" json:"home,omitempty" jsonschema:"description=Interpreter prefix directory" validate:"omitempty,nonul,dir"`

	// SearchPaths are appended to sys.path once the interpreter is up.
	SearchPaths []string `mapstructure:"search_paths" json:"search_paths,omitempty" jsonschema:"description=Directories appended to sys.path" validate:"dive,required,nonul"`

	// Isolated ignores the user site directory and PYTHON* environment
	// variables.
	Isolated bool `mapstructure:"isolated" json:"isolated" jsonschema:"description=Run the interpreter in isolated mode"`

	// UseEnvironment honours PYTHON* environment variables. It cannot be
	// combined with Isolated.
	UseEnvironment bool `mapstructure:"use_environment" json:"use_environment" jsonschema:"description=Read PYTHON* environment variables" validate:"excluded_with=Isolated"`

	// InstallSignalHandlers lets the interpreter install its own signal
	// handlers. They compete with the Go runtime's, so it is off by default.
	InstallSignalHandlers bool `mapstructure:"install_signal_handlers" json:"install_signal_handlers" jsonschema:"description=Let the interpreter install signal handlers"`

	// Logger receives runtime events. nil binds to slog.Default().
	Logger logging.Logger `mapstructure:"-" json:"-" validate:"-"`
}

// DefaultConfig returns an isolated configuration without signal handlers.
func DefaultConfig() Config {
	return Config{
		ProgramName: "pybridge",
		Isolated:    true,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) toBindings() bindings.Config {
	return bindings.Config{
		Isolated:              c.Isolated,
		UseEnvironment:        c.UseEnvironment,
		InstallSignalHandlers: c.InstallSignalHandlers,
		ProgramName:           c.ProgramName,
		Home:                  c.Home,
		SearchPaths:           append([]string(nil), c.SearchPaths...),
	}
}

func (c Config) logger() logging.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logging.New(nil)
}
