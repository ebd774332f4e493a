package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// envPrefix namespaces every variable, e.g. KEDQR_LOG_LEVEL
const envPrefix = "KEDQR"

// Config contains presentation and logging settings for the application.
// Per-run inputs (key file, PIN, output path) come from flags, not from here.
type Config struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"console"`
	ModuleSize     int    `envconfig:"MODULE_SIZE" default:"8"`
	InvertTerminal bool   `envconfig:"INVERT_TERMINAL" default:"false"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if c.ModuleSize < 1 {
		return fmt.Errorf("%s_MODULE_SIZE must be positive, got %d", envPrefix, c.ModuleSize)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%s_LOG_FORMAT must be console or json, got %q", envPrefix, c.LogFormat)
	}
	cfg = c
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetLogLevel returns zap level name from configuration
func GetLogLevel() string {
	return Get().LogLevel
}

// GetLogFormat returns log encoding (console or json) from configuration
func GetLogFormat() string {
	return Get().LogFormat
}

// GetModuleSize returns pixels per QR module from configuration
func GetModuleSize() int {
	return Get().ModuleSize
}

// GetInvertTerminal reports whether terminal output should swap colors
func GetInvertTerminal() bool {
	return Get().InvertTerminal
}

// Usage writes the supported environment variables to w
func Usage(w io.Writer) error {
	return envconfig.Usagef(envPrefix, &Config{}, w, envUsageFormat)
}

const envUsageFormat = `Environment:
{{range .}}  {{usage_key .}}	{{usage_type .}}	(default {{usage_default .}})
{{end}}`

// PromptForPIN asks for the PIN in the terminal without echoing it.
// Used when --pin is not given, so the PIN stays out of shell history.
func PromptForPIN() (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("stdin is not a terminal: pass --pin or run interactively to enter it")
	}
	fmt.Fprint(os.Stderr, "Enter PIN: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read PIN: %w", err)
	}
	defer clear(raw)

	return string(raw), nil
}
