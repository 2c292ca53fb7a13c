package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/timeclock/internal/model"
)

// Config is the root configuration for tc, stored in <data dir>/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// DefaultWorkdayHours applies until a workday length is set with `tc workday`.
	DefaultWorkdayHours float64 `json:"default_workday_hours"`
	// RefreshInterval is how often watch and the live feed recompute metrics.
	RefreshInterval Duration `json:"refresh_interval"`
	// ListenAddr is the address `tc serve` binds to.
	ListenAddr string `json:"listen_addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
	// LogFile, when set, receives a copy of every log line.
	LogFile string `json:"log_file"`
}

const (
	// DefaultRefreshInterval matches the progress bar refresh of the web app.
	DefaultRefreshInterval = 5 * time.Minute
	// DefaultListenAddr keeps the API on the loopback interface.
	DefaultListenAddr = "127.0.0.1:8765"
	// DefaultLogLevel is the slog level name used when none is configured.
	DefaultLogLevel = "info"
)

// Duration is a time.Duration written as a Go duration string ("5m").
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5m\": %w", err)
	}
	if s == "" {
		*d = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		DefaultWorkdayHours: model.DefaultWorkdayHours,
		RefreshInterval:     Duration(DefaultRefreshInterval),
		ListenAddr:          DefaultListenAddr,
		LogLevel:            DefaultLogLevel,
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// tc configuration
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Edit this file to customise tc behaviour.
{
  // Workday length in hours used until one is saved with: tc workday <hh:mm>
  // 7.2 hours is 7h12m.
  "default_workday_hours": 7.2,

  // How often "tc watch" and the live websocket feed recompute your totals
  // while you are clocked in. Go duration syntax: "30s", "5m", "1h".
  "refresh_interval": "5m",

  // Address for the HTTP API started with: tc serve
  "listen_addr": "127.0.0.1:8765",

  // Log verbosity: debug, info, warn or error.
  "log_level": "info",

  // Optional file that receives a copy of every log line. Empty = stderr only.
  "log_file": ""
}
`

// FilePath returns the path to the config file inside base.
func FilePath(base string) string {
	return filepath.Join(base, "config.json")
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads <base>/config.json, creating it with annotated defaults on first
// run. Lines starting with // are treated as comments and stripped before
// JSON parsing.
func Load(base string) (Config, error) {
	path := FilePath(base)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.DefaultWorkdayHours <= 0 {
		cfg.DefaultWorkdayHours = model.DefaultWorkdayHours
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = Duration(DefaultRefreshInterval)
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
