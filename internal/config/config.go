package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Backends understood by the backend package.
const (
	BackendPostgREST = "postgrest"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendJSON      = "json"
)

// Env names, first one wins. The later names match what hosted row-store
// dashboards hand out, so an existing .env works unchanged.
var (
	URLVars = []string{"TADA_URL", "SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"}
	KeyVars = []string{"TADA_API_KEY", "SUPABASE_ANON_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"}
)

// ErrMissing is returned by Validate when a required value is absent.
var ErrMissing = errors.New("missing environment variables")

type Config struct {
	Backend  string
	URL      string // endpoint for postgrest, DSN or file path otherwise
	APIKey   string
	Table    string
	LogLevel slog.Level
	LogFile  string
	Theme    string
}

// Load reads an optional .env file from the working directory, then the
// process environment. Variables already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a getenv-style lookup.
func FromEnv(getenv func(string) string) (*Config, error) {
	c := &Config{
		Backend: strings.ToLower(strings.TrimSpace(getenv("TADA_BACKEND"))),
		URL:     first(getenv, URLVars),
		APIKey:  stripBearer(first(getenv, KeyVars)),
		Table:   strings.TrimSpace(getenv("TADA_TABLE")),
		LogFile: strings.TrimSpace(getenv("TADA_LOG_FILE")),
		Theme:   strings.TrimSpace(getenv("TADA_THEME")),
	}
	if c.Backend == "" {
		c.Backend = BackendPostgREST
	}
	switch c.Backend {
	case BackendPostgREST, BackendPostgres, BackendSQLite, BackendJSON:
	default:
		return nil, fmt.Errorf("TADA_BACKEND: unknown backend %q", c.Backend)
	}
	if c.Table == "" {
		c.Table = "todos"
	}

	c.LogLevel = slog.LevelWarn
	if lv := strings.TrimSpace(getenv("TADA_LOG_LEVEL")); lv != "" {
		if err := c.LogLevel.UnmarshalText([]byte(lv)); err != nil {
			return nil, fmt.Errorf("TADA_LOG_LEVEL: %w", err)
		}
	}
	return c, nil
}

// KeyRequired reports whether the backend authenticates with an API key.
func (c *Config) KeyRequired() bool { return c.Backend == BackendPostgREST }

// Missing lists the env names of required values that are empty.
func (c *Config) Missing() []string {
	var out []string
	// the json backend falls back to ./todos.json
	if c.URL == "" && c.Backend != BackendJSON {
		out = append(out, URLVars[0])
	}
	if c.APIKey == "" && c.KeyRequired() {
		out = append(out, KeyVars[0])
	}
	return out
}

// Validate returns an ErrMissing-wrapping error naming what is missing.
func (c *Config) Validate() error {
	if m := c.Missing(); len(m) > 0 {
		return fmt.Errorf("%w: %s", ErrMissing, strings.Join(m, ", "))
	}
	return nil
}

func first(getenv func(string) string, names []string) string {
	for _, n := range names {
		if v := strings.TrimSpace(getenv(n)); v != "" {
			return v
		}
	}
	return ""
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
