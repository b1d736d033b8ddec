package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ACCOMPLISH_"

// Config defines server configuration.
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	DB     DBConfig     `yaml:"db" toml:"db"`
	Log    LogConfig    `yaml:"log" toml:"log"`
	Auth   AuthConfig   `yaml:"auth" toml:"auth"`
	Import ImportConfig `yaml:"import" toml:"import"`
	Export ExportConfig `yaml:"export" toml:"export"`
	MCP    MCPConfig    `yaml:"mcp" toml:"mcp"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port"`
	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins []string `yaml:"cors_origins" toml:"cors_origins"`
}

type DBConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver" toml:"driver"`
	// Path is the sqlite file or the postgres connection string.
	Path string `yaml:"path" toml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	// File, when set, receives logs instead of stderr.
	File string `yaml:"file" toml:"file"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

type ImportConfig struct {
	StrictNumbers   bool  `yaml:"strict_numbers" toml:"strict_numbers"`
	SkipLeadingRows int   `yaml:"skip_leading_rows" toml:"skip_leading_rows"`
	MaxUploadBytes  int64 `yaml:"max_upload_bytes" toml:"max_upload_bytes"`
}

type ExportConfig struct {
	Title       string `yaml:"title" toml:"title"`
	DefaultSort string `yaml:"default_sort" toml:"default_sort"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Driver: "sqlite",
			Path:   "accomplish.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Import: ImportConfig{
			MaxUploadBytes: 10 << 20,
		},
		Export: ExportConfig{
			Title:       "Activities Report",
			DefaultSort: "asc",
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}

// Load builds the configuration: defaults, then the optional file named by
// ACCOMPLISH_CONFIG_PATH (YAML or TOML by extension), then a .env file in the
// working directory, then ACCOMPLISH_* environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	// Variables already in the environment win over .env.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config file %q", path)
	}
	if err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := env("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if err := envInt("SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if v := env("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}
	if v := env("DB_DRIVER"); v != "" {
		cfg.DB.Driver = v
	}
	if v := env("DB_PATH"); v != "" {
		cfg.DB.Path = v
	}
	if v := env("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := env("LOG_PATH"); v != "" {
		cfg.Log.File = v
	}
	if err := envBool("AUTH_ENABLED", &cfg.Auth.Enabled); err != nil {
		return err
	}
	if err := envBool("IMPORT_STRICT_NUMBERS", &cfg.Import.StrictNumbers); err != nil {
		return err
	}
	if err := envInt("IMPORT_SKIP_LEADING_ROWS", &cfg.Import.SkipLeadingRows); err != nil {
		return err
	}
	if v := env("IMPORT_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sIMPORT_MAX_UPLOAD_BYTES: %w", EnvPrefix, err)
		}
		cfg.Import.MaxUploadBytes = n
	}
	if v := env("EXPORT_TITLE"); v != "" {
		cfg.Export.Title = v
	}
	if v := env("EXPORT_DEFAULT_SORT"); v != "" {
		cfg.Export.DefaultSort = v
	}
	return envBool("MCP_ENABLED", &cfg.MCP.Enabled)
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(EnvPrefix + key))
}

func envInt(key string, dst *int) error {
	v := env(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
	}
	*dst = n
	return nil
}

func envBool(key string, dst *bool) error {
	v := env(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
	}
	*dst = b
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
