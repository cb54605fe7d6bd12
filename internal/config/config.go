// Package config manages application configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

// Backend names
const (
	BackendYtdlp = "ytdlp"
	BackendYtget = "ytget"
	BackendKkdai = "kkdai"
)

// Backends lists the accepted backend names.
var Backends = []string{BackendYtdlp, BackendYtget, BackendKkdai}

// Strategies lists the accepted format strategy names.
var Strategies = []string{"merge", "progressive"}

// Environment keys
const (
	KeyDownloadDir      = "DOWNLOAD_DIR"
	KeyBackend          = "YTPICK_BACKEND"
	KeyStrategy         = "YTPICK_STRATEGY"
	KeyQuality          = "YTPICK_QUALITY"
	KeyContainer        = "YTPICK_CONTAINER"
	KeyFilenameTemplate = "YTPICK_FILENAME_TEMPLATE"
	KeyYtdlpPath        = "YTPICK_YTDLP_PATH"
	KeyAutoInstall      = "YTPICK_AUTO_INSTALL"
	KeyFFmpegPath       = "YTPICK_FFMPEG_PATH"
	KeyRemux            = "YTPICK_REMUX"
	KeyProbeTimeout     = "YTPICK_PROBE_TIMEOUT"
	KeyProgressInterval = "YTPICK_PROGRESS_INTERVAL"
	KeyLogLevel         = "YTPICK_LOG_LEVEL"
	KeyLogFormat        = "YTPICK_LOG_FORMAT"
	KeyNoColor          = "YTPICK_NO_COLOR"
	KeyNoColorStandard  = "NO_COLOR"
)

// Default values
const (
	DefaultDownloadDir      = "./downloads"
	DefaultBackend          = BackendYtdlp
	DefaultStrategy         = "merge"
	DefaultContainer        = "mp4"
	DefaultFilenameTemplate = "%(title)s.%(ext)s"
	DefaultFFmpegPath       = "ffmpeg"
	DefaultProbeTimeout     = 2 * time.Minute
	DefaultProgressInterval = 500 * time.Millisecond
	DefaultLogLevel         = "warn"
	DefaultLogFormat        = "text"
	DefaultEnvFile          = ".env"
	FileName                = "ytpick.json"
)

// Config holds all application configuration.
type Config struct {
	DownloadDir string `json:"download_dir"`

	// Collaborator settings
	Backend          string   `json:"backend"`
	Strategy         string   `json:"strategy"`
	Quality          string   `json:"quality"`
	Container        string   `json:"container"`
	FilenameTemplate string   `json:"filename_template"`
	YtdlpPath        string   `json:"ytdlp_path"`
	AutoInstall      bool     `json:"auto_install"`
	FFmpegPath       string   `json:"ffmpeg_path"`
	Remux            bool     `json:"remux"`
	ProbeTimeout     Duration `json:"probe_timeout"`
	ProgressInterval Duration `json:"progress_interval"`

	// Output settings
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	NoColor   bool   `json:"no_color"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		DownloadDir:      DefaultDownloadDir,
		Backend:          DefaultBackend,
		Strategy:         DefaultStrategy,
		Container:        DefaultContainer,
		FilenameTemplate: DefaultFilenameTemplate,
		FFmpegPath:       DefaultFFmpegPath,
		Remux:            true,
		ProbeTimeout:     Duration(DefaultProbeTimeout),
		ProgressInterval: Duration(DefaultProgressInterval),
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
	}
}

// FilePaths returns the config file locations in lookup order.
func FilePaths() []string {
	paths := []string{FileName}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ytpick", FileName))
	}
	return paths
}

// Load loads configuration from the default locations.
// Priority: env vars > .env file > config file > defaults
func Load() (*Config, error) {
	return LoadFrom(FilePaths(), DefaultEnvFile)
}

// LoadFrom loads configuration from the first existing file in paths and the
// given dotenv file. Both are optional. Malformed values fail here; callers
// run Validate once their own overrides are applied.
func LoadFrom(paths []string, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(paths); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(err, "load config file")
	}

	if envFile != "" {
		// existing environment variables win over the file
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "load %s", envFile)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile loads the first config file found in paths.
func (c *Config) loadFromFile(paths []string) error {
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return errors.Wrapf(err, "parse %s", path)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() error {
	setString(KeyDownloadDir, &c.DownloadDir)
	setString(KeyBackend, &c.Backend)
	setString(KeyStrategy, &c.Strategy)
	setString(KeyQuality, &c.Quality)
	setString(KeyContainer, &c.Container)
	setString(KeyFilenameTemplate, &c.FilenameTemplate)
	setString(KeyYtdlpPath, &c.YtdlpPath)
	setString(KeyFFmpegPath, &c.FFmpegPath)
	setString(KeyLogLevel, &c.LogLevel)
	setString(KeyLogFormat, &c.LogFormat)

	if v := os.Getenv(KeyNoColorStandard); v != "" {
		c.NoColor = true
	}

	for key, dst := range map[string]*bool{
		KeyAutoInstall: &c.AutoInstall,
		KeyRemux:       &c.Remux,
		KeyNoColor:     &c.NoColor,
	} {
		if err := setBool(key, dst); err != nil {
			return err
		}
	}

	for key, dst := range map[string]*Duration{
		KeyProbeTimeout:     &c.ProbeTimeout,
		KeyProgressInterval: &c.ProgressInterval,
	} {
		if err := setDuration(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Newf("%s: invalid boolean %q", key, v)
	}
	*dst = b
	return nil
}

func setDuration(key string, dst *Duration) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return errors.Newf("%s: invalid duration %q", key, v)
	}
	*dst = Duration(d)
	return nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if !contains(Backends, c.Backend) {
		return errors.Newf("backend must be one of %s, got %q", strings.Join(Backends, ", "), c.Backend)
	}
	if !contains(Strategies, c.Strategy) {
		return errors.Newf("strategy must be one of %s, got %q", strings.Join(Strategies, ", "), c.Strategy)
	}
	if strings.TrimSpace(c.Container) == "" {
		return errors.New("container must not be empty")
	}
	if c.ProbeTimeout <= 0 {
		return errors.New("probe_timeout must be positive")
	}
	if c.ProgressInterval <= 0 {
		return errors.New("progress_interval must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return errors.Newf("unknown log level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return errors.Newf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
