// Package config loads the application configuration from a config file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/merge-warden/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	Server     ServerConfig  `mapstructure:"server"`
	GitHub     GitHubConfig  `mapstructure:"github"`
	AI         AIConfig      `mapstructure:"ai"`
	Database   DBConfig      `mapstructure:"database"`
	Logging    logger.Config `mapstructure:"logging"`
	Merge      MergeConfig   `mapstructure:"merge"`
	PolicyFile string        `mapstructure:"policy_file"`
	MaxWorkers int           `mapstructure:"max_workers"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	// RequestTimeout bounds synchronous API runs, which include AI review and merge polling.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// GitHubConfig configures provider authentication. Token is used by the CLI
// and API submissions; the App settings are used for webhook-triggered runs.
type GitHubConfig struct {
	Token          string `mapstructure:"token"`
	AppID          int64  `mapstructure:"app_id"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
}

// BackendConfig names one AI backend in priority order.
type BackendConfig struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
}

// AIConfig configures the AI review adapter.
type AIConfig struct {
	Backends     []BackendConfig `mapstructure:"backends"`
	OllamaHost   string          `mapstructure:"ollama_host"`
	GeminiAPIKey string          `mapstructure:"gemini_api_key"`
	Timeout      time.Duration   `mapstructure:"timeout"`
	MaxDiffBytes int             `mapstructure:"max_diff_bytes"`
	// MaxContextBytes bounds the base branch files added to the prompt; 0 disables them.
	MaxContextBytes int `mapstructure:"max_context_bytes"`
}

// DBConfig configures the review record store.
type DBConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslmode"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// MergeConfig configures the backup, sync and merge stages.
type MergeConfig struct {
	Method            string        `mapstructure:"method"`
	RequiredApprovals int           `mapstructure:"required_approvals"`
	BackupPrefix      string        `mapstructure:"backup_prefix"`
	SyncGracePeriod   time.Duration `mapstructure:"sync_grace_period"`
	SyncPollAttempts  int           `mapstructure:"sync_poll_attempts"`
	SyncBackoff       float64       `mapstructure:"sync_backoff"`
	PostReport        bool          `mapstructure:"post_report"`
}

var (
	supportedProviders    = map[string]bool{"ollama": true, "gemini": true}
	supportedMergeMethods = map[string]bool{"merge": true, "squash": true, "rebase": true}
)

// LoadConfig reads configuration from config.yaml (if present) and MW_-prefixed
// environment variables, sets defaults, and validates the result. It uses the
// Viper library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.merge-warden")
	v.SetEnvPrefix("MW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment")
	}

	// Secrets are commonly provided without the prefix.
	_ = v.BindEnv("github.token", "MW_GITHUB_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("ai.gemini_api_key", "MW_AI_GEMINI_API_KEY", "GEMINI_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", 5*time.Minute)
	v.SetDefault("max_workers", 2)

	v.SetDefault("github.private_key_path", "keys/merge-warden.private-key.pem")

	v.SetDefault("ai.ollama_host", "http://localhost:11434")
	v.SetDefault("ai.timeout", 2*time.Minute)
	v.SetDefault("ai.max_diff_bytes", 12000)
	v.SetDefault("ai.max_context_bytes", 8000)
	v.SetDefault("ai.backends", []map[string]any{
		{"provider": "ollama", "model": "llama3"},
	})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "warden")
	v.SetDefault("database.database", "merge_warden")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("merge.method", "squash")
	v.SetDefault("merge.required_approvals", 1)
	v.SetDefault("merge.backup_prefix", "merge-warden/backup")
	v.SetDefault("merge.sync_grace_period", 5*time.Second)
	v.SetDefault("merge.sync_poll_attempts", 3)
	v.SetDefault("merge.sync_backoff", 2.0)
	v.SetDefault("merge.post_report", false)
}

// Validate checks every section.
func (c *Config) Validate() error {
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("max_workers must be positive, got %d", c.MaxWorkers)
	}
	if err := c.AI.Validate(); err != nil {
		return fmt.Errorf("invalid ai config: %w", err)
	}
	if err := c.Merge.Validate(); err != nil {
		return fmt.Errorf("invalid merge config: %w", err)
	}
	return nil
}

// Validate checks the AI backend list and limits.
func (c AIConfig) Validate() error {
	if len(c.Backends) == 0 {
		return errors.New("at least one backend must be configured")
	}
	seen := make(map[string]struct{}, len(c.Backends))
	for i, b := range c.Backends {
		if !supportedProviders[b.Provider] {
			return fmt.Errorf("backend %d: unsupported provider %q", i, b.Provider)
		}
		if b.Model == "" {
			return fmt.Errorf("backend %d: model must be set", i)
		}
		key := b.Provider + "/" + b.Model
		if _, dup := seen[key]; dup {
			return fmt.Errorf("backend %d: duplicate backend %s", i, key)
		}
		seen[key] = struct{}{}
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.MaxDiffBytes < 1000 {
		return fmt.Errorf("max_diff_bytes must be at least 1000, got %d", c.MaxDiffBytes)
	}
	if c.MaxContextBytes < 0 {
		return fmt.Errorf("max_context_bytes must not be negative, got %d", c.MaxContextBytes)
	}
	return nil
}

// Validate checks the merge method and polling parameters.
func (c MergeConfig) Validate() error {
	if !supportedMergeMethods[c.Method] {
		return fmt.Errorf("unsupported merge method %q", c.Method)
	}
	if c.RequiredApprovals < 0 {
		return fmt.Errorf("required_approvals cannot be negative")
	}
	if strings.TrimSpace(c.BackupPrefix) == "" || strings.HasPrefix(c.BackupPrefix, "refs/") {
		return fmt.Errorf("backup_prefix must be a branch path without refs/, got %q", c.BackupPrefix)
	}
	if c.SyncGracePeriod < 0 {
		return fmt.Errorf("sync_grace_period cannot be negative")
	}
	if c.SyncPollAttempts < 1 || c.SyncPollAttempts > 20 {
		return fmt.Errorf("sync_poll_attempts must be between 1 and 20, got %d", c.SyncPollAttempts)
	}
	if c.SyncBackoff < 1 {
		return fmt.Errorf("sync_backoff must be at least 1, got %v", c.SyncBackoff)
	}
	return nil
}
