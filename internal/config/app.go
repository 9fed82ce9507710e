package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/sandevgo/aline/pkg/log"
)

const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

type AppConfig struct {
	RuntimePath string `env:"ALINE_RUNTIME_PATH"`
	Storage     string `env:"ALINE_STORAGE" envDefault:"json" validate:"oneof=json sqlite"`
	CoreBank    string `env:"ALINE_CORE_BANK"`
	LogFile     string `env:"ALINE_LOG_FILE"`

	// Chat behaviour
	Personality    string        `env:"ALINE_PERSONALITY" envDefault:"formal"`
	HistorySize    int           `env:"ALINE_HISTORY_SIZE" envDefault:"5" validate:"min=1"`
	SessionTimeout time.Duration `env:"ALINE_SESSION_TIMEOUT" envDefault:"30m" validate:"gt=0"`

	// Background jobs
	WatchCoreBank   bool   `env:"ALINE_WATCH_CORE" envDefault:"true"`
	StatsReportCron string `env:"ALINE_STATS_REPORT_CRON"`

	// Transport Flags
	EnableTelegram bool `env:"ALINE_ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ALINE_ENABLE_CLI" envDefault:"true"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := ParseAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

// ParseAppConfig reads the environment and validates the result.
func ParseAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.RuntimePath == "" {
		c.RuntimePath = GetRuntimePath()
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetStorageBackend() string {
	return c.Storage
}

func (c AppConfig) GetCoreBankPath() string {
	if c.CoreBank != "" {
		return c.CoreBank
	}
	return filepath.Join(c.RuntimePath, "core_data.json")
}

func (c AppConfig) GetTaughtPath() string {
	return filepath.Join(c.RuntimePath, "new_data.json")
}

func (c AppConfig) GetHistoryPath() string {
	return filepath.Join(c.RuntimePath, "historico.json")
}

func (c AppConfig) GetStatsPath() string {
	return filepath.Join(c.RuntimePath, "stats.json")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "aline.db")
}

func (c AppConfig) GetLogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.RuntimePath, "chatbot.log")
}

func (c AppConfig) GetDefaultPersonality() string {
	return c.Personality
}

func (c AppConfig) GetHistorySize() int {
	return c.HistorySize
}

func (c AppConfig) GetSessionTimeout() time.Duration {
	return c.SessionTimeout
}

func (c AppConfig) IsTelegramSelected() bool {
	return c.EnableTelegram
}

func (c AppConfig) IsCLISelected() bool {
	return c.EnableCLI
}

func (c AppConfig) IsWatchCore() bool {
	return c.WatchCoreBank
}

func (c AppConfig) GetStatsReportCron() string {
	return c.StatsReportCron
}
