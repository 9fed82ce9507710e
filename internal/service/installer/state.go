package installer

import (
	"time"

	"github.com/sandevgo/aline/internal/config"
	"github.com/sandevgo/aline/internal/service/personality"
)

// InstallState is the configuration collected by the wizard. It is written
// to .env through the env tags of the embedded config structs.
type InstallState struct {
	App      config.AppConfig
	Telegram config.TelegramConfig
}

func NewInstallState() *InstallState {
	return &InstallState{
		App: config.AppConfig{
			Storage:        config.StorageJSON,
			Personality:    personality.Default,
			HistorySize:    5,
			SessionTimeout: 30 * time.Minute,
			WatchCoreBank:  true,
			EnableCLI:      true,
		},
	}
}
