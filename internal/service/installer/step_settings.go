package installer

import (
	"github.com/sandevgo/aline/internal/config"
	"github.com/sandevgo/aline/internal/service/personality"
)

func NewStorageStep() Step {
	return &ChoiceStep{
		prompt: "Onde guardar o que a Aline aprende?",
		choices: []choice{
			{label: "Arquivos JSON", desc: "new_data.json, historico.json, stats.json", apply: func(s *InstallState) {
				s.App.Storage = config.StorageJSON
			}},
			{label: "SQLite", desc: "um único arquivo aline.db", apply: func(s *InstallState) {
				s.App.Storage = config.StorageSQLite
			}},
		},
	}
}

func NewPersonalityStep() Step {
	step := &ChoiceStep{prompt: "Escolha a personalidade padrão:"}
	for _, p := range personality.All() {
		key := p.Key
		step.choices = append(step.choices, choice{
			label: p.Name,
			desc:  p.Description,
			apply: func(s *InstallState) { s.App.Personality = key },
		})
	}
	return step
}

func NewChannelStep() Step {
	return &ChoiceStep{
		prompt: "Ativar o bot do Telegram além do terminal?",
		choices: []choice{
			{label: "Não", desc: "apenas o chat no terminal", apply: func(s *InstallState) {
				s.App.EnableTelegram = false
				s.Telegram.Token, s.Telegram.OwnerID = "", 0
			}},
			{label: "Sim", desc: "requer um token do @BotFather", apply: func(s *InstallState) {
				s.App.EnableTelegram = true
			}},
		},
	}
}
