package installer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/aline/configs"
	"github.com/sandevgo/aline/pkg/env"
)

var ErrAlreadyInstalled = errors.New("configuration already exists")

// Save writes <runtime>/.env from state and installs the default core bank
// unless one is already present.
func Save(runtimePath string, state *InstallState) error {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(runtimePath, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyInstalled, envPath)
	}

	content, err := env.MarshalEnv(state)
	if err != nil {
		return err
	}
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", envPath, err)
	}

	bankPath := filepath.Join(runtimePath, configs.CoreBankFile)
	if _, err := os.Stat(bankPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(bankPath, configs.CoreBank, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", bankPath, err)
		}
	}
	return nil
}

// SaveStep persists the collected configuration.
type SaveStep struct {
	runtimePath string
	err         error
	saved       bool
}

func NewSaveStep(runtimePath string) Step {
	return &SaveStep{runtimePath: runtimePath}
}

func (s *SaveStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}
	if s.err != nil {
		return s, nil
	}

	if err := Save(s.runtimePath, state); err != nil {
		s.err = err
		return s, nil
	}
	s.saved = true
	return nil, nil
}

func (s *SaveStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Erro: %v", s.err)) + "\n\n(ctrl+c para sair)\n"
	}
	if s.saved {
		return "Configuração salva!\n"
	}
	return "Salvando configuração...\n"
}
