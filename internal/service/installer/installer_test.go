package installer

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/aline/configs"
	"github.com/sandevgo/aline/internal/config"
	"github.com/sandevgo/aline/internal/service/personality"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	state := NewInstallState()
	state.App.Storage = config.StorageSQLite
	state.App.EnableTelegram = true
	state.Telegram.Token = "123:abc"
	state.Telegram.OwnerID = 42

	require.NoError(t, Save(dir, state))

	vars, err := godotenv.Read(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", vars["ALINE_STORAGE"])
	assert.Equal(t, "formal", vars["ALINE_PERSONALITY"])
	assert.Equal(t, "30m0s", vars["ALINE_SESSION_TIMEOUT"])
	assert.Equal(t, "true", vars["ALINE_ENABLE_TELEGRAM"])
	assert.Equal(t, "123:abc", vars["ALINE_TELEGRAM_TOKEN"])
	assert.Equal(t, "42", vars["ALINE_TELEGRAM_OWNER_ID"])
	assert.NotContains(t, vars, "ALINE_RUNTIME_PATH")

	bank, err := os.ReadFile(filepath.Join(dir, configs.CoreBankFile))
	require.NoError(t, err)
	assert.Equal(t, configs.CoreBank, bank)

	assert.ErrorIs(t, Save(dir, state), ErrAlreadyInstalled)
}

func TestSave_KeepsExistingBank(t *testing.T) {
	dir := t.TempDir()
	bankPath := filepath.Join(dir, configs.CoreBankFile)
	require.NoError(t, os.WriteFile(bankPath, []byte(`{"intentions":[]}`), 0644))

	require.NoError(t, Save(dir, NewInstallState()))

	bank, err := os.ReadFile(bankPath)
	require.NoError(t, err)
	assert.Equal(t, `{"intentions":[]}`, string(bank))
}

func TestParseOwnerID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "  123456 ", want: 123456},
		{in: "abc", wantErr: true},
		{in: "-5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseOwnerID(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWizard_SkipsTelegramWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	var m tea.Model = initialModel(dir)

	feed := func(msgs ...tea.Msg) {
		for _, msg := range msgs {
			m, _ = m.Update(msg)
		}
	}

	// storage: SQLite
	feed(key("down"), key("enter"))
	// personality: Desafiadora
	feed(key("down"), key("down"), key("enter"))
	// telegram: Não
	feed(key("enter"))
	// token and owner are skipped; save runs on its own
	assert.Equal(t, len(stepFactories)-1, m.(model).index)
	feed(nextMsg{})

	final := m.(model)
	assert.True(t, final.done)
	assert.Equal(t, config.StorageSQLite, final.state.App.Storage)
	assert.Equal(t, personality.Desafiadora, final.state.App.Personality)
	assert.False(t, final.state.App.EnableTelegram)

	vars, err := godotenv.Read(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "desafiadora", vars["ALINE_PERSONALITY"])
	assert.NotContains(t, vars, "ALINE_TELEGRAM_TOKEN")
}

func TestWizard_CtrlCQuits(t *testing.T) {
	m, _ := initialModel(t.TempDir()).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.(model).quitting)
}

func TestWizard_BackSkipsOptionalSteps(t *testing.T) {
	var m tea.Model = initialModel(t.TempDir())
	for _, k := range []string{"enter", "enter", "down", "enter"} {
		m, _ = m.Update(key(k))
	}
	// telegram enabled: token step is shown
	assert.Equal(t, 3, m.(model).index)

	m, _ = m.Update(key("esc"))
	assert.Equal(t, 2, m.(model).index)

	// back on the channel step, choose "Não" and land on save
	m, _ = m.Update(key("up"))
	m, _ = m.Update(key("enter"))
	assert.Equal(t, 5, m.(model).index)

	m, _ = m.Update(key("esc"))
	assert.Equal(t, 2, m.(model).index, "esc from save jumps over skipped telegram steps")
}
