package installer

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sandevgo/aline/internal/service/ui"
)

var (
	titleStyle = ui.TitleStyle
	descStyle  = ui.DescStyle
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

var ErrInterrupted = errors.New("installation interrupted")

// Step is one screen of the wizard. Update returns nil once the step is done.
type Step interface {
	Init() tea.Cmd
	Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd)
	View(state *InstallState) string
}

// optionalStep is implemented by steps that do not apply to every setup.
type optionalStep interface {
	Skip(state *InstallState) bool
}

type stepFactory func(runtimePath string) Step

var stepFactories = []stepFactory{
	func(string) Step { return NewStorageStep() },
	func(string) Step { return NewPersonalityStep() },
	func(string) Step { return NewChannelStep() },
	func(string) Step { return NewTelegramTokenStep() },
	func(string) Step { return NewTelegramOwnerStep() },
	NewSaveStep,
}

// nextMsg lets a step that needs no input advance on its own.
type nextMsg struct{}

type model struct {
	runtimePath string
	step        Step
	index       int
	state       *InstallState
	quitting    bool
	done        bool
	width       int
	height      int
}

func initialModel(runtimePath string) model {
	return model{
		runtimePath: runtimePath,
		step:        stepFactories[0](runtimePath),
		state:       NewInstallState(),
	}
}

func (m model) Init() tea.Cmd {
	return m.step.Init()
}

// enter moves to the first applicable step from i in direction dir.
func (m model) enter(i, dir int) (model, tea.Cmd) {
	for i >= 0 && i < len(stepFactories) {
		step := stepFactories[i](m.runtimePath)
		if opt, ok := step.(optionalStep); ok && opt.Skip(m.state) {
			i += dir
			continue
		}
		m.index, m.step = i, step
		return m, step.Init()
	}

	if i < 0 {
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.quitting || m.done {
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.index > 0 {
				return m.enter(m.index-1, -1)
			}
			return m, nil
		}
	}

	next, cmd := m.step.Update(msg, m.state, m.width, m.height)
	if next == nil {
		return m.enter(m.index+1, 1)
	}
	m.step = next
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return "Instalação cancelada.\n"
	}
	if m.done {
		return "Configuração concluída!\n"
	}

	header := titleStyle.Render(fmt.Sprintf("Instalando a Aline 📐  (%d/%d)", m.index+1, len(stepFactories)))
	footer := descStyle.Render("esc volta ao passo anterior")
	return header + "\n" + m.step.View(m.state) + "\n" + footer + "\n"
}

// RunWizard runs the TUI and saves the result under runtimePath.
func RunWizard(runtimePath string) (*InstallState, error) {
	p := tea.NewProgram(initialModel(runtimePath), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, err
	}

	final := m.(model)
	if !final.done {
		return nil, ErrInterrupted
	}
	return final.state, nil
}
