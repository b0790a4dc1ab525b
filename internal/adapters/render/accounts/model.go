package accounts

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entityauth/entitykit/internal/application"
	"github.com/entityauth/entitykit/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

// model renders once and quits, so the CLI gets lipgloss layout without an
// interactive terminal.
type model struct {
	render func(styles) string
	styles styles
	output string
}

func newModel(render func(styles) string) model {
	return model{
		render: render,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.render(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render lays out the accounts known on this device.
func Render(accounts []application.AccountSummary, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderAccounts(accounts, opts, s)
	})
}

// RenderSession lays out the signed-in identity and its organizations.
func RenderSession(snapshot domain.Snapshot, opts RenderOptions) (string, error) {
	return run(func(s styles) string {
		return renderSession(snapshot, opts, s)
	})
}

func run(render func(styles) string) (string, error) {
	p := tea.NewProgram(
		newModel(render),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
