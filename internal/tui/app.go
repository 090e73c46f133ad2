// Package tui implements the interactive lookup mode. It wraps the lookup
// engine in a small bubbletea program: type a domain, watch a spinner while
// the queries run, read the rendered result, repeat.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jroosing/hydradig/internal/lookup"
	"github.com/jroosing/hydradig/internal/render"
)

type screen int

const (
	screenInput screen = iota
	screenBusy
	screenResult
)

// LookupFunc runs one lookup for the program. It is injected so the TUI
// stays decoupled from resolver wiring.
type LookupFunc func(ctx context.Context, domain lookup.Domain, types []lookup.RecordType) lookup.Result

// Deps carries everything the program needs from the outside.
type Deps struct {
	RunLookup LookupFunc
	Renderer  *render.Renderer
	Types     []lookup.RecordType
}

type model struct {
	theme Theme
	deps  Deps

	scr     screen
	input   textinput.Model
	spin    spinner.Model
	domain  lookup.Domain
	result  string
	lastErr error

	width int
}

// Run starts the interactive program and blocks until the user quits.
func Run(deps Deps) error {
	p := tea.NewProgram(newModel(deps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	ti := textinput.New()
	ti.Placeholder = "example.com"
	ti.Prompt = "domain> "
	ti.CharLimit = 253
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		theme: DefaultTheme(),
		deps:  deps,
		scr:   screenInput,
		input: ti,
		spin:  sp,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.scr == screenInput {
				return m, tea.Quit
			}
			if m.scr == screenResult {
				m.scr = screenInput
				m.input.SetValue("")
				m.input.Focus()
				return m, textinput.Blink
			}
			return m, nil

		// "q" is a shortcut only on the result screen; on the input
		// screen it is a regular character (quora.com) and falls
		// through to the textinput below.
		case "q":
			if m.scr == screenResult {
				m.scr = screenInput
				m.input.SetValue("")
				m.input.Focus()
				return m, textinput.Blink
			}

		case "enter":
			if m.scr == screenInput {
				return m.submit()
			}
			if m.scr == screenResult {
				m.scr = screenInput
				m.input.SetValue("")
				m.input.Focus()
				return m, textinput.Blink
			}
			return m, nil
		}

	case lookupDoneMsg:
		m.scr = screenResult
		m.result = msg.rendered
		return m, nil

	case spinner.TickMsg:
		if m.scr != screenBusy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.scr == screenInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) submit() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return m, nil
	}

	domain, err := lookup.Validate(raw)
	if err != nil {
		m.lastErr = err
		return m, nil
	}

	m.lastErr = nil
	m.domain = domain
	m.scr = screenBusy
	m.input.Blur()
	return m, tea.Batch(m.spin.Tick, m.runLookup(domain))
}

func (m model) runLookup(domain lookup.Domain) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		res := deps.RunLookup(context.Background(), domain, deps.Types)
		return lookupDoneMsg{rendered: deps.Renderer.Render(res)}
	}
}

func (m model) View() string {
	switch m.scr {
	case screenBusy:
		return m.theme.Card.Render(
			m.theme.Title.Render("hydradig") + "\n\n" +
				m.spin.View() + " looking up " + string(m.domain) + " ...")

	case screenResult:
		help := m.theme.Help.Render("enter: new lookup  -  q: back  -  ctrl+c: quit")
		return m.result + "\n" + help

	default:
		var b strings.Builder
		b.WriteString(m.theme.Title.Render("hydradig") + "\n")
		b.WriteString(m.theme.Help.Render("DNS record lookup") + "\n\n")
		b.WriteString(m.input.View() + "\n")
		if m.lastErr != nil {
			b.WriteString("\n" + m.theme.Error.Render(m.lastErr.Error()) + "\n")
		}
		b.WriteString("\n" + m.theme.Help.Render("enter: lookup  -  esc: quit"))
		return m.theme.Card.Render(b.String())
	}
}
