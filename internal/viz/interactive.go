package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/sim"
)

// Choice is one entry of the preset menu.
type Choice struct {
	Name string
	Info string
}

// BuildFunc builds the runner for a chosen entry.
type BuildFunc func(name string) (sim.Runner, error)

const (
	stateMenu = iota
	stateLive
)

// Picker is a menu of presets that opens the live view on the chosen one.
// Esc in the live view returns to the menu.
type Picker struct {
	choices []Choice
	build   BuildFunc
	opts    []Option

	state  int
	cursor int
	size   *tea.WindowSizeMsg
	live   Model
	err    error
}

func NewPicker(choices []Choice, build BuildFunc, opts ...Option) Picker {
	return Picker{choices: choices, build: build, opts: opts}
}

func (p Picker) Init() tea.Cmd { return nil }

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		p.size = &size
	}
	if p.state == stateLive {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			p.state = stateMenu
			return p, nil
		}
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch k.String() {
	case "q", "esc", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.choices)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.choices) == 0 {
			return p, nil
		}
		name := p.choices[p.cursor].Name
		r, err := p.build(name)
		if err != nil {
			p.err = err
			return p, nil
		}
		p.err = nil
		p.live = NewModel(r, name, p.opts...)
		if p.size != nil {
			p.live.resize(p.size.Width-panelWidth, p.size.Height-2)
		}
		p.state = stateLive
		return p, p.live.Init()
	}
	return p, nil
}

func (p Picker) View() string {
	if p.state == stateLive {
		return p.live.View()
	}

	t := Themes[0]
	title := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	name := lipgloss.NewStyle().Foreground(t.Text)
	info := lipgloss.NewStyle().Foreground(t.Muted)
	cursor := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	var b strings.Builder
	b.WriteString("\n  " + title.Render("GRAVSIM") + "\n\n")
	for i, c := range p.choices {
		line := name.Render(c.Name) + "  " + info.Render(c.Info)
		if i == p.cursor {
			b.WriteString("  " + cursor.Render("> ") + line + "\n")
		} else {
			b.WriteString("    " + line + "\n")
		}
	}
	if p.err != nil {
		b.WriteString("\n  " + lipgloss.NewStyle().Foreground(t.Error).Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n  " + info.Render("↑↓ navigate · enter start · esc back · q quit") + "\n")
	return b.String()
}

// RunPicker opens the preset menu and blocks until the user quits.
func RunPicker(choices []Choice, build BuildFunc, opts ...Option) error {
	_, err := tea.NewProgram(NewPicker(choices, build, opts...), tea.WithAltScreen()).Run()
	return err
}
