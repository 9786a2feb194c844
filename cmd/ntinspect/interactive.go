package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/elemental/errors"
	"github.com/wippyai/elemental/resource"
	"github.com/wippyai/elemental/types"
)

const maxEvents = 6

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	flagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	eventStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

type interactiveModel struct {
	err      error
	s        *session
	// live holds the handles of instances created here, per type.
	live     map[types.Type][]resource.Handle
	filter   textinput.Model
	names    []string
	events   []string
	selected int
	sub      resource.Subscription
}

func newInteractiveModel(s *session) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 24

	m := &interactiveModel{
		s:      s,
		live:   make(map[types.Type][]resource.Handle),
		filter: ti,
	}
	m.sub = s.reg.Observe(types.ObserverFunc(m.onEvent))
	m.applyFilter()
	return m
}

func (m *interactiveModel) onEvent(e types.Event) {
	line := fmt.Sprintf("%-10s %s handle=%s refs=%d", e.Type, m.s.set.TypeName(types.Type(e.TypeID)), e.Handle, e.Refs)
	m.events = append(m.events, line)
	if len(m.events) > maxEvents {
		m.events = m.events[len(m.events)-maxEvents:]
	}
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	m.names = m.names[:0]
	for _, name := range m.s.set.Names() {
		if q == "" || strings.Contains(strings.ToLower(name), q) {
			m.names = append(m.names, name)
		}
	}
	if m.selected >= len(m.names) {
		m.selected = max(len(m.names)-1, 0)
	}
}

func (m *interactiveModel) current() (types.Type, bool) {
	if len(m.names) == 0 {
		return types.None, false
	}
	return m.s.set.Type(m.names[m.selected])
}

// guard runs fn and turns a contract violation into a displayed error.
func (m *interactiveModel) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.err = errors.Recover(r)
		}
	}()
	m.err = nil
	fn()
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.filter.Focused() {
		switch key.String() {
		case "enter", "esc":
			if key.String() == "esc" {
				m.filter.SetValue("")
			}
			m.filter.Blur()
			m.applyFilter()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.releaseAll()
		m.s.reg.Unobserve(m.sub)
		return m, tea.Quit

	case "/":
		return m, m.filter.Focus()

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.selected < len(m.names)-1 {
			m.selected++
		}

	case "n":
		if t, ok := m.current(); ok {
			m.guard(func() {
				m.live[t] = append(m.live[t], m.s.reg.New(t, nil).Handle())
			})
		}

	case "r":
		if inst := m.latest(); inst != nil {
			m.guard(func() { types.Ref(inst) })
		}

	case "d":
		if t, ok := m.current(); ok {
			if inst := m.latest(); inst != nil {
				m.guard(func() {
					if types.Destroy(inst) {
						m.live[t] = m.live[t][:len(m.live[t])-1]
					}
				})
			}
		}
	}

	return m, nil
}

func (m *interactiveModel) latest() *types.Instance {
	t, ok := m.current()
	if !ok || len(m.live[t]) == 0 {
		return nil
	}
	inst, ok := m.s.reg.FindTyped(m.live[t][len(m.live[t])-1], t)
	if !ok {
		return nil
	}
	return inst
}

func (m *interactiveModel) releaseAll() {
	for t, handles := range m.live {
		for _, h := range handles {
			if inst, ok := m.s.reg.Find(h); ok {
				release(inst)
			}
		}
		delete(m.live, t)
	}
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Type Inspector"))
	b.WriteString(" ")
	b.WriteString(m.s.set.Name())
	fmt.Fprintf(&b, "  %d live", m.s.reg.LiveCount())
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	var list strings.Builder
	for i, name := range m.names {
		t, _ := m.s.set.Type(name)
		info := m.s.reg.MustLookup(t)
		line := fmt.Sprintf("%-14s %s", name, flagStyle.Render(info.Flags.String()))
		if i == m.selected {
			list.WriteString(selectedStyle.Render("> " + line))
		} else {
			list.WriteString("  " + nameStyle.Render(line))
		}
		list.WriteString("\n")
	}

	var detail strings.Builder
	if t, ok := m.current(); ok {
		own, _ := m.s.reg.OwnershipOf(t)
		fmt.Fprintf(&detail, "%s  %d bytes  %s\n", nameStyle.Render(m.s.set.TypeName(t)), m.s.reg.SizeOf(t), own)
		fmt.Fprintf(&detail, "live: %d", len(m.live[t]))
		if inst := m.latest(); inst != nil {
			fmt.Fprintf(&detail, "  latest refs: %d", inst.RefCount())
		}
		detail.WriteString("\n\n")
		for _, line := range layoutLines(m.s, t) {
			detail.WriteString(line)
			detail.WriteString("\n")
		}
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Render(strings.TrimRight(list.String(), "\n")),
		panelStyle.Render(strings.TrimRight(detail.String(), "\n")),
	))
	b.WriteString("\n\n")

	for _, e := range m.events {
		b.WriteString(eventStyle.Render(e))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • / filter • n new • r ref • d destroy • q quit"))

	return b.String()
}

func runInteractive(s *session) error {
	p := tea.NewProgram(newInteractiveModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
