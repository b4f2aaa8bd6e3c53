package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	imathbind "github.com/wippyai/imath-bind"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	prompt      = ">>> "
	keepEntries = 200
)

// evaluate runs one input. Lines starting with ':' are session commands.
func evaluate(ctx context.Context, rt *imathbind.Runtime, src string) (string, error) {
	switch strings.TrimSpace(src) {
	case ":vars":
		return strings.Join(rt.Evaluator().Names(), " "), nil
	case ":reset":
		rt.Evaluator().Reset()
		return "", nil
	case ":modules":
		var names []string
		for _, m := range rt.Modules() {
			names = append(names, m.Name)
		}
		return strings.Join(names, " "), nil
	}

	v, err := rt.Eval(ctx, src)
	if err != nil || v == nil {
		return "", err
	}
	return rt.Repr(ctx, v)
}

// runLines reads one statement list per line, for pipes and scripts.
func runLines(ctx context.Context, rt *imathbind.Runtime, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		res, err := evaluate(ctx, rt, line)
		switch {
		case err != nil:
			fmt.Fprintf(out, "Error: %v\n", err)
		case res != "":
			fmt.Fprintln(out, res)
		}
	}
	return sc.Err()
}

func runInteractive(ctx context.Context, rt *imathbind.Runtime) error {
	_, err := tea.NewProgram(newReplModel(ctx, rt)).Run()
	return err
}

type entry struct {
	src string
	out string
	err bool
}

type replModel struct {
	ctx     context.Context
	rt      *imathbind.Runtime
	input   textinput.Model
	entries []entry
	history []string
	histIdx int
	busy    bool
	height  int
}

type evalResultMsg struct {
	src string
	out string
	err error
}

func newReplModel(ctx context.Context, rt *imathbind.Runtime) *replModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "imath.V3f(1, 2, 3)"
	ti.Width = 72
	ti.Focus()
	return &replModel{ctx: ctx, rt: rt, input: ti}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) eval(src string) tea.Cmd {
	return func() tea.Msg {
		out, err := evaluate(m.ctx, m.rt, src)
		return evalResultMsg{src: src, out: out, err: err}
	}
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit

		case "enter":
			src := m.input.Value()
			if m.busy || strings.TrimSpace(src) == "" {
				return m, nil
			}
			if src == ":quit" {
				return m, tea.Quit
			}
			m.history = append(m.history, src)
			m.histIdx = len(m.history)
			m.input.Reset()
			m.busy = true
			return m, m.eval(src)

		case "up":
			if m.histIdx > 0 {
				m.histIdx--
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.histIdx < len(m.history)-1 {
				m.histIdx++
				m.input.SetValue(m.history[m.histIdx])
				m.input.CursorEnd()
			} else {
				m.histIdx = len(m.history)
				m.input.Reset()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(prompt)-1, 10)

	case evalResultMsg:
		m.busy = false
		e := entry{src: msg.src, out: msg.out}
		if msg.err != nil {
			e.out = msg.err.Error()
			e.err = true
		}
		m.entries = append(m.entries, e)
		if len(m.entries) > keepEntries {
			m.entries = m.entries[len(m.entries)-keepEntries:]
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) View() string {
	var lines []string
	for _, e := range m.entries {
		lines = append(lines, promptStyle.Render(prompt)+e.src)
		switch {
		case e.err:
			lines = append(lines, errorStyle.Render(e.out))
		case e.out != "":
			lines = append(lines, resultStyle.Render(e.out))
		}
	}
	// Title, input and help take four lines.
	if room := m.height - 4; room > 0 && len(lines) > room {
		lines = lines[len(lines)-room:]
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("imath"))
	b.WriteString(" ")
	b.WriteString(strings.Join(m.modules(), ", "))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter run • ↑/↓ history • :vars :reset :modules • ctrl+c quit"))
	return b.String()
}

func (m *replModel) modules() []string {
	var names []string
	for _, mod := range m.rt.Modules() {
		names = append(names, mod.Name)
	}
	return names
}
