// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package prompt

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	noticeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	optionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	hintStyle     = lipgloss.NewStyle().Faint(true)
)

var options = []struct {
	key    string
	label  string
	choice Choice
}{
	{"r", "Re-use the latest version", Reuse},
	{"u", "Update it with the crew", Update},
	{"c", "Create a new curriculum", CreateNew},
}

// TeaChooser shows an interactive single-key menu.
type TeaChooser struct {
	In  io.Reader
	Out io.Writer
}

func (t TeaChooser) Choose(ctx context.Context, notice string) (Choice, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}

	final, err := tea.NewProgram(newChooserModel(notice), opts...).Run()
	if err != nil {
		return CreateNew, fmt.Errorf("running prompt: %w", err)
	}
	m := final.(chooserModel)
	if m.cancelled {
		return CreateNew, ErrCancelled
	}
	return m.choice, nil
}

// chooserModel is the bubbletea model behind TeaChooser.
type chooserModel struct {
	notice    string
	cursor    int
	choice    Choice
	done      bool
	cancelled bool
}

func newChooserModel(notice string) chooserModel {
	return chooserModel{notice: notice}
}

func (m chooserModel) Init() tea.Cmd { return nil }

func (m chooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.cancelled = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(options)-1 {
			m.cursor++
		}
	case "enter":
		m.choice = options[m.cursor].choice
		m.done = true
		return m, tea.Quit
	default:
		for _, o := range options {
			if key.String() == o.key {
				m.choice = o.choice
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m chooserModel) View() string {
	if m.done || m.cancelled {
		return ""
	}

	var b strings.Builder
	b.WriteString(noticeStyle.Render(m.notice))
	b.WriteString("\n\n")
	for i, o := range options {
		line := fmt.Sprintf("[%s] %s", o.key, o.label)
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(optionStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("r/u/c or arrows + enter, esc to cancel"))
	b.WriteString("\n")
	return b.String()
}
