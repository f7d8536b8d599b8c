package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const promptLabel = "Ask for a book (title or theme): "

var promptLabelStyle = lipgloss.NewStyle().Bold(true)

// promptModel is a one-line text input that quits on enter.
type promptModel struct {
	input   textinput.Model
	value   string
	done    bool
	aborted bool
}

func newPromptModel() promptModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "e.g. a story about friendship and magic"
	ti.Focus()
	ti.CharLimit = 0
	return promptModel{input: ti}
}

func (m promptModel) Init() tea.Cmd { return textinput.Blink }

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			m.value = strings.TrimSpace(m.input.Value())
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.aborted {
		return ""
	}
	return promptLabelStyle.Render(promptLabel) + "\n" + m.input.View() + "\n"
}

// prompter reads queries interactively on a terminal and line by line
// otherwise.
type prompter struct {
	in    io.Reader
	out   io.Writer
	lines *bufio.Reader
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, out: out}
}

// Ask returns the trimmed query, or "" when the user aborted or input ended.
func (p *prompter) Ask() (string, error) {
	if isTerminal(p.in) {
		final, err := tea.NewProgram(newPromptModel(), tea.WithInput(p.in), tea.WithOutput(p.out)).Run()
		if err != nil {
			return "", fmt.Errorf("prompt failed: %w", err)
		}
		m := final.(promptModel)
		if m.aborted {
			return "", nil
		}
		fmt.Fprintln(p.out, promptLabel+m.value)
		return m.value, nil
	}

	fmt.Fprint(p.out, promptLabel)
	if p.lines == nil {
		p.lines = bufio.NewReader(p.in)
	}
	line, err := p.lines.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line == "" {
		fmt.Fprintln(p.out)
	}
	return strings.TrimSpace(line), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
