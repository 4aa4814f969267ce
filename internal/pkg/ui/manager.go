// Package ui provides the terminal interaction for commitassist.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Spinner provides loading animation functionality.
type Spinner interface {
	Start()
	Stop()
}

// Manager defines the interface for UI operations.
type Manager interface {
	// DisplaySuggestion shows the suggested commit message.
	DisplaySuggestion(suggestion string)
	// PromptOverride asks for a replacement message and returns the raw line read,
	// without its line terminator. End of input returns "".
	PromptOverride() (string, error)
	ShowSpinner(text string) Spinner
	ShowWarning(message string)
	ShowError(err error)
	ShowSuccess(message string)
	ShowInfo(message string)
}

// DefaultManager implements the Manager interface on top of line-oriented IO.
type DefaultManager struct {
	in             *bufio.Reader
	out            io.Writer
	errOut         io.Writer
	colorEnabled   bool
	spinnerEnabled bool
	styles         *styles
}

// styles holds the lipgloss styles for UI rendering.
type styles struct {
	label      lipgloss.Style
	suggestion lipgloss.Style
	prompt     lipgloss.Style
	success    lipgloss.Style
	warning    lipgloss.Style
	errorStyle lipgloss.Style
	info       lipgloss.Style
}

// NewManager creates a DefaultManager that styles output only when out is a
// terminal and draws the spinner only when errOut is one.
func NewManager(in io.Reader, out, errOut io.Writer, colorEnabled, spinnerEnabled bool) *DefaultManager {
	m := NewManagerWithIO(in, out, errOut, colorEnabled && isTerminalWriter(out))
	m.spinnerEnabled = spinnerEnabled && isTerminalWriter(errOut)
	return m
}

// NewManagerWithIO creates a DefaultManager on arbitrary streams. The spinner is disabled.
func NewManagerWithIO(in io.Reader, out, errOut io.Writer, colorEnabled bool) *DefaultManager {
	m := &DefaultManager{
		in:           bufio.NewReader(in),
		out:          out,
		errOut:       errOut,
		colorEnabled: colorEnabled,
	}
	m.initStyles()
	return m
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// initStyles initializes the lipgloss styles.
func (m *DefaultManager) initStyles() {
	m.styles = &styles{
		label: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		suggestion: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("220")),
		prompt: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")),
		warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		errorStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")),
	}
}

// render applies style only when color is enabled, so plain output is byte-exact.
func (m *DefaultManager) render(style lipgloss.Style, s string) string {
	if !m.colorEnabled {
		return s
	}
	return style.Render(s)
}

// DisplaySuggestion shows the suggested commit message.
func (m *DefaultManager) DisplaySuggestion(suggestion string) {
	fmt.Fprintf(m.out, "\n%s %s\n",
		m.render(m.styles.label, "Suggested commit message:"),
		m.render(m.styles.suggestion, suggestion))
}

// PromptOverride prints the prompt and reads one line from input.
func (m *DefaultManager) PromptOverride() (string, error) {
	fmt.Fprint(m.out, "\n"+m.render(m.styles.prompt, "Press Enter to accept, or type a new message: "))

	line, err := m.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if errors.Is(err, io.EOF) {
		// Keep the terminal tidy when input ends without a newline.
		fmt.Fprintln(m.out)
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

// ShowSpinner creates and returns a spinner for loading states.
func (m *DefaultManager) ShowSpinner(text string) Spinner {
	if !m.spinnerEnabled {
		return &noopSpinner{}
	}
	return newBubbleSpinner(text, m.errOut, m.colorEnabled)
}

// ShowWarning displays a non-fatal warning.
func (m *DefaultManager) ShowWarning(message string) {
	fmt.Fprintln(m.errOut, m.render(m.styles.warning, "Warning: "+message))
}

// ShowError displays an error message to the user.
func (m *DefaultManager) ShowError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(m.errOut, m.render(m.styles.errorStyle, "Error: "+err.Error()))
}

// ShowSuccess displays a success message to the user.
func (m *DefaultManager) ShowSuccess(message string) {
	fmt.Fprintln(m.out, m.render(m.styles.success, message))
}

// ShowInfo displays an informational message to the user.
func (m *DefaultManager) ShowInfo(message string) {
	fmt.Fprintln(m.out, m.render(m.styles.info, message))
}

// bubbleSpinner implements Spinner using Bubble Tea.
type bubbleSpinner struct {
	model   spinnerModel
	output  io.Writer
	program *tea.Program
	done    chan struct{}
	mu      sync.Mutex
}

// spinnerModel is the Bubble Tea model for the spinner.
type spinnerModel struct {
	spinner  spinner.Model
	text     string
	quitting bool
}

// spinnerQuitMsg signals the spinner to quit.
type spinnerQuitMsg struct{}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerQuitMsg:
		m.quitting = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.quitting {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), m.text)
}

func newBubbleSpinner(text string, output io.Writer, colorEnabled bool) *bubbleSpinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	if colorEnabled {
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	}

	return &bubbleSpinner{
		model:  spinnerModel{spinner: s, text: text},
		output: output,
	}
}

// Start runs the spinner in the background. It never reads from stdin, so the
// confirmation prompt that follows sees every byte the user typed, and it
// leaves SIGINT to the process so Ctrl-C still aborts a pending request.
func (s *bubbleSpinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		return
	}
	s.program = tea.NewProgram(s.model,
		tea.WithOutput(s.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	s.done = make(chan struct{})
	go func(p *tea.Program, done chan struct{}) {
		defer close(done)
		_, _ = p.Run()
	}(s.program, s.done)
}

// Stop halts the spinner and waits until its line has been cleared.
func (s *bubbleSpinner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program == nil {
		return
	}
	s.program.Send(spinnerQuitMsg{})
	<-s.done
	s.program = nil
}

// noopSpinner is a no-op implementation of Spinner.
type noopSpinner struct{}

func (s *noopSpinner) Start() {}
func (s *noopSpinner) Stop()  {}
