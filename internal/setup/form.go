package setup

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// field indices into Model.inputs
const (
	fieldServer = iota
	fieldPort
	fieldFrom
	fieldTo
	fieldNotifList
	fieldUser
	fieldPass
	fieldLogLevel
	fieldCount
)

// fieldSpec describes one form entry.
type fieldSpec struct {
	label       string
	placeholder string
	hint        string
	password    bool
}

var fields = [fieldCount]fieldSpec{
	fieldServer:    {label: "SMTP server", placeholder: "smtp.example.com", hint: "hostname of your outgoing mail server"},
	fieldPort:      {label: "SMTP port", placeholder: "587", hint: "blank for 587 (submission)"},
	fieldFrom:      {label: "From address", placeholder: "me@example.com"},
	fieldTo:        {label: "Mail recipients", placeholder: "you@example.com", hint: "whitespace-separated list"},
	fieldNotifList: {label: "Notification recipients", placeholder: "5551234567@txt.example.com", hint: "carrier email-to-text addresses work here"},
	fieldUser:      {label: "SMTP user", hint: "blank if the server needs no login"},
	fieldPass:      {label: "SMTP password", password: true},
	fieldLogLevel:  {label: "Log level", placeholder: "warn", hint: "debug, info, warn, error or critical"},
}

// Answers holds the validated form values.
type Answers struct {
	Server    string
	Port      int
	From      string
	To        string
	NotifList string
	User      string
	Pass      string
	LogLevel  string
}

// Model is the bubbletea model for the setup form.
type Model struct {
	inputs  [fieldCount]textinput.Model
	focus   int
	errMsg  string
	done    bool
	aborted bool
}

// NewModel creates the form with the first field focused.
func NewModel() Model {
	var m Model
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = fields[i].placeholder
		in.CharLimit = 128
		if fields[i].password {
			in.EchoMode = textinput.EchoPassword
		}
		m.inputs[i] = in
	}
	m.inputs[0].Focus()
	return m
}

// Aborted reports whether the user quit without submitting.
func (m Model) Aborted() bool {
	return m.aborted
}

// Done reports whether the form was submitted.
func (m Model) Done() bool {
	return m.done
}

// Answers returns the collected values. Only valid after Done.
func (m Model) Answers() Answers {
	port := 0
	if raw := strings.TrimSpace(m.inputs[fieldPort].Value()); raw != "" {
		port, _ = strconv.Atoi(raw)
	}
	return Answers{
		Server:    strings.TrimSpace(m.inputs[fieldServer].Value()),
		Port:      port,
		From:      strings.TrimSpace(m.inputs[fieldFrom].Value()),
		To:        strings.TrimSpace(m.inputs[fieldTo].Value()),
		NotifList: strings.TrimSpace(m.inputs[fieldNotifList].Value()),
		User:      strings.TrimSpace(m.inputs[fieldUser].Value()),
		Pass:      m.inputs[fieldPass].Value(),
		LogLevel:  strings.TrimSpace(m.inputs[fieldLogLevel].Value()),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit

		case "enter":
			if m.focus == fieldCount-1 {
				if err := m.validate(); err != nil {
					m.errMsg = err.Error()
					return m, nil
				}
				m.done = true
				return m, tea.Quit
			}
			m.advance(1)
			return m, textinput.Blink

		case "tab", "down":
			m.advance(1)
			return m, textinput.Blink

		case "shift+tab", "up":
			m.advance(-1)
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) advance(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	m.errMsg = ""
}

// validate checks the required fields before submit.
func (m Model) validate() error {
	a := m.Answers()
	if a.Server == "" {
		return fmt.Errorf("SMTP server is required")
	}
	if a.From == "" || !strings.Contains(a.From, "@") {
		return fmt.Errorf("from address must be an email address")
	}
	if a.To == "" {
		return fmt.Errorf("at least one mail recipient is required")
	}
	if raw := strings.TrimSpace(m.inputs[fieldPort].Value()); raw != "" {
		if _, err := strconv.Atoi(raw); err != nil {
			return fmt.Errorf("SMTP port must be a number")
		}
	}
	if m.inputs[fieldUser].Value() != "" && m.inputs[fieldPass].Value() == "" {
		return fmt.Errorf("SMTP password is required when a user is set")
	}
	return nil
}

// View implements tea.Model.
func (m Model) View() string {
	width := contentWidth()

	var b strings.Builder
	b.WriteString(titleStyle.Render("scriptkit setup"))
	b.WriteString("\n\n")

	for i := range m.inputs {
		label := blurredLabelStyle.Render(fields[i].label)
		if i == m.focus {
			label = focusedLabelStyle.Render(fields[i].label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		if fields[i].hint != "" && i == m.focus {
			b.WriteString("  ")
			b.WriteString(hintStyle.Render(fields[i].hint))
		}
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.errMsg))
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("tab/enter: next field • enter on last field: save • esc: abort"))
	b.WriteString("\n")

	return lipgloss.NewStyle().MaxWidth(width).Render(b.String())
}
