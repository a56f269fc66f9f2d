package setup

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the interactive form and writes the resulting config file to
// path. An existing file is left alone unless force is set.
func Run(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
		}
	}

	final, err := tea.NewProgram(NewModel()).Run()
	if err != nil {
		return fmt.Errorf("setup form: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.Aborted() || !m.Done() {
		return fmt.Errorf("setup aborted, no config written")
	}

	if err := WriteConfig(path, m.Answers()); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", path)
	return nil
}

// WriteConfig renders the answers as a commented key/value config file in
// the format the config store parses.
func WriteConfig(path string, a Answers) error {
	var b strings.Builder

	b.WriteString("# scriptkit configuration\n")
	b.WriteString("# One 'Key value' directive per line; '#' starts a comment.\n\n")

	b.WriteString("# Mail account\n")
	fmt.Fprintf(&b, "EmailServer  %s\n", a.Server)
	if a.Port != 0 {
		fmt.Fprintf(&b, "EmailPort    %d\n", a.Port)
	}
	fmt.Fprintf(&b, "EmailFrom    %s\n", a.From)
	if a.User != "" {
		fmt.Fprintf(&b, "EmailUser    %s\n", a.User)
		fmt.Fprintf(&b, "EmailPass    %s\n", a.Pass)
	}

	b.WriteString("\n# Recipients\n")
	fmt.Fprintf(&b, "EmailTo      %s\n", a.To)
	if a.NotifList != "" {
		fmt.Fprintf(&b, "NotifList    %s\n", a.NotifList)
	}

	b.WriteString("\n# Logging\n")
	level := a.LogLevel
	if level == "" {
		level = "warn"
	}
	fmt.Fprintf(&b, "LogLevel     %s\n", level)
	b.WriteString("# LogFile    scriptkit.log\n")

	b.WriteString("\n# Debug switches\n")
	b.WriteString("# DontEmail  true\n")
	b.WriteString("# DontNotif  true\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
