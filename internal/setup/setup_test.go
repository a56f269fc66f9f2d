package setup

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsmith/scriptkit/internal/config"
	"github.com/opsmith/scriptkit/internal/logging"
)

func TestWriteConfigParsesBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nudge.cfg")

	err := WriteConfig(path, Answers{
		Server:    "smtp.example.com",
		Port:      465,
		From:      "robot@example.com",
		To:        "alice@example.com bob@example.com",
		NotifList: "5551234567@txt.example.com",
		User:      "robot",
		Pass:      "hunter2",
		LogLevel:  "info",
	})
	require.NoError(t, err)

	// The generated file must round-trip through the config store.
	store := config.New(dir, logging.NewNop())
	_, err = store.Load("nudge.cfg", config.LoadOptions{})
	require.NoError(t, err)

	host, err := store.GetString("EmailServer")
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com", host)

	port, err := store.GetInt("EmailPort")
	require.NoError(t, err)
	assert.Equal(t, 465, port)

	to, err := store.GetString("EmailTo")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com bob@example.com", to)

	level, err := store.GetString("LogLevel")
	require.NoError(t, err)
	assert.Equal(t, "info", level)

	// Commented debug switches must stay comments.
	_, err = store.Get("DontEmail")
	assert.Error(t, err)
}

func TestWriteConfigOmitsOptionalFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "min.cfg")

	err := WriteConfig(path, Answers{
		Server: "smtp.example.com",
		From:   "me@example.com",
		To:     "you@example.com",
	})
	require.NoError(t, err)

	store := config.New(dir, logging.NewNop())
	_, err = store.Load("min.cfg", config.LoadOptions{})
	require.NoError(t, err)

	_, err = store.Get("EmailUser")
	assert.Error(t, err)
	_, err = store.Get("EmailPort")
	assert.Error(t, err)

	level, err := store.GetString("LogLevel")
	require.NoError(t, err)
	assert.Equal(t, "warn", level, "log level defaults to warn")
}

func TestWriteConfigPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.cfg")
	require.NoError(t, WriteConfig(path, Answers{Server: "s", From: "f@x", To: "t@x", Pass: "p"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "config may hold credentials")
}

func TestModelNavigation(t *testing.T) {
	m := NewModel()
	assert.Equal(t, 0, m.focus)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	assert.Equal(t, 1, m.focus)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	assert.Equal(t, 0, m.focus)

	// shift-tab from the first field wraps to the last.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(Model)
	assert.Equal(t, fieldCount-1, m.focus)
}

func TestModelAbort(t *testing.T) {
	m := NewModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	assert.True(t, m.Aborted())
	assert.NotNil(t, cmd, "abort must quit the program")
}

func TestModelValidate(t *testing.T) {
	m := NewModel()

	// Empty form fails on the server field.
	assert.Error(t, m.validate())

	m.inputs[fieldServer].SetValue("smtp.example.com")
	m.inputs[fieldFrom].SetValue("not-an-address")
	m.inputs[fieldTo].SetValue("you@example.com")
	assert.Error(t, m.validate(), "from must look like an email address")

	m.inputs[fieldFrom].SetValue("me@example.com")
	assert.NoError(t, m.validate())

	m.inputs[fieldPort].SetValue("not-a-number")
	assert.Error(t, m.validate())
	m.inputs[fieldPort].SetValue("587")

	m.inputs[fieldUser].SetValue("robot")
	assert.Error(t, m.validate(), "user without password is rejected")
	m.inputs[fieldPass].SetValue("hunter2")
	assert.NoError(t, m.validate())
}

func TestRunRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "have.cfg")
	require.NoError(t, os.WriteFile(path, []byte("Key value\n"), 0o644))

	err := Run(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}
