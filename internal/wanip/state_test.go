package wanip

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wanip.yaml")
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	st := &State{}
	st.Update("203.0.113.7", now)
	if err := st.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if got.Address != "203.0.113.7" {
		t.Errorf("Address = %q", got.Address)
	}
	if !got.CheckedAt.Equal(now) {
		t.Errorf("CheckedAt = %v, want %v", got.CheckedAt, now)
	}
	if !got.ChangedAt.Equal(now) {
		t.Errorf("ChangedAt = %v, want %v", got.ChangedAt, now)
	}
}

func TestStateUpdateRotatesPrevious(t *testing.T) {
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	third := second.Add(time.Hour)

	st := &State{}
	st.Update("192.0.2.1", first)
	st.Update("192.0.2.1", second) // unchanged: only CheckedAt should move
	if st.Previous != "" || !st.ChangedAt.Equal(first) {
		t.Errorf("unchanged update mutated change tracking: %+v", st)
	}
	if !st.CheckedAt.Equal(second) {
		t.Errorf("CheckedAt = %v, want %v", st.CheckedAt, second)
	}

	st.Update("198.51.100.9", third)
	if st.Previous != "192.0.2.1" {
		t.Errorf("Previous = %q, want the prior address", st.Previous)
	}
	if st.Address != "198.51.100.9" {
		t.Errorf("Address = %q", st.Address)
	}
	if !st.ChangedAt.Equal(third) {
		t.Errorf("ChangedAt = %v, want %v", st.ChangedAt, third)
	}
}

func TestLoadStateMissing(t *testing.T) {
	_, err := LoadState(filepath.Join(t.TempDir(), "absent.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("LoadState() error = %v, want not-exist", err)
	}
}

func TestLoadStateMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml {{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(path); err == nil {
		t.Fatal("LoadState() should fail on malformed YAML")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wanip.yaml")

	st := &State{Address: "203.0.113.7"}
	if err := st.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "wanip.yaml" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contents = %v, want only wanip.yaml", names)
	}
}
