package config

import (
	"path/filepath"
	"testing"
)

func TestRootPath(t *testing.T) {
	t.Setenv("CARDBOX_ROOT", "")
	if got := RootPath(); got != DefaultRootPath {
		t.Errorf("RootPath() = %q, want %q", got, DefaultRootPath)
	}

	t.Setenv("CARDBOX_ROOT", "/srv/cards")
	if got := RootPath(); got != "/srv/cards" {
		t.Errorf("RootPath() = %q, want /srv/cards", got)
	}
}

func TestDatabasePath(t *testing.T) {
	t.Setenv("CARDBOX_DB", "/tmp/custom.db")
	got, err := DatabasePath()
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/custom.db" {
		t.Errorf("DatabasePath() = %q, want /tmp/custom.db", got)
	}

	t.Setenv("CARDBOX_DB", "")
	t.Setenv("XDG_DATA_HOME", "/data")
	got, err = DatabasePath()
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join("/data", "cardbox", "index.db")
	if got != want {
		t.Errorf("DatabasePath() = %q, want %q", got, want)
	}
}
