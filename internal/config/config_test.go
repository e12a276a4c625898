package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/joeblew999/plat-toolbar/internal/style"
)

func TestLoadMissingFile(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Defaults(), got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	data := "labels:\n  visibleUnderResolution: 12.5\ntheme: dark\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	want := Defaults()
	want.Labels.VisibleUnderResolution = 12.5
	want.Theme = ThemeDark
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "labels: [\n"},
		{"negative threshold", "labels:\n  visibleUnderResolution: -1\n"},
		{"unknown theme", "theme: neon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() succeeded, want error")
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	want := Settings{
		Labels:       Labels{Enabled: false, VisibleUnderResolution: 7},
		Theme:        ThemeDark,
		Intersection: Intersection{Enabled: false},
	}
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestGate(t *testing.T) {
	s := Defaults()
	if diff := cmp.Diff(style.DefaultGate(), s.Gate()); diff != "" {
		t.Errorf("default gate (-want +got):\n%s", diff)
	}
}

func TestStoreUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	s, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}

	var calls []Settings
	s.Subscribe(func(old, current Settings) {
		if old.Theme != ThemeLight {
			t.Errorf("old theme = %q, want light", old.Theme)
		}
		calls = append(calls, current)
	})

	next := s.Get()
	next.Theme = ThemeDark
	if err := s.Update(next); err != nil {
		t.Fatal(err)
	}
	if len(calls) != 1 || calls[0].Theme != ThemeDark {
		t.Fatalf("subscriber calls = %v", calls)
	}
	if s.Get().Theme != ThemeDark {
		t.Error("Get() did not return the update")
	}

	reloaded, err := NewStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Get().Theme != ThemeDark {
		t.Error("update was not persisted")
	}
}

func TestStoreUpdateRejectsInvalid(t *testing.T) {
	s, err := NewStore("")
	if err != nil {
		t.Fatal(err)
	}
	s.Subscribe(func(Settings, Settings) { t.Error("subscriber called for a rejected update") })

	bad := s.Get()
	bad.Theme = "neon"
	if err := s.Update(bad); !errors.Is(err, ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
	if s.Get().Theme != ThemeLight {
		t.Error("rejected update was applied")
	}
}
