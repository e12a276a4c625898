// Package config holds the toolbar's global settings: label visibility,
// theme and intersection mode.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-toolbar/internal/style"
)

// Themes the toolbar ships with.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var ErrInvalid = errors.New("invalid settings")

// Labels controls label visibility.
type Labels struct {
	Enabled                bool    `json:"enabled" yaml:"enabled" doc:"Draw feature labels"`
	VisibleUnderResolution float64 `json:"visibleUnderResolution" yaml:"visibleUnderResolution" minimum:"0" doc:"Labels are drawn while the view resolution is below this value" example:"40"`
}

// Intersection controls draw-time hole cutting.
type Intersection struct {
	Enabled bool `json:"enabled" yaml:"enabled" doc:"Cut newly drawn shapes out of the features they overlap"`
}

// Settings are the global toolbar settings.
type Settings struct {
	Labels       Labels       `json:"labels" yaml:"labels"`
	Theme        string       `json:"theme" yaml:"theme" enum:"light,dark" doc:"UI theme"`
	Intersection Intersection `json:"intersection" yaml:"intersection"`
}

// Defaults returns the settings used for missing keys.
func Defaults() Settings {
	gate := style.DefaultGate()
	return Settings{
		Labels: Labels{
			Enabled:                gate.LabelsEnabled,
			VisibleUnderResolution: gate.VisibleUnderResolution,
		},
		Theme:        ThemeLight,
		Intersection: Intersection{Enabled: true},
	}
}

// Gate returns the label gate the style cache applies.
func (s Settings) Gate() style.Gate {
	return style.Gate{
		LabelsEnabled:          s.Labels.Enabled,
		VisibleUnderResolution: s.Labels.VisibleUnderResolution,
	}
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if s.Labels.VisibleUnderResolution < 0 {
		return fmt.Errorf("%w: labels.visibleUnderResolution must not be negative", ErrInvalid)
	}
	switch s.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, s.Theme)
	}
	return nil
}

// Load reads settings from a YAML file. Keys missing from the file keep
// their defaults, and a missing file yields the defaults.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("reading settings: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Defaults(), fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Defaults(), fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes settings to a YAML file, creating its directory.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ChangeFunc is called after the settings were replaced.
type ChangeFunc func(old, current Settings)

// Store holds the current settings and tells subscribers about changes.
type Store struct {
	path string

	mu      sync.RWMutex
	current Settings
	subs    []ChangeFunc
}

// NewStore loads settings from path. An empty path keeps the settings in
// memory only.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, current: Defaults()}
	if path == "" {
		return s, nil
	}
	current, err := Load(path)
	if err != nil {
		return nil, err
	}
	s.current = current
	return s, nil
}

// Get returns the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates and stores next, persists it when the store has a path,
// then calls the subscribers.
func (s *Store) Update(next Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.path != "" {
		if err := Save(s.path, next); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("saving settings: %w", err)
		}
	}
	old := s.current
	s.current = next
	subs := make([]ChangeFunc, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(old, next)
	}
	return nil
}

// Subscribe registers fn to be called after every Update.
func (s *Store) Subscribe(fn ChangeFunc) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}
