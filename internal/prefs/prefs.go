// Package prefs persists the one local preference: the sidebar width.
package prefs

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	DefaultSidebarWidth = 380
	MinSidebarWidth     = 280
	MaxSidebarWidth     = 640

	FileName = "prefs.toml"
)

type file struct {
	SidebarWidth *int `toml:"sidebar_width"`
}

// Store reads and writes prefs.toml in a directory.
type Store struct {
	path  string
	width int
}

// Open restores the saved width from dir. A missing or unreadable file, or
// a missing key, gives the default.
func Open(dir string) *Store {
	s := &Store{path: filepath.Join(dir, FileName), width: DefaultSidebarWidth}
	var f file
	if _, err := toml.DecodeFile(s.path, &f); err != nil || f.SidebarWidth == nil {
		return s
	}
	s.width = Clamp(*f.SidebarWidth)
	return s
}

func (s *Store) SidebarWidth() int { return s.width }

// SetSidebarWidth clamps w, stores it and returns the stored value.
func (s *Store) SetSidebarWidth(w int) (int, error) {
	s.width = Clamp(w)
	return s.width, s.save()
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := s.width
	return toml.NewEncoder(f).Encode(file{SidebarWidth: &w})
}

func Clamp(w int) int {
	return min(max(w, MinSidebarWidth), MaxSidebarWidth)
}
