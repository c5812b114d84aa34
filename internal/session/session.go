package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MetaFileName is the name of the meta file created in every session
	// directory.
	MetaFileName = ".session"
	// ProfileFileName is the name under which the merged profile is written.
	ProfileFileName = "profile.yml"

	// nameLayout prefixes session directory names, so that their creation
	// time is readable from the name alone and names sort chronologically.
	nameLayout = "20060102T150405.000000"
)

// Directory is a session directory on disk.
type Directory struct {
	Path    string
	Created time.Time
}

// MetaPath returns the path of the .session meta file.
func (d *Directory) MetaPath() string {
	return filepath.Join(d.Path, MetaFileName)
}

// ProfilePath returns where the merged profile of the session goes. The file
// is not created by Initialize.
func (d *Directory) ProfilePath() string {
	return filepath.Join(d.Path, ProfileFileName)
}

// Meta reads the session meta file.
func (d *Directory) Meta() (*Meta, error) {
	return LoadMeta(d.MetaPath())
}

// Annotate records the launched profile and managers in the meta file.
func (d *Directory) Annotate(profile string, managers []string, toolVersion string) error {
	m, err := d.Meta()
	if err != nil {
		return err
	}
	m.Profile = profile
	m.Managers = managers
	m.ToolVersion = toolVersion
	return SaveMeta(d.MetaPath(), m)
}

// Age returns how long ago the session was created.
func (d *Directory) Age(now time.Time) time.Duration {
	return now.Sub(d.Created)
}

// Initialize creates a new uniquely named session directory under root,
// creating root if needed, and writes its meta file.
func Initialize(root string) (*Directory, error) {
	return initialize(root, time.Now())
}

func initialize(root string, now time.Time) (*Directory, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("creating session root: %w", err)
	}
	now = now.UTC()
	path, err := os.MkdirTemp(root, now.Format(nameLayout)+"-*")
	if err != nil {
		return nil, fmt.Errorf("creating session directory: %w", err)
	}

	d := &Directory{Path: path, Created: now}
	meta := &Meta{
		Version:   MetaVersion,
		CreatedAt: now.Format(time.RFC3339Nano),
	}
	if err := SaveMeta(d.MetaPath(), meta); err != nil {
		_ = os.RemoveAll(path)
		return nil, err
	}
	return d, nil
}

// parseName returns the creation time encoded in a session directory name.
func parseName(name string) (time.Time, bool) {
	stamp, _, ok := strings.Cut(name, "-")
	if !ok {
		return time.Time{}, false
	}
	created, err := time.Parse(nameLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return created, true
}

// List returns the session directories under root, oldest first. Entries
// that are not session directories are ignored; a missing root yields none.
func List(root string) ([]*Directory, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session root: %w", err)
	}

	var dirs []*Directory
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		created, ok := parseName(entry.Name())
		if !ok {
			continue
		}
		dirs = append(dirs, &Directory{
			Path:    filepath.Join(root, entry.Name()),
			Created: created,
		})
	}
	return dirs, nil
}

// Outdated returns the session directories under root older than lifetime
// at now.
func Outdated(root string, lifetime time.Duration, now time.Time) ([]*Directory, error) {
	dirs, err := List(root)
	if err != nil {
		return nil, err
	}
	var out []*Directory
	for _, d := range dirs {
		if d.Age(now) > lifetime {
			out = append(out, d)
		}
	}
	return out, nil
}

// CleanOutdated removes the session directories under root older than
// lifetime and returns their paths.
func CleanOutdated(root string, lifetime time.Duration) ([]string, error) {
	return cleanOutdated(root, lifetime, time.Now())
}

func cleanOutdated(root string, lifetime time.Duration, now time.Time) ([]string, error) {
	dirs, err := Outdated(root, lifetime, now)
	if err != nil {
		return nil, err
	}
	removed := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if err := os.RemoveAll(d.Path); err != nil {
			return removed, fmt.Errorf("removing session %s: %w", d.Path, err)
		}
		removed = append(removed, d.Path)
	}
	return removed, nil
}
