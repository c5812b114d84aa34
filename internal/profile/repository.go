package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Repository finds and reads profile files across an ordered list of
// directories. Earlier locations are scanned first; locations that do not
// exist or are not directories are skipped.
type Repository struct {
	locations []string
	logger    *slog.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger makes the repository trace its file lookups at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// NewRepository returns a repository searching the given locations.
func NewRepository(locations []string, opts ...Option) *Repository {
	r := &Repository{locations: slices.Clone(locations)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Locations returns the searched directories, in order.
func (r *Repository) Locations() []string {
	return slices.Clone(r.locations)
}

func (r *Repository) log(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

type candidate struct {
	path       string
	identifier string
}

func (r *Repository) scan() ([]candidate, error) {
	var found []candidate
	for _, loc := range r.locations {
		info, err := os.Stat(loc)
		if errors.Is(err, fs.ErrNotExist) {
			r.log("location does not exist", "location", loc)
			continue
		}
		if err == nil && !info.IsDir() {
			r.log("location is not a directory", "location", loc)
			continue
		}
		entries, err := os.ReadDir(loc)
		if err != nil {
			return nil, fmt.Errorf("reading location %s: %w", loc, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !isYAML(entry.Name()) {
				continue
			}
			path := filepath.Join(loc, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			var h header
			if err := yaml.Unmarshal(data, &h); err != nil {
				r.log("skipping unparseable file", "path", path, "error", err)
				continue
			}
			if !h.isProfile() {
				continue
			}
			found = append(found, candidate{path: path, identifier: h.Identifier})
		}
	}
	r.log("scanned locations", "locations", len(r.locations), "profiles", len(found))
	return found, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yml" || ext == ".yaml"
}

// FindProfileFiles returns the path of every profile file in the locations.
func (r *Repository) FindProfileFiles() ([]string, error) {
	found, err := r.scan()
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(found))
	for i, c := range found {
		paths[i] = c.path
	}
	return paths, nil
}

// FindPaths returns the paths of every profile file declaring id. The result
// may be empty.
func (r *Repository) FindPaths(id string) ([]string, error) {
	found, err := r.scan()
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, c := range found {
		if c.identifier == id {
			paths = append(paths, c.path)
		}
	}
	return paths, nil
}

// FindByIdentifier returns the single profile file declaring id.
func (r *Repository) FindByIdentifier(id string) (string, error) {
	paths, err := r.FindPaths(id)
	if err != nil {
		return "", err
	}
	switch len(paths) {
	case 0:
		return "", fmt.Errorf("%w: no profile with identifier %q in %s",
			ErrNotFound, id, strings.Join(r.locations, string(os.PathListSeparator)))
	case 1:
		r.log("found profile", "identifier", id, "path", paths[0])
		return paths[0], nil
	default:
		return "", fmt.Errorf("%w: identifier %q is declared by %d files: %s",
			ErrConflict, id, len(paths), strings.Join(paths, ", "))
	}
}

// ReadProfile reads the profile file at path. Its base, if any, is found by
// identifier in the same locations and read recursively.
func (r *Repository) ReadProfile(path string) (*Profile, error) {
	return r.readProfile(path, nil)
}

func (r *Repository) readProfile(path string, chain []string) (*Profile, error) {
	r.log("reading profile", "path", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	p, base, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if base == "" {
		return p, nil
	}

	chain = append(slices.Clone(chain), p.Identifier)
	if slices.Contains(chain, base) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(chain, " -> "), base)
	}
	basePath, err := r.FindByIdentifier(base)
	if err != nil {
		return nil, fmt.Errorf("resolving base of %q: %w", p.Identifier, err)
	}
	r.log("resolving base profile", "child", p.Identifier, "base", base)
	p.Base, err = r.readProfile(basePath, chain)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ReadProfileByID reads the single profile declaring id.
func (r *Repository) ReadProfileByID(id string) (*Profile, error) {
	path, err := r.FindByIdentifier(id)
	if err != nil {
		return nil, err
	}
	return r.ReadProfile(path)
}

// Entry is a profile read from a file of the locations.
type Entry struct {
	Path    string
	Profile *Profile
}

// ListProfiles reads every profile file in the locations. A failure to scan
// the locations returns no entry. Files that fail to read are left out and
// reported in the joined error, which unwraps to one error per file.
func (r *Repository) ListProfiles() ([]Entry, error) {
	paths, err := r.FindProfileFiles()
	if err != nil {
		return nil, err
	}
	var (
		entries []Entry
		errs    []error
	)
	for _, path := range paths {
		p, err := r.ReadProfile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		entries = append(entries, Entry{Path: path, Profile: p})
	}
	return entries, errors.Join(errs...)
}

// WriteProfile encodes p to path. With checkUniqueID, writing fails when
// another file of the locations already declares p's identifier. The base,
// if any, must be readable from the locations.
func (r *Repository) WriteProfile(p *Profile, path string, checkUniqueID bool) error {
	if checkUniqueID {
		if err := r.CheckUniqueIdentifier(p.Identifier, path); err != nil {
			return err
		}
	}
	if p.Base != nil {
		if _, err := r.FindByIdentifier(p.Base.Identifier); err != nil {
			return fmt.Errorf("base of %q must exist on disk: %w", p.Identifier, err)
		}
	}

	data, err := Encode(p)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // profiles are shared
		return fmt.Errorf("writing profile: %w", err)
	}
	r.log("wrote profile", "identifier", p.Identifier, "path", path)
	return nil
}

// CheckUniqueIdentifier fails with ErrConflict when a profile file other than
// path declares id.
func (r *Repository) CheckUniqueIdentifier(id, path string) error {
	paths, err := r.FindPaths(id)
	if err != nil {
		return err
	}
	for _, other := range paths {
		if !samePath(other, path) {
			return fmt.Errorf("%w: identifier %q is already used by %s", ErrConflict, id, other)
		}
	}
	return nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}
