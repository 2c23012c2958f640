// Package session persists browser login state as one JSON file per
// account. A record wraps the Playwright storage state with a small
// metadata envelope; older files holding the bare storage state are
// still readable.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gobwas/glob"

	"github.com/entrhq/instagrab/pkg/logging"
)

const (
	// sessionFileSuffix is appended to the normalized username.
	sessionFileSuffix = "_session.json"

	// DefaultFileName is used when no username is known.
	DefaultFileName = "default_session.json"
)

// sessionFileGlob matches every session file in a directory, including
// the default one.
var sessionFileGlob = glob.MustCompile("*" + sessionFileSuffix)

// DirOptions controls where session files live.
type DirOptions struct {
	// Dir is an explicit session directory. Takes precedence.
	Dir string

	// UseProjectDir stores sessions in ./sessions instead of the
	// home directory default.
	UseProjectDir bool
}

// ResolveDir resolves the session directory from the options:
// explicit dir, then ./sessions, then ~/.instagrab/sessions.
func ResolveDir(opts DirOptions) (string, error) {
	if opts.Dir != "" {
		return opts.Dir, nil
	}
	if opts.UseProjectDir {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return filepath.Join(cwd, "sessions"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".instagrab", "sessions"), nil
}

// Store reads and writes session records in a single directory.
// It assumes a single writer; there is no cross-process locking.
type Store struct {
	dir string
	log *logging.Logger
}

// NewStore creates a store rooted at dir, creating the directory if
// needed. The logger may be nil.
func NewStore(dir string, log *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create session directory %s: %w", dir, err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) warnf(format string, v ...interface{}) {
	if s.log != nil {
		s.log.Warnf(format, v...)
	}
}

func (s *Store) infof(format string, v ...interface{}) {
	if s.log != nil {
		s.log.Infof(format, v...)
	}
}

// NormalizeUsername lower-cases and trims a username. Idempotent.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// FileName returns the session file name for a username. An empty or
// "default" username maps to the shared default file, so a directory
// holds at most one file per normalized username.
func FileName(username string) string {
	normalized := NormalizeUsername(username)
	if normalized == "" || normalized == "default" {
		return DefaultFileName
	}
	return normalized + sessionFileSuffix
}

// UsernameFromFileName extracts the username token embedded in a
// session file name. Returns "" for the default file or non-session
// names.
func UsernameFromFileName(name string) string {
	if !strings.HasSuffix(name, sessionFileSuffix) {
		return ""
	}
	username := strings.TrimSuffix(name, sessionFileSuffix)
	if username == "default" {
		return ""
	}
	return username
}

// Path returns the absolute path of the session file for a username.
func (s *Store) Path(username string) string {
	return filepath.Join(s.dir, FileName(username))
}

// Save writes a record to the file named by its metadata username,
// atomically via a temp file.
func (s *Store) Save(rec *Record) error {
	return s.writeFile(s.Path(rec.Metadata.Username), rec)
}

func (s *Store) writeFile(path string, rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp session file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp session file: %w", err)
	}

	s.infof("session saved to %s", path)
	return nil
}

// Load reads the record for a username. Legacy files holding a bare
// storage state are wrapped on the fly with metadata derived from the
// file; such records are never valid and are only replaced by the
// wrapped form when a fresh login saves over them.
func (s *Store) Load(username string) (*Record, error) {
	return s.loadFile(s.Path(username))
}

func (s *Store) loadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rec, err := decodeRecord(data)
	if err != nil {
		return nil, fmt.Errorf("session file %s: %w", path, err)
	}

	// Legacy files carry no timestamps; fall back to file mtime.
	if rec.Metadata.CreatedAt == 0 {
		if info, statErr := os.Stat(path); statErr == nil {
			mtime := float64(info.ModTime().Unix())
			rec.Metadata.CreatedAt = mtime
			if rec.Metadata.LastUsed == 0 {
				rec.Metadata.LastUsed = mtime
			}
		}
	}
	if rec.Metadata.Username == "" {
		rec.Metadata.Username = UsernameFromFileName(filepath.Base(path))
	}
	return rec, nil
}

// decodeRecord parses either the wrapped format or the legacy bare
// {cookies, origins} format.
func decodeRecord(data []byte) (*Record, error) {
	var probe struct {
		StorageState *StorageState     `json:"storage_state"`
		Metadata     *Metadata         `json:"metadata"`
		Cookies      []Cookie          `json:"cookies"`
		Origins      []json.RawMessage `json:"origins"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if probe.StorageState != nil {
		rec := &Record{StorageState: *probe.StorageState}
		if probe.Metadata != nil {
			rec.Metadata = *probe.Metadata
		}
		return rec, nil
	}

	if probe.Cookies != nil || probe.Origins != nil {
		return &Record{
			StorageState: StorageState{
				Cookies: probe.Cookies,
				Origins: probe.Origins,
			},
			Legacy: true,
		}, nil
	}

	return nil, fmt.Errorf("unrecognized session format")
}

// Touch updates the record's last_used timestamp to now and rewrites
// the file. Returns the new timestamp. Legacy files are refused so a
// rewrite cannot silently promote them to the wrapped form.
func (s *Store) Touch(username string) (float64, error) {
	rec, err := s.Load(username)
	if err != nil {
		return 0, err
	}
	if rec.Legacy {
		return 0, fmt.Errorf("refusing to rewrite legacy session file %s", s.Path(username))
	}
	now := float64(time.Now().Unix())
	rec.Metadata.LastUsed = now
	if rec.Metadata.Username == "" {
		rec.Metadata.Username = NormalizeUsername(username)
	}
	if err := s.writeFile(s.Path(username), rec); err != nil {
		return 0, err
	}
	return now, nil
}

// List returns info for every session file in the directory, newest
// last_used first. Ties keep directory order. Corrupt or unreadable
// files are skipped with a warning.
func (s *Store) List() []Info {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.warnf("session directory not readable: %v", err)
		return nil
	}

	var infos []Info
	now := time.Now()
	for _, e := range entries {
		if e.IsDir() || !sessionFileGlob.Match(e.Name()) {
			continue
		}

		path := filepath.Join(s.dir, e.Name())
		rec, err := s.loadFile(path)
		if err != nil {
			s.warnf("skipping session file %s: %v", path, err)
			continue
		}

		fi, err := e.Info()
		if err != nil {
			s.warnf("skipping session file %s: %v", path, err)
			continue
		}

		username := rec.Metadata.Username
		if username == "" {
			username = "unknown"
		}

		infos = append(infos, Info{
			Username:  username,
			FileName:  e.Name(),
			FilePath:  path,
			CreatedAt: rec.Metadata.CreatedAt,
			LastUsed:  rec.Metadata.LastUsed,
			FileSize:  fi.Size(),
			Valid:     rec.Valid(now),
		})
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].LastUsed > infos[j].LastUsed
	})
	return infos
}

// Remove deletes the session file for a username. Returns false when
// the file does not exist or cannot be removed; never panics.
func (s *Store) Remove(username string) bool {
	path := s.Path(username)
	if _, err := os.Stat(path); err != nil {
		s.warnf("session file not found: %s", path)
		return false
	}
	if err := os.Remove(path); err != nil {
		s.warnf("failed to remove session file %s: %v", path, err)
		return false
	}
	s.infof("session removed: %s", path)
	return true
}
