// Package store provides flat-file persistence for cspin aliases.
//
// Everything lives under one store directory:
//
//	<dir>/<alias>          alias record: identifier, tracked directory
//	<dir>/<alias>~<N>      archived record from the Nth migration
//	<dir>/track/<id>       tracking entry: session id -> alias name
//	<dir>/pid-<pid>        liveness record: alias name, last-seen id
//	<dir>/pending-<pid>    pending marker: alias name, dir, created-at
//
// The store is pure mechanism. Which records exist and when they change
// hands is decided by the engine and the launcher, never here.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	trackDirName   = "track"
	eventsFileName = "events.jsonl"
	configFileName = "config.toml"

	pidPrefix     = "pid-"
	pendingPrefix = "pending-"
	archiveSep    = "~"
)

// Record is an alias record: the session identifier the alias currently
// points at and the directory the session was started in.
type Record struct {
	Identifier string
	Dir        string
}

// Pending is a pending-registration marker left by the launcher.
type Pending struct {
	Alias     string
	Dir       string
	CreatedAt time.Time
}

// Age returns how long ago the marker was created.
func (p Pending) Age() time.Duration {
	return time.Since(p.CreatedAt)
}

// Store reads and writes alias state under a single directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created lazily on
// first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the store root.
func (s *Store) Dir() string {
	return s.dir
}

// ValidateAliasName rejects names that would collide with the store's own
// files or escape the store directory.
func ValidateAliasName(name string) error {
	if name == "" {
		return fmt.Errorf("alias name is empty")
	}
	if strings.ContainsAny(name, "~/\\") || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("alias name %q contains reserved characters", name)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("alias name %q is not allowed", name)
	}
	if name == trackDirName || name == eventsFileName || name == configFileName {
		return fmt.Errorf("alias name %q is reserved", name)
	}
	if strings.HasPrefix(name, pidPrefix) || strings.HasPrefix(name, pendingPrefix) {
		return fmt.Errorf("alias name %q uses a reserved prefix", name)
	}
	return nil
}

func (s *Store) aliasPath(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) archivePath(name string, n int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s%s%d", name, archiveSep, n))
}

func (s *Store) trackPath(identifier string) string {
	return filepath.Join(s.dir, trackDirName, identifier)
}

func (s *Store) livenessPath(pid int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s%d", pidPrefix, pid))
}

func (s *Store) pendingPath(pid int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s%d", pendingPrefix, pid))
}

// EventsPath returns the path of the append-only event log.
func (s *Store) EventsPath() string {
	return filepath.Join(s.dir, eventsFileName)
}

// ReadAlias returns the alias record, or nil if the alias does not exist.
func (s *Store) ReadAlias(name string) (*Record, error) {
	return readRecord(s.aliasPath(name))
}

// WriteAlias creates or fully overwrites an alias record.
func (s *Store) WriteAlias(name string, rec Record) error {
	return writeFileAtomic(s.aliasPath(name), recordBytes(rec))
}

// DeleteAlias removes an alias record. Missing files are not an error.
func (s *Store) DeleteAlias(name string) error {
	return removeIfPresent(s.aliasPath(name))
}

// ReadArchive returns the archived record for slot n, or nil if absent.
func (s *Store) ReadArchive(name string, n int) (*Record, error) {
	return readRecord(s.archivePath(name, n))
}

// WriteArchive writes an immutable archive record for slot n.
func (s *Store) WriteArchive(name string, n int, rec Record) error {
	return writeFileAtomic(s.archivePath(name, n), recordBytes(rec))
}

// NextArchiveSlot returns the smallest positive N such that <name>~N does
// not exist yet. Archives are written one per migration, so a linear scan
// stays cheap.
func (s *Store) NextArchiveSlot(name string) int {
	for n := 1; ; n++ {
		if _, err := os.Stat(s.archivePath(name, n)); os.IsNotExist(err) {
			return n
		}
	}
}

// ArchiveSlots returns the occupied archive slot numbers for an alias,
// ascending.
func (s *Store) ArchiveSlots(name string) []int {
	var slots []int
	for n := 1; ; n++ {
		if _, err := os.Stat(s.archivePath(name, n)); err != nil {
			break
		}
		slots = append(slots, n)
	}
	return slots
}

// DeleteArchives removes all archive records for an alias.
func (s *Store) DeleteArchives(name string) {
	for _, n := range s.ArchiveSlots(name) {
		_ = os.Remove(s.archivePath(name, n))
	}
}

// ListAliases returns the names of all non-archived aliases, sorted.
func (s *Store) ListAliases() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading store directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			continue
		}
		if name == eventsFileName || name == configFileName {
			continue
		}
		if strings.HasPrefix(name, pidPrefix) || strings.HasPrefix(name, pendingPrefix) {
			continue
		}
		// Dotfiles cover in-flight temp writes; .lock is the event
		// log's flock sidecar.
		if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".lock") {
			continue
		}
		if strings.Contains(name, archiveSep) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// FindAliasByIdentifier scans all non-archived alias records for one whose
// current identifier matches. Returns the alias name, or "" if none match.
func (s *Store) FindAliasByIdentifier(identifier string) (string, error) {
	names, err := s.ListAliases()
	if err != nil {
		return "", err
	}
	for _, name := range names {
		rec, err := s.ReadAlias(name)
		if err != nil || rec == nil {
			continue
		}
		if rec.Identifier == identifier {
			return name, nil
		}
	}
	return "", nil
}

// ReadTracking returns the alias name tracked for a session identifier,
// or "" if the identifier is untracked.
func (s *Store) ReadTracking(identifier string) (string, error) {
	data, err := os.ReadFile(s.trackPath(identifier))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading tracking entry: %w", err)
	}
	return firstLine(data), nil
}

// WriteTracking records that a session identifier belongs to an alias.
func (s *Store) WriteTracking(identifier, alias string) error {
	return writeFileAtomic(s.trackPath(identifier), []byte(alias+"\n"))
}

// DeleteTracking removes the tracking entry for a session identifier.
func (s *Store) DeleteTracking(identifier string) error {
	return removeIfPresent(s.trackPath(identifier))
}

// ReadLiveness returns the (alias, identifier) pair last recorded for a
// host pid. Both are "" when no record exists.
func (s *Store) ReadLiveness(pid int) (alias, identifier string, err error) {
	data, err := os.ReadFile(s.livenessPath(pid))
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("reading liveness record: %w", err)
	}
	lines := splitLines(data)
	if len(lines) > 0 {
		alias = lines[0]
	}
	if len(lines) > 1 {
		identifier = lines[1]
	}
	return alias, identifier, nil
}

// WriteLiveness overwrites the liveness record for a host pid.
func (s *Store) WriteLiveness(pid int, alias, identifier string) error {
	return writeFileAtomic(s.livenessPath(pid), []byte(alias+"\n"+identifier+"\n"))
}

// DeleteLiveness removes the liveness record for a host pid.
func (s *Store) DeleteLiveness(pid int) error {
	return removeIfPresent(s.livenessPath(pid))
}

// LivenessPIDs returns every host pid that has a liveness record.
func (s *Store) LivenessPIDs() ([]int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading store directory: %w", err)
	}
	var pids []int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, pidPrefix) {
			continue
		}
		var pid int
		if _, err := fmt.Sscanf(strings.TrimPrefix(name, pidPrefix), "%d", &pid); err == nil && pid > 0 {
			pids = append(pids, pid)
		}
	}
	sort.Ints(pids)
	return pids, nil
}

// ReadPending returns the pending marker for a launcher pid, or nil if
// absent. Markers written by older versions carry no created-at line; the
// file's modification time stands in for it.
func (s *Store) ReadPending(pid int) (*Pending, error) {
	path := s.pendingPath(pid)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading pending marker: %w", err)
	}

	lines := splitLines(data)
	p := &Pending{}
	if len(lines) > 0 {
		p.Alias = lines[0]
	}
	if len(lines) > 1 {
		p.Dir = lines[1]
	}
	if len(lines) > 2 {
		if ts, err := time.Parse(time.RFC3339, lines[2]); err == nil {
			p.CreatedAt = ts
		}
	}
	if p.CreatedAt.IsZero() {
		if info, err := os.Stat(path); err == nil {
			p.CreatedAt = info.ModTime()
		} else {
			p.CreatedAt = time.Now()
		}
	}
	return p, nil
}

// HasPending reports whether a pending marker exists for a launcher pid.
func (s *Store) HasPending(pid int) bool {
	_, err := os.Stat(s.pendingPath(pid))
	return err == nil
}

// WritePending creates a pending marker for a launcher pid.
func (s *Store) WritePending(pid int, alias, dir string) error {
	content := alias + "\n" + dir + "\n" + time.Now().Format(time.RFC3339) + "\n"
	return writeFileAtomic(s.pendingPath(pid), []byte(content))
}

// DeletePending removes the pending marker for a launcher pid.
func (s *Store) DeletePending(pid int) error {
	return removeIfPresent(s.pendingPath(pid))
}

// readRecord reads a two-line record file. A missing second line degrades
// to an empty directory; callers substitute the event's own directory.
func readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}
	lines := splitLines(data)
	rec := &Record{}
	if len(lines) > 0 {
		rec.Identifier = lines[0]
	}
	if len(lines) > 1 {
		rec.Dir = lines[1]
	}
	return rec, nil
}

func recordBytes(rec Record) []byte {
	return []byte(rec.Identifier + "\n" + rec.Dir + "\n")
}

// writeFileAtomic writes via a temp file in the same directory and renames
// it into place, so a reader never observes a half-written record.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}

func removeIfPresent(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func firstLine(data []byte) string {
	lines := splitLines(data)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func splitLines(data []byte) []string {
	raw := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		out = append(out, strings.TrimRight(line, " \t"))
	}
	// Drop the trailing empty element from the final newline.
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
