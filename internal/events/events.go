// Package events maintains the append-only audit log of alias activity.
//
// The log is a JSONL file in the store directory, one event per line.
// Hook invocations from independent sessions may append concurrently, so
// appends are serialized with an advisory flock on a sidecar lock file.
// Logging is strictly best-effort: the engine swallows append errors.
package events

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Event types recorded in the log.
const (
	TypeRegister       = "register"
	TypeMigrate        = "migrate"
	TypePendingExpired = "pending_expired"
)

// Event is one line of the audit log.
type Event struct {
	ID      string `json:"id"`
	TS      string `json:"ts"`
	Type    string `json:"type"`
	Alias   string `json:"alias"`
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	HostPID int    `json:"host_pid,omitempty"`
}

// Log appends events to a JSONL file.
type Log struct {
	path string
}

// NewLog creates a log that appends to path.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Append writes one event, filling in ID and TS. The flock covers the
// open-write-close window so concurrent hook invocations cannot
// interleave partial lines.
func (l *Log) Append(ev Event) error {
	ev.ID = uuid.NewString()
	ev.TS = time.Now().UTC().Format(time.RFC3339)

	line, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	lock := flock.New(l.path + ".lock")
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return nil
}

// LastForAlias returns the most recent event recorded for an alias, or
// nil if the alias never appears in the log.
func (l *Log) LastForAlias(alias string) (*Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var last *Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		if ev.Alias == alias {
			e := ev
			last = &e
		}
	}
	return last, scanner.Err()
}
