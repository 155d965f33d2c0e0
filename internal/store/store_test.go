package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(t.TempDir())
}

func TestValidateAliasName(t *testing.T) {
	tests := []struct {
		name    string
		alias   string
		wantErr bool
	}{
		{"simple", "debug-api", false},
		{"dots ok", "v1.2-fix", false},
		{"empty", "", true},
		{"tilde", "foo~1", true},
		{"slash", "a/b", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
		{"reserved track", "track", true},
		{"reserved events", "events.jsonl", true},
		{"reserved config", "config.toml", true},
		{"pid prefix", "pid-123", true},
		{"pending prefix", "pending-foo", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAliasName(tt.alias)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAliasName(%q) error = %v, wantErr %v", tt.alias, err, tt.wantErr)
			}
		})
	}
}

func TestAliasRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if rec, err := s.ReadAlias("missing"); err != nil || rec != nil {
		t.Fatalf("ReadAlias(missing) = %v, %v; want nil, nil", rec, err)
	}

	want := Record{Identifier: "sess-abc", Dir: "/proj/api"}
	if err := s.WriteAlias("debug-api", want); err != nil {
		t.Fatalf("WriteAlias() error = %v", err)
	}

	rec, err := s.ReadAlias("debug-api")
	if err != nil {
		t.Fatalf("ReadAlias() error = %v", err)
	}
	if rec == nil || *rec != want {
		t.Errorf("ReadAlias() = %+v, want %+v", rec, want)
	}

	// On-disk format is fixed: two newline-terminated lines.
	data, err := os.ReadFile(filepath.Join(s.Dir(), "debug-api"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "sess-abc\n/proj/api\n" {
		t.Errorf("alias file = %q, want two-line format", string(data))
	}
}

func TestAliasOverwrite(t *testing.T) {
	s := newTestStore(t)

	if err := s.WriteAlias("a", Record{Identifier: "one", Dir: "/d"}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteAlias("a", Record{Identifier: "two", Dir: "/d"}); err != nil {
		t.Fatal(err)
	}

	rec, err := s.ReadAlias("a")
	if err != nil || rec == nil {
		t.Fatalf("ReadAlias() = %v, %v", rec, err)
	}
	if rec.Identifier != "two" {
		t.Errorf("Identifier = %q, want two", rec.Identifier)
	}
}

func TestReadAlias_MissingSecondLine(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "partial"), []byte("only-id"), 0644); err != nil {
		t.Fatal(err)
	}

	rec, err := s.ReadAlias("partial")
	if err != nil || rec == nil {
		t.Fatalf("ReadAlias() = %v, %v", rec, err)
	}
	if rec.Identifier != "only-id" || rec.Dir != "" {
		t.Errorf("record = %+v, want identifier only with empty dir", rec)
	}
}

func TestArchiveSlots(t *testing.T) {
	s := newTestStore(t)

	if n := s.NextArchiveSlot("a"); n != 1 {
		t.Errorf("NextArchiveSlot = %d, want 1", n)
	}

	if err := s.WriteArchive("a", 1, Record{Identifier: "old1"}); err != nil {
		t.Fatal(err)
	}
	if n := s.NextArchiveSlot("a"); n != 2 {
		t.Errorf("NextArchiveSlot = %d, want 2", n)
	}
	if err := s.WriteArchive("a", 2, Record{Identifier: "old2"}); err != nil {
		t.Fatal(err)
	}

	slots := s.ArchiveSlots("a")
	if len(slots) != 2 || slots[0] != 1 || slots[1] != 2 {
		t.Errorf("ArchiveSlots = %v, want [1 2]", slots)
	}

	rec, err := s.ReadArchive("a", 1)
	if err != nil || rec == nil || rec.Identifier != "old1" {
		t.Errorf("ReadArchive(1) = %+v, %v", rec, err)
	}

	// Archives of one alias never leak into another alias's slots.
	if n := s.NextArchiveSlot("b"); n != 1 {
		t.Errorf("NextArchiveSlot(b) = %d, want 1", n)
	}
}

func TestListAliases_SkipsInternalFiles(t *testing.T) {
	s := newTestStore(t)

	if err := s.WriteAlias("beta", Record{Identifier: "2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteAlias("alpha", Record{Identifier: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteArchive("alpha", 1, Record{Identifier: "0"}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteTracking("1", "alpha"); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteLiveness(42, "alpha", "1"); err != nil {
		t.Fatal(err)
	}
	if err := s.WritePending(99, "gamma", "/p"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "events.jsonl"), []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "config.toml"), []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), "events.jsonl.lock"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir(), ".alpha.tmp-123"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	names, err := s.ListAliases()
	if err != nil {
		t.Fatalf("ListAliases() error = %v", err)
	}
	if strings.Join(names, ",") != "alpha,beta" {
		t.Errorf("ListAliases() = %v, want [alpha beta]", names)
	}
}

func TestListAliases_EmptyStore(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "never-created"))
	names, err := s.ListAliases()
	if err != nil {
		t.Fatalf("ListAliases() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("ListAliases() = %v, want empty", names)
	}
}

func TestFindAliasByIdentifier(t *testing.T) {
	s := newTestStore(t)

	if err := s.WriteAlias("a", Record{Identifier: "id-a"}); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteAlias("b", Record{Identifier: "id-b"}); err != nil {
		t.Fatal(err)
	}

	name, err := s.FindAliasByIdentifier("id-b")
	if err != nil {
		t.Fatalf("FindAliasByIdentifier() error = %v", err)
	}
	if name != "b" {
		t.Errorf("FindAliasByIdentifier(id-b) = %q, want b", name)
	}

	name, err = s.FindAliasByIdentifier("id-unknown")
	if err != nil || name != "" {
		t.Errorf("FindAliasByIdentifier(unknown) = %q, %v; want empty", name, err)
	}
}

func TestTrackingRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if alias, err := s.ReadTracking("sess-1"); err != nil || alias != "" {
		t.Fatalf("ReadTracking(missing) = %q, %v; want empty", alias, err)
	}

	if err := s.WriteTracking("sess-1", "debug-api"); err != nil {
		t.Fatalf("WriteTracking() error = %v", err)
	}
	alias, err := s.ReadTracking("sess-1")
	if err != nil || alias != "debug-api" {
		t.Fatalf("ReadTracking() = %q, %v; want debug-api", alias, err)
	}

	if err := s.DeleteTracking("sess-1"); err != nil {
		t.Fatalf("DeleteTracking() error = %v", err)
	}
	if alias, _ := s.ReadTracking("sess-1"); alias != "" {
		t.Errorf("ReadTracking() after delete = %q, want empty", alias)
	}

	// Deleting again is not an error.
	if err := s.DeleteTracking("sess-1"); err != nil {
		t.Errorf("DeleteTracking() on missing entry = %v", err)
	}
}

func TestLivenessRoundTrip(t *testing.T) {
	s := newTestStore(t)

	alias, id, err := s.ReadLiveness(1234)
	if err != nil || alias != "" || id != "" {
		t.Fatalf("ReadLiveness(missing) = %q, %q, %v", alias, id, err)
	}

	if err := s.WriteLiveness(1234, "debug-api", "sess-2"); err != nil {
		t.Fatalf("WriteLiveness() error = %v", err)
	}
	alias, id, err = s.ReadLiveness(1234)
	if err != nil {
		t.Fatalf("ReadLiveness() error = %v", err)
	}
	if alias != "debug-api" || id != "sess-2" {
		t.Errorf("ReadLiveness() = %q, %q; want debug-api, sess-2", alias, id)
	}

	pids, err := s.LivenessPIDs()
	if err != nil || len(pids) != 1 || pids[0] != 1234 {
		t.Errorf("LivenessPIDs() = %v, %v; want [1234]", pids, err)
	}
}

func TestPendingRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if p, err := s.ReadPending(5678); err != nil || p != nil {
		t.Fatalf("ReadPending(missing) = %v, %v; want nil, nil", p, err)
	}
	if s.HasPending(5678) {
		t.Error("HasPending(missing) = true")
	}

	if err := s.WritePending(5678, "new-session", "/proj"); err != nil {
		t.Fatalf("WritePending() error = %v", err)
	}
	if !s.HasPending(5678) {
		t.Error("HasPending() = false after write")
	}

	p, err := s.ReadPending(5678)
	if err != nil || p == nil {
		t.Fatalf("ReadPending() = %v, %v", p, err)
	}
	if p.Alias != "new-session" || p.Dir != "/proj" {
		t.Errorf("pending = %+v, want (new-session, /proj)", p)
	}
	if p.Age() > time.Minute {
		t.Errorf("Age() = %v, want recent", p.Age())
	}

	if err := s.DeletePending(5678); err != nil {
		t.Fatalf("DeletePending() error = %v", err)
	}
	if s.HasPending(5678) {
		t.Error("HasPending() = true after delete")
	}
}

func TestReadPending_MtimeFallback(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(s.Dir(), 0755); err != nil {
		t.Fatal(err)
	}

	// Marker without the created-at line, as older launchers wrote it.
	path := filepath.Join(s.Dir(), "pending-111")
	if err := os.WriteFile(path, []byte("old-style\n/p\n"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-200 * time.Second)
	if err := os.Chtimes(path, past, past); err != nil {
		t.Fatal(err)
	}

	p, err := s.ReadPending(111)
	if err != nil || p == nil {
		t.Fatalf("ReadPending() = %v, %v", p, err)
	}
	if p.Age() < 190*time.Second {
		t.Errorf("Age() = %v, want mtime-derived age near 200s", p.Age())
	}
}
