// Package engine implements cspin's identifier-transition protocol.
//
// Each Claude Code lifecycle event arrives as a short-lived hook
// invocation. The engine correlates the event with the long-lived host
// process via ancestry resolution, resolves pending registrations left by
// the launcher, keeps per-host liveness records fresh, and detects when a
// session's identifier has rotated (compaction, /clear) so the alias can
// be migrated to the new identifier with the old one archived.
//
// Every step fails soft. The host runtime must never see a hook fail, so
// nothing here returns an error to the caller: an I/O problem or an
// inconsistent store aborts the step it occurred in and nothing else.
package engine

import (
	"time"

	"github.com/cspin-io/cspin/internal/events"
	"github.com/cspin-io/cspin/internal/proc"
	"github.com/cspin-io/cspin/internal/store"
)

// Kind classifies a lifecycle event.
type Kind int

const (
	// KindOther covers unrecognized hook events: liveness refresh only.
	KindOther Kind = iota

	// KindStart is a session start, including start-after-reset.
	KindStart

	// KindStop is a normal turn completion.
	KindStop

	// KindPreSnapshot fires before compaction takes its snapshot.
	KindPreSnapshot
)

// Event is the hook payload Claude Code delivers on stdin.
type Event struct {
	SessionID     string `json:"session_id"`
	CWD           string `json:"cwd"`
	HookEventName string `json:"hook_event_name"`
}

// Kind maps the hook event name onto the engine's event kinds.
func (e Event) Kind() Kind {
	switch e.HookEventName {
	case "SessionStart":
		return KindStart
	case "Stop", "SubagentStop":
		return KindStop
	case "PreCompact":
		return KindPreSnapshot
	default:
		return KindOther
	}
}

// Engine drives the transition protocol over a store and a resolver.
type Engine struct {
	store      *store.Store
	resolver   *proc.Resolver
	log        *events.Log
	pendingTTL time.Duration
}

// New creates an engine. pendingTTL is the staleness threshold for
// pending-registration markers.
func New(s *store.Store, r *proc.Resolver, log *events.Log, pendingTTL time.Duration) *Engine {
	return &Engine{store: s, resolver: r, log: log, pendingTTL: pendingTTL}
}

// Handle processes one lifecycle event on behalf of callerPid (the hook
// process itself). It never reports failure: a hook that failed would
// disrupt the user's session, so all errors degrade to skipped steps.
func (g *Engine) Handle(callerPid int, ev Event) {
	if ev.SessionID == "" || ev.CWD == "" {
		return
	}

	hostPid := g.resolver.ResolveStableHost(callerPid)
	kind := ev.Kind()

	tracked, err := g.store.ReadTracking(ev.SessionID)
	if err != nil {
		tracked = ""
	}

	// Pending resolution: a launcher may have left a marker in this
	// session's lineage announcing an alias for whichever identifier
	// the first event reports. Snapshot events skip this; the launcher
	// path will be retried on the next start or stop event.
	if tracked == "" && (kind == KindStart || kind == KindStop) {
		if markerPid, ok := g.resolver.FindPendingMarker(hostPid, g.store.HasPending); ok {
			g.resolvePending(markerPid, ev)
			if alias, err := g.store.ReadTracking(ev.SessionID); err == nil {
				tracked = alias
			}
		}
	}

	// Liveness refresh: record (alias, identifier) under the stable
	// host pid. This pair is what a later event diffs against to detect
	// identifier rotation.
	if tracked != "" {
		_ = g.store.WriteLiveness(hostPid, tracked, ev.SessionID)
	}

	if kind != KindStart && kind != KindStop {
		return
	}

	if tracked != "" {
		// Identifier already tracked: nothing to migrate.
		return
	}

	g.detectTransition(hostPid, ev)
}

// resolvePending consumes a pending-registration marker. Stale markers
// (crashed launchers) are deleted without acting. If the alias record
// already exists the marker lost the creation race; it is deleted without
// overwriting the existing record.
func (g *Engine) resolvePending(markerPid int, ev Event) {
	p, err := g.store.ReadPending(markerPid)
	if err != nil || p == nil || p.Alias == "" {
		return
	}

	if p.Age() > g.pendingTTL {
		_ = g.store.DeletePending(markerPid)
		g.logEvent(events.Event{Type: events.TypePendingExpired, Alias: p.Alias})
		return
	}

	existing, err := g.store.ReadAlias(p.Alias)
	if err != nil {
		return
	}
	if existing != nil {
		_ = g.store.DeletePending(markerPid)
		return
	}

	dir := p.Dir
	if dir == "" {
		dir = ev.CWD
	}
	if err := g.store.WriteAlias(p.Alias, store.Record{Identifier: ev.SessionID, Dir: dir}); err != nil {
		return
	}
	if err := g.store.WriteTracking(ev.SessionID, p.Alias); err != nil {
		return
	}
	_ = g.store.DeletePending(markerPid)
	g.logEvent(events.Event{Type: events.TypeRegister, Alias: p.Alias, To: ev.SessionID})
}

// detectTransition checks whether the host process last reported a
// different identifier than this event carries, and if the bookkeeping is
// consistent, migrates the alias to the new identifier.
func (g *Engine) detectTransition(hostPid int, ev Event) {
	alias, oldID, err := g.store.ReadLiveness(hostPid)
	if err != nil || alias == "" || oldID == "" {
		return
	}
	if oldID == ev.SessionID {
		return
	}

	// The old identifier should still be tracked. If its entry was lost
	// out-of-band, recover it from the alias records; if that also
	// fails, the bookkeeping is inconsistent and must not be guessed.
	trackedOld, err := g.store.ReadTracking(oldID)
	if err != nil {
		return
	}
	if trackedOld == "" {
		owner, err := g.store.FindAliasByIdentifier(oldID)
		if err != nil || owner == "" {
			return
		}
		if err := g.store.WriteTracking(oldID, owner); err != nil {
			return
		}
	}

	rec, err := g.store.ReadAlias(alias)
	if err != nil || rec == nil {
		return
	}
	if rec.Identifier != oldID {
		// Stale or foreign liveness data; leave everything alone.
		return
	}

	g.migrate(hostPid, alias, oldID, *rec, ev)
}

// migrate archives the superseded identifier and repoints the alias.
func (g *Engine) migrate(hostPid int, alias, oldID string, rec store.Record, ev Event) {
	slot := g.store.NextArchiveSlot(alias)
	if err := g.store.WriteArchive(alias, slot, store.Record{Identifier: oldID, Dir: rec.Dir}); err != nil {
		return
	}

	dir := rec.Dir
	if dir == "" {
		dir = ev.CWD
	}
	if err := g.store.WriteAlias(alias, store.Record{Identifier: ev.SessionID, Dir: dir}); err != nil {
		return
	}

	_ = g.store.DeleteTracking(oldID)
	_ = g.store.WriteTracking(ev.SessionID, alias)
	_ = g.store.WriteLiveness(hostPid, alias, ev.SessionID)

	g.logEvent(events.Event{
		Type:    events.TypeMigrate,
		Alias:   alias,
		From:    oldID,
		To:      ev.SessionID,
		HostPID: hostPid,
	})
}

func (g *Engine) logEvent(ev events.Event) {
	if g.log == nil {
		return
	}
	_ = g.log.Append(ev)
}
