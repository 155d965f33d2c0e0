package proc

// MaxHops bounds every ancestry walk. Malformed process trees (pid
// reuse, containers with odd init setups) must not loop forever; the
// host process sits 1-3 hops above the hook handler in practice.
const MaxHops = 5

// Resolver walks process ancestry using an injected lookup.
type Resolver struct {
	Lookup AncestryLookup

	// HostNames are command names recognized as the long-lived host
	// process (e.g. claude, node).
	HostNames []string
}

// NewResolver creates a resolver over the given lookup and host names.
func NewResolver(lookup AncestryLookup, hostNames []string) *Resolver {
	return &Resolver{Lookup: lookup, HostNames: hostNames}
}

// ResolveStableHost walks up from startPid looking for an ancestor whose
// command name matches a known host process. If none matches within
// MaxHops, or the walk hits pid 0/1, a self-loop, or an unqueryable
// process, it returns the last ancestor that was successfully inspected,
// falling back to startPid itself.
func (r *Resolver) ResolveStableHost(startPid int) int {
	best := startPid
	cur := startPid
	for hop := 0; hop < MaxHops; hop++ {
		name, err := r.Lookup.CommandNameOf(cur)
		if err != nil {
			// Process vanished mid-walk; settle for the deepest
			// ancestor we could still see.
			return best
		}
		best = cur
		if r.isHost(name) {
			return cur
		}

		parent, err := r.Lookup.ParentOf(cur)
		if err != nil || parent <= 1 || parent == cur {
			return best
		}
		cur = parent
	}
	return best
}

// FindPendingMarker walks up from startPid and returns the first ancestor
// pid for which hasMarker reports true. Returns false if no ancestor
// within MaxHops carries a marker or the walk terminates early.
func (r *Resolver) FindPendingMarker(startPid int, hasMarker func(pid int) bool) (int, bool) {
	cur := startPid
	for hop := 0; hop < MaxHops; hop++ {
		if hasMarker(cur) {
			return cur, true
		}

		parent, err := r.Lookup.ParentOf(cur)
		if err != nil || parent <= 1 || parent == cur {
			return 0, false
		}
		cur = parent
	}
	return 0, false
}

func (r *Resolver) isHost(name string) bool {
	for _, host := range r.HostNames {
		if name == host {
			return true
		}
	}
	return false
}
