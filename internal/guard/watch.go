package guard

import "github.com/iliyamo/vacation-portal/internal/session"

// Source is the part of session.Store a mounted view needs.
type Source interface {
	Snapshot() session.Session
	Subscribe(fn func(session.Session)) (cancel func())
}

// Watch mounts view: fn is called immediately with the current decision
// and again after every session change, so a view that loses its session
// learns it must redirect.  The returned func unmounts the view; results
// arriving after that are dropped.
func (g Guard) Watch(src Source, view string, fn func(Decision)) (unmount func()) {
	cancel := src.Subscribe(func(s session.Session) {
		fn(g.Decide(view, s))
	})
	fn(g.Decide(view, src.Snapshot()))
	return cancel
}
