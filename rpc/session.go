package rpc

import (
	"time"
)

// reservedVars are read-only: user writes via Set are rejected by the Set
// handler (§3 Variable Map).
var reservedVars = map[string]bool{
	"auth":    true,
	"session": true,
}

// IsReserved reports whether name is a reserved variable name.
func IsReserved(name string) bool { return reservedVars[name] }

// Principal is the opaque authentication principal carried by a Session.
// Transports/IAM implementations populate it; the core never inspects its
// contents beyond nil-ness, except through AuthSubject for Info.
type Principal any

// AuthSubject is the structural shape a Principal may satisfy so Info
// (SELECT * FROM $auth) can resolve "$auth" to the concrete record the
// principal names, without the dispatch core importing any IAM
// implementation's types.
type AuthSubject interface {
	AuthThing() Thing
}

// Session is per-connection mutable state. The owning transport's task
// serializes all access; Session itself carries no internal lock (§5).
type Session struct {
	Namespace *string
	Database  *string

	Auth      Principal
	Realtime  bool

	RemoteAddr  string
	ConnectedAt time.Time
	LastMethod  time.Time
}

// NewSession creates a fresh, unauthenticated session.
func NewSession(remoteAddr string, realtime bool) *Session {
	return &Session{RemoteAddr: remoteAddr, ConnectedAt: time.Now(), Realtime: realtime}
}

// Clone returns a deep-enough copy for the IAM borrow pattern (§4.4):
// handlers that call into IAM move the session out, hand IAM a mutable
// pointer, then restore on both success and failure paths.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	if s.Namespace != nil {
		ns := *s.Namespace
		cp.Namespace = &ns
	}
	if s.Database != nil {
		db := *s.Database
		cp.Database = &db
	}
	return &cp
}

// SetNamespace assigns or clears the namespace, enforcing the invariant
// that clearing the namespace clears the database too (§3).
func (s *Session) SetNamespace(ns *string) {
	s.Namespace = ns
	if ns == nil || *ns == "" {
		s.Database = nil
	}
}

// SetDatabase assigns or clears the database. Callers are responsible for
// not setting a database without a namespace; Use() enforces this at the
// handler level per spec.md §4.3.
func (s *Session) SetDatabase(db *string) { s.Database = db }

// ClearAuth resets authentication state (Invalidate).
func (s *Session) ClearAuth() {
	s.Auth = nil
	s.Realtime = false
}

// Vars is the per-session variable namespace.
type Vars map[string]Value

// NewVars creates an empty variable map.
func NewVars() Vars { return make(Vars) }

// Merge returns a new Vars with extra layered on top of v; extra wins on
// key collision. Used to build the vars passed to the datastore for a
// single call without mutating the session's own map.
func (v Vars) Merge(extra Vars) Vars {
	out := make(Vars, len(v)+len(extra))
	for k, val := range v {
		out[k] = val
	}
	for k, val := range extra {
		out[k] = val
	}
	return out
}

// Clone returns a shallow copy.
func (v Vars) Clone() Vars {
	out := make(Vars, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Set stores a variable. Reserved names are rejected by the
// caller (Set handler); this method itself performs no such check so it
// can also be used internally to shadow synthesised parameters.
func (v Vars) Set(name string, val Value) { v[name] = val }

// Unset removes name if present; absent keys are a no-op.
func (v Vars) Unset(name string) { delete(v, name) }
