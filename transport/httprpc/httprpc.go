// Package httprpc realizes rpc.Conn over plain HTTP: one JSON call per
// request, with live-query notifications delivered out-of-band over a
// Server-Sent-Events stream keyed by a session token (spec.md §1: "a
// transport-agnostic rpcsession abstraction realized by ... HTTP
// long-poll/single-shot"). SSE framing is the teacher's internal/sse
// package, reused unmodified since it was already transport-agnostic
// (net/http, no gin dependency).
package httprpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/forbearing/coredb/capability"
	"github.com/forbearing/coredb/internal/sse"
	"github.com/forbearing/coredb/logger"
	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/transport/wire"
)

const sessionHeader = "X-Coredb-Session"

// Deps bundles the collaborators every session needs.
type Deps struct {
	Engine      rpc.Engine
	SchemaCache rpc.SchemaCache
	Auth        rpc.Auth
	Gate        capability.Gate
	GQLSupport  bool
}

// Server holds every open HTTP-transport session, keyed by the opaque
// token handed back on Connect. Unlike the websocket transport, a single
// socket cannot carry the session identity; the token takes its place.
type Server struct {
	deps Deps

	mu    sync.Mutex
	conns map[string]*Conn
}

func NewServer(deps Deps) *Server {
	return &Server{deps: deps, conns: make(map[string]*Conn)}
}

// Conn is the HTTP-backed rpc.Conn: identical shape to the embedded
// transport's connection, plus a notification channel the SSE endpoint
// drains.
type Conn struct {
	session     *rpc.Session
	vars        rpc.Vars
	engine      rpc.Engine
	schemaCache rpc.SchemaCache
	auth        rpc.Auth
	gqlSupport  bool

	notifications chan wire.Notify
}

var _ rpc.Conn = (*Conn)(nil)
var _ rpc.LiveHooks = (*Conn)(nil)

func (c *Conn) Engine() rpc.Engine           { return c.engine }
func (c *Conn) Session() *rpc.Session        { return c.session }
func (c *Conn) Vars() rpc.Vars               { return c.vars }
func (c *Conn) LiveHooks() rpc.LiveHooks     { return c }
func (c *Conn) SchemaCache() rpc.SchemaCache { return c.schemaCache }
func (c *Conn) Auth() rpc.Auth               { return c.auth }
func (c *Conn) LQSupport() bool              { return true }
func (c *Conn) GQLSupport() bool             { return c.gqlSupport }
func (c *Conn) Version() rpc.Value           { return rpc.NoneValue() }

func (c *Conn) OnLive(ctx context.Context, id rpc.Value) { c.push(ctx, "live", id) }
func (c *Conn) OnKill(ctx context.Context, id rpc.Value) { c.push(ctx, "kill", id) }

func (c *Conn) push(ctx context.Context, kind string, id rpc.Value) {
	select {
	case c.notifications <- wire.Notify{Notify: kind, ID: wire.EncodeValue(id)}:
	case <-ctx.Done():
	}
}

// Connect allocates a new session and returns its token; callers must
// send it back as the X-Coredb-Session header on every subsequent /rpc
// and /rpc/live call.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	token := uuid.NewString()
	c := &Conn{
		session:       rpc.NewSession(r.RemoteAddr, true),
		vars:          rpc.NewVars(),
		engine:        s.deps.Engine,
		schemaCache:   s.deps.SchemaCache,
		auth:          s.deps.Auth,
		gqlSupport:    s.deps.GQLSupport,
		notifications: make(chan wire.Notify, 16),
	}
	s.mu.Lock()
	s.conns[token] = c
	s.mu.Unlock()
	logger.Transport.Infof("httprpc: session opened token=%s remote=%s", token, r.RemoteAddr)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"session": token})
}

// Disconnect tears down a session, closing its notification channel.
func (s *Server) Disconnect(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(sessionHeader)
	s.mu.Lock()
	c, ok := s.conns[token]
	if ok {
		delete(s.conns, token)
	}
	s.mu.Unlock()
	if ok {
		close(c.notifications)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) lookup(r *http.Request) (*Conn, bool) {
	token := r.Header.Get(sessionHeader)
	s.mu.Lock()
	c, ok := s.conns[token]
	s.mu.Unlock()
	return c, ok
}

// Call handles a single-shot /rpc request: decode, dispatch, encode.
func (s *Server) Call(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(r)
	if !ok {
		http.Error(w, "unknown or expired session", http.StatusUnauthorized)
		return
	}

	var req wire.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, wire.Response{Error: &wire.ErrorBody{Code: "ParseError", Message: err.Error()}})
		return
	}

	method := rpc.ParseMethod(req.Method)
	args, err := wire.DecodeArgs(req.Params)
	if err != nil {
		writeJSON(w, http.StatusOK, wire.Response{ID: req.ID, Error: wire.EncodeError(err)})
		return
	}

	result, err := rpc.Dispatch(r.Context(), c, s.deps.Gate, method, args)
	if err != nil {
		writeJSON(w, http.StatusOK, wire.Response{ID: req.ID, Error: wire.EncodeError(err)})
		return
	}
	writeJSON(w, http.StatusOK, wire.Response{ID: req.ID, Result: wire.EncodeValue(result)})
}

// Live streams this session's live-query notifications as SSE events
// until the client disconnects.
func (s *Server) Live(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookup(r)
	if !ok {
		http.Error(w, "unknown or expired session", http.StatusUnauthorized)
		return
	}

	sse.StreamSSE(w, r.Context(), httpStream(w), func(out io.Writer) bool {
		select {
		case n, open := <-c.notifications:
			if !open {
				return false
			}
			return sse.Encode(out, sseEvent(n)) == nil
		case <-time.After(25 * time.Second):
			return sse.Encode(out, sseEvent(wire.Notify{Notify: "ping"})) == nil
		}
	})
}

func sseEvent(n wire.Notify) sse.Event {
	return sse.Event{Event: n.Notify, Data: n}
}

// httpStream adapts net/http's blocking-write model to sse.StreamCallback
// (shaped after gin.Context.Stream, which internal/sse was written
// against): call step repeatedly, flushing between calls, until it
// reports false.
func httpStream(w http.ResponseWriter) sse.StreamCallback {
	return func(step func(io.Writer) bool) bool {
		for step(w) {
		}
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
