// Package ws realizes rpc.Conn over a gorilla/websocket connection: one
// socket per session, request/response framed as JSON envelopes, with
// live-query notifications pushed over the same socket (spec.md §1: "a
// transport-agnostic rpcsession abstraction realized by ... WebSocket").
// Framing and the read/upgrade idiom are grounded on the pack's
// postgres-spreadsheet-view ws handler.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/forbearing/coredb/capability"
	"github.com/forbearing/coredb/logger"
	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/transport/wire"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Deps bundles the collaborators every session needs; Server shares one
// set across all connections.
type Deps struct {
	Engine      rpc.Engine
	SchemaCache rpc.SchemaCache
	Auth        rpc.Auth
	Gate        capability.Gate
	GQLSupport  bool
}

// Server upgrades HTTP requests into websocket-backed rpc.Conn sessions.
type Server struct {
	deps Deps
}

func NewServer(deps Deps) *Server { return &Server{deps: deps} }

// ServeHTTP implements http.Handler: one upgrade per call, one Conn for
// the life of the socket.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Transport.Errorf("ws: upgrade failed: %s", err)
		return
	}
	c := newConn(sock, r.RemoteAddr, s.deps)
	c.serve(r.Context())
}

// Conn is the websocket-backed rpc.Conn. All writes (responses and
// notifications) go through writeMu since gorilla forbids concurrent
// writers on one connection.
type Conn struct {
	sock    *websocket.Conn
	writeMu sync.Mutex

	session     *rpc.Session
	vars        rpc.Vars
	engine      rpc.Engine
	schemaCache rpc.SchemaCache
	auth        rpc.Auth
	gqlSupport  bool

	gate capability.Gate
}

var _ rpc.Conn = (*Conn)(nil)
var _ rpc.LiveHooks = (*Conn)(nil)

func newConn(sock *websocket.Conn, remoteAddr string, deps Deps) *Conn {
	return &Conn{
		sock:        sock,
		session:     rpc.NewSession(remoteAddr, true),
		vars:        rpc.NewVars(),
		engine:      deps.Engine,
		schemaCache: deps.SchemaCache,
		auth:        deps.Auth,
		gqlSupport:  deps.GQLSupport,
		gate:        deps.Gate,
	}
}

func (c *Conn) Engine() rpc.Engine           { return c.engine }
func (c *Conn) Session() *rpc.Session        { return c.session }
func (c *Conn) Vars() rpc.Vars               { return c.vars }
func (c *Conn) LiveHooks() rpc.LiveHooks     { return c }
func (c *Conn) SchemaCache() rpc.SchemaCache { return c.schemaCache }
func (c *Conn) Auth() rpc.Auth               { return c.auth }
func (c *Conn) LQSupport() bool              { return true }
func (c *Conn) GQLSupport() bool             { return c.gqlSupport }
func (c *Conn) Version() rpc.Value           { return rpc.NoneValue() }

// OnLive/OnKill implement rpc.LiveHooks by pushing a Notify frame; these
// run on their own goroutine per dispatchLiveCallbacks, so writeMu is the
// only thing serializing them against concurrent response writes.
func (c *Conn) OnLive(ctx context.Context, id rpc.Value) { c.notify("live", id) }
func (c *Conn) OnKill(ctx context.Context, id rpc.Value) { c.notify("kill", id) }

func (c *Conn) notify(kind string, id rpc.Value) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.sock.WriteJSON(wire.Notify{Notify: kind, ID: wire.EncodeValue(id)})
}

func (c *Conn) writeResponse(resp wire.Response) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.sock.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_ = c.sock.WriteJSON(resp)
}

// serve runs the read loop for the socket's lifetime, dispatching each
// decoded request and replying in turn. One goroutine handles all
// dispatch sequentially for this connection, matching the session's
// single-writer concurrency model (spec.md §5): concurrent callers on
// one socket are serialized by this loop, not by any lock on Session.
func (c *Conn) serve(ctx context.Context) {
	defer c.sock.Close()
	logger.Transport.Infof("ws: session opened remote=%s", c.session.RemoteAddr)
	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			logger.Transport.Infof("ws: session closed remote=%s: %s", c.session.RemoteAddr, err)
			return
		}

		var req wire.Request
		if err := json.Unmarshal(raw, &req); err != nil {
			c.writeResponse(wire.Response{Error: &wire.ErrorBody{Code: "ParseError", Message: err.Error()}})
			continue
		}

		method := rpc.ParseMethod(req.Method)
		args, err := wire.DecodeArgs(req.Params)
		if err != nil {
			c.writeResponse(wire.Response{ID: req.ID, Error: wire.EncodeError(err)})
			continue
		}

		result, err := rpc.Dispatch(ctx, c, c.gate, method, args)
		if err != nil {
			c.writeResponse(wire.Response{ID: req.ID, Error: wire.EncodeError(err)})
			continue
		}
		c.writeResponse(wire.Response{ID: req.ID, Result: wire.EncodeValue(result)})
	}
}
