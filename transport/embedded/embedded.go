// Package embedded realizes rpc.Conn in-process, for tests and CLI
// tooling that need a session without a network transport (SPEC_FULL.md
// §1: "an in-process 'embedded' transport used by tests and CLI
// tooling"). Live-query hooks deliver over a Go channel instead of a
// socket.
package embedded

import (
	"context"

	"github.com/forbearing/coredb/rpc"
)

// Notification is a single live-query push delivered to a Conn's
// channel (see Conn.Notifications).
type Notification struct {
	Kind string // "live" or "kill"
	ID   rpc.Value
}

// Conn is the in-process rpc.Conn: every collaborator is supplied at
// construction time rather than resolved from a network handshake.
type Conn struct {
	engine      rpc.Engine
	session     *rpc.Session
	vars        rpc.Vars
	schemaCache rpc.SchemaCache
	auth        rpc.Auth
	lqSupport   bool
	gqlSupport  bool
	version     rpc.Value

	notifications chan Notification
}

var _ rpc.Conn = (*Conn)(nil)
var _ rpc.LiveHooks = (*Conn)(nil)

// New builds an embedded connection. notifyBuf sizes the Notifications
// channel; 0 is valid when the caller has no interest in live-query
// pushes (lqSupport should then be false).
type Options struct {
	Engine      rpc.Engine
	SchemaCache rpc.SchemaCache
	Auth        rpc.Auth
	LQSupport   bool
	GQLSupport  bool
	Version     rpc.Value
	NotifyBuf   int
	RemoteAddr  string
}

func New(opts Options) *Conn {
	buf := opts.NotifyBuf
	if opts.LQSupport && buf == 0 {
		buf = 16
	}
	remoteAddr := opts.RemoteAddr
	if remoteAddr == "" {
		remoteAddr = "embedded"
	}
	return &Conn{
		engine:        opts.Engine,
		session:       rpc.NewSession(remoteAddr, opts.LQSupport),
		vars:          rpc.NewVars(),
		schemaCache:   opts.SchemaCache,
		auth:          opts.Auth,
		lqSupport:     opts.LQSupport,
		gqlSupport:    opts.GQLSupport,
		version:       opts.Version,
		notifications: make(chan Notification, buf),
	}
}

func (c *Conn) Engine() rpc.Engine          { return c.engine }
func (c *Conn) Session() *rpc.Session       { return c.session }
func (c *Conn) Vars() rpc.Vars              { return c.vars }
func (c *Conn) LiveHooks() rpc.LiveHooks    { return c }
func (c *Conn) SchemaCache() rpc.SchemaCache { return c.schemaCache }
func (c *Conn) Auth() rpc.Auth              { return c.auth }
func (c *Conn) LQSupport() bool             { return c.lqSupport }
func (c *Conn) GQLSupport() bool            { return c.gqlSupport }
func (c *Conn) Version() rpc.Value          { return c.version }

// Notifications exposes the channel live-query pushes land on.
func (c *Conn) Notifications() <-chan Notification { return c.notifications }

func (c *Conn) OnLive(ctx context.Context, id rpc.Value) {
	select {
	case c.notifications <- Notification{Kind: "live", ID: id}:
	case <-ctx.Done():
	}
}

func (c *Conn) OnKill(ctx context.Context, id rpc.Value) {
	select {
	case c.notifications <- Notification{Kind: "kill", ID: id}:
	case <-ctx.Done():
	}
}

// Call dispatches through the mutating entry point, exercising the full
// rpc.Dispatch path against this connection.
func (c *Conn) Call(ctx context.Context, gate rpc.Gate, method rpc.Method, args []rpc.Value) (rpc.Value, error) {
	return rpc.Dispatch(ctx, c, gate, method, args)
}

// CallImmutable dispatches through the shared-access entry point.
func (c *Conn) CallImmutable(ctx context.Context, gate rpc.Gate, method rpc.Method, args []rpc.Value) (rpc.Value, error) {
	return rpc.DispatchImmutable(ctx, c, gate, method, args)
}
