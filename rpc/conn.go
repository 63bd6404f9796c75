package rpc

import "context"

// SchemaCache is the external GraphQL schema cache collaborator (spec.md
// §4.12, §9): shared across sessions and internally synchronised. The
// gqladapter package owns the concrete implementation; rpc only needs to
// pass a session's (namespace, database) pair through Get.
type SchemaCache interface {
	Get(ctx context.Context, namespace, database string) (schema any, err error)
}

// Auth is the external IAM collaborator (spec.md §1, §6): "consumed as
// signup, signin, verify_token, clear". Declared here, rather than imported
// from the iam package, so iam can depend on rpc without an import cycle;
// iam's adapter satisfies this interface structurally.
type Auth interface {
	Signup(ctx context.Context, sess *Session, credentials Value) (Value, error)
	Signin(ctx context.Context, sess *Session, credentials Value) (Value, error)
	VerifyToken(ctx context.Context, sess *Session, token string) error
	Clear(ctx context.Context, sess *Session)
}

// Conn is the abstract "RPC session" capability set (spec.md §9, Design
// Notes "Polymorphism"): every handler is written once against this
// interface, and each transport (embedded, websocket, http) supplies its
// own realisation. A Conn bundles the datastore handle, the live session
// and variable-map, the live-query hooks, the schema cache, and the two
// static capability flags.
type Conn interface {
	Engine() Engine
	Session() *Session
	Vars() Vars

	LiveHooks() LiveHooks
	SchemaCache() SchemaCache
	Auth() Auth

	// LQSupport/GQLSupport are static per-transport capability flags
	// (spec.md §4.7, §4.12): they never vary within a connection's
	// lifetime, unlike the dynamic Capability Gate.
	LQSupport() bool
	GQLSupport() bool

	// Version is the capability-provided version datum returned by the
	// Version method (spec.md §4.11).
	Version() Value
}
