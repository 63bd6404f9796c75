// Package iam is the external authentication collaborator consumed by the
// RPC dispatch core (spec.md §1: "authentication subsystem ... consumed as
// signup, signin, verify_token, clear"). The core only ever talks to the
// IAM interface; the adapter returned by NewAdapter is one concrete backing
// grounded on the teacher's internal/service/iam package.
package iam

import (
	"context"

	"github.com/forbearing/coredb/rpc"
)

// IAM is the contract the Signup/Signin/Authenticate/Invalidate handlers
// drive. Implementations own credential verification, token issuance, and
// session-store bookkeeping; the dispatch core never inspects credentials
// or tokens beyond handing them through.
type IAM interface {
	// Signup provisions a new principal from a credential bundle and
	// returns an issued token value on success.
	Signup(ctx context.Context, sess *rpc.Session, credentials rpc.Value) (rpc.Value, error)

	// Signin verifies a credential bundle against an existing principal and
	// returns an issued token value on success.
	Signin(ctx context.Context, sess *rpc.Session, credentials rpc.Value) (rpc.Value, error)

	// VerifyToken validates a bearer token and, on success, populates
	// sess.Auth with the resolved principal.
	VerifyToken(ctx context.Context, sess *rpc.Session, token string) error

	// Clear resets the authentication state of sess, including sess.Auth;
	// the Invalidate handler relies on it to do so.
	Clear(ctx context.Context, sess *rpc.Session)
}
