// Package capability implements the Capability Gate: a pure predicate over
// an RPC method deciding admission, independent of any per-call session
// state (SPEC_FULL.md §9, "Capability gate independence"). It is backed by
// a casbin RBAC enforcer adapted from the teacher's authz/rbac package,
// generalized from REST-path policies to RPC-method policies, with the same
// noop fallback when no enforcer has been configured.
package capability

import (
	"github.com/casbin/casbin/v2"

	"github.com/forbearing/coredb/rpc"
)

// Gate is the Capability Gate contract. It is never passed a *rpc.Session:
// admission for a method is uniform across callers, and per-call business
// rules live in the handlers, not here.
type Gate interface {
	Allowed(method rpc.Method) bool
}

// AllowAll permits every method; it is the default gate when no RBAC
// enforcer has been wired, mirroring the teacher's rbac.noop fallback.
type AllowAll struct{}

func (AllowAll) Allowed(rpc.Method) bool { return true }

// casbinGate enforces a ("rpc", method-name, "allow") policy model. The
// subject is fixed to "rpc" because the gate is uniform across sessions;
// per-principal authorization, if ever needed, is a layer above this one.
type casbinGate struct {
	enforcer *casbin.Enforcer
}

// NewCasbinGate wraps an already-initialised enforcer. A nil enforcer is
// accepted and behaves like AllowAll, so callers can wire this
// unconditionally during startup before policies are loaded.
func NewCasbinGate(enforcer *casbin.Enforcer) Gate {
	if enforcer == nil {
		return AllowAll{}
	}
	return &casbinGate{enforcer: enforcer}
}

func (g *casbinGate) Allowed(method rpc.Method) bool {
	ok, err := g.enforcer.Enforce("rpc", method.String(), "allow")
	if err != nil {
		return false
	}
	return ok
}

// DefaultMethods are the methods whose "allow" policies are loaded into the enforcer at
// startup so capability gating is on by default (SPEC_FULL.md line 26):
// every method is allowed unless a deployment narrows the policy file.
var DefaultMethods = []rpc.Method{
	rpc.Ping, rpc.Info, rpc.Use,
	rpc.Signup, rpc.Signin, rpc.Invalidate, rpc.Authenticate,
	rpc.Kill, rpc.Live,
	rpc.Set, rpc.Unset,
	rpc.Select, rpc.Insert, rpc.InsertRelation, rpc.Create, rpc.Upsert,
	rpc.Update, rpc.Merge, rpc.Patch, rpc.Delete,
	rpc.Version, rpc.Query, rpc.Relate, rpc.Run, rpc.GraphQL,
}

// SeedDefaultPolicies grants "allow" on every known method for the "rpc"
// subject, then persists via SavePolicy — the same grant-then-save shape as
// the teacher's rbac.GrantPermission.
func SeedDefaultPolicies(enforcer *casbin.Enforcer) error {
	for _, m := range DefaultMethods {
		if _, err := enforcer.AddPolicy("rpc", m.String(), "allow"); err != nil {
			return err
		}
	}
	return enforcer.SavePolicy()
}
