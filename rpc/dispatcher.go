package rpc

import (
	"context"
	"time"

	"github.com/forbearing/coredb/metrics"
	"github.com/forbearing/coredb/rpcerr"
)

// Gate is the Capability Gate contract (spec.md §2.3, §5): a pure predicate
// over a method deciding admission, consulted before any other work. It is
// declared here rather than imported from the capability package so that
// package can depend on rpc without creating an import cycle; capability.Gate
// satisfies this interface structurally.
type Gate interface {
	Allowed(method Method) bool
}

type handlerFunc func(ctx context.Context, conn Conn, args []Value) (Value, error)

var handlers = map[Method]handlerFunc{
	Info:           handleInfo,
	Use:            handleUse,
	Signup:         handleSignup,
	Signin:         handleSignin,
	Invalidate:     handleInvalidate,
	Authenticate:   handleAuthenticate,
	Kill:           handleKill,
	Live:           handleLive,
	Set:            handleSet,
	Unset:          handleUnset,
	Select:         handleSelect,
	Insert:         handleInsert,
	InsertRelation: handleInsertRelation,
	Create:         handleCreate,
	Upsert:         handleUpsert,
	Update:         handleUpdate,
	Merge:          handleMerge,
	Patch:          handlePatch,
	Delete:         handleDelete,
	Version:        handleVersion,
	Query:          handleQuery,
	Relate:         handleRelate,
	Run:            handleRun,
	GraphQL:        handleGraphQL,
}

// Dispatch is the mutating entry point (spec.md §4.1): exclusive access,
// any method may run.
func Dispatch(ctx context.Context, conn Conn, gate Gate, method Method, args []Value) (Value, error) {
	return dispatch(ctx, conn, gate, method, args, false)
}

// DispatchImmutable is the shared-access entry point: it runs with shared
// access and rejects any method in the mutating set with MethodNotFound,
// exactly as spec.md §4.1 specifies for execute_immut.
func DispatchImmutable(ctx context.Context, conn Conn, gate Gate, method Method, args []Value) (Value, error) {
	return dispatch(ctx, conn, gate, method, args, true)
}

func dispatch(ctx context.Context, conn Conn, gate Gate, method Method, args []Value, immutable bool) (Value, error) {
	// The gate is consulted before anything else, including Ping and
	// Unknown: capability denial precedes all other work for every method.
	if gate != nil && !gate.Allowed(method) {
		// spec.md §5: "Denial is observable but not logged at error level."
		return Value{}, rpcerr.MethodNotAllowedErr(method.String())
	}
	if method == Unknown {
		return Value{}, rpcerr.MethodNotFoundErr("")
	}
	if method == Ping {
		return NoneValue(), nil
	}
	if immutable && IsMutating(method) {
		return Value{}, rpcerr.MethodNotFoundErr(method.String())
	}

	h, ok := handlers[method]
	if !ok {
		return Value{}, rpcerr.MethodNotFoundErr(method.String())
	}

	name := method.String()
	start := time.Now()
	if metrics.MethodCallsTotal != nil {
		metrics.MethodCallsTotal.WithLabelValues(name).Inc()
	}
	conn.Session().LastMethod = time.Now()
	result, err := h(ctx, conn, args)
	if metrics.MethodDuration != nil {
		metrics.MethodDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	}
	if err != nil && metrics.MethodErrorsTotal != nil {
		code := string(rpcerr.InternalError)
		if e, ok := rpcerr.As(err); ok {
			code = string(e.Code())
		}
		metrics.MethodErrorsTotal.WithLabelValues(name, code).Inc()
	}
	return result, err
}
