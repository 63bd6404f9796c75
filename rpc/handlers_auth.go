package rpc

import (
	"context"

	"github.com/forbearing/coredb/rpcerr"
)

// handleUse implements spec.md §4.3: Use(ns, db). None leaves unchanged,
// Null unsets, a Strand assigns; anything else is InvalidParams. Clearing
// namespace clears database (Session.SetNamespace enforces this).
func handleUse(ctx context.Context, conn Conn, args []Value) (Value, error) {
	ns, db, err := needsTwo("use", args)
	if err != nil {
		return Value{}, err
	}
	sess := conn.Session()

	if err := applyUseArg(ns, sess.SetNamespace); err != nil {
		return Value{}, err
	}
	if err := applyUseArg(db, sess.SetDatabase); err != nil {
		return Value{}, err
	}
	if sess.Namespace == nil {
		sess.Database = nil
	}
	return NoneValue(), nil
}

func applyUseArg(v Value, assign func(*string)) error {
	switch {
	case v.IsNone():
		return nil
	case v.IsNull():
		assign(nil)
		return nil
	default:
		s, ok := v.String()
		if !ok {
			return rpcerr.InvalidParamsErr("use: expected a string, None, or Null")
		}
		assign(&s)
		return nil
	}
}

// borrowSession implements the move-out/restore-on-all-paths pattern
// required by spec.md §4.4 and §5: the IAM call works on a copy of the
// session, and the copy replaces the connection's session only when the
// call succeeds. On error, panic or cancellation the session keeps its
// pre-call value, so no other handler ever observes a half-updated session.
func borrowSession(conn Conn, fn func(borrowed *Session) error) error {
	borrowed := conn.Session().Clone()
	if err := fn(borrowed); err != nil {
		return err
	}
	*conn.Session() = *borrowed
	return nil
}

func handleSignup(ctx context.Context, conn Conn, args []Value) (Value, error) {
	credentials, err := needsOne("signup", args)
	if err != nil {
		return Value{}, err
	}
	if _, ok := credentials.Object(); !ok {
		return Value{}, rpcerr.InvalidParamsErr("signup: credentials must be an object")
	}

	var token Value
	err = borrowSession(conn, func(borrowed *Session) error {
		var authErr error
		token, authErr = conn.Auth().Signup(ctx, borrowed, credentials)
		return authErr
	})
	if err != nil {
		if _, ok := rpcerr.As(err); ok {
			return Value{}, err
		}
		return Value{}, rpcerr.InvalidAuthErr(err)
	}
	return token, nil
}

func handleSignin(ctx context.Context, conn Conn, args []Value) (Value, error) {
	credentials, err := needsOne("signin", args)
	if err != nil {
		return Value{}, err
	}
	if _, ok := credentials.Object(); !ok {
		return Value{}, rpcerr.InvalidParamsErr("signin: credentials must be an object")
	}

	var token Value
	err = borrowSession(conn, func(borrowed *Session) error {
		var authErr error
		token, authErr = conn.Auth().Signin(ctx, borrowed, credentials)
		return authErr
	})
	if err != nil {
		if _, ok := rpcerr.As(err); ok {
			return Value{}, err
		}
		return Value{}, rpcerr.InvalidAuthErr(err)
	}
	return token, nil
}

func handleAuthenticate(ctx context.Context, conn Conn, args []Value) (Value, error) {
	tok, err := needsOne("authenticate", args)
	if err != nil {
		return Value{}, err
	}
	token, ok := tok.String()
	if !ok {
		return Value{}, rpcerr.InvalidParamsErr("authenticate: expected a token string")
	}

	err = borrowSession(conn, func(borrowed *Session) error {
		return conn.Auth().VerifyToken(ctx, borrowed, token)
	})
	if err != nil {
		if _, ok := rpcerr.As(err); ok {
			return Value{}, err
		}
		return Value{}, rpcerr.InvalidAuthErr(err)
	}
	return NoneValue(), nil
}

func handleInvalidate(ctx context.Context, conn Conn, args []Value) (Value, error) {
	if len(args) > 0 {
		return Value{}, rpcerr.InvalidParamsErr("invalidate takes no arguments")
	}
	_ = borrowSession(conn, func(borrowed *Session) error {
		conn.Auth().Clear(ctx, borrowed)
		return nil
	})
	return NoneValue(), nil
}

// handleInfo implements spec.md §4.5: SELECT * FROM $auth, or None when
// unauthenticated. "$auth" is synthesised as a Param resolved against a
// vars map carrying the session's own authenticated principal, mirroring
// how the reference implementation binds the "auth" variable ahead of
// running the statement rather than treating "$auth" as a literal table.
func handleInfo(ctx context.Context, conn Conn, args []Value) (Value, error) {
	if len(args) > 0 {
		return Value{}, rpcerr.InvalidParamsErr("info takes no arguments")
	}
	sess := conn.Session()
	if sess.Auth == nil {
		return NoneValue(), nil
	}
	subject, ok := sess.Auth.(AuthSubject)
	if !ok {
		return NoneValue(), nil
	}

	stmt := Statement{Op: OpSelect, What: Of(Param{Name: "auth"})}
	vars := conn.Vars().Merge(Vars{"auth": Of(subject.AuthThing())})
	resp, err := conn.Engine().Process(stmt, sess, vars)
	if err != nil {
		return Value{}, rpcerr.ThrownErr(err.Error())
	}
	return firstRow(resp)
}
