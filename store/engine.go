package store

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/value"
)

// Engine is the reference rpc.Engine implementation.
type Engine struct {
	db      *gorm.DB
	version rpc.Value
}

// New wires a reference Engine over an already-migrated gorm connection.
func New(db *gorm.DB, version string) *Engine {
	return &Engine{db: db, version: rpc.Of(version)}
}

// Version returns the capability-provided version datum (spec.md §4.11).
func (e *Engine) Version() rpc.Value { return e.version }

// AllowsMethod is the datastore-side advisory check (spec.md §6); actual
// enforcement is capability.Gate's job (SPEC_FULL.md §9, "Capability gate
// independence"), so this reference engine allows everything.
func (e *Engine) AllowsMethod(rpc.Method) bool { return true }

// Compute implements the single-expression evaluation Set relies on
// (spec.md §6): a Param resolves against vars, everything else is a
// literal and passes through unchanged.
func (e *Engine) Compute(expr rpc.Value, sess *rpc.Session, vars rpc.Vars) (rpc.Value, error) {
	if p, ok := expr.Raw().(value.Param); ok {
		if v, ok := vars[p.Name]; ok {
			return v, nil
		}
		return rpc.NoneValue(), nil
	}
	return expr, nil
}

func single(v rpc.Value, qt rpc.QueryType, d time.Duration) []rpc.Response {
	return []rpc.Response{{Result: rpc.Result{Value: v}, QueryType: qt, Time: d}}
}

func failed(err error, qt rpc.QueryType) []rpc.Response {
	return []rpc.Response{{Result: rpc.Result{Err: err}, QueryType: qt}}
}

// Process implements the parameterised statement path. Each rpc.StatementOp
// maps onto a handful of gorm operations over the single Record table.
func (e *Engine) Process(stmt rpc.Statement, sess *rpc.Session, vars rpc.Vars) ([]rpc.Response, error) {
	start := time.Now()
	var (
		result rpc.Value
		err    error
		qt     = rpc.QueryOther
	)

	// A Param in What (e.g. "$auth") resolves against vars before any
	// operation runs; non-Param values pass through Compute unchanged.
	if stmt.What, err = e.Compute(stmt.What, sess, vars); err != nil {
		return failed(err, qt), nil
	}

	switch stmt.Op {
	case rpc.OpSelect:
		result, err = e.selectWhat(stmt.What)
	case rpc.OpCreate:
		result, err = e.create(stmt.What, stmt.Data)
	case rpc.OpInsert, rpc.OpInsertRelation:
		result, err = e.insert(stmt.What, stmt.Data)
	case rpc.OpUpsert, rpc.OpUpdate, rpc.OpMerge:
		result, err = e.update(stmt.What, stmt.Data, stmt.Options)
	case rpc.OpPatch:
		result, err = e.patch(stmt.What, stmt.Data, stmt.Options)
	case rpc.OpDelete:
		result, err = e.delete(stmt.What)
	case rpc.OpRelate:
		result, err = e.relate(stmt.From, stmt.Kind, stmt.To, stmt.Data)
	case rpc.OpLive:
		qt = rpc.QueryLive
		result, err = e.startLive(stmt.What)
	case rpc.OpKill:
		qt = rpc.QueryKill
		result, err = e.stopLive(stmt.What)
	case rpc.OpRun:
		result, err = e.run(stmt.RunName, stmt.RunVersion, stmt.RunArgs)
	default:
		return nil, gormErr("unsupported statement op")
	}

	if err != nil {
		return failed(err, qt), nil
	}
	return single(result, qt, time.Since(start)), nil
}

// Execute implements the textual path. The reference engine recognises
// only a tiny literal-return form; anything else is out of scope (spec.md
// Non-goals: "query-language syntax/parser completeness").
func (e *Engine) Execute(text string, sess *rpc.Session, vars rpc.Vars) ([]rpc.Response, error) {
	trimmed := trimSpace(text)
	const prefix = "RETURN "
	if len(trimmed) > len(prefix) && trimmed[:len(prefix)] == prefix {
		lit := trimSpace(trimmed[len(prefix):])
		return single(rpc.Of(lit), rpc.QueryOther, 0), nil
	}
	return failed(gormErr("unsupported statement: reference engine only executes RETURN <literal>"), rpc.QueryOther), nil
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }

func thingID() string { return uuid.NewString() }
