package rpc

import (
	"time"

	"github.com/forbearing/coredb/value"
)

// QueryType tags what kind of statement a Response corresponds to, so the
// Live-Query Coordinator knows which responses carry a live-query UUID.
type QueryType int

const (
	QueryOther QueryType = iota
	QueryLive
	QueryKill
)

// Result is either a successful value or an executor-originated error
// message (distinct from the rpcerr taxonomy, which is for the dispatch
// core's own errors).
type Result struct {
	Value Value
	Err   error
}

// Response is what the datastore returns per statement.
type Response struct {
	Result    Result
	QueryType QueryType
	Time      time.Duration
}

// Value is an alias kept local to the rpc package so handler signatures
// read naturally; it is exactly value.Value.
type Value = value.Value

// Table, Thing and Param are aliased the same way so statement synthesis
// code in this package never needs a second import for the constructors it
// builds on every call.
type Table = value.Table
type Thing = value.Thing
type Param = value.Param

// Of, NoneValue, NullValue and CouldBeTable forward to the value package so
// handler code never needs a second import for the constructors it uses on
// every call.
func Of(v any) Value          { return value.Of(v) }
func NoneValue() Value        { return value.NoneValue() }
func NullValue() Value        { return value.NullValue() }
func CouldBeTable(v Value) Value { return value.CouldBeTable(v) }

// OutputClause is the RETURN clause variant requested via StatementOptions.
type OutputClause int

const (
	OutputDefault OutputClause = iota
	OutputNone
	OutputBefore
	OutputAfter
	OutputDiff
	OutputFields
)

// DataClause is the data-merge strategy requested via StatementOptions.
type DataClause int

const (
	DataNone DataClause = iota
	DataContent
	DataMerge
	DataPatch
	DataReplace
	DataUnset
	DataSetList
)

// StatementOptions is the neutral descriptor produced by the Statement
// Options Builder (§4) from a method's optional data/opts arguments.
type StatementOptions struct {
	Output    OutputClause
	Condition Value
	HasCond   bool
	Data      DataClause
	MergeVars map[string]Value
}

func newStatementOptions() StatementOptions {
	return StatementOptions{Output: OutputDefault, Data: DataNone}
}
