// Package value implements the tagged-union value language used across the
// RPC dispatch core: the same handful of concrete types flow from wire
// decoding, through argument extraction and statement synthesis, into the
// datastore and back out again.
package value

import (
	"github.com/google/uuid"
)

// None marks a parameter that was omitted by the caller: "leave unchanged".
// It is distinct from Null, which means "explicitly erase". Collapsing the
// two loses information the CRUD handlers and Set/Unset depend on.
type None struct{}

// Null marks an explicit erase/clear request.
type Null struct{}

// Table is a could-be-table-coerced or explicit reference to an entire
// table (e.g. "person").
type Table struct {
	Name string
}

// Thing is a concrete record identifier: table + id, e.g. person:tobie.
type Thing struct {
	Table string
	ID    any
}

// Param is a reference to a named variable, e.g. $name, used inside a
// parsed statement tree.
type Param struct {
	Name string
}

// Query is a pre-parsed statement tree handed in by a caller instead of a
// source string (accepted by the Query method).
type Query struct {
	Statements []Statement
}

// Statement is an opaque parsed query-language statement. The query
// language's grammar is out of scope for this core; a Statement is
// whatever the external parser/engine produced.
type Statement struct {
	Text string
	AST  any
}

// Object is an ordered string-keyed map. Ordering matters for round-
// tripping CONTENT/MERGE/PATCH payloads and for deterministic GraphQL
// variable conversion, so this is not a plain Go map.
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set inserts or overwrites a key, preserving first-insertion order.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Delete removes key if present.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len reports the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Range calls fn for every key in insertion order.
func (o *Object) Range(fn func(key string, v Value)) {
	if o == nil {
		return
	}
	for _, k := range o.keys {
		fn(k, o.values[k])
	}
}

// Value is the closed value union. The concrete Go type carried is one of:
// None, Null, bool, int64, float64, string, []Value, *Object, uuid.UUID, Table,
// Thing, Query, Param.
type Value struct {
	v any
}

// Of wraps a concrete Go value as a Value. Panics are never raised here;
// unsupported Go types are wrapped as-is and will fail later type
// assertions in handlers, which is the correct place to surface
// InvalidParams.
func Of(v any) Value { return Value{v: v} }

// NoneValue is the canonical "omitted" sentinel.
func NoneValue() Value { return Value{v: None{}} }

// NullValue is the canonical "explicit erase" sentinel.
func NullValue() Value { return Value{v: Null{}} }

// Raw returns the underlying Go value.
func (v Value) Raw() any { return v.v }

// IsNone reports whether v is the None sentinel (including the zero Value).
func (v Value) IsNone() bool {
	if v.v == nil {
		return true
	}
	_, ok := v.v.(None)
	return ok
}

// IsNull reports whether v is the Null sentinel.
func (v Value) IsNull() bool {
	_, ok := v.v.(Null)
	return ok
}

// IsNoneOrNull reports whether v carries no data clause at all, the
// condition CRUD handlers use to decide "no data clause present".
func (v Value) IsNoneOrNull() bool { return v.IsNone() || v.IsNull() }

// String returns (s, true) if v is a Strand.
func (v Value) String() (string, bool) {
	s, ok := v.v.(string)
	return s, ok
}

// Bool returns (b, true) if v is a boolean.
func (v Value) Bool() (bool, bool) {
	b, ok := v.v.(bool)
	return b, ok
}

// Array returns (arr, true) if v is an array.
func (v Value) Array() ([]Value, bool) {
	arr, ok := v.v.([]Value)
	return arr, ok
}

// Object returns (obj, true) if v is an object.
func (v Value) Object() (*Object, bool) {
	obj, ok := v.v.(*Object)
	return obj, ok
}

// UUID returns (id, true) if v is a UUID.
func (v Value) UUID() (uuid.UUID, bool) {
	id, ok := v.v.(uuid.UUID)
	return id, ok
}

// Table returns (t, true) if v is a table reference.
func (v Value) Table() (Table, bool) {
	t, ok := v.v.(Table)
	return t, ok
}

// Thing returns (t, true) if v is a record identifier.
func (v Value) Thing() (Thing, bool) {
	t, ok := v.v.(Thing)
	return t, ok
}

// Query returns (q, true) if v is a pre-parsed statement tree.
func (v Value) Query() (Query, bool) {
	q, ok := v.v.(Query)
	return q, ok
}

// IsSingle reports whether v denotes exactly one record: a Thing, or (for
// callers that also treat a bare table as single, e.g. Create) handled by
// the caller explicitly. Select/Update/etc. use this directly for Things.
func (v Value) IsSingle() bool {
	_, ok := v.Thing()
	return ok
}

// CouldBeTable promotes a plain, unqualified-identifier-looking string into
// a Table reference. Explicit Thing/Table/other values pass through
// unchanged. This mirrors the "could-be-table" coercion in the design
// notes: only ambiguous strings are promoted, never structured values.
func CouldBeTable(v Value) Value {
	s, ok := v.String()
	if !ok {
		return v
	}
	if !looksLikeIdent(s) {
		return v
	}
	return Of(Table{Name: s})
}

func looksLikeIdent(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
