package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/value"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return New(db, "test-1.0.0")
}

func content(pairs ...any) rpc.Value {
	obj := value.NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		obj.Set(pairs[i].(string), rpc.Of(pairs[i+1]))
	}
	return rpc.Of(obj)
}

func TestEngineCreateThenSelect(t *testing.T) {
	e := newTestEngine(t)
	created, err := e.create(rpc.Of(rpc.Table{Name: "person"}), content("name", "tobie"))
	require.NoError(t, err)
	arr, ok := created.Array()
	require.True(t, ok)
	require.Len(t, arr, 1)

	selected, err := e.selectWhat(rpc.Of(rpc.Table{Name: "person"}))
	require.NoError(t, err)
	rows, ok := selected.Array()
	require.True(t, ok)
	require.Len(t, rows, 1)

	obj, ok := rows[0].Object()
	require.True(t, ok)
	name, ok := obj.Get("name")
	require.True(t, ok)
	s, _ := name.String()
	require.Equal(t, "tobie", s)
}

func TestEngineUpdateMergePreservesUntouchedFields(t *testing.T) {
	e := newTestEngine(t)
	created, err := e.create(rpc.Of(rpc.Table{Name: "person"}), content("name", "tobie", "age", float64(30)))
	require.NoError(t, err)
	arr, _ := created.Array()
	obj, _ := arr[0].Object()
	idVal, _ := obj.Get("id")
	idStr, _ := idVal.String()

	what := rpc.Of(thingFromRef(t, idStr))
	opts := rpc.StatementOptions{Data: rpc.DataMerge}
	updated, err := e.update(what, content("age", float64(31)), opts)
	require.NoError(t, err)
	rows, ok := updated.Array()
	require.True(t, ok)
	require.Len(t, rows, 1)

	uobj, _ := rows[0].Object()
	nameVal, ok := uobj.Get("name")
	require.True(t, ok)
	name, _ := nameVal.String()
	require.Equal(t, "tobie", name, "merge must not drop fields absent from the incoming data")
	ageVal, _ := uobj.Get("age")
	age, _ := ageVal.Raw().(float64)
	require.Equal(t, float64(31), age)
}

func TestEngineDeleteReturnsBeforeState(t *testing.T) {
	e := newTestEngine(t)
	created, err := e.create(rpc.Of(rpc.Table{Name: "person"}), content("name", "tobie"))
	require.NoError(t, err)
	arr, _ := created.Array()
	obj, _ := arr[0].Object()
	idVal, _ := obj.Get("id")
	idStr, _ := idVal.String()
	what := rpc.Of(thingFromRef(t, idStr))

	before, err := e.delete(what)
	require.NoError(t, err)
	rows, ok := before.Array()
	require.True(t, ok)
	require.Len(t, rows, 1)

	after, err := e.selectWhat(rpc.Of(rpc.Table{Name: "person"}))
	require.NoError(t, err)
	afterRows, _ := after.Array()
	require.Empty(t, afterRows)
}

func TestEngineComputeResolvesParamFromVars(t *testing.T) {
	e := newTestEngine(t)
	vars := rpc.NewVars()
	vars.Set("x", rpc.Of(7))
	v, err := e.Compute(rpc.Of(value.Param{Name: "x"}), rpc.NewSession("t", false), vars)
	require.NoError(t, err)
	require.Equal(t, rpc.Of(7), v)
}

func TestEngineComputeMissingParamYieldsNone(t *testing.T) {
	e := newTestEngine(t)
	v, err := e.Compute(rpc.Of(value.Param{Name: "missing"}), rpc.NewSession("t", false), rpc.NewVars())
	require.NoError(t, err)
	require.True(t, v.IsNone())
}

func TestEngineExecuteOnlyUnderstandsReturnLiteral(t *testing.T) {
	e := newTestEngine(t)
	resp, err := e.Execute("RETURN hello", rpc.NewSession("t", false), rpc.NewVars())
	require.NoError(t, err)
	require.Len(t, resp, 1)
	require.NoError(t, resp[0].Result.Err)
	s, ok := resp[0].Result.Value.String()
	require.True(t, ok)
	require.Equal(t, "hello", s)

	resp, err = e.Execute("SELECT * FROM person", rpc.NewSession("t", false), rpc.NewVars())
	require.NoError(t, err)
	require.Error(t, resp[0].Result.Err)
}

func TestEngineLiveAndKillRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	id, err := e.startLive(rpc.Of(rpc.Table{Name: "person"}))
	require.NoError(t, err)
	u, ok := id.UUID()
	require.True(t, ok)

	_, err = e.stopLive(rpc.Of(u))
	require.NoError(t, err)
}

// thingFromRef parses a "table:id" reference produced by rowToValue back
// into an rpc.Thing for use as a `what` argument in follow-up calls.
func thingFromRef(t *testing.T, ref string) rpc.Thing {
	t.Helper()
	for i := 0; i < len(ref); i++ {
		if ref[i] == ':' {
			return rpc.Thing{Table: ref[:i], ID: ref[i+1:]}
		}
	}
	t.Fatalf("malformed thing ref: %q", ref)
	return rpc.Thing{}
}
