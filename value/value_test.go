package value

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNoneVsNull(t *testing.T) {
	require.True(t, NoneValue().IsNone())
	require.False(t, NoneValue().IsNull())
	require.True(t, NullValue().IsNull())
	require.False(t, NullValue().IsNone())
	require.True(t, (Value{}).IsNone(), "zero Value must read as None")
	require.True(t, NoneValue().IsNoneOrNull())
	require.True(t, NullValue().IsNoneOrNull())
	require.False(t, Of("x").IsNoneOrNull())
}

func TestAccessorsRoundTrip(t *testing.T) {
	s, ok := Of("hello").String()
	require.True(t, ok)
	require.Equal(t, "hello", s)

	b, ok := Of(true).Bool()
	require.True(t, ok)
	require.True(t, b)

	_, ok = Of(42).String()
	require.False(t, ok)

	id := uuid.New()
	got, ok := Of(id).UUID()
	require.True(t, ok)
	require.Equal(t, id, got)

	arr, ok := Of([]Value{Of("a"), Of("b")}).Array()
	require.True(t, ok)
	require.Len(t, arr, 2)
}

func TestObjectPreservesInsertionOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("z", Of(1))
	obj.Set("a", Of(2))
	obj.Set("m", Of(3))
	require.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	_, ok := obj.Get("a")
	require.True(t, ok)

	obj.Set("z", Of(99)) // overwrite must not move position
	require.Equal(t, []string{"z", "a", "m"}, obj.Keys())

	obj.Delete("a")
	require.Equal(t, []string{"z", "m"}, obj.Keys())
	require.Equal(t, 2, obj.Len())

	var visited []string
	obj.Range(func(key string, v Value) { visited = append(visited, key) })
	require.Equal(t, []string{"z", "m"}, visited)
}

func TestNilObjectIsSafe(t *testing.T) {
	var obj *Object
	require.Equal(t, 0, obj.Len())
	obj.Range(func(string, Value) { t.Fatal("must not be called on nil object") })
}

func TestCouldBeTable(t *testing.T) {
	v := CouldBeTable(Of("person"))
	tbl, ok := v.Table()
	require.True(t, ok)
	require.Equal(t, "person", tbl.Name)

	// Already-structured values pass through unchanged.
	thing := Of(Thing{Table: "person", ID: "tobie"})
	require.Equal(t, thing, CouldBeTable(thing))

	// Non-identifier-looking strings are left alone.
	v = CouldBeTable(Of("person:tobie"))
	_, ok = v.Table()
	require.False(t, ok)

	// A leading digit disqualifies the identifier heuristic.
	v = CouldBeTable(Of("1person"))
	_, ok = v.Table()
	require.False(t, ok)
}

func TestIsSingle(t *testing.T) {
	require.True(t, Of(Thing{Table: "person", ID: "tobie"}).IsSingle())
	require.False(t, Of(Table{Name: "person"}).IsSingle())
	require.False(t, NoneValue().IsSingle())
}
