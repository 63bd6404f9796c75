package rpc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forbearing/coredb/rpcerr"
)

func TestNeedsOnePadsAndRejectsOverflow(t *testing.T) {
	v, err := needsOne("select", nil)
	require.NoError(t, err)
	require.True(t, v.IsNone())

	v, err = needsOne("select", []Value{Of("person")})
	require.NoError(t, err)
	require.Equal(t, Of("person"), v)

	_, err = needsOne("select", []Value{Of("a"), Of("b")})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestNeedsOneOrTwoPadsSecondPosition(t *testing.T) {
	a, b, err := needsOneOrTwo("create", []Value{Of("person")})
	require.NoError(t, err)
	require.Equal(t, Of("person"), a)
	require.True(t, b.IsNone())

	_, _, err = needsOneOrTwo("create", []Value{Of("a"), Of("b"), Of("c")})
	require.Error(t, err)
}

func TestNeedsTwoPadsBothPositions(t *testing.T) {
	a, b, err := needsTwo("use", nil)
	require.NoError(t, err)
	require.True(t, a.IsNone())
	require.True(t, b.IsNone())

	a, b, err = needsTwo("use", []Value{Of("ns")})
	require.NoError(t, err)
	require.Equal(t, Of("ns"), a)
	require.True(t, b.IsNone())
}

func TestNeedsOneTwoOrThreeOverflow(t *testing.T) {
	_, _, _, err := needsOneTwoOrThree("upsert", []Value{Of("a"), Of("b"), Of("c"), Of("d")})
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestNeedsThreeOrFourPadsTrailingData(t *testing.T) {
	from, kind, to, data, err := needsThreeOrFour("relate", []Value{Of("a"), Of("knows"), Of("b")})
	require.NoError(t, err)
	require.Equal(t, Of("a"), from)
	require.Equal(t, Of("knows"), kind)
	require.Equal(t, Of("b"), to)
	require.True(t, data.IsNone())

	_, _, _, _, err = needsThreeOrFour("relate", []Value{Of("a"), Of("b"), Of("c"), Of("d"), Of("e")})
	require.Error(t, err)
}
