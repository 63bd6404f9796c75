package rpcerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeTaxonomy(t *testing.T) {
	err := MethodNotFoundErr("bogus")
	require.Equal(t, MethodNotFound, err.Code())
	require.Equal(t, "MethodNotFound: method not found: bogus", err.Error())

	err = InvalidParamsErr("select: expected at most %d argument(s), got %d", 2, 3)
	require.Equal(t, InvalidParams, err.Code())
}

func TestAs(t *testing.T) {
	err := BadLQConfigErr()
	got, ok := As(err)
	require.True(t, ok)
	require.Equal(t, BadLQConfig, got.Code())

	_, ok = As(errors.New("plain error"))
	require.False(t, ok)
}

func TestInvalidAuthPreservesCause(t *testing.T) {
	cause := errors.New("bad password")
	err := InvalidAuthErr(cause)
	require.Equal(t, InvalidAuth, err.Code())
	require.ErrorIs(t, err, cause)
}

func TestErrorWithoutMessageFallsBackToCode(t *testing.T) {
	err := New(InternalError, "")
	require.Equal(t, "InternalError", err.Error())
}
