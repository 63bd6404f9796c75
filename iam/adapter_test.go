package iam

import (
	"context"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/rpcerr"
	"github.com/forbearing/coredb/value"
)

func newTestAdapter(t *testing.T) *adapter {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	// redis is nil: session persistence/lookup becomes a no-op, which is
	// exactly what adapter.issue/VerifyToken are written to tolerate.
	a := NewAdapter(db, nil, []byte("test-secret"), time.Hour, nil).(*adapter)
	return a
}

func credentials(fields map[string]string) rpc.Value {
	obj := value.NewObject()
	for k, v := range fields {
		obj.Set(k, rpc.Of(v))
	}
	return rpc.Of(obj)
}

func TestSignupThenSigninRoundTrip(t *testing.T) {
	a := newTestAdapter(t)
	sess := rpc.NewSession("test", false)

	tok, err := a.Signup(context.Background(), sess, credentials(map[string]string{
		"username": "tobie", "password": "hunter2",
	}))
	require.NoError(t, err)
	_, ok := tok.String()
	require.True(t, ok)
	require.NotNil(t, sess.Auth)

	sess2 := rpc.NewSession("test", false)
	tok2, err := a.Signin(context.Background(), sess2, credentials(map[string]string{
		"username": "tobie", "password": "hunter2",
	}))
	require.NoError(t, err)
	_, ok = tok2.String()
	require.True(t, ok)
	require.Equal(t, Principal{UserID: sess.Auth.(Principal).UserID, Username: "tobie"}, sess2.Auth)
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	a := newTestAdapter(t)
	creds := credentials(map[string]string{"username": "dup", "password": "hunter2"})
	_, err := a.Signup(context.Background(), rpc.NewSession("t", false), creds)
	require.NoError(t, err)

	_, err = a.Signup(context.Background(), rpc.NewSession("t", false), creds)
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidAuth, e.Code())
}

func TestSignupRejectsMismatchedRePassword(t *testing.T) {
	a := newTestAdapter(t)
	creds := credentials(map[string]string{
		"username": "mismatch", "password": "hunter2", "re_password": "other",
	})
	_, err := a.Signup(context.Background(), rpc.NewSession("t", false), creds)
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestSignupRejectsShortPassword(t *testing.T) {
	a := newTestAdapter(t)
	creds := credentials(map[string]string{"username": "short", "password": "abc"})
	_, err := a.Signup(context.Background(), rpc.NewSession("t", false), creds)
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidParams, e.Code())
}

func TestSigninRejectsWrongPassword(t *testing.T) {
	a := newTestAdapter(t)
	creds := credentials(map[string]string{"username": "wrongpw", "password": "hunter2"})
	_, err := a.Signup(context.Background(), rpc.NewSession("t", false), creds)
	require.NoError(t, err)

	_, err = a.Signin(context.Background(), rpc.NewSession("t", false), credentials(map[string]string{
		"username": "wrongpw", "password": "nope",
	}))
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidAuth, e.Code())
}

func TestSigninRejectsUnknownUsername(t *testing.T) {
	a := newTestAdapter(t)
	_, err := a.Signin(context.Background(), rpc.NewSession("t", false), credentials(map[string]string{
		"username": "ghost", "password": "hunter2",
	}))
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidAuth, e.Code())
}

func TestSigninRequiresTOTPWhenEnabled(t *testing.T) {
	a := newTestAdapter(t)
	sess := rpc.NewSession("t", false)
	_, err := a.Signup(context.Background(), sess, credentials(map[string]string{
		"username": "twofactor", "password": "hunter2",
	}))
	require.NoError(t, err)

	secret := "JBSWY3DPEHPK3PXP"
	require.NoError(t, a.db.Model(&User{}).Where("username = ?", "twofactor").
		Updates(map[string]any{"totp_enabled": true, "totp_secret": secret}).Error)

	_, err = a.Signin(context.Background(), rpc.NewSession("t", false), credentials(map[string]string{
		"username": "twofactor", "password": "hunter2",
	}))
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidAuth, e.Code())

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	tok, err := a.Signin(context.Background(), rpc.NewSession("t", false), credentials(map[string]string{
		"username": "twofactor", "password": "hunter2", "totp_code": code,
	}))
	require.NoError(t, err)
	_, ok = tok.String()
	require.True(t, ok)
}

func TestVerifyTokenPopulatesPrincipal(t *testing.T) {
	a := newTestAdapter(t)
	sess := rpc.NewSession("t", false)
	tok, err := a.Signup(context.Background(), sess, credentials(map[string]string{
		"username": "verifyme", "password": "hunter2",
	}))
	require.NoError(t, err)
	tokStr, _ := tok.String()

	sess2 := rpc.NewSession("t", false)
	require.NoError(t, a.VerifyToken(context.Background(), sess2, tokStr))
	require.Equal(t, "verifyme", sess2.Auth.(Principal).Username)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	a := newTestAdapter(t)
	err := a.VerifyToken(context.Background(), rpc.NewSession("t", false), "not-a-jwt")
	e, ok := rpcerr.As(err)
	require.True(t, ok)
	require.Equal(t, rpcerr.InvalidAuth, e.Code())
}

func TestClearResetsSessionAuth(t *testing.T) {
	a := newTestAdapter(t)
	sess := rpc.NewSession("t", false)
	sess.Auth = Principal{UserID: "x", Username: "y"}
	a.Clear(context.Background(), sess)
	require.Nil(t, sess.Auth)
}

func TestBackupCodesStoreConsumeOnce(t *testing.T) {
	codes := make(backupCodesStore)
	codes["u1"] = []string{"aaa", "bbb"}
	require.True(t, codes.consume("u1", "aaa"))
	require.False(t, codes.consume("u1", "aaa"))
	require.True(t, codes.consume("u1", "bbb"))
}
