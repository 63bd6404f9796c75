package iam

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"github.com/pquerna/otp/totp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/forbearing/coredb/rpc"
	"github.com/forbearing/coredb/rpcerr"
	"github.com/forbearing/coredb/value"
)

// sessionRedisPrefix mirrors the teacher's modeliam.SessionRedisKey
// namespacing convention (internal/model/iam/helper.go).
const sessionRedisPrefix = "coredb:session:"

// Principal is what the adapter stores in rpc.Session.Auth on success.
type Principal struct {
	UserID   string
	Username string
}

// AuthThing satisfies rpc.AuthSubject: the principal's own user record is
// what Info (SELECT * FROM $auth) resolves to.
func (p Principal) AuthThing() rpc.Thing { return rpc.Thing{Table: "user", ID: p.UserID} }

// adapter is the bcrypt/jwt/redis/totp-backed IAM implementation, grounded
// on the teacher's internal/service/iam/{login,signup}.go.
type adapter struct {
	db          *gorm.DB
	redis       *redis.Client
	jwtSecret   []byte
	tokenTTL    time.Duration
	log         *zap.Logger
	backupCodes backupCodesStore
}

// NewAdapter wires a gorm User table, a redis session store, and a JWT
// signing secret into an IAM implementation.
func NewAdapter(db *gorm.DB, rdb *redis.Client, jwtSecret []byte, tokenTTL time.Duration, log *zap.Logger) IAM {
	if tokenTTL <= 0 {
		tokenTTL = 8 * time.Hour
	}
	return &adapter{db: db, redis: rdb, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log, backupCodes: make(backupCodesStore)}
}

type credentialFields struct {
	username   string
	password   string
	rePassword string
	totpCode   string
	backupCode string
	userAgent  string
}

func extractCredentials(v rpc.Value) (credentialFields, error) {
	var out credentialFields
	obj, ok := v.Object()
	if !ok {
		return out, rpcerr.InvalidParamsErr("credentials must be an object")
	}
	str := func(key string) string {
		val, ok := obj.Get(key)
		if !ok {
			return ""
		}
		s, _ := val.String()
		return s
	}
	out.username = str("username")
	out.password = str("password")
	out.rePassword = str("re_password")
	out.totpCode = str("totp_code")
	out.backupCode = str("backup_code")
	out.userAgent = str("user_agent")
	if out.username == "" {
		return out, rpcerr.InvalidParamsErr("username is required")
	}
	if out.password == "" {
		return out, rpcerr.InvalidParamsErr("password is required")
	}
	return out, nil
}

func (a *adapter) Signup(ctx context.Context, sess *rpc.Session, credentials rpc.Value) (rpc.Value, error) {
	creds, err := extractCredentials(credentials)
	if err != nil {
		return rpc.Value{}, err
	}
	if creds.rePassword != "" && creds.rePassword != creds.password {
		return rpc.Value{}, rpcerr.InvalidParamsErr("passwords do not match")
	}
	if len(creds.password) < 6 {
		return rpc.Value{}, rpcerr.InvalidParamsErr("password must be at least 6 characters long")
	}

	var existing int64
	if err := a.db.WithContext(ctx).Model(&User{}).Where("username = ?", creds.username).Count(&existing).Error; err != nil {
		return rpc.Value{}, rpcerr.InvalidAuthErr(errors.Wrap(err, "failed to check existing user"))
	}
	if existing > 0 {
		return rpc.Value{}, rpcerr.InvalidAuthErr(errors.New("username already exists"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(creds.password), bcrypt.DefaultCost)
	if err != nil {
		return rpc.Value{}, rpcerr.InvalidAuthErr(errors.Wrap(err, "failed to hash password"))
	}
	user := &User{ID: uuid.NewString(), Username: creds.username, PasswordHash: string(hashed), CreatedAt: time.Now()}
	if err := a.db.WithContext(ctx).Create(user).Error; err != nil {
		return rpc.Value{}, rpcerr.InvalidAuthErr(errors.Wrap(err, "failed to create user"))
	}

	a.logf("user signed up", user.Username, user.ID)
	return a.issue(ctx, sess, user, creds.userAgent)
}

func (a *adapter) Signin(ctx context.Context, sess *rpc.Session, credentials rpc.Value) (rpc.Value, error) {
	creds, err := extractCredentials(credentials)
	if err != nil {
		return rpc.Value{}, err
	}

	var user User
	if err := a.db.WithContext(ctx).Where("username = ?", creds.username).First(&user).Error; err != nil {
		return rpc.Value{}, rpcerr.InvalidAuthErr(errors.New("invalid username or password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.password)); err != nil {
		return rpc.Value{}, rpcerr.InvalidAuthErr(errors.New("invalid username or password"))
	}

	if user.TOTPEnabled {
		switch {
		case creds.totpCode != "":
			if !totp.Validate(creds.totpCode, user.TOTPSecret) {
				return rpc.Value{}, rpcerr.InvalidAuthErr(errors.New("invalid 2FA code"))
			}
		case creds.backupCode != "":
			if !a.backupCodes.consume(user.ID, creds.backupCode) {
				return rpc.Value{}, rpcerr.InvalidAuthErr(errors.New("invalid backup code"))
			}
		default:
			return rpc.Value{}, rpcerr.InvalidAuthErr(errors.New("2FA verification required"))
		}
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := a.db.WithContext(ctx).Model(&User{}).Where("id = ?", user.ID).Update("last_login_at", now).Error; err != nil {
		a.logf("failed to update last login time", user.Username, user.ID)
	}

	a.logf("user signed in", user.Username, user.ID)
	return a.issue(ctx, sess, &user, creds.userAgent)
}

// issue mints a JWT, stores a companion session record in Redis keyed by
// its jti, and authenticates sess in place (spec.md §4.4: Signup/Signin
// return the issued token but also populate the session as if a subsequent
// Authenticate had run against it, since the borrowing handler restores
// this same *Session).
func (a *adapter) issue(ctx context.Context, sess *rpc.Session, user *User, rawUA string) (rpc.Value, error) {
	jti := uuid.NewString()
	claims := jwt.MapClaims{
		"sub": user.ID,
		"usr": user.Username,
		"jti": jti,
		"exp": time.Now().Add(a.tokenTTL).Unix(),
		"iat": time.Now().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(a.jwtSecret)
	if err != nil {
		return rpc.Value{}, rpcerr.InvalidAuthErr(errors.Wrap(err, "failed to sign token"))
	}

	if a.redis != nil {
		ua := useragent.New(rawUA)
		engineName, _ := ua.Engine()
		rec := Session{UserID: user.ID, Username: user.Username, OS: ua.OS(), Platform: ua.Platform(), EngineName: engineName, IssuedAt: time.Now()}
		if err := a.redis.Set(ctx, sessionRedisPrefix+jti, mustJSON(rec), a.tokenTTL).Err(); err != nil {
			return rpc.Value{}, rpcerr.InvalidAuthErr(errors.Wrap(err, "failed to persist session"))
		}
	}

	sess.Auth = Principal{UserID: user.ID, Username: user.Username}
	return value.Of(signed), nil
}

func (a *adapter) VerifyToken(ctx context.Context, sess *rpc.Session, token string) error {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return a.jwtSecret, nil })
	if err != nil || !parsed.Valid {
		return rpcerr.InvalidAuthErr(errors.New("invalid or expired token"))
	}
	jti, _ := claims["jti"].(string)
	if a.redis != nil && jti != "" {
		if err := a.redis.Get(ctx, sessionRedisPrefix+jti).Err(); err != nil {
			return rpcerr.InvalidAuthErr(errors.New("session expired or revoked"))
		}
	}
	userID, _ := claims["sub"].(string)
	username, _ := claims["usr"].(string)
	sess.Auth = Principal{UserID: userID, Username: username}
	return nil
}

func (a *adapter) Clear(ctx context.Context, sess *rpc.Session) {
	// Only the session's auth state is reset; the Redis session record of
	// the token is not deleted and expires with its TTL.
	sess.ClearAuth()
}

func (a *adapter) logf(msg, username, userID string) {
	if a.log == nil {
		return
	}
	a.log.Info(msg, zap.String("username", username), zap.String("user_id", userID))
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
