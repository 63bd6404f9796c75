package config

import "time"

// Auth configures JWT issuance for the iam package (grounded on the
// teacher's config.Auth and authn/jwt/jwt.go). Require2FA is loaded but not
// read: the iam adapter asks for a TOTP code only from users whose own
// TOTP flag is set.
type Auth struct {
	JWTSecret  string        `json:"jwt_secret" mapstructure:"jwt_secret" ini:"jwt_secret" yaml:"jwt_secret" default:"change-me"`
	TokenTTL   time.Duration `json:"token_ttl" mapstructure:"token_ttl" ini:"token_ttl" yaml:"token_ttl" default:"1h"`
	Require2FA bool          `json:"require_2fa" mapstructure:"require_2fa" ini:"require_2fa" yaml:"require_2fa" default:"false"`
}

func (c *Auth) setDefault() {
	cv.SetDefault("auth.jwt_secret", "change-me")
	cv.SetDefault("auth.token_ttl", time.Hour)
	cv.SetDefault("auth.require_2fa", false)
}
