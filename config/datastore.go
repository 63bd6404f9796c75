package config

import "time"

// Sqlite configures the reference store engine's embedded backend
// (store.New, gorm.io/driver/sqlite).
type Sqlite struct {
	Path string `json:"path" mapstructure:"path" ini:"path" yaml:"path" default:"coredb.sqlite"`
}

func (c *Sqlite) setDefault() {
	cv.SetDefault("sqlite.path", "coredb.sqlite")
}

// Postgres configures the reference store engine's networked backend
// (gorm.io/driver/postgres), used in place of Sqlite when Enable is set.
type Postgres struct {
	Enable   bool   `json:"enable" mapstructure:"enable" ini:"enable" yaml:"enable" default:"false"`
	Host     string `json:"host" mapstructure:"host" ini:"host" yaml:"host" default:"127.0.0.1"`
	Port     int    `json:"port" mapstructure:"port" ini:"port" yaml:"port" default:"5432"`
	Username string `json:"username" mapstructure:"username" ini:"username" yaml:"username" default:"postgres"`
	Password string `json:"password" mapstructure:"password" ini:"password" yaml:"password"`
	Database string `json:"database" mapstructure:"database" ini:"database" yaml:"database" default:"coredb"`
	SSLMode  string `json:"ssl_mode" mapstructure:"ssl_mode" ini:"ssl_mode" yaml:"ssl_mode" default:"disable"`

	SlowQueryThreshold time.Duration `json:"slow_query_threshold" mapstructure:"slow_query_threshold" ini:"slow_query_threshold" yaml:"slow_query_threshold" default:"200ms"`
}

func (c *Postgres) setDefault() {
	cv.SetDefault("postgres.enable", false)
	cv.SetDefault("postgres.host", "127.0.0.1")
	cv.SetDefault("postgres.port", 5432)
	cv.SetDefault("postgres.username", "postgres")
	cv.SetDefault("postgres.database", "coredb")
	cv.SetDefault("postgres.ssl_mode", "disable")
	cv.SetDefault("postgres.slow_query_threshold", 200*time.Millisecond)
}

// Redis configures the session store in which the iam package keeps one
// session record per issued token, keyed by the token's id
// (redis/go-redis/v9).
type Redis struct {
	Addr     string `json:"addr" mapstructure:"addr" ini:"addr" yaml:"addr" default:"127.0.0.1:6379"`
	Username string `json:"username" mapstructure:"username" ini:"username" yaml:"username"`
	Password string `json:"password" mapstructure:"password" ini:"password" yaml:"password"`
	DB       int    `json:"db" mapstructure:"db" ini:"db" yaml:"db" default:"0"`
}

func (c *Redis) setDefault() {
	cv.SetDefault("redis.addr", "127.0.0.1:6379")
	cv.SetDefault("redis.db", 0)
}
