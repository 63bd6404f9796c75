package config

// Logger configures the zap-backed loggers wired in logger/zap
// (grounded on the teacher's config.Logger, config/config.go).
type Logger struct {
	File       string `json:"file" mapstructure:"file" ini:"file" yaml:"file" default:""`
	Level      string `json:"level" mapstructure:"level" ini:"level" yaml:"level" default:"info"`
	Format     string `json:"format" mapstructure:"format" ini:"format" yaml:"format" default:"json"`
	Encoder    string `json:"encoder" mapstructure:"encoder" ini:"encoder" yaml:"encoder" default:"json"`
	MaxAge     int    `json:"max_age" mapstructure:"max_age" ini:"max_age" yaml:"max_age" default:"7"`
	MaxSize    int    `json:"max_size" mapstructure:"max_size" ini:"max_size" yaml:"max_size" default:"100"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups" ini:"max_backups" yaml:"max_backups" default:"10"`
}

func (c *Logger) setDefault() {
	cv.SetDefault("logger.file", "")
	cv.SetDefault("logger.level", "info")
	cv.SetDefault("logger.format", "json")
	cv.SetDefault("logger.encoder", "json")
	cv.SetDefault("logger.max_age", 7)
	cv.SetDefault("logger.max_size", 100)
	cv.SetDefault("logger.max_backups", 10)
}

// Debug toggles verbose/introspective behavior unsuitable for production.
type Debug struct {
	Enable bool `json:"enable" mapstructure:"enable" ini:"enable" yaml:"enable" default:"false"`
	Pprof  bool `json:"pprof" mapstructure:"pprof" ini:"pprof" yaml:"pprof" default:"false"`
}

func (c *Debug) setDefault() {
	cv.SetDefault("debug.enable", false)
	cv.SetDefault("debug.pprof", false)
}
