package config

// Audit configures the optional request-audit trail, adapted from the
// teacher's config.Audit (config/audit.go) with the consts.OP-typed
// exclude list dropped in favor of plain RPC method names, since
// types/consts was not carried over into this module.
type Audit struct {
	Enable             bool     `json:"enable" mapstructure:"enable" ini:"enable" yaml:"enable" default:"false"`
	AsyncWrite         bool     `json:"async_write" mapstructure:"async_write" ini:"async_write" yaml:"async_write" default:"true"`
	BatchSize          int      `json:"batch_size" mapstructure:"batch_size" ini:"batch_size" yaml:"batch_size" default:"10000"`
	FlushInterval      string   `json:"flush_interval" mapstructure:"flush_interval" ini:"flush_interval" yaml:"flush_interval" default:"5s"`
	ExcludeMethods     []string `json:"exclude_methods" mapstructure:"exclude_methods" ini:"exclude_methods" yaml:"exclude_methods"`
	RecordOldValues    bool     `json:"record_old_values" mapstructure:"record_old_values" ini:"record_old_values" yaml:"record_old_values" default:"true"`
	RecordNewValues    bool     `json:"record_new_values" mapstructure:"record_new_values" ini:"record_new_values" yaml:"record_new_values" default:"true"`
	ExcludeFields      []string `json:"exclude_fields" mapstructure:"exclude_fields" ini:"exclude_fields" yaml:"exclude_fields"`
}

func (c *Audit) setDefault() {
	cv.SetDefault("audit.enable", false)
	cv.SetDefault("audit.async_write", true)
	cv.SetDefault("audit.batch_size", 10000)
	cv.SetDefault("audit.flush_interval", "5s")
	cv.SetDefault("audit.exclude_methods", []string{"select", "query"})
	cv.SetDefault("audit.record_old_values", true)
	cv.SetDefault("audit.record_new_values", true)
	cv.SetDefault("audit.exclude_fields", []string{"password", "passwd", "pwd", "secret", "token", "key"})
}
