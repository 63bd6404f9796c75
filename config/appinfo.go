package config

// Mode is the process run mode, mirroring the teacher's config.Mode.
type Mode string

const (
	ModeDev  Mode = "dev"
	ModeTest Mode = "test"
	ModeProd Mode = "prod"
)

// AppInfo carries process-wide identity, grounded on the teacher's
// config.AppInfo (config/config.go).
type AppInfo struct {
	Name string `json:"name" mapstructure:"name" ini:"name" yaml:"name" default:"coredb"`
	Mode Mode   `json:"mode" mapstructure:"mode" ini:"mode" yaml:"mode" default:"dev"`
	Dir  string `json:"dir" mapstructure:"dir" ini:"dir" yaml:"dir" default:"."`
}

func (c *AppInfo) setDefault() {
	cv.SetDefault("app.name", "coredb")
	cv.SetDefault("app.mode", ModeDev)
	cv.SetDefault("app.dir", ".")
}
