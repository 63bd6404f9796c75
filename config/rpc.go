package config

// GraphQL toggles the GraphQL adapter (spec.md §6 Environment:
// "a process-wide GraphQL.Enable flag").
type GraphQL struct {
	Enable bool `json:"enable" mapstructure:"enable" ini:"enable" yaml:"enable" default:"true"`
}

func (c *GraphQL) setDefault() {
	cv.SetDefault("graphql.enable", true)
}

// RPC holds the rpc.live_query_enable and rpc.deny_by_default settings.
// They are loaded into App but no other package reads them:
// capability.SeedDefaultPolicies always allows every method, and each
// transport fixes its own live-query support.
type RPC struct {
	LiveQueryEnable bool `json:"live_query_enable" mapstructure:"live_query_enable" ini:"live_query_enable" yaml:"live_query_enable" default:"true"`
	DenyByDefault   bool `json:"deny_by_default" mapstructure:"deny_by_default" ini:"deny_by_default" yaml:"deny_by_default" default:"false"`
}

func (c *RPC) setDefault() {
	cv.SetDefault("rpc.live_query_enable", true)
	cv.SetDefault("rpc.deny_by_default", false)
}
