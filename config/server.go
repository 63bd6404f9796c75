package config

import "time"

// Server configures the transports that expose the dispatch core
// (SPEC_FULL.md §9 Design Notes: embedded/ws/httprpc transports).
type Server struct {
	Host string `json:"host" mapstructure:"host" ini:"host" yaml:"host" default:"0.0.0.0"`

	WSPort      int           `json:"ws_port" mapstructure:"ws_port" ini:"ws_port" yaml:"ws_port" default:"8000"`
	HTTPPort    int           `json:"http_port" mapstructure:"http_port" ini:"http_port" yaml:"http_port" default:"8001"`
	ReadTimeout time.Duration `json:"read_timeout" mapstructure:"read_timeout" ini:"read_timeout" yaml:"read_timeout" default:"15s"`
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout" ini:"write_timeout" yaml:"write_timeout" default:"15s"`

	// Version is handed to store.New and returned by the store engine's
	// Version method. The ws and httprpc transports do not read it: their
	// connections answer the version() RPC method with None.
	Version string `json:"version" mapstructure:"version" ini:"version" yaml:"version" default:"coredb-1.0.0"`
}

func (c *Server) setDefault() {
	cv.SetDefault("server.host", "0.0.0.0")
	cv.SetDefault("server.ws_port", 8000)
	cv.SetDefault("server.http_port", 8001)
	cv.SetDefault("server.read_timeout", 15*time.Second)
	cv.SetDefault("server.write_timeout", 15*time.Second)
	cv.SetDefault("server.version", "coredb-1.0.0")
}
