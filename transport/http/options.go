package http

import (
	"time"

	"github.com/kochabonline/mcstatus/core/reflect"
)

// Config is the server section of the application config.
type Config struct {
	Addr              string        `json:"addr" mapstructure:"addr" default:":8080"`
	Mode              string        `json:"mode" mapstructure:"mode" default:"release"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" mapstructure:"read_header_timeout" default:"5s"`
	Metrics           MetricsOption `json:"metrics" mapstructure:"metrics"`
	Health            HealthOption  `json:"health" mapstructure:"health"`
}

type Options struct {
	Metrics MetricsOption
	Health  HealthOption
}

type MetricsOption struct {
	Enabled                   bool   `json:"enabled" mapstructure:"enabled"`
	Path                      string `json:"path" mapstructure:"path" default:"/metrics"`
	EnabledGoCollector        bool   `json:"enabled_go_collector" mapstructure:"enabled_go_collector"`
	EnabledBuildInfoCollector bool   `json:"enabled_build_info_collector" mapstructure:"enabled_build_info_collector"`
}

func (m *MetricsOption) init() error {
	return reflect.SetDefaultTag(m)
}

type HealthOption struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path" default:"/health"`
}

func (h *HealthOption) init() error {
	return reflect.SetDefaultTag(h)
}
