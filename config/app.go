package config

import (
	"time"

	"github.com/kochabonline/mcstatus/log"
	"github.com/kochabonline/mcstatus/store/redis"
	transhttp "github.com/kochabonline/mcstatus/transport/http"
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// App is the configuration of the mcstatus server.
type App struct {
	Server  transhttp.Config `json:"server" mapstructure:"server"`
	Log     log.Config       `json:"log" mapstructure:"log"`
	Lookup  Lookup           `json:"lookup" mapstructure:"lookup"`
	Cache   Cache            `json:"cache" mapstructure:"cache"`
	Redis   redis.Config     `json:"redis" mapstructure:"redis"`
	Session Session          `json:"session" mapstructure:"session"`
}

type Lookup struct {
	BaseURL   string        `json:"base_url" mapstructure:"base_url" default:"https://api.mcsrvstat.us/3/" validate:"url"`
	Timeout   time.Duration `json:"timeout" mapstructure:"timeout" default:"10s"`
	UserAgent string        `json:"user_agent" mapstructure:"user_agent" default:"mcstatus/1.0"`
}

type Cache struct {
	Driver string        `json:"driver" mapstructure:"driver" default:"memory" validate:"oneof=memory redis none"`
	TTL    time.Duration `json:"ttl" mapstructure:"ttl" default:"60s"`
	Prefix string        `json:"prefix" mapstructure:"prefix" default:"mcstatus:status:"`
}

type Session struct {
	Max     int           `json:"max" mapstructure:"max" default:"1024" validate:"min=1"`
	IdleTTL time.Duration `json:"idle_ttl" mapstructure:"idle_ttl" default:"10m" validate:"min=0"`
}

// AppDefaults are the defaults that cannot live in default tags, because a
// false bool is indistinguishable from an unset one.
func AppDefaults() map[string]any {
	return map[string]any{
		"server.metrics.enabled":              true,
		"server.metrics.enabled_go_collector": true,
		"server.health.enabled":               true,
	}
}

// Load reads the application config from file (optional unless set
// explicitly), MCSTATUS_* environment variables and the given options.
func Load(file string, opts ...Option) (*App, *Config, error) {
	app := new(App)

	base := []Option{
		WithDest(app),
		WithDefaults(AppDefaults()),
		WithEnvPrefix("MCSTATUS"),
	}
	if file != "" {
		base = append(base, WithFile(file))
	} else {
		base = append(base, WithName("config.yaml"), WithPath(".", "./config"), WithOptional(true))
	}

	c, err := New(append(base, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	if err := c.ReadInConfig(); err != nil {
		return nil, nil, err
	}

	return app, c, nil
}
