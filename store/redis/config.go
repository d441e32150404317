package redis

import (
	"net"
	"strconv"
	"time"

	"github.com/kochabonline/mcstatus/core/reflect"
)

type Config struct {
	Host        string        `json:"host" mapstructure:"host" default:"localhost"`
	Port        int           `json:"port" mapstructure:"port" default:"6379"`
	Password    string        `json:"password" mapstructure:"password"`
	DB          int           `json:"db" mapstructure:"db" default:"0"`
	Protocol    int           `json:"protocol" mapstructure:"protocol" default:"3"`
	PoolSize    int           `json:"pool_size" mapstructure:"pool_size"`
	DialTimeout time.Duration `json:"dial_timeout" mapstructure:"dial_timeout" default:"5s"`
}

func (c *Config) init() error {
	return reflect.SetDefaultTag(c)
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
