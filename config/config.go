package config

import (
	"errors"
	"path"
	"reflect"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	kreflect "github.com/kochabonline/mcstatus/core/reflect"
	"github.com/kochabonline/mcstatus/log"
	"github.com/kochabonline/mcstatus/validator"
)

type Provider int

const (
	ProviderFile Provider = iota
)

// Pre-defined environment key replacer to avoid repeated creation
var envKeyReplacer = strings.NewReplacer(".", "_")

type Config struct {
	viper    *viper.Viper
	Provider Provider       // Provider is the provider of the configuration, e.g., file, etc.
	Path     []string       // Path is the directories searched for the configuration file.
	Name     string         // Name is the name of the configuration file, e.g. config.yaml.
	File     string         // File is an explicit configuration file, it wins over Path and Name.
	Prefix   string         // Prefix is prepended to environment variable names.
	Optional bool           // Optional tolerates a missing configuration file.
	Defaults map[string]any // Defaults are applied below file, env and flags.
	Dest     any            // Dest is the destination where the configuration will be unmarshalled.
	OnChange func(any)      // OnChange receives a fresh copy of Dest after a watched file was reloaded.
}

type Option func(*Config)

func WithViper(v *viper.Viper) Option {
	return func(c *Config) {
		c.viper = v
	}
}

func WithProvider(provider Provider) Option {
	return func(c *Config) {
		c.Provider = provider
	}
}

func WithPath(path ...string) Option {
	return func(c *Config) {
		c.Path = path
	}
}

func WithName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

func WithFile(file string) Option {
	return func(c *Config) {
		c.File = file
	}
}

func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

func WithOptional(optional bool) Option {
	return func(c *Config) {
		c.Optional = optional
	}
}

func WithDefaults(defaults map[string]any) Option {
	return func(c *Config) {
		c.Defaults = defaults
	}
}

func WithDest(dest any) Option {
	return func(c *Config) {
		c.Dest = dest
	}
}

func WithOnChange(fn func(any)) Option {
	return func(c *Config) {
		c.OnChange = fn
	}
}

// New fills Dest with its default tags and prepares viper. It returns an
// error when Dest is not a pointer to a struct.
func New(opts ...Option) (*Config, error) {
	c := &Config{
		Provider: ProviderFile,
		Path:     []string{"."},
		viper:    viper.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.init(); err != nil {
		return nil, err
	}

	c.configureViper()

	return c, nil
}

func (c *Config) init() error {
	return kreflect.SetDefaultTag(c.Dest)
}

// configureViper configures the default settings for the viper instance
func (c *Config) configureViper() {
	if c.File != "" {
		c.viper.SetConfigFile(c.File)
	} else if c.Name != "" {
		// Parse configuration file type
		extension := path.Ext(c.Name)
		configType := strings.TrimPrefix(extension, ".")

		for _, configPath := range c.Path {
			c.viper.AddConfigPath(configPath)
		}
		c.viper.SetConfigName(strings.TrimSuffix(c.Name, extension))
		c.viper.SetConfigType(configType)
	}

	for k, v := range c.Defaults {
		c.viper.SetDefault(k, v)
	}

	if c.Prefix != "" {
		c.viper.SetEnvPrefix(c.Prefix)
	}
	c.viper.AutomaticEnv()
	c.viper.SetEnvKeyReplacer(envKeyReplacer)

	// AutomaticEnv only sees keys viper already knows about
	for _, key := range keys(reflect.TypeOf(c.Dest), "") {
		_ = c.viper.BindEnv(key)
	}
}

func (c *Config) GetViper() *viper.Viper {
	return c.viper
}

// BindPFlag lets a command line flag override key.
func (c *Config) BindPFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return errors.New("config: nil flag for " + key)
	}
	return c.viper.BindPFlag(key, flag)
}

func (c *Config) hasFile() bool {
	return c.File != "" || c.Name != ""
}

// ReadInConfig reads the file, merges env and flags, unmarshals into Dest
// and validates it.
func (c *Config) ReadInConfig() error {
	if c.hasFile() {
		if err := c.viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !c.Optional || !errors.As(err, &notFound) {
				return err
			}
			log.Debug().Msg("no config file found, using defaults")
		}
	}

	if err := c.viper.Unmarshal(c.Dest); err != nil {
		return err
	}

	return validator.Struct(c.Dest)
}

// Reload decodes the current viper state into a new value of Dest's type.
// Dest itself is left untouched so readers of it never race a reload.
func (c *Config) Reload() (any, error) {
	t := reflect.TypeOf(c.Dest)
	if t == nil || t.Kind() != reflect.Ptr {
		return nil, errors.New("config: dest must be a pointer")
	}

	next := reflect.New(t.Elem()).Interface()
	if err := kreflect.SetDefaultTag(next); err != nil {
		return nil, err
	}
	if err := c.viper.Unmarshal(next); err != nil {
		return nil, err
	}
	if err := validator.Struct(next); err != nil {
		return nil, err
	}
	return next, nil
}

func (c *Config) WatchConfig() error {
	if !c.hasFile() {
		return errors.New("config: nothing to watch without a config file")
	}

	c.viper.OnConfigChange(func(e fsnotify.Event) {
		log.Info().Msgf("config file changed: %s", e.Name)
		next, err := c.Reload()
		if err != nil {
			log.Error().Err(err).Msg("failed to reload config")
			return
		}
		if c.OnChange != nil {
			c.OnChange(next)
		}
	})
	c.viper.WatchConfig()
	return nil
}

// keys lists the dotted mapstructure keys of every leaf field of t.
func keys(t reflect.Type, prefix string) []string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var out []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name := strings.Split(field.Tag.Get("mapstructure"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		if field.Type.Kind() == reflect.Struct && field.Type.String() != "time.Time" {
			out = append(out, keys(field.Type, name)...)
			continue
		}
		out = append(out, name)
	}
	return out
}
