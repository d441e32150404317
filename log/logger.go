package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kochabonline/mcstatus/core/reflect"
)

// 日志轮转模式
type RotateMode int

const (
	RotateModeTime RotateMode = iota
	RotateModeSize
)

// 日志输出
const (
	OutputConsole = "console"
	OutputFile    = "file"
	OutputMulti   = "multi"
)

var (
	DefaultLogger *Logger
)

type Config struct {
	Level            string           `json:"level" mapstructure:"level" default:"info"`
	Output           string           `json:"output" mapstructure:"output" default:"console"`
	Caller           bool             `json:"caller" mapstructure:"caller"`
	RotateMode       RotateMode       `json:"rotate_mode" mapstructure:"rotate_mode"`
	Filepath         string           `json:"filepath" mapstructure:"filepath" default:"log"`
	Filename         string           `json:"filename" mapstructure:"filename" default:"mcstatus"`
	FileExt          string           `json:"file_ext" mapstructure:"file_ext" default:"log"`
	RotatelogsConfig RotatelogsConfig `json:"rotatelogs" mapstructure:"rotatelogs"`
	LumberjackConfig LumberjackConfig `json:"lumberjack" mapstructure:"lumberjack"`
}

type RotatelogsConfig struct {
	MaxAge       int `json:"max_age" mapstructure:"max_age" default:"24"`
	RotationTime int `json:"rotation_time" mapstructure:"rotation_time" default:"1"`
}

type LumberjackConfig struct {
	MaxSize    int  `json:"max_size" mapstructure:"max_size" default:"100"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups" default:"5"`
	MaxAge     int  `json:"max_age" mapstructure:"max_age" default:"30"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

type Logger struct {
	zerolog.Logger
}

type Option func(*Logger)

// WithCaller 设置调用栈信息
func WithCaller() Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Caller().Logger()
	}
}

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}
}

// WithWriter 替换输出
func WithWriter(w io.Writer) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Output(w)
	}
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	DefaultLogger = New()
	L = DefaultLogger
}

func newBaseLogger(writer io.Writer) *Logger {
	return &Logger{
		Logger: zerolog.New(writer).With().Timestamp().Logger(),
	}
}

func apply(logger *Logger, opts []Option) *Logger {
	for _, opt := range opts {
		opt(logger)
	}
	return logger
}

// New 创建新的Logger实例，输出到控制台
func New(opts ...Option) *Logger {
	return apply(newBaseLogger(consoleWriter()), opts)
}

// NewFile 创建文件输出的Logger
func NewFile(c Config, opts ...Option) *Logger {
	return apply(newBaseLogger(newFallbackWriter(c)), opts)
}

// NewMulti 创建同时输出到文件和控制台的Logger
func NewMulti(c Config, opts ...Option) *Logger {
	multi := zerolog.MultiLevelWriter(newFallbackWriter(c), consoleWriter())
	return apply(newBaseLogger(multi), opts)
}

// NewFromConfig 按配置创建Logger
func NewFromConfig(c Config) (*Logger, error) {
	if err := c.initConfig(); err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(strings.ToLower(c.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}

	opts := []Option{WithLevel(level)}
	if c.Caller {
		opts = append(opts, WithCaller())
	}

	switch strings.ToLower(c.Output) {
	case OutputConsole, "":
		return New(opts...), nil
	case OutputFile:
		return NewFile(c, opts...), nil
	case OutputMulti:
		return NewMulti(c, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported log output: %s", c.Output)
	}
}

// newFallbackWriter 创建一个回退的日志writer
func newFallbackWriter(config Config) io.Writer {
	if err := config.initConfig(); err != nil {
		return consoleWriter()
	}

	writer, err := rotateWriter(config)
	if err != nil {
		return consoleWriter()
	}

	return writer
}

func (c *Config) initConfig() error {
	return reflect.SetDefaultTag(c)
}

func (c *Config) fileFullPath() string {
	return c.fileFullPathWithFormat("")
}

func (c *Config) fileFullPathWithFormat(format string) string {
	var builder strings.Builder
	builder.Grow(len(c.Filename) + len(format) + len(c.FileExt) + 3)

	builder.WriteString(c.Filename)
	if format != "" {
		builder.WriteByte('.')
		builder.WriteString(format)
	}
	builder.WriteByte('.')
	builder.WriteString(c.FileExt)

	return filepath.Join(c.Filepath, builder.String())
}

// consoleWriter 创建控制台输出writer
func consoleWriter() zerolog.ConsoleWriter {
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}
	output.FormatLevel = func(i any) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	return output
}

func rotateWriter(config Config) (io.Writer, error) {
	switch config.RotateMode {
	case RotateModeTime:
		return timeRotateWriter(config)
	case RotateModeSize:
		return sizeRotateWriter(config), nil
	default:
		return nil, fmt.Errorf("unsupported rotate mode: %d", config.RotateMode)
	}
}

func timeRotateWriter(config Config) (io.Writer, error) {
	writer, err := rotatelogs.New(
		config.fileFullPathWithFormat("%Y%m%d%H%M"),
		rotatelogs.WithLinkName(config.fileFullPath()),
		rotatelogs.WithMaxAge(time.Duration(config.RotatelogsConfig.MaxAge)*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(config.RotatelogsConfig.RotationTime)*time.Hour),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create time rotate writer: %w", err)
	}
	return writer, nil
}

func sizeRotateWriter(config Config) io.Writer {
	return &lumberjack.Logger{
		Filename:   config.fileFullPath(),
		MaxSize:    config.LumberjackConfig.MaxSize,
		MaxBackups: config.LumberjackConfig.MaxBackups,
		MaxAge:     config.LumberjackConfig.MaxAge,
		Compress:   config.LumberjackConfig.Compress,
	}
}
