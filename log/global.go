package log

import (
	"github.com/rs/zerolog"
)

// L is the process wide logger used by the package level helpers.
var L *Logger

// SetGlobalLogger 设置全局日志记录器
func SetGlobalLogger(logger *Logger) {
	if logger == nil {
		return
	}
	L = logger
}

// SetGlobalLevel 设置全局日志级别
func SetGlobalLevel(level zerolog.Level) {
	L.Logger = L.Logger.Level(level)
}

// Debug 全局debug日志
func Debug() *zerolog.Event {
	return L.Debug()
}

// Info 全局info日志
func Info() *zerolog.Event {
	return L.Info()
}

// Warn 全局warn日志
func Warn() *zerolog.Event {
	return L.Warn()
}

// Error 全局error日志
func Error() *zerolog.Event {
	return L.Error().Stack()
}

// Fatal 全局fatal日志
func Fatal() *zerolog.Event {
	return L.Fatal().Stack()
}

func Debugf(format string, args ...any) {
	L.Debug().Msgf(format, args...)
}

func Infof(format string, args ...any) {
	L.Info().Msgf(format, args...)
}

func Warnf(format string, args ...any) {
	L.Warn().Msgf(format, args...)
}

func Errorf(format string, args ...any) {
	L.Error().Stack().Msgf(format, args...)
}

func Fatalf(format string, args ...any) {
	L.Fatal().Stack().Msgf(format, args...)
}
