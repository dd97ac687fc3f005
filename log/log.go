package log

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Logger 返回当前的全局 logger
func Logger() *zerolog.Logger {
	return &logger
}

// SetLogger 替换全局 logger，测试中用于捕获输出
func SetLogger(l zerolog.Logger) {
	logger = l
}

func Debugf(format string, v ...any) {
	logger.Debug().Msgf(format, v...)
}

func Infof(format string, v ...any) {
	logger.Info().Msgf(format, v...)
}

func Warnf(format string, v ...any) {
	logger.Warn().Msgf(format, v...)
}

func Errorf(format string, v ...any) {
	logger.Error().Msgf(format, v...)
}

func Panicf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	logger.Error().Msg(msg)
	panic(msg)
}

func PanicError(err error) {
	logger.Error().Err(err).Msg("panic")
	panic(err)
}
