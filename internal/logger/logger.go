package logger

import (
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger по умолчанию ничего не пишет, пока не вызван Init:
// пакеты и тесты могут логировать без инициализации.
var Logger = zap.NewNop()

func Init(development bool) error {
	var (
		built *zap.Logger
		err   error
	)
	if development {
		config := zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		built, err = config.Build()
	} else {
		config := zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05")
		built, err = config.Build()
	}

	if err != nil {
		return err
	}
	Logger = built
	return nil
}

// Set подменяет логгер, например на zaptest/observer в тестах.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	Logger = l
}

func Sync() {
	_ = Logger.Sync()
}

func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

func Log(lvl zapcore.Level, msg string, fields ...zap.Field) {
	Logger.Log(lvl, msg, fields...)
}

func HttpRequestInfo(r *http.Request, msg string, fields ...zap.Field) {
	allFields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("query", r.URL.RawQuery),
		zap.String("client_ip", r.RemoteAddr),
	}
	allFields = append(allFields, fields...)
	Logger.Info(msg, allFields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	Logger.Error(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}
