package core

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/qycnet/account_hub/config"
)

// ZapLogger 是对 zap 日志库的封装，为整个服务提供统一的结构化日志入口。
// - 各层组件通过依赖注入持有 *ZapLogger，而不是直接使用全局 logger。
type ZapLogger struct {
	logger *zap.Logger
}

// NewZapLogger 根据配置创建 ZapLogger 实例。
// - cfg.Level 支持 debug/info/warn/error，解析失败时回退为 info。
// - cfg.Encoding 支持 json 和 console 两种输出格式。
func NewZapLogger(cfg config.ZapConfig) (*ZapLogger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "time"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return &ZapLogger{logger: logger}, nil
}

// NewNopLogger 返回一个丢弃所有日志的实例，主要用于单元测试。
func NewNopLogger() *ZapLogger {
	return &ZapLogger{logger: zap.NewNop()}
}

// Logger 暴露底层 *zap.Logger，供需要直接操作的场景使用（例如 Sync）。
func (l *ZapLogger) Logger() *zap.Logger {
	return l.logger
}

func (l *ZapLogger) Debug(msg string, fields ...zap.Field) {
	l.logger.Debug(msg, fields...)
}

func (l *ZapLogger) Info(msg string, fields ...zap.Field) {
	l.logger.Info(msg, fields...)
}

func (l *ZapLogger) Warn(msg string, fields ...zap.Field) {
	l.logger.Warn(msg, fields...)
}

func (l *ZapLogger) Error(msg string, fields ...zap.Field) {
	l.logger.Error(msg, fields...)
}

func (l *ZapLogger) Fatal(msg string, fields ...zap.Field) {
	l.logger.Fatal(msg, fields...)
}

// Sync 刷新缓冲区中的日志，进程退出前调用。
func (l *ZapLogger) Sync() error {
	if err := l.logger.Sync(); err != nil {
		return fmt.Errorf("core.ZapLogger: 同步日志失败: %w", err)
	}
	return nil
}
