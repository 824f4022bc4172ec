package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/qycnet/account_hub/config"
)

// GormLogger 将 GORM 的日志输出桥接到 ZapLogger。
// - 避免 GORM 默认的标准库日志与服务的结构化日志混在一起。
type GormLogger struct {
	logger        *ZapLogger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger 创建 GORM 日志适配器。
// - cfg.Level 支持 silent/error/warn/info。
// - cfg.SlowThresholdMs 为慢查询阈值，0 表示使用默认的 200ms。
func NewGormLogger(logger *ZapLogger, cfg config.GormLogConfig) *GormLogger {
	level := gormlogger.Warn
	switch cfg.Level {
	case "silent":
		level = gormlogger.Silent
	case "error":
		level = gormlogger.Error
	case "info":
		level = gormlogger.Info
	}

	slow := time.Duration(cfg.SlowThresholdMs) * time.Millisecond
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}

	return &GormLogger{logger: logger, level: level, slowThreshold: slow}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.logger.Info("gorm", zap.String("msg", msg), zap.Any("args", args))
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.logger.Warn("gorm", zap.String("msg", msg), zap.Any("args", args))
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.logger.Error("gorm", zap.String("msg", msg), zap.Any("args", args))
	}
}

// Trace 记录 SQL 执行情况，慢查询和错误分别按 Warn/Error 级别输出。
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		g.logger.Error("gorm: SQL 执行失败", append(fields, zap.Error(err))...)
	case elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		g.logger.Warn("gorm: 慢查询", fields...)
	case g.level >= gormlogger.Info:
		g.logger.Debug("gorm: SQL", fields...)
	}
}
