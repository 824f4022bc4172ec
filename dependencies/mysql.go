package dependencies

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/pkg/core"
)

// InitMySQL 初始化 MySQL 连接并返回 *gorm.DB
func InitMySQL(cfg *config.AccountHubConfig, logger *core.ZapLogger) (*gorm.DB, error) {
	if cfg.MySQLConfig.DSN == "" {
		logger.Error("MySQL DSN 未配置")
		return nil, fmt.Errorf("配置中缺少 MySQL DSN")
	}

	gormConfig := &gorm.Config{
		Logger: core.NewGormLogger(logger, cfg.GormLogConfig),
	}

	// 连接数据库，带重试
	var db *gorm.DB
	var err error
	maxRetries := 5
	retryInterval := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.Open(cfg.MySQLConfig.DSN), gormConfig)
		if err == nil {
			sqlDB, pingErr := db.DB()
			if pingErr == nil {
				if err = sqlDB.Ping(); err == nil {
					break
				}
			} else {
				err = pingErr
			}
		}
		logger.Warn("无法连接到 MySQL，尝试重试",
			zap.Int("retry", i+1),
			zap.Int("maxRetries", maxRetries),
			zap.Error(err),
			zap.String("dsn_preview", previewDSN(cfg.MySQLConfig.DSN)),
		)
		if i < maxRetries-1 {
			time.Sleep(retryInterval)
		}
	}

	if err != nil {
		logger.Error("无法连接到数据库", zap.Error(err), zap.String("dsn_preview", previewDSN(cfg.MySQLConfig.DSN)))
		return nil, fmt.Errorf("无法连接到数据库 (DSN: %s): %w", previewDSN(cfg.MySQLConfig.DSN), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("无法获取数据库对象", zap.Error(err))
		return nil, fmt.Errorf("无法获取数据库对象: %w", err)
	}

	// 配置连接池
	sqlDB.SetMaxIdleConns(cfg.MySQLConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(cfg.MySQLConfig.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移数据库表结构
	err = db.AutoMigrate(
		&entities.Account{},
		&entities.VerifyCode{},
		&entities.WeChatAccount{},
		&entities.AppleAccount{},
		&entities.WeChatSubscribeTemplate{},
		&entities.WeChatSubscribe{},
	)
	if err != nil {
		logger.Error("数据库迁移失败", zap.Error(err))
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	logger.Info("成功连接到 MySQL 数据库并完成自动迁移")
	return db, nil
}

// previewDSN 返回一个用于日志记录的DSN预览版本，隐藏密码。
func previewDSN(dsn string) string {
	atIndex := strings.LastIndexByte(dsn, '@')
	if atIndex == -1 {
		return dsn
	}
	colonIndex := strings.IndexByte(dsn[:atIndex], ':')
	if colonIndex == -1 {
		return dsn
	}
	return dsn[:colonIndex+1] + "****" + dsn[atIndex:]
}
