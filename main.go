package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/initialization"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/router"
)

func main() {
	// --- 配置和基础设置 ---
	var configFile string
	flag.StringVar(&configFile, "config", "config/config.development.yaml", "Path to configuration file")
	flag.Parse()

	// 1. 加载配置
	var cfg config.AccountHubConfig
	if err := core.LoadConfig(configFile, &cfg); err != nil {
		log.Fatalf("FATAL: 加载配置失败 (%s): %v", configFile, err)
	}

	// --- 手动从环境变量覆盖关键配置 (生产环境部署核心) ---
	log.Println("检查环境变量以覆盖 Account Hub 的文件配置...")
	if level := os.Getenv("ZAPCONFIG_LEVEL"); level != "" {
		cfg.ZapConfig.Level = level
		log.Printf("通过环境变量覆盖了 ZapConfig.Level: %s\n", level)
	}
	if level := os.Getenv("GORMLOGCONFIG_LEVEL"); level != "" {
		cfg.GormLogConfig.Level = level
		log.Printf("通过环境变量覆盖了 GormLogConfig.Level: %s\n", level)
	}
	// JWT
	if key := os.Getenv("JWTCONFIG_SECRET_KEY"); key != "" {
		cfg.JWTConfig.SecretKey = key
		log.Printf("通过环境变量覆盖了 JWTConfig.SecretKey") // 不打印密钥值
	}
	if key := os.Getenv("JWTCONFIG_REFRESH_SECRET"); key != "" {
		cfg.JWTConfig.RefreshSecret = key
		log.Printf("通过环境变量覆盖了 JWTConfig.RefreshSecret") // 不打印密钥值
	}
	// MySQL & Redis
	if dsn := os.Getenv("MYSQLCONFIG_DSN"); dsn != "" {
		cfg.MySQLConfig.DSN = dsn
		log.Printf("通过环境变量覆盖了 MySQLConfig.DSN") // 不打印DSN
	}
	if addr := os.Getenv("REDISCONFIG_ADDRESS"); addr != "" {
		cfg.RedisConfig.Address = addr
		log.Printf("通过环境变量覆盖了 RedisConfig.Address: %s\n", addr)
	}
	if pass := os.Getenv("REDISCONFIG_PASSWORD"); pass != "" {
		cfg.RedisConfig.Password = pass
		log.Printf("通过环境变量覆盖了 RedisConfig.Password")
	}
	// 微信与苹果
	if secret := os.Getenv("WECHATCONFIG_SECRET"); secret != "" {
		cfg.WechatConfig.Secret = secret
		log.Printf("通过环境变量覆盖了 WechatConfig.Secret")
	}
	if key := os.Getenv("APPLECONFIG_PRIVATE_KEY"); key != "" {
		cfg.AppleConfig.PrivateKey = key
		log.Printf("通过环境变量覆盖了 AppleConfig.PrivateKey")
	}
	// 短信
	if enabled, err := strconv.ParseBool(os.Getenv("SMSCONFIG_SWITCH")); err == nil {
		cfg.SMSConfig.Switch = enabled
		log.Printf("通过环境变量覆盖了 SMSConfig.Switch: %t\n", enabled)
	}
	// Cookie
	if secure, err := strconv.ParseBool(os.Getenv("COOKIECONFIG_SECURE")); err == nil {
		cfg.CookieConfig.Secure = secure
		log.Printf("通过环境变量覆盖了 CookieConfig.Secure: %t\n", secure)
	}
	if domain := os.Getenv("COOKIECONFIG_DOMAIN"); domain != "" {
		cfg.CookieConfig.Domain = domain
		log.Printf("通过环境变量覆盖了 CookieConfig.Domain: %s\n", domain)
	}
	if name := os.Getenv("COOKIECONFIG_REFRESH_TOKEN_NAME"); name != "" {
		cfg.CookieConfig.RefreshTokenName = name
		log.Printf("通过环境变量覆盖了 CookieConfig.RefreshTokenName: %s\n", name)
	}
	// --- 结束环境变量覆盖 ---

	// 2. 初始化 Logger (使用可能已被覆盖的配置)
	logger, loggerErr := core.NewZapLogger(cfg.ZapConfig)
	if loggerErr != nil {
		log.Fatalf("FATAL: 初始化 ZapLogger 失败: %v", loggerErr)
	}
	defer func() {
		logger.Info("正在同步日志...")
		if err := logger.Logger().Sync(); err != nil {
			log.Printf("WARN: ZapLogger Sync 失败: %v\n", err)
		}
	}()
	logger.Info("Logger 初始化成功")

	// 3. 初始化基础依赖 (数据库, Redis, JWT, 外部客户端等)
	appDeps, err := initialization.SetupDependencies(&cfg, logger)
	if err != nil {
		logger.Fatal("初始化基础依赖失败", zap.Error(err))
	}
	logger.Info("基础依赖初始化成功")

	// 4. 初始化服务层实例
	appServices := initialization.SetupServices(appDeps)
	logger.Info("服务层初始化成功")

	// 5. 设置路由和中间件
	setupRouter := router.SetupRouter(logger, appDeps, appServices)
	logger.Info("Gin 路由器设置完成")

	// 6. 配置并启动 HTTP 服务器
	serverAddress := fmt.Sprintf(":%s", cfg.ServerConfig.Port)
	srv := &http.Server{
		Addr:    serverAddress,
		Handler: setupRouter,
	}

	go func() {
		logger.Info("HTTP 服务器开始监听", zap.String("address", serverAddress))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器启动失败", zap.Error(err))
		}
	}()

	// 7. 等待中断信号以实现优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("接收到关停信号，开始优雅关停...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP 服务器关停失败", zap.Error(err))
	} else {
		logger.Info("HTTP 服务器已停止")
	}
}
