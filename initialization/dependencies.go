package initialization

import (
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/constants"
	"github.com/qycnet/account_hub/dependencies"
	"github.com/qycnet/account_hub/pkg/core"
	redisrepo "github.com/qycnet/account_hub/repository/redis"
	"github.com/qycnet/account_hub/utils"
)

// AppDependencies 封装了应用运行所需的所有基础依赖项。
// - 把数据库连接、Redis 客户端、外部 API 客户端等聚合到一个结构体中，
//   方便在各层之间传递。
type AppDependencies struct {
	Config         *config.AccountHubConfig       // 应用的全局配置
	Logger         *core.ZapLogger                // Zap 日志记录器实例
	DB             *gorm.DB                       // GORM 数据库连接实例
	RedisClient    *redis.Client                  // Redis v9 客户端实例
	RateLimiter    redisrepo.RateLimiter          // 固定窗口频率限制器
	Locker         redisrepo.Locker               // 分布式锁
	ResultCache    redisrepo.ResultCache          // 外部调用结果缓存
	JwtToken       dependencies.JWTTokenInterface // JWT 工具实例
	WechatClient   dependencies.WechatClient      // 微信开放平台 OAuth 客户端
	WechatMPClient dependencies.WechatMPClient    // 微信小程序客户端
	AppleClient    dependencies.AppleClient       // 苹果登录客户端
	SMSClient      dependencies.SMSClient         // 短信服务客户端
}

// SetupDependencies 初始化应用所需的所有基础依赖项。
// - 按顺序创建各个依赖组件，任何关键依赖失败都会中止启动。
func SetupDependencies(cfg *config.AccountHubConfig, logger *core.ZapLogger) (*AppDependencies, error) {
	var deps AppDependencies
	deps.Config = cfg
	deps.Logger = logger

	// 1. 注册自定义验证器
	if err := utils.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("注册自定义验证器失败: %w", err)
	}
	logger.Info("自定义验证器注册成功")

	// 2. 初始化数据库连接 (MySQL)
	db, err := dependencies.InitMySQL(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化数据库失败: %w", err)
	}
	deps.DB = db
	logger.Info("数据库连接初始化成功")

	// 3. 初始化 Redis 连接
	redisClient, err := dependencies.InitRedis(&cfg.RedisConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("初始化 Redis 失败: %w", err)
	}
	deps.RedisClient = redisClient
	logger.Info("Redis 连接初始化成功")

	// 4. 基于 Redis 的并发原语
	deps.RateLimiter = redisrepo.NewRateLimiter(redisClient)
	deps.Locker = redisrepo.NewLocker(redisClient)
	deps.ResultCache = redisrepo.NewResultCache(redisClient)

	// 5. 初始化 JWT 工具
	deps.JwtToken = dependencies.NewJWTUtility(&cfg.JWTConfig)
	logger.Info("JWT 工具初始化成功")

	// 6. 初始化外部 API 客户端
	deps.WechatClient = dependencies.NewWechatClient(&cfg.WechatConfig)
	deps.WechatMPClient = dependencies.NewWechatMPClient(&cfg.WechatConfig, deps.ResultCache)
	deps.AppleClient = dependencies.NewAppleClient(&cfg.AppleConfig)
	logger.Info("微信与苹果客户端初始化成功")

	// 7. 初始化短信服务客户端
	smsClient, err := dependencies.NewSMSClient(&cfg.SMSConfig)
	if err != nil {
		logger.Error("初始化短信服务客户端失败", zap.Error(err))
		return nil, fmt.Errorf("初始化短信服务失败: %w", err)
	}
	deps.SMSClient = smsClient
	logger.Info("短信服务客户端初始化成功")

	logger.Info("所有基础依赖项初始化完成", zap.String("service", constants.ServiceName))
	return &deps, nil
}
