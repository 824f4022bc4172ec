package initialization

import (
	"github.com/qycnet/account_hub/repository/mysql"
	"github.com/qycnet/account_hub/service/login"
	"github.com/qycnet/account_hub/service/sms"
	"github.com/qycnet/account_hub/service/subscribe"
)

// AppServices 封装了应用所需的所有服务层实例。
type AppServices struct {
	LoginDispatcher  *login.Dispatcher
	SMSService       sms.SMSService
	SubscribeService subscribe.SubscribeService
}

// SetupServices 初始化所有仓库层和服务层实例。
func SetupServices(deps *AppDependencies) *AppServices {
	// 1. 初始化 MySQL 仓库实例
	accountRepo := mysql.NewAccountRepository(deps.DB)
	verifyCodeRepo := mysql.NewVerifyCodeRepository(deps.DB)
	wechatAccountRepo := mysql.NewWeChatAccountRepository(deps.DB)
	appleAccountRepo := mysql.NewAppleAccountRepository(deps.DB)
	subscribeRepo := mysql.NewSubscribeRepository(deps.DB)

	// 2. 初始化服务层实例
	smsService := sms.NewSMSService(
		verifyCodeRepo,
		deps.RateLimiter,
		deps.SMSClient,
		&deps.Config.SMSConfig,
		deps.Logger,
	)

	// 3. 四个认证后端，由 Dispatcher 按登录方式路由
	phoneBackend := login.NewPhoneBackend(accountRepo, smsService, deps.DB, deps.Logger)
	wechatBackend := login.NewWechatBackend(accountRepo, wechatAccountRepo, deps.WechatClient, deps.DB, deps.Logger)
	appleBackend := login.NewAppleBackend(accountRepo, appleAccountRepo, deps.AppleClient, deps.DB, deps.Logger)
	wechatMPBackend := login.NewWechatMPBackend(
		accountRepo,
		wechatAccountRepo,
		deps.WechatMPClient,
		&deps.Config.WechatConfig,
		deps.DB,
		deps.Logger,
	)
	dispatcher := login.NewDispatcher(
		phoneBackend,
		wechatBackend,
		appleBackend,
		wechatMPBackend,
		accountRepo,
		deps.Logger,
	)

	subscribeService := subscribe.NewSubscribeService(
		subscribeRepo,
		deps.WechatMPClient,
		deps.Locker,
		deps.Logger,
	)

	return &AppServices{
		LoginDispatcher:  dispatcher,
		SMSService:       smsService,
		SubscribeService: subscribeService,
	}
}
