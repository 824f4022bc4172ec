package router

import (
	"github.com/gin-gonic/gin"

	"github.com/qycnet/account_hub/controller"
	"github.com/qycnet/account_hub/initialization"
	"github.com/qycnet/account_hub/pkg/core"
)

// SetupRouter 初始化并配置 Gin 引擎，注册所有路由。
// - 统一的 API 前缀为 api/v1/account-hub。
// - 登录与验证码接口匿名开放，订阅接口在控制器内挂认证中间件。
func SetupRouter(
	logger *core.ZapLogger,
	deps *initialization.AppDependencies,
	appServices *initialization.AppServices,
) *gin.Engine {
	logger.Info("开始设置 Gin 路由...")

	// gin.Default() 自带 Logger 和 Recovery 中间件
	router := gin.Default()

	v1 := router.Group("api/v1/account-hub")

	authCtrl := controller.NewAuthController(
		appServices.LoginDispatcher,
		deps.JwtToken,
		logger,
		deps.Config.CookieConfig,
	)
	captchaCtrl := controller.NewCaptchaController(appServices.SMSService, logger)
	subscribeCtrl := controller.NewSubscribeController(appServices.SubscribeService, deps.JwtToken, logger)
	wechatCtrl := controller.NewWechatController(&deps.Config.WechatConfig, logger)

	authCtrl.RegisterRoutes(v1)
	captchaCtrl.RegisterRoutes(v1)
	subscribeCtrl.RegisterRoutes(v1)
	wechatCtrl.RegisterRoutes(v1)

	logger.Info("所有业务路由已成功注册")
	return router
}
