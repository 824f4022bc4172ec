package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/utils"
)

// WechatController 处理微信服务器回调的 HTTP 请求。
type WechatController struct {
	wechatConfig *config.WechatConfig
	logger       *core.ZapLogger
}

// NewWechatController 创建一个新的 WechatController 实例。
func NewWechatController(wechatConfig *config.WechatConfig, logger *core.ZapLogger) *WechatController {
	return &WechatController{
		wechatConfig: wechatConfig,
		logger:       logger,
	}
}

// CheckSignatureHandler 响应微信服务器的接入校验。
// - 签名通过时原样返回 echostr，否则返回 403。
func (ctrl *WechatController) CheckSignatureHandler(c *gin.Context) {
	const operation = "WechatController.CheckSignatureHandler"

	signature := c.Query("signature")
	timestamp := c.Query("timestamp")
	nonce := c.Query("nonce")
	echostr := c.Query("echostr")

	if !utils.CheckWechatSignature(ctrl.wechatConfig.Token, signature, timestamp, nonce, "") {
		ctrl.logger.Warn("微信服务器签名校验失败",
			zap.String("operation", operation),
			zap.String("signature", signature),
		)
		c.String(http.StatusForbidden, "signature mismatch")
		return
	}

	c.String(http.StatusOK, echostr)
}

// RegisterRoutes 注册微信回调相关的路由。
func (ctrl *WechatController) RegisterRoutes(group *gin.RouterGroup) {
	wechatGroup := group.Group("/wechat")
	{
		wechatGroup.GET("/check", ctrl.CheckSignatureHandler)
	}
}
