package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qycnet/account_hub/models/dto"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/pkg/response"
	"github.com/qycnet/account_hub/service/sms"
)

// CaptchaController 处理短信验证码发送的 HTTP 请求。
type CaptchaController struct {
	smsService sms.SMSService
	logger     *core.ZapLogger
}

// NewCaptchaController 创建一个新的 CaptchaController 实例。
func NewCaptchaController(smsService sms.SMSService, logger *core.ZapLogger) *CaptchaController {
	return &CaptchaController{
		smsService: smsService,
		logger:     logger,
	}
}

// SendCaptchaHandler 处理发送短信验证码的请求。
// - 同一手机号的发送频率受小时与当日配额限制，超限返回限流错误。
func (ctrl *CaptchaController) SendCaptchaHandler(c *gin.Context) {
	const operation = "CaptchaController.SendCaptchaHandler"

	// 1. 绑定并校验请求体，手机号需通过 ChinesePhone 校验
	var req dto.SendCaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("发送验证码请求参数绑定失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	// 2. 生成并发送验证码
	if err := ctrl.smsService.GenCode(c.Request.Context(), req.Phone); err != nil {
		if apiErr, ok := commonerrors.AsAPIError(err); ok {
			ctrl.logger.Warn("发送验证码服务返回业务错误",
				zap.String("operation", operation),
				zap.String("phone", req.Phone),
				zap.Error(err),
			)
			response.RespondAPIError(c, apiErr)
			return
		}
		ctrl.logger.Error("发送验证码服务返回系统错误",
			zap.String("operation", operation),
			zap.String("phone", req.Phone),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
		return
	}

	ctrl.logger.Info("验证码发送请求处理成功",
		zap.String("operation", operation),
		zap.String("phone", req.Phone),
	)
	response.RespondSuccess(c, nil, "验证码已发送")
}

// RegisterRoutes 注册验证码相关的路由。
func (ctrl *CaptchaController) RegisterRoutes(group *gin.RouterGroup) {
	captchaGroup := group.Group("/captcha")
	{
		captchaGroup.POST("/send", ctrl.SendCaptchaHandler)
	}
}
