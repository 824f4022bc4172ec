package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qycnet/account_hub/dependencies"
	"github.com/qycnet/account_hub/middleware"
	"github.com/qycnet/account_hub/models/dto"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/pkg/response"
	"github.com/qycnet/account_hub/service/subscribe"
)

// SubscribeController 处理小程序订阅消息相关的 HTTP 请求。
// - 所有接口都要求携带有效的访问令牌，账号 ID 从令牌中取。
type SubscribeController struct {
	subscribeService subscribe.SubscribeService
	jwtUtil          dependencies.JWTTokenInterface
	logger           *core.ZapLogger
}

// NewSubscribeController 创建一个新的 SubscribeController 实例。
func NewSubscribeController(
	subscribeService subscribe.SubscribeService,
	jwtUtil dependencies.JWTTokenInterface,
	logger *core.ZapLogger,
) *SubscribeController {
	return &SubscribeController{
		subscribeService: subscribeService,
		jwtUtil:          jwtUtil,
		logger:           logger,
	}
}

// SubscribeHandler 登记一次订阅授权。
func (ctrl *SubscribeController) SubscribeHandler(c *gin.Context) {
	const operation = "SubscribeController.SubscribeHandler"

	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		apiErr := commonerrors.ErrAuthFailed()
		response.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Msg)
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("订阅请求参数绑定失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	if err := ctrl.subscribeService.Subscribe(c.Request.Context(), accountID, req.Biz, req.OpenID); err != nil {
		ctrl.respondServiceError(c, operation, err)
		return
	}
	response.RespondSuccess(c, nil, "订阅成功")
}

// UnsubscribeHandler 取消一条待推送的订阅授权。
func (ctrl *SubscribeController) UnsubscribeHandler(c *gin.Context) {
	const operation = "SubscribeController.UnsubscribeHandler"

	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		apiErr := commonerrors.ErrAuthFailed()
		response.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Msg)
		return
	}

	var req dto.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("取消订阅请求参数绑定失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	if err := ctrl.subscribeService.Cancel(c.Request.Context(), accountID, req.SubscribeID); err != nil {
		ctrl.respondServiceError(c, operation, err)
		return
	}
	response.RespondSuccess(c, nil, "已取消订阅")
}

// PushHandler 消费账号的一条订阅授权并下发消息。
func (ctrl *SubscribeController) PushHandler(c *gin.Context) {
	const operation = "SubscribeController.PushHandler"

	accountID, ok := middleware.AccountIDFromContext(c)
	if !ok {
		apiErr := commonerrors.ErrAuthFailed()
		response.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Msg)
		return
	}

	var req dto.PushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("推送请求参数绑定失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	if err := ctrl.subscribeService.Push(c.Request.Context(), accountID, req.Biz, req.Data); err != nil {
		ctrl.respondServiceError(c, operation, err)
		return
	}
	response.RespondSuccess(c, nil, "推送已处理")
}

func (ctrl *SubscribeController) respondServiceError(c *gin.Context, operation string, err error) {
	if apiErr, ok := commonerrors.AsAPIError(err); ok {
		ctrl.logger.Warn("订阅服务返回业务错误",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondAPIError(c, apiErr)
		return
	}
	ctrl.logger.Error("订阅服务返回系统错误",
		zap.String("operation", operation),
		zap.Error(err),
	)
	response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
}

// RegisterRoutes 注册订阅消息相关的路由，整组挂认证中间件。
func (ctrl *SubscribeController) RegisterRoutes(group *gin.RouterGroup) {
	subscribeGroup := group.Group("/subscribe")
	subscribeGroup.Use(middleware.AuthMiddleware(ctrl.jwtUtil, ctrl.logger))
	{
		subscribeGroup.POST("", ctrl.SubscribeHandler)
		subscribeGroup.POST("/cancel", ctrl.UnsubscribeHandler)
		subscribeGroup.POST("/push", ctrl.PushHandler)
	}
}
