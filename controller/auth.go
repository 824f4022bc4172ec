package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/constants"
	"github.com/qycnet/account_hub/dependencies"
	"github.com/qycnet/account_hub/models/dto"
	"github.com/qycnet/account_hub/models/enums"
	"github.com/qycnet/account_hub/models/vo"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/pkg/response"
	"github.com/qycnet/account_hub/service/login"
	"github.com/qycnet/account_hub/utils"
)

// AuthController 处理统一登录入口的 HTTP 请求。
type AuthController struct {
	dispatcher   *login.Dispatcher
	jwtUtil      dependencies.JWTTokenInterface
	logger       *core.ZapLogger
	cookieConfig config.CookieConfig
}

// NewAuthController 创建一个新的 AuthController 实例。
func NewAuthController(
	dispatcher *login.Dispatcher,
	jwtUtil dependencies.JWTTokenInterface,
	logger *core.ZapLogger,
	cookieCfg config.CookieConfig,
) *AuthController {
	return &AuthController{
		dispatcher:   dispatcher,
		jwtUtil:      jwtUtil,
		logger:       logger,
		cookieConfig: cookieCfg,
	}
}

// LoginHandler 处理统一登录请求，type 字段决定认证后端。
// - 平台类型由 X-Platform 请求头声明，Web 平台的刷新令牌走 HttpOnly Cookie。
func (ctrl *AuthController) LoginHandler(c *gin.Context) {
	const operation = "AuthController.LoginHandler"

	// 1. 绑定并校验请求体
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.logger.Warn("登录请求参数绑定失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "输入参数无效")
		return
	}

	// 2. 解析平台类型
	platform, err := enums.PlatformFromString(c.GetHeader("X-Platform"))
	if err != nil {
		ctrl.logger.Warn("无效的平台类型",
			zap.String("operation", operation),
			zap.String("header", c.GetHeader("X-Platform")),
		)
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的平台类型")
		return
	}

	// 3. 按登录方式路由认证
	account, err := ctrl.dispatcher.Login(c.Request.Context(), req)
	if err != nil {
		if apiErr, ok := commonerrors.AsAPIError(err); ok {
			ctrl.logger.Warn("登录服务返回业务错误",
				zap.String("operation", operation),
				zap.Int("loginType", int(req.Type)),
				zap.Error(err),
			)
			response.RespondAPIError(c, apiErr)
			return
		}
		ctrl.logger.Error("登录服务返回系统错误",
			zap.String("operation", operation),
			zap.Int("loginType", int(req.Type)),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
		return
	}

	// 4. 生成令牌对
	accessToken, err := ctrl.jwtUtil.GenerateAccessToken(account.ID, platform)
	if err != nil {
		ctrl.logger.Error("生成访问令牌失败",
			zap.String("operation", operation),
			zap.Uint("accountID", account.ID),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
		return
	}
	refreshToken, err := ctrl.jwtUtil.GenerateRefreshToken(account.ID, platform)
	if err != nil {
		ctrl.logger.Error("生成刷新令牌失败",
			zap.String("operation", operation),
			zap.Uint("accountID", account.ID),
			zap.Error(err),
		)
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, commonerrors.ErrSystemError.Error())
		return
	}

	accountInfo := vo.AccountInfo{
		AccountID: account.ID,
		Phone:     account.PhoneMask(),
	}

	// 5. Web 平台刷新令牌下发到 Cookie，响应体里只带访问令牌
	if platform == enums.PlatformWeb {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     ctrl.cookieConfig.RefreshTokenName,
			Value:    refreshToken,
			MaxAge:   int(constants.RefreshTokenTTL.Seconds()),
			Path:     ctrl.cookieConfig.Path,
			Domain:   ctrl.cookieConfig.Domain,
			Secure:   ctrl.cookieConfig.Secure,
			HttpOnly: ctrl.cookieConfig.HttpOnly,
			SameSite: utils.ParseSameSiteString(ctrl.cookieConfig.SameSite),
		})
		responseData := vo.LoginResponse{
			Account: accountInfo,
			Token:   vo.TokenPair{AccessToken: accessToken},
		}
		ctrl.logger.Info("登录成功 (Web平台，RT已设置到Cookie)",
			zap.String("operation", operation),
			zap.Uint("accountID", account.ID),
			zap.Any("platform", platform),
		)
		response.RespondSuccess(c, responseData, "登录成功")
		return
	}

	responseData := vo.LoginResponse{
		Account: accountInfo,
		Token: vo.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		},
	}
	ctrl.logger.Info("登录成功",
		zap.String("operation", operation),
		zap.Uint("accountID", account.ID),
		zap.Any("platform", platform),
	)
	response.RespondSuccess(c, responseData, "登录成功")
}

// RegisterRoutes 注册登录相关的路由。
func (ctrl *AuthController) RegisterRoutes(group *gin.RouterGroup) {
	authGroup := group.Group("/auth")
	{
		authGroup.POST("/login", ctrl.LoginHandler)
	}
}
