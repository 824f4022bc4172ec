package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qycnet/account_hub/dependencies"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/pkg/response"
)

// 上下文键，认证中间件写入，后续 handler 读取。
const (
	CtxKeyAccountID = "accountID"
	CtxKeyPlatform  = "platform"
)

// AuthMiddleware 校验 Authorization 头中的访问令牌。
// - 令牌缺失、格式错误或校验失败统一返回认证失败，详细原因只进日志。
// - 校验通过后把账号 ID 和平台写入请求上下文。
func AuthMiddleware(jwtUtil dependencies.JWTTokenInterface, logger *core.ZapLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		const operation = "AuthMiddleware"

		authHeader := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || tokenString == "" {
			logger.Warn("请求缺少有效的 Authorization 头",
				zap.String("operation", operation),
				zap.String("path", c.Request.URL.Path),
			)
			apiErr := commonerrors.ErrAuthFailed()
			response.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Msg)
			c.Abort()
			return
		}

		claims, err := jwtUtil.ParseAccessToken(tokenString)
		if err != nil {
			logger.Warn("访问令牌校验失败",
				zap.String("operation", operation),
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			apiErr := commonerrors.ErrAuthFailed()
			response.RespondError(c, apiErr.Status, apiErr.Code, apiErr.Msg)
			c.Abort()
			return
		}

		c.Set(CtxKeyAccountID, claims.AccountID)
		c.Set(CtxKeyPlatform, claims.Platform)
		c.Next()
	}
}

// AccountIDFromContext 取认证中间件写入的账号 ID。
func AccountIDFromContext(c *gin.Context) (uint, bool) {
	v, ok := c.Get(CtxKeyAccountID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
