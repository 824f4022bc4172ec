package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qycnet/account_hub/pkg/commonerrors"
)

// 响应错误码，与 commonerrors 中的业务错误码保持一致。
const (
	ErrCodeClientInvalidInput = commonerrors.CodeCommonError
	ErrCodeClientRateLimited  = commonerrors.CodeRateLimited
	ErrCodeClientAuthFailed   = commonerrors.CodeAuthFailed
	ErrCodeServerInternal     = commonerrors.CodeServerError
)

// APIResponse 统一的响应信封。
// - code 为 0 表示成功，非 0 为业务错误码。
type APIResponse struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// RespondSuccess 按统一信封返回成功响应。
func RespondSuccess(c *gin.Context, data interface{}, msg string) {
	if msg == "" {
		msg = "成功"
	}
	c.JSON(http.StatusOK, APIResponse{Code: 0, Msg: msg, Data: data})
}

// RespondError 按统一信封返回错误响应。
func RespondError(c *gin.Context, status int, code int, msg string) {
	c.JSON(status, APIResponse{Code: code, Msg: msg})
}

// RespondAPIError 将类型化业务错误按其自带的 status/code 原样返回。
// - 用于认证失败 (401/40199) 和频率限制 (400/40041) 这类需要保留语义的错误。
func RespondAPIError(c *gin.Context, apiErr *commonerrors.APIError) {
	c.JSON(apiErr.Status, APIResponse{Code: apiErr.Code, Msg: apiErr.Msg})
}
