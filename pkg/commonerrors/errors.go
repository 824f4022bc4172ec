package commonerrors

import (
	"errors"
	"net/http"
)

var (
	// ErrRepoNotFound 仓库层统一的“记录未找到”错误。
	// - 各仓库在查询不到数据时返回它，服务层据此区分“不存在”和“查询失败”。
	ErrRepoNotFound = errors.New("记录未找到")

	// ErrSystemError 系统内部错误，对外不暴露细节。
	ErrSystemError = errors.New("系统内部错误")

	// ErrLockBusy 分布式锁已被其他持有者占用。
	// - 调用方可以选择吞掉该错误并返回默认结果，也可以向上传播。
	ErrLockBusy = errors.New("锁已被占用")

	// ErrRateLimited 频率限制命中。
	// - 该错误对客户端是可操作的，提示信息会透传给用户。
	ErrRateLimited = errors.New("操作过于频繁，请稍后再试")
)

// 业务错误码。
// - 40199 固定为认证失败，四种登录方式对外表现一致，不泄露具体哪一步校验失败。
const (
	CodeCommonError = 40000 // 通用客户端错误
	CodeRateLimited = 40041 // 频率限制
	CodeAuthFailed  = 40199 // 认证失败
	CodeServerError = 50000 // 服务器错误
)

// APIError 带有 HTTP 状态码和业务错误码的类型化错误。
// - 服务层抛出后由控制器原样透传 status/code，不做二次包装。
type APIError struct {
	Msg    string // 对客户端可见的提示信息
	Status int    // HTTP 状态码
	Code   int    // 业务错误码
}

func (e *APIError) Error() string {
	return e.Msg
}

// NewAPIError 创建一个业务错误，默认 400 状态。
func NewAPIError(msg string, status int, code int) *APIError {
	if status == 0 {
		status = http.StatusBadRequest
	}
	if code == 0 {
		code = CodeCommonError
	}
	return &APIError{Msg: msg, Status: status, Code: code}
}

// ErrAuthFailed 统一的认证失败错误。
// - 凭证无效、第三方拒绝、解密失败等都归一到这一个错误，避免向客户端泄露失败原因。
func ErrAuthFailed() *APIError {
	return &APIError{Msg: "认证失败", Status: http.StatusUnauthorized, Code: CodeAuthFailed}
}

// NewRateLimited 频率限制错误，提示信息对客户端可见。
func NewRateLimited() *APIError {
	return &APIError{Msg: ErrRateLimited.Error(), Status: http.StatusBadRequest, Code: CodeRateLimited}
}

// NewBadRequest 业务校验失败，消息透传给客户端。
func NewBadRequest(msg string) *APIError {
	return &APIError{Msg: msg, Status: http.StatusBadRequest, Code: CodeCommonError}
}

// AsAPIError 判断 err 链上是否存在 *APIError。
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
