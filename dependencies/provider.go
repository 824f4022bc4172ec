package dependencies

import (
	"errors"
	"time"
)

// 外部身份提供方调用的统一失败分类。
// - 调用方（认证后端）把两类错误都归一为对客户端的认证失败，
//   但日志中保留完整的提供方响应以便排查。
var (
	// ErrProviderUnavailable 网络错误或超时，未能拿到提供方响应。
	ErrProviderUnavailable = errors.New("身份提供方暂不可用")

	// ErrProviderRejected 拿到了响应，但内容表示凭证被拒绝。
	// - 微信/苹果的接口以响应体里特定字段的有无区分成败，而不是 HTTP 状态码。
	ErrProviderRejected = errors.New("身份提供方拒绝了凭证")
)

// providerTimeout 所有外部身份提供方调用的统一超时。
const providerTimeout = 5 * time.Second
