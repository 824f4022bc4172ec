package enums

import "fmt"

// Platform 客户端平台类型，由请求头 X-Platform 声明。
// - Web 平台的刷新令牌通过 HttpOnly Cookie 下发，其余平台放在响应体里。
type Platform string

const (
	PlatformWeb    Platform = "web"
	PlatformApp    Platform = "app"
	PlatformWechat Platform = "wechat"
)

// PlatformFromString 解析请求头中的平台标识。
func PlatformFromString(s string) (Platform, error) {
	switch Platform(s) {
	case PlatformWeb, PlatformApp, PlatformWechat:
		return Platform(s), nil
	}
	return "", fmt.Errorf("无效的平台类型: %q", s)
}
