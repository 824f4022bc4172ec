package enums

// LoginType 登录方式。
// - 请求体中由 type 字段声明，调度器按它选择对应的认证后端。
type LoginType int

const (
	Phone    LoginType = 1 // 手机号+验证码登录
	WeChat   LoginType = 2 // 微信 OAuth 登录 (iOS/Android)
	Apple    LoginType = 3 // 苹果登录
	WeChatMP LoginType = 4 // 微信小程序登录
)

// Valid 判断登录方式是否为已定义的枚举值。
func (t LoginType) Valid() bool {
	switch t {
	case Phone, WeChat, Apple, WeChatMP:
		return true
	}
	return false
}

func (t LoginType) String() string {
	switch t {
	case Phone:
		return "phone"
	case WeChat:
		return "wechat"
	case Apple:
		return "apple"
	case WeChatMP:
		return "wechat_mp"
	}
	return "unknown"
}
