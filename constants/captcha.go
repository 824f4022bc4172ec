package constants

import "time"

// 短信验证码相关常量。
const (
	// CaptchaTTL 验证码有效期
	CaptchaTTL = 300 * time.Second

	// 发送频率限制键，按天的键里带上日期串，按小时的只带手机号
	RLVerifyCodeDay  = "verify_code:day:%s:%s" // 参数: yyyymmdd, phone
	RLVerifyCodeHour = "verify_code:hour:%s"   // 参数: phone

	// 发送频率限制窗口与配额
	RLVerifyCodeDayLimit   = 10
	RLVerifyCodeDayWindow  = 24 * time.Hour
	RLVerifyCodeHourLimit  = 5
	RLVerifyCodeHourWindow = time.Hour
)

// 微信小程序接口调用凭证缓存。
const (
	CacheKeyWechatMPToken = "wechat_mp:access_token"
	WechatMPTokenTTL      = 7000 * time.Second
)

// 订阅消息推送锁。
const (
	LockKeySubscribePush = "subscribe:push:%s:%d" // 参数: openid, 模板记录 ID
	SubscribePushLockTTL = time.Hour
)
