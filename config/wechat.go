package config

// WechatConfig 微信开放平台/小程序相关配置。
// - OAuth 登录与小程序登录共用同一个 AppID/Secret。
type WechatConfig struct {
	// 小程序的 AppID，同时作为解密手机号载荷时的水印校验值
	AppID string `mapstructure:"appID" json:"appID" yaml:"appID"`

	// 小程序的 AppSecret
	Secret string `mapstructure:"secret" json:"secret" yaml:"secret"`

	// 微信 API 域名，默认 https://api.weixin.qq.com，测试时可指向本地
	Domain string `mapstructure:"domain" json:"domain" yaml:"domain"`

	// 服务器回调签名校验用的 token
	Token string `mapstructure:"token" json:"token" yaml:"token"`

	// 运行环境，prod 时订阅消息按正式版下发
	Environment string `mapstructure:"environment" json:"environment" yaml:"environment"`
}
