package config

import "time"

// AppleConfig 苹果登录配置。
// - PrivateKey 是开发者后台下载的 ES256 私钥 (PEM 格式)，用于生成 client_secret。
type AppleConfig struct {
	// 开发者账号的 Team ID，作为 client_secret 中的 iss
	TeamID string `mapstructure:"teamID" json:"teamID" yaml:"teamID"`

	// App 的 Bundle ID / Services ID，作为 client_secret 中的 sub 和请求里的 client_id
	ClientID string `mapstructure:"clientID" json:"clientID" yaml:"clientID"`

	// 私钥对应的 Key ID，写入 client_secret 的 kid 头
	KeyID string `mapstructure:"keyID" json:"keyID" yaml:"keyID"`

	// ES256 私钥 PEM 内容
	PrivateKey string `mapstructure:"privateKey" json:"privateKey" yaml:"privateKey"`

	// client_secret 的有效期
	TokenTTL time.Duration `mapstructure:"tokenTTL" json:"tokenTTL" yaml:"tokenTTL"`

	// 苹果 token 端点，默认 https://appleid.apple.com/auth/token
	AccessTokenURL string `mapstructure:"accessTokenURL" json:"accessTokenURL" yaml:"accessTokenURL"`
}
