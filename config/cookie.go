package config

// CookieConfig 刷新令牌 Cookie 的下发参数。
// - 仅 Web 平台登录时通过 Cookie 携带刷新令牌，其余平台走响应体。
// - Cookie 的生命周期取自 constants.RefreshTokenTTL，不在配置里单独指定。
type CookieConfig struct {
	// 生效域名，留空表示仅当前请求主机
	Domain string `mapstructure:"domain" json:"domain" yaml:"domain"`

	// 生效路径，通常为 "/"
	Path string `mapstructure:"path" json:"path" yaml:"path"`

	// 仅 HTTPS 下发，生产环境必须开启
	Secure bool `mapstructure:"secure" json:"secure" yaml:"secure"`

	// 禁止 JavaScript 访问
	HttpOnly bool `mapstructure:"http_only" json:"http_only" yaml:"http_only"`

	// 跨站策略，可选 "Lax"、"Strict"、"None"
	SameSite string `mapstructure:"same_site" json:"same_site" yaml:"same_site"`

	// 刷新令牌 Cookie 名
	RefreshTokenName string `mapstructure:"refresh_token_name" json:"refresh_token_name" yaml:"refresh_token_name"`
}
