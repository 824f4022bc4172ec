package config

// AccountHubConfig 聚合服务的全部配置，由 core.LoadConfig 从 YAML 文件加载。
type AccountHubConfig struct {
	ZapConfig     ZapConfig     `mapstructure:"zapConfig" json:"zapConfig" yaml:"zapConfig"`
	GormLogConfig GormLogConfig `mapstructure:"gormLogConfig" json:"gormLogConfig" yaml:"gormLogConfig"`
	ServerConfig  ServerConfig  `mapstructure:"serverConfig" json:"serverConfig" yaml:"serverConfig"`
	JWTConfig     JWTConfig     `mapstructure:"jwtConfig" json:"jwtConfig" yaml:"jwtConfig"`
	MySQLConfig   MySQLConfig   `mapstructure:"mySQLConfig" json:"mySQLConfig" yaml:"mySQLConfig"`
	RedisConfig   RedisConfig   `mapstructure:"redisConfig" json:"redisConfig" yaml:"redisConfig"`
	WechatConfig  WechatConfig  `mapstructure:"wechatConfig" json:"wechatConfig" yaml:"wechatConfig"`
	AppleConfig   AppleConfig   `mapstructure:"appleConfig" json:"appleConfig" yaml:"appleConfig"`
	SMSConfig     SMSConfig     `mapstructure:"smsConfig" json:"smsConfig" yaml:"smsConfig"`
	CookieConfig  CookieConfig  `mapstructure:"cookieConfig" json:"cookieConfig" yaml:"cookieConfig"`
}
