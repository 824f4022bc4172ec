package config

// SMSConfig 定义短信服务客户端的配置。
type SMSConfig struct {
	// 短信服务的 AppID
	AppID string `mapstructure:"appID" json:"appID" yaml:"appID"`

	// 短信服务的 Secret
	Secret string `mapstructure:"secret" json:"secret" yaml:"secret"`

	// SMS 服务 API 端点
	Endpoint string `mapstructure:"endpoint" json:"endpoint" yaml:"endpoint"`

	// 短信模板 ID
	TemplateID string `mapstructure:"templateID" json:"templateID" yaml:"templateID"`

	// 发送开关，关闭时只记日志不真正发送（开发/测试环境）
	Switch bool `mapstructure:"switch" json:"switch" yaml:"switch"`

	// 免验证码白名单手机号，命中后跳过验证码校验（测试/运维通道）
	CheckPhones []string `mapstructure:"checkPhones" json:"checkPhones" yaml:"checkPhones"`
}

// IsCheckPhone 判断手机号是否在免验证码白名单里。
func (c *SMSConfig) IsCheckPhone(phone string) bool {
	for _, p := range c.CheckPhones {
		if p == phone {
			return true
		}
	}
	return false
}
