package config

// ServerConfig HTTP 服务监听配置。
type ServerConfig struct {
	Port string `mapstructure:"port" yaml:"port"` // 监听端口
}

// ZapConfig 日志配置。
type ZapConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`       // 日志级别: debug/info/warn/error
	Encoding string `mapstructure:"encoding" yaml:"encoding"` // 输出格式: json/console
}

// GormLogConfig GORM 日志配置。
type GormLogConfig struct {
	Level           string `mapstructure:"level" yaml:"level"`                         // silent/error/warn/info
	SlowThresholdMs int    `mapstructure:"slow_threshold_ms" yaml:"slow_threshold_ms"` // 慢查询阈值（毫秒）
}
