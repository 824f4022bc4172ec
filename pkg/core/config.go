package core

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig 从指定的 YAML 文件加载配置并反序列化到 out 指向的结构体。
// - 环境变量可以覆盖文件中的同名配置项，层级分隔符 "." 映射为 "_"。
//   例如 REDISCONFIG_ADDRESS 会覆盖 redisConfig.address。
// - out 必须是指向配置结构体的指针。
func LoadConfig(configFile string, out interface{}) error {
	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("core.LoadConfig: 读取配置文件失败 (%s): %w", configFile, err)
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("core.LoadConfig: 解析配置失败: %w", err)
	}
	return nil
}
