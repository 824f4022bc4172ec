package utils

import (
	"fmt"
	"math/rand"
)

// GenerateCaptcha 生成4位随机数字验证码
func GenerateCaptcha() string {
	code := rand.Intn(9000) + 1000 // 生成 1000~9999 的随机数
	return fmt.Sprintf("%04d", code)
}
