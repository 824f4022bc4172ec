package utils

import (
	"net/http"
	"strings"
)

// ParseSameSiteString 把配置里的 SameSite 字符串转换为 http.SameSite。
// - 无法识别的值回退到 Lax。
func ParseSameSiteString(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
