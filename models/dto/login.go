package dto

import (
	"github.com/qycnet/account_hub/models/enums"
)

// LoginRequest 统一登录请求体，type 字段决定使用哪种认证后端。
// - 除 type 外的字段按登录方式选填，各后端只读自己需要的那几个：
//   type=1: phone + captcha
//   type=2: code
//   type=3: access_token
//   type=4: code + iv + encrypted_data
type LoginRequest struct {
	// 登录方式，必填
	Type enums.LoginType `json:"type" binding:"required"`

	// 手机号登录
	Phone   string `json:"phone"`
	Captcha string `json:"captcha"`

	// 微信 OAuth 登录的授权码 / 小程序 wx.login() 的临时凭证
	Code string `json:"code"`

	// 苹果登录的授权码（历史接口字段名为 access_token）
	AccessToken string `json:"access_token"`

	// 小程序手机号解密载荷
	IV            string `json:"iv"`
	EncryptedData string `json:"encrypted_data"`
}
