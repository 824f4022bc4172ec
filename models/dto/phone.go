package dto

// SendCaptchaRequest 定义发送验证码的请求数据传输对象
type SendCaptchaRequest struct {
	Phone string `json:"phone" binding:"required,ChinesePhone"` // 手机号，必填且需符合格式
}
