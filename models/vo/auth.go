package vo

// AccountInfo 登录成功后返回的账号概要。
type AccountInfo struct {
	AccountID uint   `json:"account_id"`
	Phone     string `json:"phone"` // 脱敏后的手机号，可能为空
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`  // 新认证令牌
	RefreshToken string `json:"refresh_token"` // 新刷新令牌（可选）
}

type LoginResponse struct {
	Account AccountInfo `json:"account"` // 账号信息
	Token   TokenPair   `json:"token"`   // Token 对
}
