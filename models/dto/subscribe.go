package dto

// SubscribeRequest 记录一次订阅授权。
type SubscribeRequest struct {
	Biz    string `json:"biz" binding:"required"`     // 业务场景标识
	OpenID string `json:"openid" binding:"required"`  // 订阅用户的 openid
}

// UnsubscribeRequest 取消一条订阅记录。
type UnsubscribeRequest struct {
	SubscribeID uint `json:"subscribe_id" binding:"required"` // 订阅记录 ID
}

// PushRequest 触发一次订阅消息推送，data 为模板变量取值。
type PushRequest struct {
	Biz  string            `json:"biz" binding:"required"` // 业务场景标识
	Data map[string]string `json:"data"`                   // 模板变量名到取值的映射
}
