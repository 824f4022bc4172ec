package enums

// SubscribeStatus 微信订阅消息记录的状态。
type SubscribeStatus int

const (
	SubscribeInit   SubscribeStatus = 0 // 已订阅，等待推送
	SubscribeCancel SubscribeStatus = 1 // 用户取消订阅
	SubscribePushed SubscribeStatus = 2 // 已推送
)
