package entities

import (
	"time"

	"gorm.io/gorm"

	"github.com/qycnet/account_hub/models/enums"
)

// WeChatSubscribeTemplate 订阅消息模板登记，biz 标识业务场景。
type WeChatSubscribeTemplate struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	// 业务场景标识
	Biz string `gorm:"type:varchar(255);not null;index"`

	// 微信后台的模板 ID
	WcTplID string `gorm:"type:varchar(255);not null"`

	// 点击消息跳转的小程序页面路径
	Path string `gorm:"type:varchar(255)"`

	CreatedAt time.Time      `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"type:timestamp;column:deleted_at"`
}

func (WeChatSubscribeTemplate) TableName() string {
	return "wechat_subscribe_template"
}

// WeChatSubscribe 用户的一次订阅授权，推送一次后状态流转为 PUSHED。
type WeChatSubscribe struct {
	ID uint `gorm:"primaryKey;autoIncrement"`

	// 业务场景标识
	Biz string `gorm:"type:varchar(255);not null;index"`

	// 订阅用户的账号 ID
	AccountID uint `gorm:"not null;index"`

	// 订阅用户的 openid
	OpenID string `gorm:"type:varchar(100);not null"`

	// 关联的模板记录 ID
	TemplateID uint `gorm:"not null"`

	// 订阅状态
	Status enums.SubscribeStatus `gorm:"type:int;not null;default:0"`

	// 最近一次推送时间
	LastPushTime *time.Time

	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`
}

func (WeChatSubscribe) TableName() string {
	return "wechat_subscribe"
}
