package entities

import (
	"time"

	"gorm.io/gorm"
)

// WeChatAccount 微信外部身份与内部账号的绑定关系。
// - openid 全局唯一，同一个 openid 至多存在一条有效绑定。
// - session_key 在每次小程序登录后轮换。
// - 资料快照字段在 OAuth 首登时写入，之后不再更新。
type WeChatAccount struct {
	// 自增主键
	ID uint `gorm:"primaryKey;autoIncrement"`

	// 关联的账号 ID，绑定关系不拥有账号本身
	AccountID uint `gorm:"not null;index"`

	// 微信用户唯一标识
	OpenID string `gorm:"type:varchar(100);not null;uniqueIndex"`

	// 小程序会话密钥，每次登录轮换
	SessionKey string `gorm:"type:varchar(255)"`

	// 以下为 OAuth 首登时的资料快照
	Nickname     string `gorm:"type:varchar(64)"`
	Sex          int    `gorm:"type:int;default:0"`
	Province     string `gorm:"type:varchar(25)"`
	City         string `gorm:"type:varchar(25)"`
	Country      string `gorm:"type:varchar(25)"`
	HeadImageURL string `gorm:"type:varchar(255)"`
	UnionID      string `gorm:"type:varchar(100)"`

	CreatedAt time.Time      `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"type:timestamp;column:deleted_at"`
}

func (WeChatAccount) TableName() string {
	return "wechat_account"
}
