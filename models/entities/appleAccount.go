package entities

import (
	"time"

	"gorm.io/gorm"
)

// AppleAccount 苹果外部身份与内部账号的绑定关系。
type AppleAccount struct {
	// 自增主键
	ID uint `gorm:"primaryKey;autoIncrement"`

	// 关联的账号 ID
	AccountID uint `gorm:"not null;index"`

	// 苹果返回的用户唯一标识（id_token 中的 sub）
	UID string `gorm:"type:varchar(64);not null;uniqueIndex"`

	// 邮箱，苹果仅在首次授权时返回，可能为空
	Email string `gorm:"type:varchar(255)"`

	CreatedAt time.Time      `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"type:timestamp;column:deleted_at"`
}

func (AppleAccount) TableName() string {
	return "apple_account"
}
