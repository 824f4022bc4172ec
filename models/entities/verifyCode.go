package entities

import (
	"time"
)

// VerifyCode 一次性短信验证码。
// - used 只会从 0 置为 1，消费后不再复位；过期与错误码对客户端表现一致。
type VerifyCode struct {
	// 自增主键
	ID uint `gorm:"primaryKey;autoIncrement"`

	// 接收验证码的手机号
	Phone string `gorm:"type:varchar(20);not null;index"`

	// 4 位数字验证码
	Code string `gorm:"type:varchar(6);not null"`

	// 是否已使用（0=未使用, 1=已使用）
	Used int `gorm:"type:int;not null;default:0"`

	// 过期时间
	ExpirationTime time.Time `gorm:"type:timestamp;not null"`

	// 创建时间
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`
}

func (VerifyCode) TableName() string {
	return "verify_code"
}
