package entities

import (
	"time"

	"gorm.io/gorm"

	"github.com/qycnet/account_hub/models/enums"
)

// Account 账号主体，四种登录方式最终都归并到这一条记录。
type Account struct {
	// 自增主键
	ID uint `gorm:"primaryKey;autoIncrement"`

	// 手机号，设置时全局唯一；微信/苹果首登的账号可能暂时没有手机号
	Phone *string `gorm:"type:varchar(20);uniqueIndex"`

	// 昵称
	Nickname string `gorm:"type:varchar(32)"`

	// 头像地址
	Avatar string `gorm:"type:varchar(128)"`

	// 注册来源（首次成功认证的登录方式）
	Source enums.LoginType `gorm:"type:int;not null"`

	// 最近登录时间
	LastLogin *time.Time

	// 创建时间，默认当前时间戳
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP"`

	// 更新时间，默认当前时间戳，自动更新
	UpdatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;autoUpdateTime"`

	// 软删除时间戳，列名为 deleted_at
	DeletedAt gorm.DeletedAt `gorm:"type:timestamp;column:deleted_at"`
}

func (Account) TableName() string {
	return "account"
}

// PhoneOrEmpty 返回手机号，未绑定时为空串。
func (a *Account) PhoneOrEmpty() string {
	if a.Phone == nil {
		return ""
	}
	return *a.Phone
}

// PhoneMask 返回脱敏后的手机号，例如 138****0001。
func (a *Account) PhoneMask() string {
	p := a.PhoneOrEmpty()
	if len(p) < 11 {
		return p
	}
	return p[:3] + "****" + p[7:]
}
