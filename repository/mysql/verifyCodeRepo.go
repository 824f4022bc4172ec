package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/pkg/commonerrors"
)

// VerifyCodeRepository 定义了短信验证码的存储操作接口。
type VerifyCodeRepository interface {
	// CreateCode 持久化一条新的验证码记录。
	CreateCode(ctx context.Context, code *entities.VerifyCode) error

	// GetLatestUnused 返回指定手机号最新（id 最大）的一条未使用验证码。
	// - 不存在时返回 commonerrors.ErrRepoNotFound。
	GetLatestUnused(ctx context.Context, phone string) (*entities.VerifyCode, error)

	// ConsumeCode 原子地消费一条验证码：单条条件更新，
	// 只有 id 匹配、未使用、验证码一致且未过期时才置 used=1。
	// - 返回是否有行被更新。零行更新意味着验证码错误、已过期或已被使用，
	//   三种情况对调用方不可区分（这是刻意保持的单语句语义）。
	ConsumeCode(ctx context.Context, id uint, code string, now time.Time) (bool, error)
}

// verifyCodeRepository 是 VerifyCodeRepository 接口基于 GORM 的实现。
type verifyCodeRepository struct {
	db *gorm.DB
}

// NewVerifyCodeRepository 创建一个新的 verifyCodeRepository 实例。
func NewVerifyCodeRepository(db *gorm.DB) VerifyCodeRepository {
	return &verifyCodeRepository{db: db}
}

// CreateCode 实现接口方法，持久化验证码记录。
func (r *verifyCodeRepository) CreateCode(ctx context.Context, code *entities.VerifyCode) error {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return fmt.Errorf("verifyCodeRepo.CreateCode: 创建验证码失败 (手机号: %s): %w", code.Phone, err)
	}
	return nil
}

// GetLatestUnused 实现接口方法，取最新一条未使用的验证码。
func (r *verifyCodeRepository) GetLatestUnused(ctx context.Context, phone string) (*entities.VerifyCode, error) {
	var code entities.VerifyCode
	err := r.db.WithContext(ctx).
		Where("phone = ? AND used = 0", phone).
		Order("id DESC").
		First(&code).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("verifyCodeRepo.GetLatestUnused: 查询验证码失败 (手机号: %s): %w", phone, err)
	}
	return &code, nil
}

// ConsumeCode 实现接口方法，单条条件更新完成“校验并标记已用”。
// - 两个并发请求消费同一条验证码时，只有一个更新到行。
func (r *verifyCodeRepository) ConsumeCode(ctx context.Context, id uint, code string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.VerifyCode{}).
		Where("id = ? AND used = 0 AND code = ? AND expiration_time >= ?", id, code, now).
		Update("used", 1)

	if result.Error != nil {
		return false, fmt.Errorf("verifyCodeRepo.ConsumeCode: 消费验证码失败 (ID: %d): %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
