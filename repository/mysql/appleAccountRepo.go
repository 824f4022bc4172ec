package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/pkg/commonerrors"
)

// AppleAccountRepository 定义了苹果绑定关系的存储操作接口。
type AppleAccountRepository interface {
	// GetByUID 根据苹果用户标识检索绑定关系。
	// - 不存在时返回 commonerrors.ErrRepoNotFound。
	GetByUID(ctx context.Context, uid string) (*entities.AppleAccount, error)

	// CreateBinding 持久化一条新的绑定关系。
	CreateBinding(ctx context.Context, db *gorm.DB, binding *entities.AppleAccount) error
}

// appleAccountRepository 是 AppleAccountRepository 接口基于 GORM 的实现。
type appleAccountRepository struct {
	db *gorm.DB
}

// NewAppleAccountRepository 创建一个新的 appleAccountRepository 实例。
func NewAppleAccountRepository(db *gorm.DB) AppleAccountRepository {
	return &appleAccountRepository{db: db}
}

// GetByUID 实现接口方法，根据 uid 获取绑定关系。
func (r *appleAccountRepository) GetByUID(ctx context.Context, uid string) (*entities.AppleAccount, error) {
	var binding entities.AppleAccount
	err := r.db.WithContext(ctx).
		Where("uid = ?", uid).
		First(&binding).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("appleAccountRepo.GetByUID: 查询绑定失败 (uid: %s): %w", uid, err)
	}
	return &binding, nil
}

// CreateBinding 实现接口方法，持久化绑定关系。
func (r *appleAccountRepository) CreateBinding(ctx context.Context, db *gorm.DB, binding *entities.AppleAccount) error {
	if err := db.WithContext(ctx).Create(binding).Error; err != nil {
		return fmt.Errorf("appleAccountRepo.CreateBinding: 创建绑定失败 (uid: %s): %w", binding.UID, err)
	}
	return nil
}
