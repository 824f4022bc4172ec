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

// AccountRepository 定义了与账号（Account）数据存储相关的操作接口。
// - 软删除的账号在所有查询中都被排除（GORM 的 DeletedAt 默认过滤）。
type AccountRepository interface {
	// CreateAccount 持久化一个新的账号记录。
	// - 如果数据库操作失败，则返回包装后的错误。
	CreateAccount(ctx context.Context, db *gorm.DB, account *entities.Account) error

	// GetAccountByID 根据主键 ID 检索账号。
	// - 如果未找到匹配的账号，将返回 commonerrors.ErrRepoNotFound。
	GetAccountByID(ctx context.Context, accountID uint) (*entities.Account, error)

	// GetAccountByPhone 根据手机号检索账号。
	// - 如果未找到匹配的账号，将返回 commonerrors.ErrRepoNotFound。
	GetAccountByPhone(ctx context.Context, phone string) (*entities.Account, error)

	// UpdateLastLogin 刷新账号的最后登录时间。
	UpdateLastLogin(ctx context.Context, accountID uint, loginTime time.Time) error
}

// accountRepository 是 AccountRepository 接口基于 GORM 的实现。
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository 创建一个新的 accountRepository 实例。
// - 依赖注入 GORM 数据库连接。
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// CreateAccount 实现接口方法，持久化账号记录。
func (r *accountRepository) CreateAccount(ctx context.Context, db *gorm.DB, account *entities.Account) error {
	if err := db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("accountRepo.CreateAccount: 创建账号失败: %w", err)
	}
	return nil
}

// GetAccountByID 实现接口方法，根据 ID 获取账号。
func (r *accountRepository) GetAccountByID(ctx context.Context, accountID uint) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).
		Where("id = ?", accountID).
		First(&account).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("accountRepo.GetAccountByID: 查询账号失败 (ID: %d): %w", accountID, err)
	}
	return &account, nil
}

// GetAccountByPhone 实现接口方法，根据手机号获取账号。
func (r *accountRepository) GetAccountByPhone(ctx context.Context, phone string) (*entities.Account, error) {
	var account entities.Account
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&account).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("accountRepo.GetAccountByPhone: 查询账号失败 (手机号: %s): %w", phone, err)
	}
	return &account, nil
}

// UpdateLastLogin 实现接口方法，刷新最后登录时间。
func (r *accountRepository) UpdateLastLogin(ctx context.Context, accountID uint, loginTime time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&entities.Account{}).
		Where("id = ?", accountID).
		Update("last_login", loginTime).Error
	if err != nil {
		return fmt.Errorf("accountRepo.UpdateLastLogin: 更新最后登录时间失败 (ID: %d): %w", accountID, err)
	}
	return nil
}
