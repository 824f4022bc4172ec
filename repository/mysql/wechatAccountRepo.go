package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/pkg/commonerrors"
)

// WeChatAccountRepository 定义了微信绑定关系的存储操作接口。
type WeChatAccountRepository interface {
	// GetByOpenID 根据 openid 检索绑定关系。
	// - 不存在时返回 commonerrors.ErrRepoNotFound。
	GetByOpenID(ctx context.Context, openid string) (*entities.WeChatAccount, error)

	// CreateBinding 持久化一条新的绑定关系（OAuth 首登，带资料快照）。
	CreateBinding(ctx context.Context, db *gorm.DB, binding *entities.WeChatAccount) error

	// CreateBindingIgnoreDuplicate 插入绑定关系，openid 冲突时静默丢弃本次写入。
	// - 用于小程序登录的并发场景：两个请求同时为同一个新 openid 建绑定时，
	//   恰好一条插入生效，落败方的数据被丢弃而不是合并。
	CreateBindingIgnoreDuplicate(ctx context.Context, binding *entities.WeChatAccount) error

	// UpdateSession 将绑定关系指向新的账号并轮换 session_key。
	UpdateSession(ctx context.Context, bindingID uint, accountID uint, sessionKey string) error
}

// wechatAccountRepository 是 WeChatAccountRepository 接口基于 GORM 的实现。
type wechatAccountRepository struct {
	db *gorm.DB
}

// NewWeChatAccountRepository 创建一个新的 wechatAccountRepository 实例。
func NewWeChatAccountRepository(db *gorm.DB) WeChatAccountRepository {
	return &wechatAccountRepository{db: db}
}

// GetByOpenID 实现接口方法，根据 openid 获取绑定关系。
func (r *wechatAccountRepository) GetByOpenID(ctx context.Context, openid string) (*entities.WeChatAccount, error) {
	var binding entities.WeChatAccount
	err := r.db.WithContext(ctx).
		Where("open_id = ?", openid).
		First(&binding).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("wechatAccountRepo.GetByOpenID: 查询绑定失败 (openid: %s): %w", openid, err)
	}
	return &binding, nil
}

// CreateBinding 实现接口方法，持久化绑定关系。
func (r *wechatAccountRepository) CreateBinding(ctx context.Context, db *gorm.DB, binding *entities.WeChatAccount) error {
	if err := db.WithContext(ctx).Create(binding).Error; err != nil {
		return fmt.Errorf("wechatAccountRepo.CreateBinding: 创建绑定失败 (openid: %s): %w", binding.OpenID, err)
	}
	return nil
}

// CreateBindingIgnoreDuplicate 实现接口方法，冲突即丢弃的插入。
// - 依赖 open_id 上的唯一索引，由存储层保证并发下至多一条绑定。
func (r *wechatAccountRepository) CreateBindingIgnoreDuplicate(ctx context.Context, binding *entities.WeChatAccount) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(binding).Error
	if err != nil {
		return fmt.Errorf("wechatAccountRepo.CreateBindingIgnoreDuplicate: 插入绑定失败 (openid: %s): %w", binding.OpenID, err)
	}
	return nil
}

// UpdateSession 实现接口方法，更新绑定指向与会话密钥。
func (r *wechatAccountRepository) UpdateSession(ctx context.Context, bindingID uint, accountID uint, sessionKey string) error {
	err := r.db.WithContext(ctx).
		Model(&entities.WeChatAccount{}).
		Where("id = ?", bindingID).
		Updates(map[string]interface{}{
			"account_id":  accountID,
			"session_key": sessionKey,
		}).Error
	if err != nil {
		return fmt.Errorf("wechatAccountRepo.UpdateSession: 更新绑定失败 (ID: %d): %w", bindingID, err)
	}
	return nil
}
