package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/models/enums"
	"github.com/qycnet/account_hub/pkg/commonerrors"
)

// SubscribeRepository 定义了订阅消息相关的存储操作接口。
type SubscribeRepository interface {
	// GetTemplateByBiz 根据业务场景取订阅消息模板。
	// - 不存在时返回 commonerrors.ErrRepoNotFound。
	GetTemplateByBiz(ctx context.Context, biz string) (*entities.WeChatSubscribeTemplate, error)

	// CreateSubscribe 记录一次订阅授权。
	CreateSubscribe(ctx context.Context, sub *entities.WeChatSubscribe) error

	// GetLatestInit 返回指定账号在某业务场景下最新的一条待推送订阅记录。
	// - 不存在时返回 commonerrors.ErrRepoNotFound。
	GetLatestInit(ctx context.Context, accountID uint, biz string) (*entities.WeChatSubscribe, error)

	// CancelSubscribe 条件更新：仅当记录仍为 INIT 且归属该账号时置为 CANCEL。
	// - 返回是否有行被更新。
	CancelSubscribe(ctx context.Context, id uint, accountID uint) (bool, error)

	// MarkPushed 条件更新：仅当记录仍为 INIT 时置为 PUSHED 并记录推送时间。
	// - 返回是否有行被更新，零行意味着已被并发推送或已取消。
	MarkPushed(ctx context.Context, id uint, now time.Time) (bool, error)
}

// subscribeRepository 是 SubscribeRepository 接口基于 GORM 的实现。
type subscribeRepository struct {
	db *gorm.DB
}

// NewSubscribeRepository 创建一个新的 subscribeRepository 实例。
func NewSubscribeRepository(db *gorm.DB) SubscribeRepository {
	return &subscribeRepository{db: db}
}

// GetTemplateByBiz 实现接口方法。
func (r *subscribeRepository) GetTemplateByBiz(ctx context.Context, biz string) (*entities.WeChatSubscribeTemplate, error) {
	var tpl entities.WeChatSubscribeTemplate
	err := r.db.WithContext(ctx).
		Where("biz = ?", biz).
		Order("id DESC").
		First(&tpl).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("subscribeRepo.GetTemplateByBiz: 查询模板失败 (biz: %s): %w", biz, err)
	}
	return &tpl, nil
}

// CreateSubscribe 实现接口方法。
func (r *subscribeRepository) CreateSubscribe(ctx context.Context, sub *entities.WeChatSubscribe) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("subscribeRepo.CreateSubscribe: 创建订阅记录失败 (openid: %s): %w", sub.OpenID, err)
	}
	return nil
}

// GetLatestInit 实现接口方法。
func (r *subscribeRepository) GetLatestInit(ctx context.Context, accountID uint, biz string) (*entities.WeChatSubscribe, error) {
	var sub entities.WeChatSubscribe
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND biz = ? AND status = ?", accountID, biz, enums.SubscribeInit).
		Order("id DESC").
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, fmt.Errorf("subscribeRepo.GetLatestInit: 查询订阅记录失败 (账号: %d, biz: %s): %w", accountID, biz, err)
	}
	return &sub, nil
}

// CancelSubscribe 实现接口方法，CAS 式取消。
func (r *subscribeRepository) CancelSubscribe(ctx context.Context, id uint, accountID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.WeChatSubscribe{}).
		Where("id = ? AND account_id = ? AND status = ?", id, accountID, enums.SubscribeInit).
		Update("status", enums.SubscribeCancel)

	if result.Error != nil {
		return false, fmt.Errorf("subscribeRepo.CancelSubscribe: 取消订阅失败 (ID: %d): %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MarkPushed 实现接口方法，CAS 式标记推送完成。
func (r *subscribeRepository) MarkPushed(ctx context.Context, id uint, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entities.WeChatSubscribe{}).
		Where("id = ? AND status = ?", id, enums.SubscribeInit).
		Updates(map[string]interface{}{
			"status":         enums.SubscribePushed,
			"last_push_time": now,
		})

	if result.Error != nil {
		return false, fmt.Errorf("subscribeRepo.MarkPushed: 标记推送失败 (ID: %d): %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
