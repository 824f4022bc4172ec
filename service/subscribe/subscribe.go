package subscribe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qycnet/account_hub/constants"
	"github.com/qycnet/account_hub/dependencies"
	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/repository/mysql"
	"github.com/qycnet/account_hub/repository/redis"
)

// SubscribeService 定义了小程序订阅消息的授权登记与推送服务接口。
type SubscribeService interface {
	// Subscribe 登记一次订阅授权，状态为待推送。
	// - biz 对应的模板未登记时返回业务错误。
	Subscribe(ctx context.Context, accountID uint, biz string, openid string) error

	// Cancel 取消一条待推送的订阅授权。
	// - 记录不存在、不属于该账号或已被处理时返回业务错误。
	Cancel(ctx context.Context, accountID uint, subscribeID uint) error

	// Push 向账号在某业务场景下最新的待推送订阅下发一条消息。
	// - 每次授权只消费一次：先 CAS 占用记录再发送。
	// - 没有待推送记录或另一个进程正在推送时静默跳过。
	Push(ctx context.Context, accountID uint, biz string, data map[string]string) error
}

// subscribeService 是 SubscribeService 接口的实现。
type subscribeService struct {
	subscribeRepo mysql.SubscribeRepository
	mpClient      dependencies.WechatMPClient
	locker        redis.Locker
	logger        *core.ZapLogger
}

func NewSubscribeService(
	subscribeRepo mysql.SubscribeRepository,
	mpClient dependencies.WechatMPClient,
	locker redis.Locker,
	logger *core.ZapLogger,
) SubscribeService {
	return &subscribeService{
		subscribeRepo: subscribeRepo,
		mpClient:      mpClient,
		locker:        locker,
		logger:        logger,
	}
}

// Subscribe 实现接口方法，登记订阅授权。
func (s *subscribeService) Subscribe(ctx context.Context, accountID uint, biz string, openid string) error {
	const operation = "SubscribeService.Subscribe"

	tpl, err := s.subscribeRepo.GetTemplateByBiz(ctx, biz)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("订阅的业务场景未登记模板",
				zap.String("operation", operation),
				zap.String("biz", biz),
			)
			return commonerrors.NewBadRequest("未知的业务场景")
		}
		s.logger.Error("查询订阅模板失败",
			zap.String("operation", operation),
			zap.String("biz", biz),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	sub := &entities.WeChatSubscribe{
		Biz:        biz,
		AccountID:  accountID,
		OpenID:     openid,
		TemplateID: tpl.ID,
	}
	if err := s.subscribeRepo.CreateSubscribe(ctx, sub); err != nil {
		s.logger.Error("登记订阅授权失败",
			zap.String("operation", operation),
			zap.Uint("accountID", accountID),
			zap.String("biz", biz),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	s.logger.Info("订阅授权登记成功",
		zap.String("operation", operation),
		zap.Uint("accountID", accountID),
		zap.String("biz", biz),
		zap.Uint("subscribeID", sub.ID),
	)
	return nil
}

// Cancel 实现接口方法，取消待推送的订阅。
func (s *subscribeService) Cancel(ctx context.Context, accountID uint, subscribeID uint) error {
	const operation = "SubscribeService.Cancel"

	ok, err := s.subscribeRepo.CancelSubscribe(ctx, subscribeID, accountID)
	if err != nil {
		s.logger.Error("取消订阅失败",
			zap.String("operation", operation),
			zap.Uint("accountID", accountID),
			zap.Uint("subscribeID", subscribeID),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}
	if !ok {
		return commonerrors.NewBadRequest("订阅记录不存在或已处理")
	}

	s.logger.Info("订阅已取消",
		zap.String("operation", operation),
		zap.Uint("accountID", accountID),
		zap.Uint("subscribeID", subscribeID),
	)
	return nil
}

// Push 实现接口方法，消费一条订阅授权并下发消息。
func (s *subscribeService) Push(ctx context.Context, accountID uint, biz string, data map[string]string) error {
	const operation = "SubscribeService.Push"

	// 1. 取最新的待推送授权，没有则无事可做
	sub, err := s.subscribeRepo.GetLatestInit(ctx, accountID, biz)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Info("账号无待推送的订阅授权，跳过",
				zap.String("operation", operation),
				zap.Uint("accountID", accountID),
				zap.String("biz", biz),
			)
			return nil
		}
		s.logger.Error("查询待推送订阅失败",
			zap.String("operation", operation),
			zap.Uint("accountID", accountID),
			zap.String("biz", biz),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	tpl, err := s.subscribeRepo.GetTemplateByBiz(ctx, biz)
	if err != nil {
		s.logger.Error("查询订阅模板失败",
			zap.String("operation", operation),
			zap.String("biz", biz),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	// 2. 锁定到 TTL 结束（fixed 模式），同一条授权在窗口内至多推送一次
	lockKey := fmt.Sprintf(constants.LockKeySubscribePush, sub.OpenID, sub.TemplateID)
	err = s.locker.WithLock(ctx, lockKey, constants.SubscribePushLockTTL, true, func() error {
		// 3. 先 CAS 占用记录，占用失败说明已被并发推送或已取消
		ok, err := s.subscribeRepo.MarkPushed(ctx, sub.ID, time.Now())
		if err != nil {
			return err
		}
		if !ok {
			s.logger.Info("订阅记录已被处理，跳过推送",
				zap.String("operation", operation),
				zap.Uint("subscribeID", sub.ID),
			)
			return nil
		}

		// 4. 下发订阅消息
		if err := s.mpClient.SendSubscribeMessage(ctx, sub.OpenID, tpl.WcTplID, tpl.Path, data); err != nil {
			return fmt.Errorf("下发订阅消息失败 (subscribeID: %d): %w", sub.ID, err)
		}
		s.logger.Info("订阅消息推送成功",
			zap.String("operation", operation),
			zap.Uint("subscribeID", sub.ID),
			zap.String("openid", sub.OpenID),
		)
		return nil
	})

	if err != nil {
		if errors.Is(err, commonerrors.ErrLockBusy) {
			s.logger.Info("推送锁被占用，本次跳过",
				zap.String("operation", operation),
				zap.String("lockKey", lockKey),
			)
			return nil
		}
		s.logger.Error("推送订阅消息失败",
			zap.String("operation", operation),
			zap.Uint("subscribeID", sub.ID),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}
	return nil
}
