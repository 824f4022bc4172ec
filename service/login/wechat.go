package login

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qycnet/account_hub/dependencies"
	"github.com/qycnet/account_hub/models/dto"
	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/models/enums"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/repository/mysql"
)

// wechatBackend 处理微信开放平台 OAuth 登录。
type wechatBackend struct {
	accountRepo mysql.AccountRepository
	wechatRepo  mysql.WeChatAccountRepository
	client      dependencies.WechatClient
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewWechatBackend 创建微信 OAuth 登录后端。
func NewWechatBackend(
	accountRepo mysql.AccountRepository,
	wechatRepo mysql.WeChatAccountRepository,
	client dependencies.WechatClient,
	db *gorm.DB,
	logger *core.ZapLogger,
) Backend {
	return &wechatBackend{
		accountRepo: accountRepo,
		wechatRepo:  wechatRepo,
		client:      client,
		db:          db,
		logger:      logger,
	}
}

// Authenticate 实现接口方法，用授权码换取 openid 并解析账号。
// - openid 已有绑定时直接登录，不再请求用户资料接口。
// - 首登时先拉取用户资料再建账号，资料接口失败不会留下半截账号。
func (b *wechatBackend) Authenticate(ctx context.Context, req dto.LoginRequest) (*entities.Account, error) {
	const operation = "WechatBackend.Authenticate"

	// 1. 授权码换 access_token + openid
	accessToken, openid, err := b.client.GetAccessToken(ctx, req.Code)
	if err != nil {
		b.logger.Warn("微信授权码换取令牌失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return nil, commonerrors.ErrAuthFailed()
	}

	// 2. openid 已绑定则直接登录
	binding, err := b.wechatRepo.GetByOpenID(ctx, openid)
	if err == nil {
		return b.loadAccount(ctx, operation, binding.AccountID)
	}
	if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		b.logger.Error("查询微信绑定失败",
			zap.String("operation", operation),
			zap.String("openid", openid),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	// 3. 首登，先取用户资料快照
	userInfo, err := b.client.GetUserInfo(ctx, accessToken, openid)
	if err != nil {
		b.logger.Warn("拉取微信用户资料失败，放弃注册",
			zap.String("operation", operation),
			zap.String("openid", openid),
			zap.Error(err),
		)
		return nil, commonerrors.ErrAuthFailed()
	}

	// 4. 建账号和绑定。绑定按 openid 幂等插入，
	//    并发首登时其中一方插入被忽略，以再查一次的结果为准。
	newAccount := &entities.Account{
		Nickname: userInfo.Nickname,
		Avatar:   userInfo.HeadImageURL,
		Source:   enums.WeChat,
	}
	txErr := b.db.Transaction(func(tx *gorm.DB) error {
		if err := b.accountRepo.CreateAccount(ctx, tx, newAccount); err != nil {
			return fmt.Errorf("事务中创建账号失败: %w", err)
		}
		newBinding := &entities.WeChatAccount{
			AccountID:    newAccount.ID,
			OpenID:       userInfo.OpenID,
			Nickname:     userInfo.Nickname,
			Sex:          userInfo.Sex,
			Province:     userInfo.Province,
			City:         userInfo.City,
			Country:      userInfo.Country,
			HeadImageURL: userInfo.HeadImageURL,
			UnionID:      userInfo.UnionID,
		}
		if err := b.wechatRepo.CreateBinding(ctx, tx, newBinding); err != nil {
			return fmt.Errorf("事务中创建微信绑定失败: %w", err)
		}
		return nil
	})
	if txErr != nil {
		// 并发首登时另一请求可能已占用该 openid，回查绑定兜底
		if existing, getErr := b.wechatRepo.GetByOpenID(ctx, openid); getErr == nil {
			b.logger.Info("微信绑定已被并发请求创建，直接登录",
				zap.String("operation", operation),
				zap.String("openid", openid),
			)
			return b.loadAccount(ctx, operation, existing.AccountID)
		}
		b.logger.Error("微信注册事务失败",
			zap.String("operation", operation),
			zap.String("openid", openid),
			zap.Error(txErr),
		)
		return nil, commonerrors.ErrSystemError
	}

	b.logger.Info("微信用户首次登录，自动注册成功",
		zap.String("operation", operation),
		zap.Uint("accountID", newAccount.ID),
		zap.String("openid", openid),
	)
	return newAccount, nil
}

func (b *wechatBackend) loadAccount(ctx context.Context, operation string, accountID uint) (*entities.Account, error) {
	account, err := b.accountRepo.GetAccountByID(ctx, accountID)
	if err != nil {
		b.logger.Error("绑定存在但账号缺失",
			zap.String("operation", operation),
			zap.Uint("accountID", accountID),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}
	return account, nil
}
