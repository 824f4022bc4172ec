package login

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/dependencies"
	"github.com/qycnet/account_hub/models/dto"
	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/models/enums"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/repository/mysql"
	"github.com/qycnet/account_hub/utils"
)

// wechatMPBackend 处理微信小程序手机号授权登录。
// - 账号按解密出的手机号归并，openid 绑定只作为小程序侧的索引，
//   同一手机号换绑微信时绑定记录重新指向新账号。
type wechatMPBackend struct {
	accountRepo  mysql.AccountRepository
	wechatRepo   mysql.WeChatAccountRepository
	client       dependencies.WechatMPClient
	wechatConfig *config.WechatConfig
	db           *gorm.DB
	logger       *core.ZapLogger
}

// NewWechatMPBackend 创建小程序登录后端。
func NewWechatMPBackend(
	accountRepo mysql.AccountRepository,
	wechatRepo mysql.WeChatAccountRepository,
	client dependencies.WechatMPClient,
	wechatConfig *config.WechatConfig,
	db *gorm.DB,
	logger *core.ZapLogger,
) Backend {
	return &wechatMPBackend{
		accountRepo:  accountRepo,
		wechatRepo:   wechatRepo,
		client:       client,
		wechatConfig: wechatConfig,
		db:           db,
		logger:       logger,
	}
}

// Authenticate 实现接口方法，换取会话、解密手机号并按手机号解析账号。
func (b *wechatMPBackend) Authenticate(ctx context.Context, req dto.LoginRequest) (*entities.Account, error) {
	const operation = "WechatMPBackend.Authenticate"

	// 1. 临时凭证换 openid + session_key
	openid, sessionKey, err := b.client.GetSession(ctx, req.Code)
	if err != nil {
		b.logger.Warn("小程序换取会话失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return nil, commonerrors.ErrAuthFailed()
	}

	// 2. 用 session_key 解密手机号载荷，水印 appid 在解密层校验
	crypt := utils.NewCrypt(b.wechatConfig.AppID, sessionKey)
	payload, err := crypt.Decrypt(req.EncryptedData, req.IV)
	if err != nil {
		b.logger.Warn("小程序手机号解密失败",
			zap.String("operation", operation),
			zap.String("openid", openid),
			zap.Error(err),
		)
		return nil, commonerrors.ErrAuthFailed()
	}

	// 3. 只接受 +86 的手机号
	if payload.CountryCode != "86" || payload.PurePhoneNumber == "" {
		b.logger.Warn("小程序手机号不符合要求",
			zap.String("operation", operation),
			zap.String("openid", openid),
			zap.String("countryCode", payload.CountryCode),
		)
		return nil, commonerrors.ErrAuthFailed()
	}
	phone := payload.PurePhoneNumber

	// 4. 按手机号解析账号，不存在则自动注册
	account, err := b.accountRepo.GetAccountByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			b.logger.Error("查询手机号账号失败",
				zap.String("operation", operation),
				zap.Error(err),
			)
			return nil, commonerrors.ErrSystemError
		}
		newAccount := &entities.Account{
			Phone:  &phone,
			Source: enums.WeChatMP,
		}
		newAccount.Nickname = newAccount.PhoneMask()
		if err := b.accountRepo.CreateAccount(ctx, b.db, newAccount); err != nil {
			b.logger.Error("小程序自动注册失败",
				zap.String("operation", operation),
				zap.Error(err),
			)
			return nil, commonerrors.ErrSystemError
		}
		account = newAccount
		b.logger.Info("小程序用户首次登录，自动注册成功",
			zap.String("operation", operation),
			zap.Uint("accountID", account.ID),
		)
	}

	// 5. 维护 openid 绑定：已有则刷新归属和 session_key，没有则幂等插入
	if err := b.upsertBinding(ctx, openid, sessionKey, account.ID); err != nil {
		b.logger.Error("维护小程序绑定失败",
			zap.String("operation", operation),
			zap.String("openid", openid),
			zap.Uint("accountID", account.ID),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	return account, nil
}

func (b *wechatMPBackend) upsertBinding(ctx context.Context, openid, sessionKey string, accountID uint) error {
	binding, err := b.wechatRepo.GetByOpenID(ctx, openid)
	if err == nil {
		return b.wechatRepo.UpdateSession(ctx, binding.ID, accountID, sessionKey)
	}
	if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		return err
	}
	return b.wechatRepo.CreateBindingIgnoreDuplicate(ctx, &entities.WeChatAccount{
		AccountID:  accountID,
		OpenID:     openid,
		SessionKey: sessionKey,
	})
}
