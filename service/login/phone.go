package login

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/qycnet/account_hub/models/dto"
	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/models/enums"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/repository/mysql"
	"github.com/qycnet/account_hub/service/sms"
)

// phoneBackend 处理手机号 + 短信验证码登录。
type phoneBackend struct {
	accountRepo mysql.AccountRepository
	smsService  sms.SMSService
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewPhoneBackend 创建手机号登录后端。
func NewPhoneBackend(
	accountRepo mysql.AccountRepository,
	smsService sms.SMSService,
	db *gorm.DB,
	logger *core.ZapLogger,
) Backend {
	return &phoneBackend{
		accountRepo: accountRepo,
		smsService:  smsService,
		db:          db,
		logger:      logger,
	}
}

// Authenticate 实现接口方法，校验验证码后按手机号解析账号。
func (b *phoneBackend) Authenticate(ctx context.Context, req dto.LoginRequest) (*entities.Account, error) {
	const operation = "PhoneBackend.Authenticate"

	// 1. 核销验证码，失败原因由短信服务决定（业务错误原样上抛）
	if err := b.smsService.VerifyCode(ctx, req.Phone, req.Captcha); err != nil {
		return nil, err
	}

	// 2. 按手机号查账号，不存在则自动注册
	account, err := b.accountRepo.GetAccountByPhone(ctx, req.Phone)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		b.logger.Error("查询手机号账号失败",
			zap.String("operation", operation),
			zap.String("phone", req.Phone),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	phone := req.Phone
	newAccount := &entities.Account{
		Phone:  &phone,
		Source: enums.Phone,
	}
	newAccount.Nickname = newAccount.PhoneMask()

	if err := b.accountRepo.CreateAccount(ctx, b.db, newAccount); err != nil {
		b.logger.Error("手机号自动注册失败",
			zap.String("operation", operation),
			zap.String("phone", phone),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	b.logger.Info("手机号用户首次登录，自动注册成功",
		zap.String("operation", operation),
		zap.Uint("accountID", newAccount.ID),
	)
	return newAccount, nil
}
