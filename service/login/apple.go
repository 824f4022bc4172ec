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

// appleBackend 处理苹果 Sign in with Apple 登录。
type appleBackend struct {
	accountRepo mysql.AccountRepository
	appleRepo   mysql.AppleAccountRepository
	client      dependencies.AppleClient
	db          *gorm.DB
	logger      *core.ZapLogger
}

// NewAppleBackend 创建苹果登录后端。
func NewAppleBackend(
	accountRepo mysql.AccountRepository,
	appleRepo mysql.AppleAccountRepository,
	client dependencies.AppleClient,
	db *gorm.DB,
	logger *core.ZapLogger,
) Backend {
	return &appleBackend{
		accountRepo: accountRepo,
		appleRepo:   appleRepo,
		client:      client,
		db:          db,
		logger:      logger,
	}
}

// Authenticate 实现接口方法，用授权码向苹果换取用户标识并解析账号。
// - 历史客户端把授权码放在 access_token 字段里，沿用该字段名。
func (b *appleBackend) Authenticate(ctx context.Context, req dto.LoginRequest) (*entities.Account, error) {
	const operation = "AppleBackend.Authenticate"

	// 1. 授权码换用户标识，邮箱只有首次授权时才会返回
	uid, email, err := b.client.Verify(ctx, req.AccessToken)
	if err != nil {
		b.logger.Warn("苹果授权码校验失败",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return nil, commonerrors.ErrAuthFailed()
	}

	// 2. uid 已绑定则直接登录
	binding, err := b.appleRepo.GetByUID(ctx, uid)
	if err == nil {
		account, err := b.accountRepo.GetAccountByID(ctx, binding.AccountID)
		if err != nil {
			b.logger.Error("苹果绑定存在但账号缺失",
				zap.String("operation", operation),
				zap.Uint("accountID", binding.AccountID),
				zap.Error(err),
			)
			return nil, commonerrors.ErrSystemError
		}
		return account, nil
	}
	if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		b.logger.Error("查询苹果绑定失败",
			zap.String("operation", operation),
			zap.String("uid", uid),
			zap.Error(err),
		)
		return nil, commonerrors.ErrSystemError
	}

	// 3. 首登，建账号和绑定
	newAccount := &entities.Account{
		Nickname: "Apple用户",
		Source:   enums.Apple,
	}
	txErr := b.db.Transaction(func(tx *gorm.DB) error {
		if err := b.accountRepo.CreateAccount(ctx, tx, newAccount); err != nil {
			return fmt.Errorf("事务中创建账号失败: %w", err)
		}
		newBinding := &entities.AppleAccount{
			AccountID: newAccount.ID,
			UID:       uid,
			Email:     email,
		}
		if err := b.appleRepo.CreateBinding(ctx, tx, newBinding); err != nil {
			return fmt.Errorf("事务中创建苹果绑定失败: %w", err)
		}
		return nil
	})
	if txErr != nil {
		b.logger.Error("苹果注册事务失败",
			zap.String("operation", operation),
			zap.String("uid", uid),
			zap.Error(txErr),
		)
		return nil, commonerrors.ErrSystemError
	}

	b.logger.Info("苹果用户首次登录，自动注册成功",
		zap.String("operation", operation),
		zap.Uint("accountID", newAccount.ID),
		zap.String("uid", uid),
	)
	return newAccount, nil
}
