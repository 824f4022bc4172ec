package login

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/qycnet/account_hub/models/dto"
	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/models/enums"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/repository/mysql"
)

// Backend 定义了单一登录方式的认证接口。
// - 每种登录方式（手机号、微信、苹果、小程序）各自实现一个后端，
//   由 Dispatcher 按请求的 type 字段路由。
type Backend interface {
	// Authenticate 校验凭证并解析出对应的账号。
	// - 账号不存在时按各后端自己的规则自动注册。
	// - 凭证无效统一返回 commonerrors.ErrAuthFailed()，不向客户端泄露失败细节。
	Authenticate(ctx context.Context, req dto.LoginRequest) (*entities.Account, error)
}

// Dispatcher 按登录方式把请求路由到对应的认证后端。
type Dispatcher struct {
	backends    map[enums.LoginType]Backend
	accountRepo mysql.AccountRepository
	logger      *core.ZapLogger
}

// NewDispatcher 创建 Dispatcher，注册所有支持的登录方式。
func NewDispatcher(
	phone Backend,
	wechat Backend,
	apple Backend,
	wechatMP Backend,
	accountRepo mysql.AccountRepository,
	logger *core.ZapLogger,
) *Dispatcher {
	return &Dispatcher{
		backends: map[enums.LoginType]Backend{
			enums.Phone:    phone,
			enums.WeChat:   wechat,
			enums.Apple:    apple,
			enums.WeChatMP: wechatMP,
		},
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Login 处理统一登录入口。
// - 未注册的登录方式返回认证失败，与凭证无效对客户端不可区分。
// - 认证成功后刷新最后登录时间，刷新失败只记日志不影响登录。
func (d *Dispatcher) Login(ctx context.Context, req dto.LoginRequest) (*entities.Account, error) {
	const operation = "LoginDispatcher.Login"

	backend, ok := d.backends[req.Type]
	if !ok {
		d.logger.Warn("未知的登录方式",
			zap.String("operation", operation),
			zap.Int("loginType", int(req.Type)),
		)
		return nil, commonerrors.ErrAuthFailed()
	}

	account, err := backend.Authenticate(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := d.accountRepo.UpdateLastLogin(ctx, account.ID, time.Now()); err != nil {
		d.logger.Error("刷新最后登录时间失败",
			zap.String("operation", operation),
			zap.Uint("accountID", account.ID),
			zap.Error(err),
		)
	}

	d.logger.Info("登录成功",
		zap.String("operation", operation),
		zap.Uint("accountID", account.ID),
		zap.String("loginType", req.Type.String()),
	)
	return account, nil
}
