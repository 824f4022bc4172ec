package sms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/constants"
	"github.com/qycnet/account_hub/dependencies"
	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	"github.com/qycnet/account_hub/repository/mysql"
	"github.com/qycnet/account_hub/repository/redis"
	"github.com/qycnet/account_hub/utils"
)

// SMSService 定义了短信验证码的发送与校验服务接口。
type SMSService interface {
	// GenCode 为指定手机号生成并发送验证码。
	// - 发送前检查该手机号当日与当前小时的发送频率，超出上限返回限流错误。
	// - 返回: 业务错误（限流）或系统错误。
	GenCode(ctx context.Context, phone string) error

	// VerifyCode 校验手机号与验证码是否匹配。
	// - 取该手机号最近一次未使用的验证码，通过单条条件更新完成核销。
	// - 验证码不存在、已用、已过期或不匹配时，统一返回同一业务错误，不区分具体原因。
	VerifyCode(ctx context.Context, phone string, code string) error
}

// smsService 是 SMSService 接口的实现。
type smsService struct {
	codeRepo  mysql.VerifyCodeRepository // 验证码仓库
	limiter   redis.RateLimiter          // 发送频率限制器
	smsClient dependencies.SMSClient     // 短信发送客户端
	smsConfig *config.SMSConfig          // 短信配置
	logger    *core.ZapLogger            // 日志记录器
}

func NewSMSService(
	codeRepo mysql.VerifyCodeRepository,
	limiter redis.RateLimiter,
	smsClient dependencies.SMSClient,
	smsConfig *config.SMSConfig,
	logger *core.ZapLogger,
) SMSService {
	return &smsService{
		codeRepo:  codeRepo,
		limiter:   limiter,
		smsClient: smsClient,
		smsConfig: smsConfig,
		logger:    logger,
	}
}

// GenCode 实现接口方法，生成、落库并发送验证码。
func (s *smsService) GenCode(ctx context.Context, phone string) error {
	const operation = "SMSService.GenCode"

	// 审核专用手机号不生成也不发送，校验侧直接放行
	if s.smsConfig.IsCheckPhone(phone) {
		s.logger.Info("审核手机号请求验证码，跳过发送",
			zap.String("operation", operation),
			zap.String("phone", phone),
		)
		return nil
	}

	// 1. 检查当日发送次数（按天滑动到自然日，key 带日期）
	dayKey := fmt.Sprintf(constants.RLVerifyCodeDay, time.Now().Format("20060102"), phone)
	if err := s.limiter.Check(ctx, dayKey, constants.RLVerifyCodeDayLimit, constants.RLVerifyCodeDayWindow); err != nil {
		if errors.Is(err, commonerrors.ErrRateLimited) {
			s.logger.Warn("验证码当日发送次数已达上限",
				zap.String("operation", operation),
				zap.String("phone", phone),
			)
			return commonerrors.NewRateLimited()
		}
		s.logger.Error("检查验证码日频率失败",
			zap.String("operation", operation),
			zap.String("phone", phone),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	// 2. 检查当前小时发送次数
	hourKey := fmt.Sprintf(constants.RLVerifyCodeHour, phone)
	if err := s.limiter.Check(ctx, hourKey, constants.RLVerifyCodeHourLimit, constants.RLVerifyCodeHourWindow); err != nil {
		if errors.Is(err, commonerrors.ErrRateLimited) {
			s.logger.Warn("验证码小时发送次数已达上限",
				zap.String("operation", operation),
				zap.String("phone", phone),
			)
			return commonerrors.NewRateLimited()
		}
		s.logger.Error("检查验证码小时频率失败",
			zap.String("operation", operation),
			zap.String("phone", phone),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	// 3. 生成验证码并写入数据库
	code := utils.GenerateCaptcha()
	record := &entities.VerifyCode{
		Phone:          phone,
		Code:           code,
		Used:           0,
		ExpirationTime: time.Now().Add(constants.CaptchaTTL),
	}
	if err := s.codeRepo.CreateCode(ctx, record); err != nil {
		s.logger.Error("保存验证码失败",
			zap.String("operation", operation),
			zap.String("phone", phone),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	// 4. 发送验证码。短信开关关闭时仅记录日志，便于开发环境联调。
	if !s.smsConfig.Switch {
		s.logger.Info("短信开关未开启，跳过实际发送",
			zap.String("operation", operation),
			zap.String("phone", phone),
			zap.String("code", code),
		)
		return nil
	}
	if err := s.smsClient.SendCode(ctx, phone, code); err != nil {
		s.logger.Error("发送短信验证码失败",
			zap.String("operation", operation),
			zap.String("phone", phone),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	s.logger.Info("验证码发送成功",
		zap.String("operation", operation),
		zap.String("phone", phone),
	)
	return nil
}

// VerifyCode 实现接口方法，核销验证码。
func (s *smsService) VerifyCode(ctx context.Context, phone string, code string) error {
	const operation = "SMSService.VerifyCode"

	// 审核专用手机号跳过验证码校验，任意验证码直接放行
	if s.smsConfig.IsCheckPhone(phone) {
		s.logger.Warn("审核手机号跳过验证码校验",
			zap.String("operation", operation),
			zap.String("phone", phone),
		)
		return nil
	}

	// 1. 取最近一次未使用的验证码
	latest, err := s.codeRepo.GetLatestUnused(ctx, phone)
	if err != nil {
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Warn("手机号无待核销的验证码",
				zap.String("operation", operation),
				zap.String("phone", phone),
			)
			return commonerrors.NewBadRequest("请先发送验证码")
		}
		s.logger.Error("查询验证码失败",
			zap.String("operation", operation),
			zap.String("phone", phone),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}

	// 2. 单条条件更新完成核销，码不匹配或已过期都体现为更新 0 行
	ok, err := s.codeRepo.ConsumeCode(ctx, latest.ID, code, time.Now())
	if err != nil {
		s.logger.Error("核销验证码失败",
			zap.String("operation", operation),
			zap.String("phone", phone),
			zap.Error(err),
		)
		return commonerrors.ErrSystemError
	}
	if !ok {
		s.logger.Warn("验证码核销未生效",
			zap.String("operation", operation),
			zap.String("phone", phone),
		)
		return commonerrors.NewBadRequest("短信验证码错误")
	}

	s.logger.Info("验证码校验通过",
		zap.String("operation", operation),
		zap.String("phone", phone),
	)
	return nil
}
