package sms

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/constants"
	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	redisrepo "github.com/qycnet/account_hub/repository/redis"
)

// --- Mocks ---

type MockVerifyCodeRepo struct {
	mock.Mock
}

func (m *MockVerifyCodeRepo) CreateCode(ctx context.Context, code *entities.VerifyCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockVerifyCodeRepo) GetLatestUnused(ctx context.Context, phone string) (*entities.VerifyCode, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VerifyCode), args.Error(1)
}

func (m *MockVerifyCodeRepo) ConsumeCode(ctx context.Context, id uint, code string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, code, now)
	return args.Bool(0), args.Error(1)
}

type MockSMSClient struct {
	mock.Mock
}

func (m *MockSMSClient) SendCode(ctx context.Context, phone string, code string) error {
	args := m.Called(ctx, phone, code)
	return args.Error(0)
}

// --- Helpers ---

func newTestService(t *testing.T, codeRepo *MockVerifyCodeRepo, smsClient *MockSMSClient, cfg *config.SMSConfig) SMSService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSMSService(codeRepo, redisrepo.NewRateLimiter(client), smsClient, cfg, core.NewNopLogger())
}

// --- GenCode ---

func TestGenCode_SwitchOff(t *testing.T) {
	codeRepo := new(MockVerifyCodeRepo)
	smsClient := new(MockSMSClient)
	svc := newTestService(t, codeRepo, smsClient, &config.SMSConfig{Switch: false})

	codeRepo.On("CreateCode", mock.Anything, mock.MatchedBy(func(c *entities.VerifyCode) bool {
		return c.Phone == "13800000001" && len(c.Code) == 4 && c.Used == 0 &&
			time.Until(c.ExpirationTime) > 4*time.Minute
	})).Return(nil)

	err := svc.GenCode(context.Background(), "13800000001")
	require.NoError(t, err)

	// 开关关闭时不发送短信
	smsClient.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything, mock.Anything)
	codeRepo.AssertExpectations(t)
}

func TestGenCode_SwitchOnSends(t *testing.T) {
	codeRepo := new(MockVerifyCodeRepo)
	smsClient := new(MockSMSClient)
	svc := newTestService(t, codeRepo, smsClient, &config.SMSConfig{Switch: true})

	codeRepo.On("CreateCode", mock.Anything, mock.Anything).Return(nil)
	smsClient.On("SendCode", mock.Anything, "13800000002", mock.Anything).Return(nil)

	require.NoError(t, svc.GenCode(context.Background(), "13800000002"))
	smsClient.AssertExpectations(t)
}

func TestGenCode_HourlyRateLimit(t *testing.T) {
	codeRepo := new(MockVerifyCodeRepo)
	smsClient := new(MockSMSClient)
	svc := newTestService(t, codeRepo, smsClient, &config.SMSConfig{Switch: false})

	codeRepo.On("CreateCode", mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	for i := 0; i < constants.RLVerifyCodeHourLimit; i++ {
		require.NoError(t, svc.GenCode(ctx, "13800000003"))
	}

	err := svc.GenCode(ctx, "13800000003")
	apiErr, ok := commonerrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, commonerrors.CodeRateLimited, apiErr.Code)
}

func TestGenCode_CheckPhoneSkipsEverything(t *testing.T) {
	codeRepo := new(MockVerifyCodeRepo)
	smsClient := new(MockSMSClient)
	svc := newTestService(t, codeRepo, smsClient, &config.SMSConfig{
		Switch:      true,
		CheckPhones: []string{"13900000000"},
	})

	require.NoError(t, svc.GenCode(context.Background(), "13900000000"))

	codeRepo.AssertNotCalled(t, "CreateCode", mock.Anything, mock.Anything)
	smsClient.AssertNotCalled(t, "SendCode", mock.Anything, mock.Anything, mock.Anything)
}

// --- VerifyCode ---

func TestVerifyCode_Success(t *testing.T) {
	codeRepo := new(MockVerifyCodeRepo)
	svc := newTestService(t, codeRepo, new(MockSMSClient), &config.SMSConfig{})

	codeRepo.On("GetLatestUnused", mock.Anything, "13800000004").
		Return(&entities.VerifyCode{ID: 42, Phone: "13800000004", Code: "1234"}, nil)
	codeRepo.On("ConsumeCode", mock.Anything, uint(42), "1234", mock.Anything).Return(true, nil)

	require.NoError(t, svc.VerifyCode(context.Background(), "13800000004", "1234"))
	codeRepo.AssertExpectations(t)
}

func TestVerifyCode_NoCodeSent(t *testing.T) {
	codeRepo := new(MockVerifyCodeRepo)
	svc := newTestService(t, codeRepo, new(MockSMSClient), &config.SMSConfig{})

	codeRepo.On("GetLatestUnused", mock.Anything, "13800000005").
		Return(nil, commonerrors.ErrRepoNotFound)

	err := svc.VerifyCode(context.Background(), "13800000005", "1234")
	apiErr, ok := commonerrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "请先发送验证码", apiErr.Msg)
}

func TestVerifyCode_WrongOrExpired(t *testing.T) {
	codeRepo := new(MockVerifyCodeRepo)
	svc := newTestService(t, codeRepo, new(MockSMSClient), &config.SMSConfig{})

	codeRepo.On("GetLatestUnused", mock.Anything, "13800000006").
		Return(&entities.VerifyCode{ID: 7, Phone: "13800000006", Code: "1234"}, nil)
	// 核销零行：验证码错误、已过期或已被使用，对外是同一个错误
	codeRepo.On("ConsumeCode", mock.Anything, uint(7), "9999", mock.Anything).Return(false, nil)

	err := svc.VerifyCode(context.Background(), "13800000006", "9999")
	apiErr, ok := commonerrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "短信验证码错误", apiErr.Msg)
}

func TestVerifyCode_CheckPhoneSkipsVerification(t *testing.T) {
	codeRepo := new(MockVerifyCodeRepo)
	svc := newTestService(t, codeRepo, new(MockSMSClient), &config.SMSConfig{
		CheckPhones: []string{"13900000000"},
	})

	// 审核手机号任意验证码都放行，且不触达验证码存储
	require.NoError(t, svc.VerifyCode(context.Background(), "13900000000", "1234"))
	require.NoError(t, svc.VerifyCode(context.Background(), "13900000000", "0000"))

	codeRepo.AssertNotCalled(t, "GetLatestUnused", mock.Anything, mock.Anything)
	codeRepo.AssertNotCalled(t, "ConsumeCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
