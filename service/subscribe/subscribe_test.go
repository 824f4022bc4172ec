package subscribe

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qycnet/account_hub/models/entities"
	"github.com/qycnet/account_hub/pkg/commonerrors"
	"github.com/qycnet/account_hub/pkg/core"
	redisrepo "github.com/qycnet/account_hub/repository/redis"
)

// --- Mocks ---

type MockSubscribeRepo struct {
	mock.Mock
}

func (m *MockSubscribeRepo) GetTemplateByBiz(ctx context.Context, biz string) (*entities.WeChatSubscribeTemplate, error) {
	args := m.Called(ctx, biz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WeChatSubscribeTemplate), args.Error(1)
}

func (m *MockSubscribeRepo) CreateSubscribe(ctx context.Context, sub *entities.WeChatSubscribe) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscribeRepo) GetLatestInit(ctx context.Context, accountID uint, biz string) (*entities.WeChatSubscribe, error) {
	args := m.Called(ctx, accountID, biz)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WeChatSubscribe), args.Error(1)
}

func (m *MockSubscribeRepo) CancelSubscribe(ctx context.Context, id uint, accountID uint) (bool, error) {
	args := m.Called(ctx, id, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSubscribeRepo) MarkPushed(ctx context.Context, id uint, now time.Time) (bool, error) {
	args := m.Called(ctx, id, now)
	return args.Bool(0), args.Error(1)
}

type MockMPClient struct {
	mock.Mock
}

func (m *MockMPClient) GetSession(ctx context.Context, code string) (string, string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockMPClient) GetAccessToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockMPClient) SendSubscribeMessage(ctx context.Context, openid, templateID, page string, data map[string]string) error {
	args := m.Called(ctx, openid, templateID, page, data)
	return args.Error(0)
}

func newTestService(t *testing.T, repo *MockSubscribeRepo, client *MockMPClient) SubscribeService {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	return NewSubscribeService(repo, client, redisrepo.NewLocker(redisClient), core.NewNopLogger())
}

// --- Subscribe / Cancel ---

func TestSubscribe_Success(t *testing.T) {
	repo := new(MockSubscribeRepo)
	svc := newTestService(t, repo, new(MockMPClient))

	repo.On("GetTemplateByBiz", mock.Anything, "order_status").
		Return(&entities.WeChatSubscribeTemplate{ID: 3, Biz: "order_status", WcTplID: "tpl-1"}, nil)
	repo.On("CreateSubscribe", mock.Anything, mock.MatchedBy(func(s *entities.WeChatSubscribe) bool {
		return s.Biz == "order_status" && s.AccountID == 8 && s.OpenID == "oid-1" && s.TemplateID == 3
	})).Return(nil)

	require.NoError(t, svc.Subscribe(context.Background(), 8, "order_status", "oid-1"))
	repo.AssertExpectations(t)
}

func TestSubscribe_UnknownBiz(t *testing.T) {
	repo := new(MockSubscribeRepo)
	svc := newTestService(t, repo, new(MockMPClient))

	repo.On("GetTemplateByBiz", mock.Anything, "nope").Return(nil, commonerrors.ErrRepoNotFound)

	err := svc.Subscribe(context.Background(), 8, "nope", "oid-1")
	apiErr, ok := commonerrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "未知的业务场景", apiErr.Msg)
}

func TestCancel_AlreadyHandled(t *testing.T) {
	repo := new(MockSubscribeRepo)
	svc := newTestService(t, repo, new(MockMPClient))

	repo.On("CancelSubscribe", mock.Anything, uint(5), uint(8)).Return(false, nil)

	err := svc.Cancel(context.Background(), 8, 5)
	apiErr, ok := commonerrors.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "订阅记录不存在或已处理", apiErr.Msg)
}

// --- Push ---

func TestPush_Success(t *testing.T) {
	repo := new(MockSubscribeRepo)
	client := new(MockMPClient)
	svc := newTestService(t, repo, client)

	sub := &entities.WeChatSubscribe{ID: 11, Biz: "order_status", AccountID: 8, OpenID: "oid-1", TemplateID: 3}
	tpl := &entities.WeChatSubscribeTemplate{ID: 3, Biz: "order_status", WcTplID: "tpl-1", Path: "pages/order"}

	repo.On("GetLatestInit", mock.Anything, uint(8), "order_status").Return(sub, nil)
	repo.On("GetTemplateByBiz", mock.Anything, "order_status").Return(tpl, nil)
	repo.On("MarkPushed", mock.Anything, uint(11), mock.Anything).Return(true, nil)
	client.On("SendSubscribeMessage", mock.Anything, "oid-1", "tpl-1", "pages/order",
		map[string]string{"thing1": "发货啦"}).Return(nil)

	require.NoError(t, svc.Push(context.Background(), 8, "order_status", map[string]string{"thing1": "发货啦"}))
	client.AssertExpectations(t)
}

func TestPush_NothingToPush(t *testing.T) {
	repo := new(MockSubscribeRepo)
	client := new(MockMPClient)
	svc := newTestService(t, repo, client)

	repo.On("GetLatestInit", mock.Anything, uint(8), "order_status").
		Return(nil, commonerrors.ErrRepoNotFound)

	require.NoError(t, svc.Push(context.Background(), 8, "order_status", nil))
	client.AssertNotCalled(t, "SendSubscribeMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPush_AlreadyConsumed(t *testing.T) {
	repo := new(MockSubscribeRepo)
	client := new(MockMPClient)
	svc := newTestService(t, repo, client)

	sub := &entities.WeChatSubscribe{ID: 12, Biz: "order_status", AccountID: 8, OpenID: "oid-1", TemplateID: 3}

	repo.On("GetLatestInit", mock.Anything, uint(8), "order_status").Return(sub, nil)
	repo.On("GetTemplateByBiz", mock.Anything, "order_status").
		Return(&entities.WeChatSubscribeTemplate{ID: 3, WcTplID: "tpl-1"}, nil)
	// CAS 占用失败：已被并发推送或已取消，不发送
	repo.On("MarkPushed", mock.Anything, uint(12), mock.Anything).Return(false, nil)

	require.NoError(t, svc.Push(context.Background(), 8, "order_status", nil))
	client.AssertNotCalled(t, "SendSubscribeMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPush_LockBusySkips(t *testing.T) {
	repo := new(MockSubscribeRepo)
	client := new(MockMPClient)

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	locker := redisrepo.NewLocker(redisClient)
	svc := NewSubscribeService(repo, client, locker, core.NewNopLogger())

	sub := &entities.WeChatSubscribe{ID: 13, Biz: "order_status", AccountID: 8, OpenID: "oid-1", TemplateID: 3}
	tpl := &entities.WeChatSubscribeTemplate{ID: 3, WcTplID: "tpl-1"}

	repo.On("GetLatestInit", mock.Anything, uint(8), "order_status").Return(sub, nil)
	repo.On("GetTemplateByBiz", mock.Anything, "order_status").Return(tpl, nil)
	repo.On("MarkPushed", mock.Anything, uint(13), mock.Anything).Return(true, nil)
	client.On("SendSubscribeMessage", mock.Anything, "oid-1", "tpl-1", "", mock.Anything).Return(nil).Once()

	ctx := context.Background()
	require.NoError(t, svc.Push(ctx, 8, "order_status", nil))

	// fixed 模式的锁保留到 TTL 过期，窗口内的第二次推送被静默跳过
	require.NoError(t, svc.Push(ctx, 8, "order_status", nil))
	client.AssertNumberOfCalls(t, "SendSubscribeMessage", 1)
}
