package dependencies

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qycnet/account_hub/config"
)

func TestWechatClient_GetAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sns/oauth2/access_token", r.URL.Path)
		assert.Equal(t, "good-code", r.URL.Query().Get("code"))
		assert.Equal(t, "wx-appid", r.URL.Query().Get("appid"))
		_, _ = w.Write([]byte(`{"access_token":"at-123","openid":"oid-123","expires_in":7200}`))
	}))
	defer srv.Close()

	client := NewWechatClient(&config.WechatConfig{AppID: "wx-appid", Secret: "s", Domain: srv.URL})
	accessToken, openid, err := client.GetAccessToken(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "at-123", accessToken)
	assert.Equal(t, "oid-123", openid)
}

func TestWechatClient_GetAccessToken_RejectedDespite200(t *testing.T) {
	// 微信错误响应仍然是 HTTP 200，成败由响应体字段决定
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errcode":40029,"errmsg":"invalid code"}`))
	}))
	defer srv.Close()

	client := NewWechatClient(&config.WechatConfig{Domain: srv.URL})
	_, _, err := client.GetAccessToken(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrProviderRejected)
}

func TestWechatClient_GetUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sns/userinfo", r.URL.Path)
		_, _ = w.Write([]byte(`{"openid":"oid-123","nickname":"张三","sex":1,"province":"广东","city":"深圳","country":"中国","headimgurl":"https://img/x.png","unionid":"un-1"}`))
	}))
	defer srv.Close()

	client := NewWechatClient(&config.WechatConfig{Domain: srv.URL})
	info, err := client.GetUserInfo(context.Background(), "at-123", "oid-123")
	require.NoError(t, err)
	assert.Equal(t, "oid-123", info.OpenID)
	assert.Equal(t, "张三", info.Nickname)
	assert.Equal(t, "un-1", info.UnionID)
}

func TestWechatClient_GetUserInfo_MissingOpenID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errcode":40003,"errmsg":"invalid openid"}`))
	}))
	defer srv.Close()

	client := NewWechatClient(&config.WechatConfig{Domain: srv.URL})
	_, err := client.GetUserInfo(context.Background(), "at-123", "oid-123")
	assert.ErrorIs(t, err, ErrProviderRejected)
}

func TestWechatClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // 立刻关掉，模拟上游不可达

	client := NewWechatClient(&config.WechatConfig{Domain: srv.URL})
	_, _, err := client.GetAccessToken(context.Background(), "any")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
