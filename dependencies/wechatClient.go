package dependencies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/qycnet/account_hub/config"
)

// WechatClient 定义了微信开放平台 OAuth 登录的客户端接口。
// - 两步交换：授权码换 access_token+openid，再换用户资料。
// - 微信以响应体中字段的有无区分成败：token 响应里没有 access_token、
//   资料响应里没有 openid 即为失败，与 HTTP 状态码无关。
type WechatClient interface {
	// GetAccessToken 使用授权码换取 access_token 和 openid。
	// - 响应缺少 access_token 字段时返回包装了 ErrProviderRejected 的错误，
	//   错误信息中带上完整响应体供日志记录。
	GetAccessToken(ctx context.Context, code string) (accessToken, openid string, err error)

	// GetUserInfo 使用 access_token 和 openid 换取用户资料快照。
	// - 响应缺少 openid 字段时视为失败。
	GetUserInfo(ctx context.Context, accessToken, openid string) (*WechatUserInfo, error)
}

// WechatUserInfo 微信用户资料快照，首登时写入绑定记录后不再更新。
type WechatUserInfo struct {
	OpenID       string `json:"openid"`
	Nickname     string `json:"nickname"`
	Sex          int    `json:"sex"`
	Province     string `json:"province"`
	City         string `json:"city"`
	Country      string `json:"country"`
	HeadImageURL string `json:"headimgurl"`
	UnionID      string `json:"unionid"`
}

// wechatClient 是 WechatClient 接口的实现。
type wechatClient struct {
	config *config.WechatConfig
	client *http.Client
}

// NewWechatClient 创建一个新的 wechatClient 实例。
// - 依赖注入微信配置，超时统一为 providerTimeout。
func NewWechatClient(config *config.WechatConfig) WechatClient {
	return &wechatClient{
		config: config,
		client: &http.Client{Timeout: providerTimeout},
	}
}

// GetAccessToken 实现接口方法，调用微信 OAuth token 端点。
func (w *wechatClient) GetAccessToken(ctx context.Context, code string) (string, string, error) {
	params := url.Values{}
	params.Set("grant_type", "authorization_code")
	params.Set("code", code)
	params.Set("appid", w.config.AppID)
	params.Set("secret", w.config.Secret)

	body, err := w.get(ctx, "/sns/oauth2/access_token", params)
	if err != nil {
		return "", "", err
	}

	var result struct {
		AccessToken string `json:"access_token"`
		OpenID      string `json:"openid"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", "", fmt.Errorf("wechatClient.GetAccessToken: 解析微信响应失败: %w", err)
	}

	// 微信错误响应里没有 access_token 字段，以此判定失败
	if result.AccessToken == "" {
		return "", "", fmt.Errorf("wechatClient.GetAccessToken: %w: %s", ErrProviderRejected, string(body))
	}
	return result.AccessToken, result.OpenID, nil
}

// GetUserInfo 实现接口方法，调用微信用户资料端点。
func (w *wechatClient) GetUserInfo(ctx context.Context, accessToken, openid string) (*WechatUserInfo, error) {
	params := url.Values{}
	params.Set("access_token", accessToken)
	params.Set("openid", openid)

	body, err := w.get(ctx, "/sns/userinfo", params)
	if err != nil {
		return nil, err
	}

	var info WechatUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("wechatClient.GetUserInfo: 解析微信响应失败: %w", err)
	}

	// 成功响应一定带 openid，缺失即为失败
	if info.OpenID == "" {
		return nil, fmt.Errorf("wechatClient.GetUserInfo: %w: %s", ErrProviderRejected, string(body))
	}
	return &info, nil
}

// get 发送 GET 请求并读出完整响应体。
// - 网络错误归类为 ErrProviderUnavailable；不检查 HTTP 状态码，
//   成败交给调用方按响应体字段判断（微信接口约定）。
func (w *wechatClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	apiURL := fmt.Sprintf("%s%s?%s", w.config.Domain, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wechatClient: 创建微信 API 请求失败: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wechatClient: %w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wechatClient: 读取微信 API 响应体失败: %w", err)
	}
	return body, nil
}
