package dependencies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/constants"
	redisrepo "github.com/qycnet/account_hub/repository/redis"
)

// WechatMPClient 定义了微信小程序服务端 API 的客户端接口。
// - 小程序系列接口以响应体里是否出现 errcode 字段区分成败。
type WechatMPClient interface {
	// GetSession 使用小程序授权码换取 openid 和 session_key。
	// - ctx: 用于控制请求的上下文，例如超时或取消。
	// - code: 小程序通过 wx.login() 获取的临时登录凭证。
	// - 响应体出现 errcode 字段时返回包装了 ErrProviderRejected 的错误。
	GetSession(ctx context.Context, code string) (openid, sessionKey string, err error)

	// GetAccessToken 获取平台级接口调用凭证。
	// - 凭证全进程共享且获取代价高，结果经 ResultCache 缓存（TTL 7000s），
	//   懒加载、过期重取，不做显式失效。
	GetAccessToken(ctx context.Context) (string, error)

	// SendSubscribeMessage 下发一条订阅消息。
	// - data 为模板变量名到取值的映射。
	SendSubscribeMessage(ctx context.Context, openid, templateID, page string, data map[string]string) error
}

// wechatMPClient 是 WechatMPClient 接口的实现。
type wechatMPClient struct {
	config     *config.WechatConfig
	client     *http.Client
	tokenCache redisrepo.ResultCache
}

// mpErrResponse 小程序接口的通用错误字段。
type mpErrResponse struct {
	ErrCode *int   `json:"errcode"` // 指针类型区分“字段缺失”和“errcode=0”
	ErrMsg  string `json:"errmsg"`
}

// NewWechatMPClient 创建一个新的 wechatMPClient 实例。
func NewWechatMPClient(config *config.WechatConfig, tokenCache redisrepo.ResultCache) WechatMPClient {
	return &wechatMPClient{
		config:     config,
		client:     &http.Client{Timeout: providerTimeout},
		tokenCache: tokenCache,
	}
}

// GetSession 实现接口方法，调用 jscode2session。
func (w *wechatMPClient) GetSession(ctx context.Context, code string) (string, string, error) {
	params := url.Values{}
	params.Set("grant_type", "authorization_code")
	params.Set("js_code", code)
	params.Set("appid", w.config.AppID)
	params.Set("secret", w.config.Secret)

	body, err := w.get(ctx, "/sns/jscode2session", params)
	if err != nil {
		return "", "", err
	}

	// 出现 errcode 字段即为失败（成功响应不带该字段）
	var errResp mpErrResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return "", "", fmt.Errorf("wechatMPClient.GetSession: 解析微信响应失败: %w", err)
	}
	if errResp.ErrCode != nil {
		return "", "", fmt.Errorf("wechatMPClient.GetSession: %w: %s", ErrProviderRejected, string(body))
	}

	var result struct {
		OpenID     string `json:"openid"`
		SessionKey string `json:"session_key"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", "", fmt.Errorf("wechatMPClient.GetSession: 解析微信响应失败: %w", err)
	}
	return result.OpenID, result.SessionKey, nil
}

// GetAccessToken 实现接口方法，经缓存获取平台级接口调用凭证。
func (w *wechatMPClient) GetAccessToken(ctx context.Context) (string, error) {
	return w.tokenCache.GetOrCompute(ctx, constants.CacheKeyWechatMPToken, constants.WechatMPTokenTTL, w.fetchAccessToken, nil)
}

// fetchAccessToken 真正去微信获取接口调用凭证，失败时返回错误不进缓存。
func (w *wechatMPClient) fetchAccessToken(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("grant_type", "client_credential")
	params.Set("appid", w.config.AppID)
	params.Set("secret", w.config.Secret)

	body, err := w.get(ctx, "/cgi-bin/token", params)
	if err != nil {
		return "", err
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ErrCode     *int   `json:"errcode"`
		ErrMsg      string `json:"errmsg"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("wechatMPClient.fetchAccessToken: 解析微信响应失败: %w", err)
	}
	if result.ErrCode != nil || result.AccessToken == "" {
		return "", fmt.Errorf("wechatMPClient.fetchAccessToken: %w: %s", ErrProviderRejected, string(body))
	}
	return result.AccessToken, nil
}

// miniProgramState 按运行环境决定订阅消息下发的小程序版本。
func (w *wechatMPClient) miniProgramState() string {
	if w.config.Environment == "prod" {
		return "formal"
	}
	return "developer"
}

// SendSubscribeMessage 实现接口方法，下发订阅消息。
func (w *wechatMPClient) SendSubscribeMessage(ctx context.Context, openid, templateID, page string, data map[string]string) error {
	accessToken, err := w.GetAccessToken(ctx)
	if err != nil {
		return err
	}

	wrapped := make(map[string]map[string]string, len(data))
	for k, v := range data {
		wrapped[k] = map[string]string{"value": v}
	}
	reqBody := map[string]interface{}{
		"template_id":       templateID,
		"touser":            openid,
		"data":              wrapped,
		"miniprogram_state": w.miniProgramState(),
		"lang":              "zh_CN",
	}
	if page != "" {
		reqBody["page"] = page
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("wechatMPClient.SendSubscribeMessage: 构造请求体失败: %w", err)
	}

	apiURL := fmt.Sprintf("%s/cgi-bin/message/subscribe/send?access_token=%s", w.config.Domain, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("wechatMPClient.SendSubscribeMessage: 创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("wechatMPClient.SendSubscribeMessage: %w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("wechatMPClient.SendSubscribeMessage: 读取响应体失败: %w", err)
	}

	var errResp mpErrResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return fmt.Errorf("wechatMPClient.SendSubscribeMessage: 解析响应失败: %w", err)
	}
	if errResp.ErrCode != nil && *errResp.ErrCode != 0 {
		return fmt.Errorf("wechatMPClient.SendSubscribeMessage: %w: %s", ErrProviderRejected, string(body))
	}
	return nil
}

// get 发送 GET 请求并读出完整响应体，网络错误归类为 ErrProviderUnavailable。
func (w *wechatMPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	apiURL := fmt.Sprintf("%s%s?%s", w.config.Domain, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("wechatMPClient: 创建微信 API 请求失败: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wechatMPClient: %w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wechatMPClient: 读取微信 API 响应体失败: %w", err)
	}
	return body, nil
}
