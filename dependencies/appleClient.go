package dependencies

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/qycnet/account_hub/config"
)

// AppleClient 定义了苹果登录的客户端接口。
type AppleClient interface {
	// Verify 用授权码到苹果 token 端点换取身份，并从 id_token 中取出用户标识。
	// - id_token 的载荷只做解码不做签名验证：该 token 经 TLS 直接来自苹果，
	//   信任链建立在传输层上（这是刻意的设计，不是疏漏）。
	// - sub 声明缺失时立即失败；email 为可选项。
	Verify(ctx context.Context, code string) (uid, email string, err error)
}

// appleClient 是 AppleClient 接口的实现。
type appleClient struct {
	config *config.AppleConfig
	client *http.Client
}

// NewAppleClient 创建一个新的 appleClient 实例。
func NewAppleClient(config *config.AppleConfig) AppleClient {
	return &appleClient{
		config: config,
		client: &http.Client{Timeout: providerTimeout},
	}
}

// clientSecret 生成请求苹果 token 端点所需的 client_secret。
// - 一个短期有效的 ES256 JWT：iss 为 Team ID，sub 为 Client ID，
//   aud 固定为苹果的受众地址，kid 头写入私钥的 Key ID。
func (a *appleClient) clientSecret() (string, error) {
	privateKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(a.config.PrivateKey))
	if err != nil {
		return "", fmt.Errorf("appleClient.clientSecret: 解析 ES256 私钥失败: %w", err)
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.config.TeamID,
		Subject:   a.config.ClientID,
		Audience:  jwt.ClaimStrings{"https://appleid.apple.com"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.config.TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = a.config.KeyID

	secret, err := token.SignedString(privateKey)
	if err != nil {
		return "", fmt.Errorf("appleClient.clientSecret: 签名 client_secret 失败: %w", err)
	}
	return secret, nil
}

// Verify 实现接口方法。
func (a *appleClient) Verify(ctx context.Context, code string) (string, string, error) {
	clientSecret, err := a.clientSecret()
	if err != nil {
		return "", "", err
	}

	form := url.Values{}
	form.Set("client_id", a.config.ClientID)
	form.Set("client_secret", clientSecret)
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.AccessTokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", fmt.Errorf("appleClient.Verify: 创建苹果 API 请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("appleClient.Verify: %w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("appleClient.Verify: 读取苹果 API 响应体失败: %w", err)
	}

	var result struct {
		IDToken string `json:"id_token"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", "", fmt.Errorf("appleClient.Verify: 解析苹果响应失败: %w", err)
	}
	// 失败响应里没有 id_token 字段
	if result.IDToken == "" {
		return "", "", fmt.Errorf("appleClient.Verify: %w: %s", ErrProviderRejected, string(body))
	}

	return a.decodeIdentityToken(result.IDToken)
}

// decodeIdentityToken 解码 id_token 载荷（不验证签名）并提取 uid 和邮箱。
func (a *appleClient) decodeIdentityToken(idToken string) (string, string, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(idToken, claims); err != nil {
		return "", "", fmt.Errorf("appleClient.decodeIdentityToken: 解码 id_token 失败: %w", err)
	}

	uid, _ := claims["sub"].(string)
	if uid == "" {
		return "", "", fmt.Errorf("appleClient.decodeIdentityToken: %w: id_token 缺少 sub 声明", ErrProviderRejected)
	}
	email, _ := claims["email"].(string)
	return uid, email, nil
}
