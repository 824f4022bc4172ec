package dependencies

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/qycnet/account_hub/config"
)

// SMSClient 定义短信验证码客户端接口
// - 用于发送验证码到用户手机号，支持第三方短信服务
type SMSClient interface {
	// SendCode 发送验证码到指定手机号
	// - 输入: ctx 用于上下文控制，phone 是目标手机号，code 是生成的验证码
	// - 输出: error 表示发送是否成功，成功时返回 nil
	// - 注意: 不负责生成或存储验证码，仅处理发送逻辑
	SendCode(ctx context.Context, phone string, code string) error
}

// smsClient 实现 SMSClient 接口的结构体
type smsClient struct {
	config     *config.SMSConfig
	httpClient *http.Client
}

// NewSMSClient 创建 SMSClient 实例，通过依赖注入初始化
// - 注意: 若配置缺少必要字段，初始化失败，需在调用前校验
func NewSMSClient(config *config.SMSConfig) (SMSClient, error) {
	if config == nil || config.AppID == "" || config.Secret == "" || config.Endpoint == "" || config.TemplateID == "" {
		return nil, fmt.Errorf("SMS 配置无效，缺少必要字段")
	}

	return &smsClient{
		config:     config,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// SendCode 发送验证码到指定手机号
func (s *smsClient) SendCode(ctx context.Context, phone string, code string) error {
	// 1. 构造请求参数
	reqBody := map[string]interface{}{
		"appid":       s.config.AppID,
		"secret":      s.config.Secret,
		"template_id": s.config.TemplateID,
		"phone":       phone,
		"data": map[string]string{
			"code": code, // 模板中的验证码变量
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("构造短信请求参数失败: %w", err)
	}

	// 2. 创建并发送 HTTP 请求
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return fmt.Errorf("创建短信请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("发送短信验证码失败: %w", err)
	}
	defer resp.Body.Close()

	// 3. 检查响应结果，errcode 为 0 表示成功
	var result struct {
		ErrCode int    `json:"errcode"`
		ErrMsg  string `json:"errmsg"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("解析短信响应失败: %w", err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("短信发送失败，错误码: %d, 错误信息: %s", result.ErrCode, result.ErrMsg)
	}

	return nil
}
