package dependencies

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/qycnet/account_hub/config"
	"github.com/qycnet/account_hub/constants"
	"github.com/qycnet/account_hub/models/enums"
)

// JWTTokenInterface 定义 JWT 工具的接口
// - 用于生成和解析 JWT 令牌，提供访问令牌和刷新令牌的相关功能
type JWTTokenInterface interface {
	// GenerateAccessToken 生成访问令牌
	// - 输入: accountID 账号ID, platform 客户端平台
	// - 输出: 访问令牌字符串和可能的错误
	GenerateAccessToken(accountID uint, platform enums.Platform) (string, error)

	// GenerateRefreshToken 生成刷新令牌
	// - 输入: accountID 账号ID, platform 客户端平台
	// - 输出: 刷新令牌字符串和可能的错误
	GenerateRefreshToken(accountID uint, platform enums.Platform) (string, error)

	// ParseAccessToken 解析并验证访问令牌
	ParseAccessToken(tokenString string) (*CustomClaims, error)

	// ParseRefreshToken 解析并验证刷新令牌
	ParseRefreshToken(tokenString string) (*CustomClaims, error)
}

// CustomClaims 定义 JWT 的声明结构体，包含标准字段和自定义字段
type CustomClaims struct {
	AccountID            uint           `json:"account_id"` // 账号ID，唯一标识用户
	Platform             enums.Platform `json:"platform"`   // 客户端平台，例如 Web 或微信小程序
	jwt.RegisteredClaims                // 嵌入 JWT v5 的标准声明字段
}

// JWTUtility 实现 JWTTokenInterface 接口的结构体
type JWTUtility struct {
	cfg *config.JWTConfig // JWT 配置，包含密钥、签发者等信息
}

// NewJWTUtility 创建 JWTUtility 实例，通过依赖注入初始化
func NewJWTUtility(cfg *config.JWTConfig) JWTTokenInterface {
	return &JWTUtility{cfg: cfg}
}

// GenerateAccessToken 生成访问令牌
func (ju *JWTUtility) GenerateAccessToken(accountID uint, platform enums.Platform) (string, error) {
	return ju.generate(accountID, platform, []byte(ju.cfg.SecretKey), constants.AccessTokenTTL)
}

// GenerateRefreshToken 生成刷新令牌
func (ju *JWTUtility) GenerateRefreshToken(accountID uint, platform enums.Platform) (string, error) {
	return ju.generate(accountID, platform, []byte(ju.cfg.RefreshSecret), constants.RefreshTokenTTL)
}

// generate 按给定密钥和有效期签发令牌，使用 HS256 签名算法。
func (ju *JWTUtility) generate(accountID uint, platform enums.Platform, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &CustomClaims{
		AccountID: accountID,
		Platform:  platform,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ju.cfg.Issuer,                    // 令牌签发者，从配置中获取
			IssuedAt:  jwt.NewNumericDate(now),          // 签发时间
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)), // 过期时间
			ID:        uuid.New().String(),              // 唯一 JTI
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("签名令牌失败: %w", err)
	}
	return signedToken, nil
}

// ParseAccessToken 解析并验证访问令牌
func (ju *JWTUtility) ParseAccessToken(tokenString string) (*CustomClaims, error) {
	return ju.parseToken(tokenString, []byte(ju.cfg.SecretKey))
}

// ParseRefreshToken 解析并验证刷新令牌
func (ju *JWTUtility) ParseRefreshToken(tokenString string) (*CustomClaims, error) {
	return ju.parseToken(tokenString, []byte(ju.cfg.RefreshSecret))
}

// parseToken 辅助函数，用于解析和验证 JWT 令牌
func (ju *JWTUtility) parseToken(tokenString string, secret []byte) (*CustomClaims, error) {
	// 创建解析器，启用 v5 的严格验证选项
	parser := jwt.NewParser(
		jwt.WithExpirationRequired(),  // 强制要求令牌包含过期时间
		jwt.WithIssuer(ju.cfg.Issuer), // 验证签发者是否匹配配置中的值
	)

	token, err := parser.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法是否为 HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("签名算法不匹配: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("令牌无效")
	}
	return claims, nil
}
