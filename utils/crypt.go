package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrDecryptionFailed 小程序手机号载荷解密失败。
// - 密文损坏、填充非法、水印不匹配都归一到这一个错误；
//   调用方记录细节日志后对客户端只表现为认证失败。
var ErrDecryptionFailed = errors.New("解密失败")

// PhonePayload 解密后的手机号载荷。
// - watermark.appid 必须与本服务配置的小程序 AppID 一致，防止跨应用重放。
type PhonePayload struct {
	PhoneNumber     string `json:"phoneNumber"`
	PurePhoneNumber string `json:"purePhoneNumber"`
	CountryCode     string `json:"countryCode"`
	Watermark       struct {
		AppID     string `json:"appid"`
		Timestamp int64  `json:"timestamp"`
	} `json:"watermark"`
}

// Crypt 微信小程序加密数据解密器。
// - 以登录会话的 session_key 作为 AES-CBC 密钥，iv 由前端随加密数据一同上报。
type Crypt struct {
	appID      string
	sessionKey string
}

// NewCrypt 创建解密器，appID 用于校验载荷水印。
func NewCrypt(appID, sessionKey string) *Crypt {
	return &Crypt{appID: appID, sessionKey: sessionKey}
}

// Decrypt 解密加密数据并校验水印。
// - encryptedData/iv/sessionKey 均为 base64 编码。
// - 任何一步失败都返回包装了 ErrDecryptionFailed 的错误，细节只进日志。
func (c *Crypt) Decrypt(encryptedData, iv string) (*PhonePayload, error) {
	key, err := base64.StdEncoding.DecodeString(c.sessionKey)
	if err != nil {
		return nil, fmt.Errorf("%w: session_key 解码失败: %v", ErrDecryptionFailed, err)
	}
	data, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypted_data 解码失败: %v", ErrDecryptionFailed, err)
	}
	ivBytes, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return nil, fmt.Errorf("%w: iv 解码失败: %v", ErrDecryptionFailed, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: 初始化 AES 失败: %v", ErrDecryptionFailed, err)
	}
	if len(ivBytes) != block.BlockSize() || len(data) == 0 || len(data)%block.BlockSize() != 0 {
		return nil, fmt.Errorf("%w: 密文或 iv 长度非法", ErrDecryptionFailed)
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, ivBytes).CryptBlocks(plain, data)

	plain, err = pkcs7Unpad(plain, block.BlockSize())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	var payload PhonePayload
	if err := json.Unmarshal(plain, &payload); err != nil {
		return nil, fmt.Errorf("%w: 载荷不是合法 JSON: %v", ErrDecryptionFailed, err)
	}

	if payload.Watermark.AppID != c.appID {
		return nil, fmt.Errorf("%w: 水印 appid 不匹配", ErrDecryptionFailed)
	}
	return &payload, nil
}

// pkcs7Unpad 去除 PKCS7 填充。
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("空明文")
	}
	padding := int(data[len(data)-1])
	if padding <= 0 || padding > blockSize || padding > len(data) {
		return nil, errors.New("非法填充")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("非法填充")
		}
	}
	return data[:len(data)-padding], nil
}
