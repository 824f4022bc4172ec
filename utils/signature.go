package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// CheckWechatSignature 校验微信服务器回调的签名。
// - 将 token、timestamp、nonce（以及消息体密文，可为空）字典序排序后拼接，
//   与微信携带的 signature 比较 SHA1 值。
func CheckWechatSignature(token, signature, timestamp, nonce, encryptedMsg string) bool {
	parts := []string{token, timestamp, nonce, encryptedMsg}
	sort.Strings(parts)

	sum := sha1.Sum([]byte(strings.Join(parts, "")))
	return hex.EncodeToString(sum[:]) == signature
}
