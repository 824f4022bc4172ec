package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCaptcha(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := GenerateCaptcha()
		require.Len(t, code, 4)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 1000)
		assert.LessOrEqual(t, n, 9999)
	}
}

func TestCheckWechatSignature(t *testing.T) {
	token := "callback-token"
	timestamp := "1700000000"
	nonce := "abc123"

	parts := []string{token, timestamp, nonce, ""}
	sort.Strings(parts)
	sum := sha1.Sum([]byte(strings.Join(parts, "")))
	signature := hex.EncodeToString(sum[:])

	assert.True(t, CheckWechatSignature(token, signature, timestamp, nonce, ""))
	assert.False(t, CheckWechatSignature(token, signature, timestamp, "other-nonce", ""))
	assert.False(t, CheckWechatSignature("wrong-token", signature, timestamp, nonce, ""))
}

func TestPhoneNumberRegex(t *testing.T) {
	valid := []string{"13800000000", "19912345678", "15012345678"}
	for _, p := range valid {
		assert.True(t, phoneNumberRegex.MatchString(p), p)
	}

	invalid := []string{"12345678901", "1380000000", "138000000000", "23800000000", "phone"}
	for _, p := range invalid {
		assert.False(t, phoneNumberRegex.MatchString(p), p)
	}
}

func TestParseSameSiteString(t *testing.T) {
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSiteString("lax"))
	assert.Equal(t, http.SameSiteStrictMode, ParseSameSiteString("Strict"))
	assert.Equal(t, http.SameSiteNoneMode, ParseSameSiteString("NONE"))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSiteString("garbage"))
}
