package dependencies

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qycnet/account_hub/config"
)

func newAppleTestConfig(t *testing.T, tokenURL string) *config.AppleConfig {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der})

	return &config.AppleConfig{
		TeamID:         "TEAM123456",
		ClientID:       "net.qycnet.account-hub",
		KeyID:          "KEY1234567",
		PrivateKey:     string(keyPEM),
		TokenTTL:       5 * time.Minute,
		AccessTokenURL: tokenURL,
	}
}

// newIdentityToken 构造一个 id_token 测试载荷。签名随意即可，客户端只解码不验签。
func newIdentityToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-apples-key"))
	require.NoError(t, err)
	return token
}

func TestAppleClient_Verify(t *testing.T) {
	idToken := newIdentityToken(t, jwt.MapClaims{
		"sub":   "001234.abcdef.1234",
		"email": "user@privaterelay.appleid.com",
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "auth-code-1", r.PostForm.Get("code"))
		assert.Equal(t, "net.qycnet.account-hub", r.PostForm.Get("client_id"))

		// client_secret 是一个以 Team ID 为 iss、带 kid 头的 ES256 JWT
		secret := r.PostForm.Get("client_secret")
		secretClaims := jwt.MapClaims{}
		parsed, _, err := jwt.NewParser().ParseUnverified(secret, secretClaims)
		require.NoError(t, err)
		assert.Equal(t, "ES256", parsed.Header["alg"])
		assert.Equal(t, "KEY1234567", parsed.Header["kid"])
		assert.Equal(t, "TEAM123456", secretClaims["iss"])
		assert.Equal(t, "net.qycnet.account-hub", secretClaims["sub"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","id_token":"` + idToken + `"}`))
	}))
	defer srv.Close()

	client := NewAppleClient(newAppleTestConfig(t, srv.URL))
	uid, email, err := client.Verify(context.Background(), "auth-code-1")
	require.NoError(t, err)
	assert.Equal(t, "001234.abcdef.1234", uid)
	assert.Equal(t, "user@privaterelay.appleid.com", email)
}

func TestAppleClient_Verify_IgnoresSignature(t *testing.T) {
	// 身份提取只看解码后的声明。把签名段整个换掉，提取结果不受影响。
	idToken := newIdentityToken(t, jwt.MapClaims{"sub": "001234.ffff.5678"})
	parts := strings.Split(idToken, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAAAAAA"

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id_token":"` + tampered + `"}`))
	}))
	defer srv.Close()

	client := NewAppleClient(newAppleTestConfig(t, srv.URL))
	uid, email, err := client.Verify(context.Background(), "auth-code-2")
	require.NoError(t, err)
	assert.Equal(t, "001234.ffff.5678", uid)
	assert.Empty(t, email)
}

func TestAppleClient_Verify_MissingSub(t *testing.T) {
	idToken := newIdentityToken(t, jwt.MapClaims{"email": "user@example.com"})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id_token":"` + idToken + `"}`))
	}))
	defer srv.Close()

	client := NewAppleClient(newAppleTestConfig(t, srv.URL))
	_, _, err := client.Verify(context.Background(), "auth-code-3")
	assert.ErrorIs(t, err, ErrProviderRejected)
}

func TestAppleClient_Verify_CodeRejected(t *testing.T) {
	// 苹果的失败响应不带 id_token 字段
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	client := NewAppleClient(newAppleTestConfig(t, srv.URL))
	_, _, err := client.Verify(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrProviderRejected)
}
