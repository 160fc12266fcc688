package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testBotToken = "12345:test-token"

// signInitData builds an initData string signed the way the Telegram client
// would.
func signInitData(t *testing.T, fields map[string]string) string {
	t.Helper()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+fields[k])
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(testBotToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	hash := hex.EncodeToString(mac.Sum(nil))

	q := url.Values{}
	for k, v := range fields {
		q.Set(k, v)
	}
	q.Set("hash", hash)
	return q.Encode()
}

func TestValidateInitData(t *testing.T) {
	initData := signInitData(t, map[string]string{
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
		"user":      `{"id":100,"first_name":"Анна","last_name":"Иванова","username":"anna"}`,
	})

	user, err := ValidateInitData(initData, testBotToken)
	require.NoError(t, err)
	require.Equal(t, int64(100), user.ID)
	require.Equal(t, "Анна", user.FirstName)
	require.Equal(t, "anna", user.Username)
}

func TestValidateInitDataRejectsTampering(t *testing.T) {
	initData := signInitData(t, map[string]string{
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
		"user":      `{"id":100,"first_name":"Анна"}`,
	})
	tampered := strings.Replace(initData, "%22id%22%3A100", "%22id%22%3A999", 1)

	_, err := ValidateInitData(tampered, testBotToken)
	require.ErrorIs(t, err, ErrInvalidInitData)
}

func TestValidateInitDataRejectsWrongToken(t *testing.T) {
	initData := signInitData(t, map[string]string{
		"auth_date": fmt.Sprintf("%d", time.Now().Unix()),
		"user":      `{"id":100}`,
	})

	_, err := ValidateInitData(initData, "other:token")
	require.ErrorIs(t, err, ErrInvalidInitData)
}

func TestValidateInitDataRejectsStalePayload(t *testing.T) {
	initData := signInitData(t, map[string]string{
		"auth_date": fmt.Sprintf("%d", time.Now().Add(-48*time.Hour).Unix()),
		"user":      `{"id":100}`,
	})

	_, err := ValidateInitData(initData, testBotToken)
	require.ErrorIs(t, err, ErrExpiredInitData)
}

func TestValidateInitDataMissingHash(t *testing.T) {
	_, err := ValidateInitData("user=%7B%22id%22%3A100%7D", testBotToken)
	require.ErrorIs(t, err, ErrInvalidInitData)
}
