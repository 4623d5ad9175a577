package security

import (
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("secret", 42, "root", time.Hour)
	require.NoError(t, err)

	claims, err := ParseAdminToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.AdminID)
	assert.Equal(t, "root", claims.Username)
}

func TestParseAdminTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("secret", 1, "root", time.Hour)
	require.NoError(t, err)

	_, err = ParseAdminToken("other", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAdminTokenExpired(t *testing.T) {
	token, err := GenerateAdminToken("secret", 1, "root", -time.Minute)
	require.NoError(t, err)

	_, err = ParseAdminToken("secret", token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGenerateAdminTokenEmptySecret(t *testing.T) {
	_, err := GenerateAdminToken("", 1, "root", time.Hour)
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("", "hunter2"))

	_, errEmpty := HashPassword("")
	assert.ErrorIs(t, errEmpty, ErrEmptyPassword)
}

func TestTOTP(t *testing.T) {
	secret, url, err := GenerateTOTPSecret("root")
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Contains(t, url, "otpauth://totp/")

	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	assert.True(t, ValidateTOTP(secret, code))
	assert.False(t, ValidateTOTP(secret, "000000x"))
	assert.False(t, ValidateTOTP("", code))
}

func TestGenerateRandomString(t *testing.T) {
	for _, length := range []int{1, 7, 16} {
		value, err := GenerateRandomString(length)
		require.NoError(t, err)
		assert.Len(t, value, length)
	}
	_, err := GenerateRandomString(0)
	assert.Error(t, err)
}
