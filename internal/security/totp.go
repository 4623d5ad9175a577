package security

import (
	"strings"

	"github.com/pquerna/otp/totp"
)

// totpIssuer labels enrolled authenticator entries.
const totpIssuer = "BookMyTix Admin"

// GenerateTOTPSecret creates a new TOTP key for an admin account.
// It returns the base32 secret and the otpauth:// provisioning URL.
func GenerateTOTPSecret(username string) (secret string, url string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: strings.TrimSpace(username),
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// ValidateTOTP checks a six-digit code against secret.
// An account without a secret never validates.
func ValidateTOTP(secret, code string) bool {
	secret = strings.TrimSpace(secret)
	code = strings.TrimSpace(code)
	if secret == "" || code == "" {
		return false
	}
	return totp.Validate(code, secret)
}
