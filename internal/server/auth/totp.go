package auth

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP verification accepts the current 30s step plus one step of skew in
// either direction, matching what authenticator apps expect.
const totpSkew = 1

// GenerateTOTPKey creates a fresh random TOTP secret for accountName and
// returns it together with the otpauth:// provisioning URL clients feed to
// their authenticator app.
func GenerateTOTPKey(issuer, accountName string) (secret, provisioningURL string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: accountName,
		SecretSize:  20,
	})
	if err != nil {
		return "", "", err
	}
	return key.Secret(), key.URL(), nil
}

// VerifyTOTPCode checks a one-time code against the stored base32 secret
// with ±1 time-step tolerance. A malformed code is simply a failed match.
func VerifyTOTPCode(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
