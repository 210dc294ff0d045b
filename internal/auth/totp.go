package auth

import (
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

// OTPIssuer generates and verifies the parent second-factor code.
// The secret is a single shared base32 value, so the code is effectively a
// global 6-digit number rotating every 30 seconds rather than a per-account
// secret. Known weakness, kept for compatibility; the secret is configurable.
type OTPIssuer struct {
	secret string
}

func NewOTPIssuer(secret string) *OTPIssuer {
	return &OTPIssuer{secret: strings.ToUpper(secret)}
}

// Code returns the current 6-digit code for the 30-second window
func (o *OTPIssuer) Code() (string, error) {
	return totp.GenerateCode(o.secret, time.Now())
}

// Verify checks a submitted code against the current window
func (o *OTPIssuer) Verify(code string) bool {
	return totp.Validate(code, o.secret)
}
