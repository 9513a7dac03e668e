package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const (
	resetAudience = "password-reset"

	PurposePasswordReset = "cafeteria password reset"
)

// DeriveKey returns a signing key for purpose that is independent of secret
// itself, so tokens signed with it never verify as access tokens.
func DeriveKey(secret []byte, purpose string) []byte {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(purpose)), key); err != nil {
		panic("tokens: hkdf: " + err.Error())
	}
	return key
}

// PasswordStamp fingerprints a password hash. A reset token carries the stamp
// of the hash it was issued against and dies once the password changes.
func PasswordStamp(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

func NewResetToken(subject, stamp string, answered int, exp time.Time, secret []byte) (string, error) {
	return sign(ResetClaims{
		Answered: answered,
		Stamp:    stamp,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{resetAudience},
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}, secret)
}

func ResetClaimsFromToken(tokenStr string, secret []byte) (*ResetClaims, error) {
	var claims ResetClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, hmacKey(secret), jwt.WithAudience(resetAudience))
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return &claims, nil
}
