package tokens

import "github.com/golang-jwt/jwt/v5"

const (
	RoleUser    = "user"
	RoleManager = "manager"
)

type AccessClaims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// ResetClaims back the password reset flow: Answered counts the security
// questions already answered correctly.
type ResetClaims struct {
	Answered int    `json:"answered"`
	Stamp    string `json:"stamp"`
	jwt.RegisteredClaims
}
