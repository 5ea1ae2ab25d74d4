package tokens

import "github.com/golang-jwt/jwt/v5"

// AccessClaims identify the retailer by email in the subject.
type AccessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	jwt.RegisteredClaims
}
