package supabase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenClaims are the claims Supabase Auth puts in user access tokens.
// We only rely on a few.
type AccessTokenClaims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"` // postgres role, e.g. "authenticated"
}

type VerifiedSession struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// VerifyAccessToken verifies a Supabase access token (JWT, HS256) with the project JWT secret.
func VerifyAccessToken(tokenString, jwtSecret, audience string, now time.Time) (*VerifiedSession, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if jwtSecret == "" {
		return nil, fmt.Errorf("missing jwt secret")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	claims := &AccessTokenClaims{}
	tok, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if audience != "" && !audContains(claims.Audience, audience) {
		return nil, fmt.Errorf("audience mismatch")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("missing subject in token")
	}

	return &VerifiedSession{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func audContains(aud []string, want string) bool {
	for _, a := range aud {
		if a == want {
			return true
		}
	}
	return false
}

// SignDevAccessToken mints a token shaped like a Supabase Auth access token.
// Only dev tooling uses it; production tokens come from Supabase.
func SignDevAccessToken(userID, email, jwtSecret, audience string, now time.Time, ttl time.Duration) (string, error) {
	if jwtSecret == "" {
		return "", fmt.Errorf("missing jwt secret")
	}
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  "authenticated",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
}
