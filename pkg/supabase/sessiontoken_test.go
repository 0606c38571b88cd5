package supabase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test_secret"

func sign(t *testing.T, claims AccessTokenClaims, secret string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestVerifyAccessToken_SubjectAndEmail(t *testing.T) {
	now := time.Unix(1700000000, 0)
	s := sign(t, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "7d0c8d36-5f43-4b8a-9f87-1f3a3f3b0c11",
			Audience:  []string{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		},
		Email: "owner@example.com",
	}, testSecret)

	got, err := VerifyAccessToken(s, testSecret, "authenticated", now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.UserID != "7d0c8d36-5f43-4b8a-9f87-1f3a3f3b0c11" || got.Email != "owner@example.com" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestVerifyAccessToken_Rejects(t *testing.T) {
	now := time.Unix(1700000000, 0)
	base := jwt.RegisteredClaims{
		Subject:   "user-1",
		Audience:  []string{"authenticated"},
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	expired := base
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))

	wrongAud := base
	wrongAud.Audience = []string{"anon"}

	noSubject := base
	noSubject.Subject = ""

	cases := map[string]string{
		"expired":   sign(t, AccessTokenClaims{RegisteredClaims: expired}, testSecret),
		"audience":  sign(t, AccessTokenClaims{RegisteredClaims: wrongAud}, testSecret),
		"subject":   sign(t, AccessTokenClaims{RegisteredClaims: noSubject}, testSecret),
		"signature": sign(t, AccessTokenClaims{RegisteredClaims: base}, "other_secret"),
		"empty":     "",
		"malformed": "not-a-jwt",
	}
	for name, tok := range cases {
		if _, err := VerifyAccessToken(tok, testSecret, "authenticated", now); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSignDevAccessToken_VerifiesBack(t *testing.T) {
	now := time.Unix(1700000000, 0)
	tok, err := SignDevAccessToken("user-1", "dev@example.com", testSecret, "authenticated", now, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	vs, err := VerifyAccessToken(tok, testSecret, "authenticated", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if vs.UserID != "user-1" || vs.Email != "dev@example.com" {
		t.Fatalf("unexpected session: %+v", vs)
	}
	if _, err := VerifyAccessToken(tok, testSecret, "authenticated", now.Add(2*time.Hour)); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}
