package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"main/internal/config"
)

func testTokenService(secret string) *TokenService {
	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey: secret,
			Issuer:    "test-gateway",
			ExpiresIn: 1800,
		},
	}
	return NewTokenService(cfg, zap.NewNop())
}

func TestIssueAndVerify(t *testing.T) {
	ts := testTokenService("test-secret")

	token, err := ts.Issue("admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned an empty token")
	}

	subject, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if subject != "admin" {
		t.Errorf("subject = %q, want %q", subject, "admin")
	}
}

func TestIssueEmptySubject(t *testing.T) {
	ts := testTokenService("test-secret")

	if _, err := ts.Issue(""); err == nil {
		t.Fatal("Issue accepted an empty subject")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	ts := testTokenService("test-secret")

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := ts.Verify(signed); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify = %v, want ErrTokenExpired", err)
	}
}

func TestVerifyForeignToken(t *testing.T) {
	ts := testTokenService("test-secret")
	other := testTokenService("other-secret")

	token, err := other.Issue("admin")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := ts.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	ts := testTokenService("test-secret")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ts.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Verify(%q) = %v, want ErrInvalidToken", token, err)
		}
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	ts := testTokenService("test-secret")

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing failed: %v", err)
	}

	if _, err := ts.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify = %v, want ErrInvalidToken", err)
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", wantErr: true},
		{name: "missing scheme", header: "abc.def.ghi", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractToken failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStaticCredentialProvider(t *testing.T) {
	provider := NewStaticCredentialProvider()

	subject, ok := provider.Authenticate("admin", "password123")
	if !ok || subject != "admin" {
		t.Errorf("Authenticate(admin) = (%q, %v), want (admin, true)", subject, ok)
	}

	if _, ok := provider.Authenticate("admin", "wrong"); ok {
		t.Error("Authenticate accepted a wrong password")
	}
	if _, ok := provider.Authenticate("nobody", "password123"); ok {
		t.Error("Authenticate accepted an unknown user")
	}
}
