package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestNewGenerator verifies that the generator keeps its configuration.
func TestNewGenerator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		secret     string
		expiration time.Duration
	}{
		{"standard config", "my-secret-key", time.Hour},
		{"long expiration", "secret", 24 * time.Hour * 30},
		{"short expiration", "s", time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen, ok := NewGenerator(tt.secret, tt.expiration).(*generator)
			if !ok || gen == nil {
				t.Fatal("expected *generator")
			}
			if string(gen.secret) != tt.secret {
				t.Errorf("expected secret %q, got %q", tt.secret, string(gen.secret))
			}
			if gen.expiration != tt.expiration {
				t.Errorf("expected expiration %v, got %v", tt.expiration, gen.expiration)
			}
		})
	}
}

// TestGenerator_GenerateToken verifies that the token is valid and carries the expected claims.
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		username   string
		roles      []string
		expiration time.Duration
	}{
		{"plain user", "ram", []string{"USER"}, time.Hour},
		{"admin", "alice", []string{"ADMIN", "USER"}, time.Hour},
		{"long lived", "shyam", []string{"USER"}, 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret", tt.expiration)
			tokenStr, err := gen.GenerateToken(tt.username, tt.roles)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
				return []byte("test-secret"), nil
			})
			if err != nil {
				t.Fatalf("failed to parse token: %v", err)
			}
			if !token.Valid {
				t.Error("expected token to be valid")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				t.Fatal("expected MapClaims")
			}
			if sub, _ := claims.GetSubject(); sub != tt.username {
				t.Errorf("expected sub %q, got %v", tt.username, claims["sub"])
			}
			roles, ok := claims["roles"].([]interface{})
			if !ok || len(roles) != len(tt.roles) {
				t.Fatalf("expected roles %v, got %v", tt.roles, claims["roles"])
			}
			for i, r := range roles {
				if r != tt.roles[i] {
					t.Errorf("expected role %q at %d, got %v", tt.roles[i], i, r)
				}
			}
			if _, ok := claims["exp"]; !ok {
				t.Error("expected exp claim to be set")
			}
			if _, ok := claims["iat"]; !ok {
				t.Error("expected iat claim to be set")
			}
		})
	}
}

// TestGenerator_GenerateToken_Expiration checks exp and iat against a fixed clock.
func TestGenerator_GenerateToken_Expiration(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	gen := &generator{secret: []byte("test-secret"), expiration: 2 * time.Hour, now: func() time.Time { return fixed }}

	tokenStr, err := gen.GenerateToken("ram", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	claims := token.Claims.(jwt.MapClaims)
	if exp := int64(claims["exp"].(float64)); exp != fixed.Add(2*time.Hour).Unix() {
		t.Errorf("unexpected exp %d", exp)
	}
	if iat := int64(claims["iat"].(float64)); iat != fixed.Unix() {
		t.Errorf("unexpected iat %d", iat)
	}
}

// TestGenerator_DifferentUsersProduceDifferentTokens verifies the subject is part of the signature input.
func TestGenerator_DifferentUsersProduceDifferentTokens(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret", time.Hour)

	token1, _ := gen.GenerateToken("ram", []string{"USER"})
	token2, _ := gen.GenerateToken("shyam", []string{"USER"})

	if token1 == token2 {
		t.Error("expected different tokens for different users")
	}
}
