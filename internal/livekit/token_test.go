package livekit

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/freqradio/freqradio/internal/radio"
)

func fixedClockIssuer(at time.Time) *Issuer {
	return &Issuer{now: func() time.Time { return at }}
}

func parseToken(t *testing.T, signed, secret string) *accessClaims {
	t.Helper()
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Fatalf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if !token.Valid {
		t.Fatal("expected valid token")
	}
	return claims
}

func TestIssueJoinToken_Claims(t *testing.T) {
	at := time.Now().Truncate(time.Second)
	issuer := fixedClockIssuer(at)

	signed, err := issuer.IssueJoinToken(context.Background(), radio.JoinTokenRequest{
		APIKey:    "lk-key",
		APISecret: "lk-secret",
		Identity:  "42",
		Name:      "alice",
		Room:      "freq-101.10",
		TTL:       time.Hour,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := parseToken(t, signed, "lk-secret")
	if claims.Issuer != "lk-key" {
		t.Errorf("iss = %s, want lk-key", claims.Issuer)
	}
	if claims.Subject != "42" {
		t.Errorf("sub = %s, want 42", claims.Subject)
	}
	if claims.Name != "alice" {
		t.Errorf("name = %s, want alice", claims.Name)
	}
	if claims.Video == nil {
		t.Fatal("expected video grant")
	}
	if !claims.Video.RoomJoin {
		t.Error("expected roomJoin grant")
	}
	if claims.Video.Room != "freq-101.10" {
		t.Errorf("video.room = %s, want freq-101.10", claims.Video.Room)
	}
	if got := claims.ExpiresAt.Time; !got.Equal(at.Add(time.Hour)) {
		t.Errorf("exp = %v, want %v", got, at.Add(time.Hour))
	}
	if got := claims.NotBefore.Time; !got.Equal(at) {
		t.Errorf("nbf = %v, want %v", got, at)
	}
}

func TestIssueJoinToken_DefaultTTL(t *testing.T) {
	at := time.Now().Truncate(time.Second)
	issuer := fixedClockIssuer(at)

	signed, err := issuer.IssueJoinToken(context.Background(), radio.JoinTokenRequest{
		APIKey:    "lk-key",
		APISecret: "lk-secret",
		Identity:  "42",
		Room:      "freq-0.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := parseToken(t, signed, "lk-secret")
	if got := claims.ExpiresAt.Time; !got.Equal(at.Add(defaultTTL)) {
		t.Errorf("exp = %v, want %v", got, at.Add(defaultTTL))
	}
}

func TestIssueJoinToken_WrongSecretFailsVerification(t *testing.T) {
	issuer := NewIssuer()
	signed, err := issuer.IssueJoinToken(context.Background(), radio.JoinTokenRequest{
		APIKey:    "lk-key",
		APISecret: "lk-secret",
		Identity:  "42",
		Room:      "freq-0.00",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims := &accessClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	if err == nil {
		t.Error("expected verification failure with wrong secret")
	}
}

func TestIssueJoinToken_MissingInputs(t *testing.T) {
	issuer := NewIssuer()
	base := radio.JoinTokenRequest{
		APIKey:    "lk-key",
		APISecret: "lk-secret",
		Identity:  "42",
		Room:      "freq-0.00",
	}

	tests := []struct {
		name   string
		mutate func(*radio.JoinTokenRequest)
	}{
		{"no api key", func(r *radio.JoinTokenRequest) { r.APIKey = "" }},
		{"no api secret", func(r *radio.JoinTokenRequest) { r.APISecret = "" }},
		{"no identity", func(r *radio.JoinTokenRequest) { r.Identity = "" }},
		{"no room", func(r *radio.JoinTokenRequest) { r.Room = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			if _, err := issuer.IssueJoinToken(context.Background(), req); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
