// Package livekit mints LiveKit-compatible room access tokens.
//
// A LiveKit access token is a standard HS256 JWT signed with the project's
// API secret: issuer = API key, subject = participant identity, plus a
// "video" claim describing the capabilities being granted. The media server
// verifies the signature itself; issuance involves no network round-trip.
// Reference: https://docs.livekit.io/home/get-started/authentication/
package livekit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/freqradio/freqradio/internal/radio"
)

// defaultTTL bounds token lifetime when the caller does not supply one.
const defaultTTL = 6 * time.Hour

// VideoGrant mirrors LiveKit's video grant claim. Only the room-join
// capability is ever set here; fields for room creation, recording, and
// publishing permissions are deliberately absent.
type VideoGrant struct {
	RoomJoin bool   `json:"roomJoin,omitempty"`
	Room     string `json:"room,omitempty"`
}

// accessClaims is the LiveKit token payload: registered claims plus the
// participant display name and the video grant.
type accessClaims struct {
	Name  string      `json:"name,omitempty"`
	Video *VideoGrant `json:"video,omitempty"`
	jwt.RegisteredClaims
}

// Issuer implements radio.TokenIssuer by signing LiveKit access tokens
// locally. The zero value is not usable; call NewIssuer.
type Issuer struct {
	now func() time.Time
}

// NewIssuer creates a token issuer using the system clock.
func NewIssuer() *Issuer {
	return &Issuer{now: time.Now}
}

// IssueJoinToken mints a signed token granting req.Identity permission to
// join exactly req.Room, and nothing else.
func (i *Issuer) IssueJoinToken(_ context.Context, req radio.JoinTokenRequest) (string, error) {
	if req.APIKey == "" || req.APISecret == "" {
		return "", errors.New("livekit: api key and secret are required")
	}
	if req.Identity == "" {
		return "", errors.New("livekit: participant identity is required")
	}
	if req.Room == "" {
		return "", errors.New("livekit: room name is required")
	}

	ttl := req.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := i.now()
	claims := &accessClaims{
		Name: req.Name,
		Video: &VideoGrant{
			RoomJoin: true,
			Room:     req.Room,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    req.APIKey,
			Subject:   req.Identity,
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(req.APISecret))
	if err != nil {
		return "", fmt.Errorf("livekit: failed to sign access token: %w", err)
	}
	return signed, nil
}
