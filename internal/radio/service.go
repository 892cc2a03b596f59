// service.go implements the token issuance workflow and the admin join-log
// listing over narrow collaborator interfaces so both can be tested without a
// database or real signing credentials.
package radio

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/freqradio/freqradio/internal/config"
	"github.com/freqradio/freqradio/internal/db/models"
	"github.com/freqradio/freqradio/internal/telemetry"
)

// JoinTokenRequest carries everything the token issuer needs to mint a grant
// for one identity joining one room. The grant is join-only: no room
// creation, no recording, no other rooms.
type JoinTokenRequest struct {
	APIKey    string
	APISecret string
	Identity  string
	Name      string
	Room      string
	TTL       time.Duration
}

// TokenIssuer mints signed room access tokens. Implementations must be safe
// for concurrent use. Errors are upstream-class: the workflow never retries.
type TokenIssuer interface {
	IssueJoinToken(ctx context.Context, req JoinTokenRequest) (string, error)
}

// JoinLogStore is the persistence boundary for the join-audit log.
type JoinLogStore interface {
	Create(ctx context.Context, entry *models.RoomJoinLog) error
	List(ctx context.Context, limit, offset int) ([]*models.RoomJoinLogWithUser, int, error)
}

// AccessGrant is the result of a successful token issuance: an opaque signed
// token plus the room it authorizes. Ephemeral; never persisted.
type AccessGrant struct {
	Token string
	Room  string
}

// Service runs the radio workflows.
type Service struct {
	creds  config.CredentialProvider
	issuer TokenIssuer
	logs   JoinLogStore
}

// NewService creates a radio Service.
func NewService(creds config.CredentialProvider, issuer TokenIssuer, logs JoinLogStore) *Service {
	return &Service{creds: creds, issuer: issuer, logs: logs}
}

// IssueToken validates rawFrequency, derives the room name, requests a signed
// grant for user, and appends one join-log row. The audit write happens only
// after the grant succeeds, and a failed write fails the whole request: the
// caller never receives a token whose join was not logged.
//
// rawFrequency is the raw JSON value of the request's "frequency" field
// (string or number).
func (s *Service) IssueToken(ctx context.Context, user *models.User, rawFrequency []byte) (*AccessGrant, error) {
	if user == nil {
		return nil, ErrUnauthenticated
	}

	freq, err := ParseFrequencyJSON(rawFrequency)
	if err != nil {
		telemetry.TokenIssueFailuresTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	apiKey, apiSecret, ttl := s.creds.LiveKitCredentials()
	if apiKey == "" || apiSecret == "" {
		telemetry.TokenIssueFailuresTotal.WithLabelValues("credentials_unset").Inc()
		return nil, ErrCredentialsUnset
	}

	room := freq.RoomName()

	token, err := s.issuer.IssueJoinToken(ctx, JoinTokenRequest{
		APIKey:    apiKey,
		APISecret: apiSecret,
		Identity:  strconv.FormatInt(user.ID, 10),
		Name:      user.Username,
		Room:      room,
		TTL:       ttl,
	})
	if err != nil {
		telemetry.TokenIssueFailuresTotal.WithLabelValues("upstream").Inc()
		slog.Warn("token issuer rejected grant request", "room", room, "error", err)
		return nil, &UpstreamError{Err: err}
	}

	entry := &models.RoomJoinLog{
		UserID:    user.ID,
		Frequency: freq.String(),
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		telemetry.TokenIssueFailuresTotal.WithLabelValues("persistence").Inc()
		slog.Error("failed to record room join", "room", room, "user_id", user.ID, "error", err)
		return nil, &PersistenceError{Err: err}
	}

	telemetry.RoomTokensIssuedTotal.Inc()
	slog.Info("room token issued", "room", room, "user_id", user.ID)

	return &AccessGrant{Token: token, Room: room}, nil
}

// ListJoinLog returns one page of the join-audit log, newest first, for an
// administrator. Non-admin callers get ErrForbidden. page is 1-based.
func (s *Service) ListJoinLog(ctx context.Context, user *models.User, page, pageSize int) ([]*models.RoomJoinLogWithUser, int, error) {
	if user == nil {
		return nil, 0, ErrUnauthenticated
	}
	if !user.IsAdmin {
		return nil, 0, ErrForbidden
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	entries, total, err := s.logs.List(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, &PersistenceError{Err: err}
	}
	return entries, total, nil
}

// Pagination bounds for the join-log listing.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
