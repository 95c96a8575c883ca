// Package auth issues and resolves opaque bearer tokens backed by Redis.
package auth

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stockwise/stockwise/internal/shared"
)

const (
	accessKeyPrefix  = "auth:access:"
	refreshKeyPrefix = "auth:refresh:"
	userTokensPrefix = "auth:user:"
)

// TokenPair is one issued access/refresh token set.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenStore keeps issued tokens in Redis so logout revokes instantly and a
// restart invalidates nothing that has not expired.
type TokenStore struct {
	client     *redis.Client
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, accessTTL, refreshTTL time.Duration) *TokenStore {
	return &TokenStore{client: client, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue creates a new token pair for the user. Both tokens are tracked on a
// per-user set so RevokeAll can cut every session at once.
func (s *TokenStore) Issue(ctx context.Context, userID int64, role shared.Role) (TokenPair, error) {
	access := uuid.NewString()
	refresh := uuid.NewString()
	value := fmt.Sprintf("%d|%s", userID, role)
	userKey := userTokensPrefix + strconv.FormatInt(userID, 10)

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, accessKeyPrefix+access, value, s.accessTTL)
	pipe.Set(ctx, refreshKeyPrefix+refresh, value, s.refreshTTL)
	pipe.SAdd(ctx, userKey, access, refresh)
	pipe.Expire(ctx, userKey, s.refreshTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return TokenPair{}, fmt.Errorf("auth: issue tokens: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

// ResolveAccess maps an access token back to its actor.
func (s *TokenStore) ResolveAccess(ctx context.Context, token string) (*shared.Actor, error) {
	value, err := s.client.Get(ctx, accessKeyPrefix+token).Result()
	if err == redis.Nil {
		return nil, shared.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("auth: resolve token: %w", err)
	}
	return parseActor(value)
}

// Rotate consumes a refresh token and issues a fresh pair. The old refresh
// token is gone whether or not issuing succeeds, so a stolen token can be
// replayed at most once.
func (s *TokenStore) Rotate(ctx context.Context, refreshToken string) (TokenPair, error) {
	value, err := s.client.GetDel(ctx, refreshKeyPrefix+refreshToken).Result()
	if err == redis.Nil {
		return TokenPair{}, shared.ErrUnauthorized
	}
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: rotate token: %w", err)
	}
	actor, err := parseActor(value)
	if err != nil {
		return TokenPair{}, err
	}
	return s.Issue(ctx, actor.UserID, actor.Role)
}

// Revoke deletes the given tokens. Unknown tokens are ignored.
func (s *TokenStore) Revoke(ctx context.Context, accessToken, refreshToken string) error {
	keys := make([]string, 0, 2)
	if accessToken != "" {
		keys = append(keys, accessKeyPrefix+accessToken)
	}
	if refreshToken != "" {
		keys = append(keys, refreshKeyPrefix+refreshToken)
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// RevokeAll deletes every token issued to the user.
func (s *TokenStore) RevokeAll(ctx context.Context, userID int64) error {
	userKey := userTokensPrefix + strconv.FormatInt(userID, 10)
	tokens, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(tokens)*2+1)
	for _, token := range tokens {
		keys = append(keys, accessKeyPrefix+token, refreshKeyPrefix+token)
	}
	keys = append(keys, userKey)
	return s.client.Del(ctx, keys...).Err()
}

func parseActor(value string) (*shared.Actor, error) {
	parts := strings.SplitN(value, "|", 2)
	if len(parts) != 2 {
		return nil, shared.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	role := shared.Role(parts[1])
	if !role.IsValid() {
		return nil, shared.ErrUnauthorized
	}
	return &shared.Actor{UserID: userID, Role: role}, nil
}
