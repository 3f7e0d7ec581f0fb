package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/jhoicas/panel-api/internal/application/auth"
	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/pkg/config"
)

var _ auth.SessionRegistry = (*SessionRegistry)(nil)

const (
	sessionPrefix  = "session:"
	identityPrefix = "identity:"
)

// NewClient crea el cliente y espera a que Redis responda (reintentos solo en el arranque).
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := retry.Do(ctx, retry.WithMaxRetries(5, retry.NewExponential(300*time.Millisecond)), func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Addr).Msg("ping redis")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// SessionRegistry sesiones activas en Redis.
//
//	session:{sid}               hash user_id/role con el TTL del token
//	identity:{uid}:sessions     set con los sid de la identidad
type SessionRegistry struct {
	client redis.UniversalClient
}

func NewSessionRegistry(client redis.UniversalClient) *SessionRegistry {
	return &SessionRegistry{client: client}
}

func sessionKey(sid string) string  { return sessionPrefix + sid }
func identityKey(uid string) string { return identityPrefix + uid + ":sessions" }

// Register guarda la sesión; el set de la identidad se extiende hasta el TTL de la sesión más reciente.
func (r *SessionRegistry) Register(ctx context.Context, s entity.Session, ttl time.Duration) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, sessionKey(s.ID), "user_id", s.UserID, "role", s.Role, "created_at", s.CreatedAt.Unix())
	pipe.Expire(ctx, sessionKey(s.ID), ttl)
	pipe.SAdd(ctx, identityKey(s.UserID), s.ID)
	pipe.Expire(ctx, identityKey(s.UserID), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

func (r *SessionRegistry) IsActive(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("session exists: %w", err)
	}
	return n == 1, nil
}

func (r *SessionRegistry) Revoke(ctx context.Context, sessionID string) error {
	uid, err := r.client.HGet(ctx, sessionKey(sessionID), "user_id").Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	if uid != "" {
		pipe.SRem(ctx, identityKey(uid), sessionID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (r *SessionRegistry) RevokeAll(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, identityKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, identityKey(userID))
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return nil, fmt.Errorf("revoke sessions: %w", err)
	}
	return ids, nil
}
