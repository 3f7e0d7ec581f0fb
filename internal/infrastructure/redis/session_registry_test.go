package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/panel-api/internal/domain/entity"
	"github.com/jhoicas/panel-api/internal/infrastructure/redis"
	"github.com/jhoicas/panel-api/pkg/config"
)

func setup(t *testing.T) (*miniredis.Miniredis, *redis.SessionRegistry) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, redis.NewSessionRegistry(client)
}

func session(id, uid string) entity.Session {
	return entity.Session{ID: id, UserID: uid, Role: entity.RoleStaff, CreatedAt: time.Now()}
}

func TestSessionRegistry_RegistrarYConsultar(t *testing.T) {
	ctx := context.Background()
	_, reg := setup(t)

	require.NoError(t, reg.Register(ctx, session("s1", "u1"), time.Hour))

	ok, err := reg.IsActive(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = reg.IsActive(ctx, "otra")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRegistry_ExpiraConElTTL(t *testing.T) {
	ctx := context.Background()
	mr, reg := setup(t)

	require.NoError(t, reg.Register(ctx, session("s1", "u1"), time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := reg.IsActive(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRegistry_RevokeSoloEsteDispositivo(t *testing.T) {
	ctx := context.Background()
	_, reg := setup(t)
	require.NoError(t, reg.Register(ctx, session("s1", "u1"), time.Hour))
	require.NoError(t, reg.Register(ctx, session("s2", "u1"), time.Hour))

	require.NoError(t, reg.Revoke(ctx, "s1"))

	ok, _ := reg.IsActive(ctx, "s1")
	assert.False(t, ok)
	ok, _ = reg.IsActive(ctx, "s2")
	assert.True(t, ok)

	ids, err := reg.RevokeAll(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids)
}

func TestSessionRegistry_RevokeAllGlobal(t *testing.T) {
	ctx := context.Background()
	_, reg := setup(t)
	require.NoError(t, reg.Register(ctx, session("s1", "u1"), time.Hour))
	require.NoError(t, reg.Register(ctx, session("s2", "u1"), time.Hour))
	require.NoError(t, reg.Register(ctx, session("s3", "u2"), time.Hour))

	ids, err := reg.RevokeAll(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids)

	for _, sid := range []string{"s1", "s2"} {
		ok, _ := reg.IsActive(ctx, sid)
		assert.False(t, ok, sid)
	}
	ok, _ := reg.IsActive(ctx, "s3")
	assert.True(t, ok)
}

func TestSessionRegistry_RevokeInexistenteNoFalla(t *testing.T) {
	_, reg := setup(t)
	assert.NoError(t, reg.Revoke(context.Background(), "nada"))
}

func TestNewClient_ConectaConMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zerolog.Nop())
	require.NoError(t, err)
	_ = client.Close()
}
