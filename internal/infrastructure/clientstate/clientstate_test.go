package clientstate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Supermercado-api/internal/application/session"
)

type backend interface {
	ForClient(clientID string) session.LocalState
}

func newRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewRedis(rdb, "test", time.Hour), mr
}

func TestLocalState_Contrato(t *testing.T) {
	r, _ := newRedis(t)
	for name, b := range map[string]backend{"redis": r, "memory": NewMemory()} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			a := b.ForClient("a")
			other := b.ForClient("b")

			_, ok, err := a.Get(ctx, session.KeyToken)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, a.Set(ctx, session.KeyToken, "tok"))
			require.NoError(t, a.Set(ctx, session.KeyUser, `{"user_id":1}`))
			v, ok, err := a.Get(ctx, session.KeyToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "tok", v)

			_, ok, _ = other.Get(ctx, session.KeyToken)
			assert.False(t, ok, "los clientes no comparten estado")

			require.NoError(t, a.Delete(ctx, session.AllKeys()...))
			_, ok, _ = a.Get(ctx, session.KeyUser)
			assert.False(t, ok)
			require.NoError(t, a.Delete(ctx))
		})
	}
}

func TestRedis_ClavesConPrefijoYTTL(t *testing.T) {
	r, mr := newRedis(t)
	require.NoError(t, r.Ping(context.Background()))
	require.NoError(t, r.ForClient("c1").Set(context.Background(), session.KeyPermissions, "[]"))

	assert.True(t, mr.Exists("test:c1:permissions"))
	assert.Equal(t, time.Hour, mr.TTL("test:c1:permissions"))

	mr.FastForward(2 * time.Hour)
	_, ok, err := r.ForClient("c1").Get(context.Background(), session.KeyPermissions)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_ErrorDeConexion(t *testing.T) {
	r, mr := newRedis(t)
	mr.Close()
	_, _, err := r.ForClient("c1").Get(context.Background(), session.KeyToken)
	assert.Error(t, err)
}
