package portal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Supermercado-api/internal/infrastructure/clientstate"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

func TestRegistry_MismoClienteMismaSesion(t *testing.T) {
	reg := NewRegistry(&fakeAPI{}, clientstate.NewMemory(), logger.Nop())
	a := reg.Get(context.Background(), "a")
	assert.Same(t, a, reg.Get(context.Background(), "a"))
	assert.NotSame(t, a, reg.Get(context.Background(), "b"))
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_SweepSoloInactivos(t *testing.T) {
	reg := NewRegistry(&fakeAPI{}, clientstate.NewMemory(), logger.Nop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }
	reg.Get(context.Background(), "viejo")

	now = now.Add(time.Hour)
	reg.Get(context.Background(), "nuevo")

	assert.Equal(t, 1, reg.Sweep(30*time.Minute))
	assert.Equal(t, 1, reg.Len())
}
