package portal

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/Supermercado-api/internal/application/notice"
	"github.com/jhoicas/Supermercado-api/internal/application/session"
	"github.com/jhoicas/Supermercado-api/pkg/logger"
)

// StateBackend entrega el almacenamiento persistido de cada cliente.
type StateBackend interface {
	ForClient(clientID string) session.LocalState
}

// Client sesión y avisos pendientes de un navegador.
type Client struct {
	ID      string
	Session *session.Store
	Notices *notice.Queue

	restore  sync.Once
	mu       sync.Mutex
	lastSeen time.Time
}

func (c *Client) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Client) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Registry una sesión en memoria por cliente, creada al primer uso y restaurada
// desde el estado persistido.
type Registry struct {
	api    session.AuthAPI
	states StateBackend
	log    *logger.Logger
	now    func() time.Time

	mu      sync.Mutex
	clients map[string]*Client
}

func NewRegistry(api session.AuthAPI, states StateBackend, log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		api:     api,
		states:  states,
		log:     log,
		now:     time.Now,
		clients: make(map[string]*Client),
	}
}

// Get sesión del cliente; la primera vez la restaura del estado persistido.
func (r *Registry) Get(ctx context.Context, clientID string) *Client {
	r.mu.Lock()
	c, ok := r.clients[clientID]
	if !ok {
		q := notice.NewQueue(0)
		c = &Client{
			ID:      clientID,
			Notices: q,
			Session: session.New(r.api, r.states.ForClient(clientID), q, r.log),
		}
		r.clients[clientID] = c
	}
	r.mu.Unlock()

	c.touch(r.now())
	c.restore.Do(func() {
		if err := c.Session.Restore(ctx); err != nil {
			r.log.Error().Err(err).Str("client", clientID).Msg("no se pudo restaurar la sesión")
		}
	})
	return c
}

// Len clientes en memoria.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Sweep libera de memoria los clientes sin actividad desde hace idle.
// El estado persistido se conserva y se restaura en la siguiente visita.
func (r *Registry) Sweep(idle time.Duration) int {
	limit := r.now().Add(-idle)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, c := range r.clients {
		if c.idleSince().Before(limit) {
			delete(r.clients, id)
			n++
		}
	}
	return n
}

// RunSweeper ejecuta Sweep cada interval hasta que ctx termine.
func (r *Registry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(idle); n > 0 {
				r.log.Debug().Int("clients", n).Msg("sesiones inactivas liberadas")
			}
		}
	}
}
