package clientstate

import (
	"context"
	"sync"

	"github.com/jhoicas/Supermercado-api/internal/application/session"
)

// Memory estado en memoria del proceso; se pierde al reiniciar. Útil sin Redis.
type Memory struct {
	mu     sync.Mutex
	values map[string]map[session.Key]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]map[session.Key]string)}
}

// ForClient vista del estado de un cliente.
func (m *Memory) ForClient(clientID string) session.LocalState {
	return &memoryClientState{m: m, clientID: clientID}
}

type memoryClientState struct {
	m        *Memory
	clientID string
}

func (s *memoryClientState) Get(_ context.Context, k session.Key) (string, bool, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	v, ok := s.m.values[s.clientID][k]
	return v, ok, nil
}

func (s *memoryClientState) Set(_ context.Context, k session.Key, value string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.values[s.clientID] == nil {
		s.m.values[s.clientID] = make(map[session.Key]string)
	}
	s.m.values[s.clientID][k] = value
	return nil
}

func (s *memoryClientState) Delete(_ context.Context, keys ...session.Key) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, k := range keys {
		delete(s.m.values[s.clientID], k)
	}
	if len(s.m.values[s.clientID]) == 0 {
		delete(s.m.values, s.clientID)
	}
	return nil
}
