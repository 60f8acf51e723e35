package notice

import (
	"context"
	"sync"
)

// Level tipo de aviso mostrado al usuario.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notice aviso transitorio para el usuario final.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func Error(msg string) Notice   { return Notice{Level: LevelError, Message: msg} }
func Warning(msg string) Notice { return Notice{Level: LevelWarning, Message: msg} }

// Queue acumula avisos hasta que la siguiente respuesta los muestre.
// Es segura para uso concurrente.
type Queue struct {
	mu    sync.Mutex
	items []Notice
	max   int
}

// DefaultQueueSize avisos pendientes que se conservan; los más antiguos se descartan.
const DefaultQueueSize = 20

// NewQueue crea una cola con capacidad max (DefaultQueueSize si max <= 0).
func NewQueue(max int) *Queue {
	if max <= 0 {
		max = DefaultQueueSize
	}
	return &Queue{max: max}
}

// Notify encola el aviso.
func (q *Queue) Notify(_ context.Context, n Notice) {
	q.Push(n)
}

// Push encola sin contexto.
func (q *Queue) Push(n Notice) {
	if n.Message == "" {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, n)
	if len(q.items) > q.max {
		q.items = q.items[len(q.items)-q.max:]
	}
}

// Drain devuelve los avisos pendientes en orden de llegada y vacía la cola.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	if out == nil {
		return []Notice{}
	}
	return out
}

// Len avisos pendientes.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
