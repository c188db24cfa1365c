package gate

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Gate — простой шлюз с фиксированной емкостью поверх weighted-семафора.
// Для емкости 1 это взаимное исключение на весь процесс.
type Gate struct {
	sem *semaphore.Weighted
}

// New создает шлюз на capacity одновременных владельцев.
func New(capacity int64) *Gate {
	if capacity < 1 {
		capacity = 1
	}
	return &Gate{sem: semaphore.NewWeighted(capacity)}
}

// Acquire блокируется до получения разрешения или отмены контекста.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release возвращает разрешение обратно.
func (g *Gate) Release() {
	g.sem.Release(1)
}
