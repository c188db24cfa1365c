package port

import "context"

// RequestGatePort — глобальный троттлинг для особо чувствительных запросов.
// Для эндпоинта телефонов используется шлюз емкостью 1: не больше одного
// запроса одновременно на весь процесс, независимо от числа воркеров.
type RequestGatePort interface {
	Acquire(ctx context.Context) error
	Release()
}
