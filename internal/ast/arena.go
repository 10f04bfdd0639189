package ast

// Arena хранит значения подряд и выдаёт 1-based индексы: ноль всегда
// означает «нет значения», отдельного sentinel-слота не нужно.
type Arena[T any] struct {
	data []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{data: make([]T, 0, capHint)}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data))
}

// Get returns nil for index 0 or an index the arena never issued.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}
