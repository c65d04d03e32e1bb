package slot

import (
	"context"
	"slices"
	"sync"
)

type Memory struct {
	mtx   sync.RWMutex
	slots map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Load(_ context.Context, name string) ([]byte, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	data, ok := m.slots[name]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(data), nil
}

func (m *Memory) Save(_ context.Context, name string, data []byte) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.slots[name] = slices.Clone(data)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
