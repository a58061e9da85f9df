package persist

import "sync"

// Memory keeps items in process memory only.
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
	// Fail makes SetItems return this error; used to simulate quota failures.
	Fail error
}

func NewMemory() *Memory { return &Memory{items: map[string]string{}} }

func (m *Memory) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *Memory) SetItems(items map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	for k, v := range items {
		m.items[k] = v
	}
	return nil
}

func (m *Memory) Close() error { return nil }
