package store

import (
	"context"
	"sync"

	"github.com/rushteam/commercekit/core"
)

// MemoryStore 是内存实现的 ArtifactStore，用于测试/开发/原型。
// 进程重启后产物丢失；引擎间共享同一实例即可模拟"训练后重载"。
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ core.ArtifactStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Save(ctx context.Context, name string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	// 持有方可能继续改动入参，存副本
	cp := make([]byte, len(blob))
	copy(cp, blob)
	m.data[name] = cp
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blob, ok := m.data[name]
	if !ok {
		return nil, core.ErrArtifactNotFound
	}
	cp := make([]byte, len(blob))
	copy(cp, blob)
	return cp, nil
}

func (m *MemoryStore) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, name)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
