package repository

import (
	"context"
	"strings"
	"sync"
)

// StateStore 会话状态键值存储接口（值为 JSON 字节）
type StateStore interface {
	// Get 读取键值，键不存在时 found=false 且 err=nil
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set 写入键值（覆盖）
	Set(ctx context.Context, key string, value []byte) error
	// Remove 删除一个或多个键，多个键在同一次状态变更中删除
	Remove(ctx context.Context, keys ...string) error
}

const sessionKeyPrefix = "session:"

// SessionOfKey 解析 ScopedStore 生成的键所属会话，非会话键返回空串
func SessionOfKey(key string) string {
	rest, ok := strings.CutPrefix(strings.TrimSpace(key), sessionKeyPrefix)
	if !ok {
		return ""
	}
	sid, _, found := strings.Cut(rest, ":")
	if !found {
		return ""
	}
	return sid
}

// ScopedStore 为每个浏览器会话隔离键空间
func ScopedStore(store StateStore, namespace string) StateStore {
	namespace = strings.TrimSpace(namespace)
	if store == nil || namespace == "" {
		return store
	}
	return &scopedStateStore{inner: store, prefix: sessionKeyPrefix + namespace + ":"}
}

type scopedStateStore struct {
	inner  StateStore
	prefix string
}

func (s *scopedStateStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scopedStateStore) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scopedStateStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	scoped := make([]string, 0, len(keys))
	for _, key := range keys {
		scoped = append(scoped, s.prefix+key)
	}
	return s.inner.Remove(ctx, scoped...)
}

// MemoryStateStore 进程内实现（单节点演示与测试）
type MemoryStateStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStateStore 创建内存状态存储
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{data: make(map[string][]byte)}
}

// Get 读取键值
func (s *MemoryStateStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set 写入键值
func (s *MemoryStateStore) Set(_ context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	s.mu.Lock()
	s.data[key] = stored
	s.mu.Unlock()
	return nil
}

// Remove 删除键
func (s *MemoryStateStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.data, key)
	}
	s.mu.Unlock()
	return nil
}

// Len 当前键数量
func (s *MemoryStateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
