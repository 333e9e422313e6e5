package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionIndexSuffix = "__keys"

// 写入键并把同会话的全部键续期到同一 TTL，会话整体过期
var sessionSetScript = redis.NewScript(`
local ttl = tonumber(ARGV[2])
redis.call("SET", KEYS[1], ARGV[1], "PX", ttl)
redis.call("SADD", KEYS[2], KEYS[1])
redis.call("PEXPIRE", KEYS[2], ttl)
for _, member in ipairs(redis.call("SMEMBERS", KEYS[2])) do
	redis.call("PEXPIRE", member, ttl)
end
return 1
`)

// RedisStateStore Redis 实现，键带统一前缀，可选过期时间
type RedisStateStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStateStore 创建 Redis 状态存储
func NewRedisStateStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStateStore {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "mh"
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStateStore{client: client, prefix: prefix, ttl: ttl}
}

// Get 读取键值
func (s *RedisStateStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set 写入键值；设置了 TTL 的会话键会同时续期同会话的其他键
func (s *RedisStateStore) Set(ctx context.Context, key string, value []byte) error {
	index := s.sessionIndexKey(key)
	if s.ttl <= 0 || index == "" {
		if err := s.client.Set(ctx, s.buildKey(key), value, s.ttl).Err(); err != nil {
			return fmt.Errorf("redis set %s: %w", key, err)
		}
		return nil
	}
	keys := []string{s.buildKey(key), index}
	if err := sessionSetScript.Run(ctx, s.client, keys, value, s.ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove 删除键（单个 MULTI 事务内完成）
func (s *RedisStateStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	indexed := make(map[string][]interface{})
	for _, key := range keys {
		built := s.buildKey(key)
		full = append(full, built)
		if index := s.sessionIndexKey(key); index != "" && s.ttl > 0 {
			indexed[index] = append(indexed[index], built)
		}
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, full...)
		for index, members := range indexed {
			pipe.SRem(ctx, index, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis del %v: %w", keys, err)
	}
	return nil
}

func (s *RedisStateStore) buildKey(key string) string {
	return fmt.Sprintf("%s:state:%s", s.prefix, strings.TrimSpace(key))
}

// sessionIndexKey 会话键索引（记录该会话下的全部键），非会话键返回空串
func (s *RedisStateStore) sessionIndexKey(key string) string {
	sid := SessionOfKey(key)
	if sid == "" {
		return ""
	}
	return s.buildKey(sessionKeyPrefix + sid + ":" + sessionIndexSuffix)
}
