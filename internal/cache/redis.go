package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mouse-haven/internal/config"

	"github.com/redis/go-redis/v9"
)

var (
	mu           sync.RWMutex
	redisClient  *redis.Client
	redisPrefix  = "mh"
	redisEnabled bool
)

// InitRedis 初始化 Redis 客户端（未启用时返回 nil）
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	mu.Lock()
	defer mu.Unlock()
	if cfg == nil || !cfg.Enabled {
		redisEnabled = false
		redisClient = nil
		return nil, nil
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	redisPrefix = strings.TrimSpace(cfg.Prefix)
	if redisPrefix == "" {
		redisPrefix = "mh"
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	redisEnabled = true
	return redisClient, nil
}

// Use 直接注入已有客户端
func Use(client *redis.Client, prefix string) {
	mu.Lock()
	defer mu.Unlock()
	redisClient = client
	redisEnabled = client != nil
	if p := strings.TrimSpace(prefix); p != "" {
		redisPrefix = p
	}
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return redisEnabled && redisClient != nil
}

// Client 获取 Redis 客户端
func Client() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	if !redisEnabled {
		return nil
	}
	return redisClient
}

// Prefix 当前键前缀
func Prefix() string {
	mu.RLock()
	defer mu.RUnlock()
	return redisPrefix
}

// GetJSON 获取 JSON 缓存
func GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	client := Client()
	if client == nil {
		return false, nil
	}
	val, err := client.Get(ctx, BuildKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	client := Client()
	if client == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, BuildKey(key), payload, ttl).Err()
}

// Del 删除缓存
func Del(ctx context.Context, key string) error {
	client := Client()
	if client == nil {
		return nil
	}
	return client.Del(ctx, BuildKey(key)).Err()
}

// BuildKey 生成带前缀的键
func BuildKey(key string) string {
	prefix := Prefix()
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return prefix
	}
	return fmt.Sprintf("%s:%s", prefix, trimmed)
}
