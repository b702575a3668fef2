package storage

import (
	"fmt"

	"github.com/go-redis/redis"
	"go.uber.org/zap"
)

// Config contains all settings for the Redis memory.
type Config struct {
	Addr     string
	Key      string // all values are stored as fields of this hash
	Password string
	DB       int
	Logger   *zap.Logger
}

type RedisMemory struct {
	logger *zap.Logger
	Client *redis.Client
	hkey   string
}

// NewRedisMemory connects to Redis and verifies the connection.
func NewRedisMemory(config Config) (*RedisMemory, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", config.Addr, err)
	}

	logger.Info("Connected to redis", zap.String("addr", config.Addr), zap.Int("db", config.DB))
	return &RedisMemory{
		logger: logger,
		hkey:   config.Key,
		Client: client,
	}, nil
}

func (rm *RedisMemory) Set(key string, value []byte) error {
	rm.logger.Debug("Set", zap.String("key", key))
	return rm.Client.HSet(rm.hkey, key, value).Err()
}

func (rm *RedisMemory) Get(key string) ([]byte, bool, error) {
	resp, err := rm.Client.HGet(rm.hkey, key).Result()
	switch {
	case err == redis.Nil:
		return nil, false, nil
	case err != nil:
		return nil, false, err
	default:
		return []byte(resp), true, nil
	}
}

func (rm *RedisMemory) Delete(key string) (bool, error) {
	resp, err := rm.Client.HDel(rm.hkey, key).Result()
	return resp > 0, err
}

func (rm *RedisMemory) Keys() ([]string, error) {
	return rm.Client.HKeys(rm.hkey).Result()
}

func (rm *RedisMemory) Close() error {
	return rm.Client.Close()
}
