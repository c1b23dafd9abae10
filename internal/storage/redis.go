package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces portal keys in a shared redis instance.
const keyPrefix = "bsv:"

// RedisMedium is an optional replacement for the flat-file fallback
// when REDIS_ADDR is configured.
type RedisMedium struct {
	client *redis.Client
}

// OpenRedis connects and pings with a short timeout. Callers should
// degrade to the file medium when this returns an error.
func OpenRedis(addr, password string, db int) (*RedisMedium, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisMedium{client: client}, nil
}

func (m *RedisMedium) Name() string { return "fallback" }

func (m *RedisMedium) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := m.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (m *RedisMedium) Set(ctx context.Context, key, value string) error {
	return m.client.Set(ctx, keyPrefix+key, value, 0).Err()
}

func (m *RedisMedium) SetMulti(ctx context.Context, values map[string]string) error {
	pipe := m.client.TxPipeline()
	for k, v := range values {
		pipe.Set(ctx, keyPrefix+k, v, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (m *RedisMedium) Remove(ctx context.Context, key string) error {
	return m.client.Del(ctx, keyPrefix+key).Err()
}

func (m *RedisMedium) Clear(ctx context.Context) error {
	iter := m.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := m.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (m *RedisMedium) Close() error { return m.client.Close() }
