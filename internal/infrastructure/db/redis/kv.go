package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyValue is a ports.KeyValue over Redis strings. Keys never expire, like
// browser local storage.
type KeyValue struct {
	client *redis.Client
	prefix string
}

// NewKeyValue wraps client. prefix is prepended to every key so several
// agents can share one Redis database.
func NewKeyValue(client *redis.Client, prefix string) *KeyValue {
	return &KeyValue{client: client, prefix: prefix}
}

func (k *KeyValue) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := k.client.Get(ctx, k.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

func (k *KeyValue) SetItem(ctx context.Context, key, value string) error {
	if err := k.client.Set(ctx, k.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (k *KeyValue) RemoveItem(ctx context.Context, key string) error {
	if err := k.client.Del(ctx, k.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (k *KeyValue) Ping(ctx context.Context) error {
	return k.client.Ping(ctx).Err()
}

func (k *KeyValue) key(key string) string {
	if k.prefix == "" {
		return key
	}
	return k.prefix + ":" + key
}
