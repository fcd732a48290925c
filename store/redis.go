package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/commercekit/core"
)

// artifactKeyPrefix 是产物在 Redis 中的键前缀，与业务键隔离。
const artifactKeyPrefix = "artifact:"

// RedisStore 是 Redis 实现的 ArtifactStore。
// 多实例共享训练产物时使用：一个实例 Train，其余实例重启后加载。
type RedisStore struct {
	client *redis.Client
}

var _ core.ArtifactStore = (*RedisStore)(nil)

func NewRedisStore(addr string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Save(ctx context.Context, name string, blob []byte) error {
	return r.client.Set(ctx, artifactKeyPrefix+name, blob, 0).Err()
}

func (r *RedisStore) Load(ctx context.Context, name string) ([]byte, error) {
	val, err := r.client.Get(ctx, artifactKeyPrefix+name).Bytes()
	if err == redis.Nil {
		return nil, core.ErrArtifactNotFound
	}
	return val, err
}

func (r *RedisStore) Delete(ctx context.Context, name string) error {
	return r.client.Del(ctx, artifactKeyPrefix+name).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
