package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"exam-dashboard-server/config"
	"exam-dashboard-server/internal/model"
	"exam-dashboard-server/internal/util"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetAssignment(ctx context.Context, assignment *model.Assignment) error {
	data, err := json.Marshal(assignment)
	if err != nil {
		return util.LogError("ошибка сериализации задания", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(assignment.UUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetAssignment(ctx context.Context, uuid string) (*model.Assignment, error) {
	val, err := r.client.Client.Get(ctx, r.key(uuid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения задания из Redis", err)
	}

	var assignment model.Assignment
	if err := json.Unmarshal([]byte(val), &assignment); err != nil {
		return nil, util.LogError("ошибка десериализации задания из кэша", err)
	}
	return &assignment, nil
}

func (r *CacheRepository) DeleteAssignment(ctx context.Context, uuid string) error {
	if err := r.client.Client.Del(ctx, r.key(uuid)).Err(); err != nil {
		return util.LogError("ошибка удаления задания из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(uuid string) string {
	return fmt.Sprintf("assignment:%s", uuid)
}
