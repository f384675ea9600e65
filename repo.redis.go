package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisCollectionStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// NewRedisCollectionStorage provides an instance of redis-based collection storage.
func NewRedisCollectionStorage(logger *zap.Logger, client *redis.Client) CollectionStorage {
	return &redisCollectionStorage{
		logger: logger,
		client: client,
	}
}

// LoadCollection retrieves the records of a named collection. A missing key
// or a payload which does not decode as a json array yields an empty
// sequence, never an error surfaced to the caller.
func (rs *redisCollectionStorage) LoadCollection(ctx context.Context, key string) ([]json.RawMessage, error) {
	payload, err := rs.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeCollection(rs.logger, key, payload), nil
}

// SaveCollection serializes the records and overwrites the named collection.
func (rs *redisCollectionStorage) SaveCollection(ctx context.Context, key string, records interface{}) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return rs.client.Set(ctx, key, payload, 0).Err()
}

// decodeCollection turns a stored payload into its raw records. Corrupt
// payloads are logged and treated as an empty collection.
func decodeCollection(logger *zap.Logger, key string, payload []byte) []json.RawMessage {
	var records []json.RawMessage
	if err := json.Unmarshal(payload, &records); err != nil {
		logger.Warn("storage: could not decode stored collection", zap.String("storage.key", key), zap.Error(err))
		return []json.RawMessage{}
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records
}
