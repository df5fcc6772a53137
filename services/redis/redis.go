package redis

import (
	redis_models "Rondo/models/redis"
	redis_utils "Rondo/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(Addr string, DB int) *RedisClient {
	var client *redis.Client
	if Addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(Addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: Addr,
			DB:   DB,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// SaveGameSnapshot stores a game's live state in Redis
// Key format: "game:{id}"
// TTL: 24 hours
func (rc *RedisClient) SaveGameSnapshot(snapshot *redis_models.GameSnapshot) error {
	key := redis_utils.FormatGameKey(snapshot.GameID)
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("error marshaling game snapshot: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, 24*time.Hour).Err()
}

// GetGameSnapshot retrieves a game's live state from Redis
// Key format: "game:{id}"
// Returns: GameSnapshot struct or error
func (rc *RedisClient) GetGameSnapshot(gameID string) (*redis_models.GameSnapshot, error) {
	key := redis_utils.FormatGameKey(gameID)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		return nil, fmt.Errorf("error getting game snapshot: %v", err)
	}

	var snapshot redis_models.GameSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("error unmarshaling game snapshot: %v", err)
	}
	return &snapshot, nil
}

// PublishGameEvent publishes an event on the game's event channel
// Channel format: "game:{id}:events"
func (rc *RedisClient) PublishGameEvent(event *redis_models.GameEvent) error {
	channel := redis_utils.FormatGameEventsKey(event.GameID)
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshaling game event: %v", err)
	}
	return rc.client.Publish(rc.ctx, channel, data).Err()
}

// SaveOracleRequest stores an oracle request (pending or fulfilled)
// Key format: "oracle:{handle}"
// TTL: 24 hours
func (rc *RedisClient) SaveOracleRequest(req *redis_models.OracleRequest) error {
	key := redis_utils.FormatOracleRequestKey(req.Handle)
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("error marshaling oracle request: %v", err)
	}
	return rc.client.Set(rc.ctx, key, data, 24*time.Hour).Err()
}

// GetOracleRequest retrieves an oracle request by handle
// Key format: "oracle:{handle}"
// Returns: OracleRequest struct, nil if the handle is unknown
func (rc *RedisClient) GetOracleRequest(handle string) (*redis_models.OracleRequest, error) {
	key := redis_utils.FormatOracleRequestKey(handle)
	data, err := rc.client.Get(rc.ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			// Key does not exist
			return nil, nil
		}
		return nil, fmt.Errorf("error getting oracle request: %v", err)
	}

	var req redis_models.OracleRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("error unmarshaling oracle request: %v", err)
	}
	return &req, nil
}

// DeleteGameSnapshot removes a game's live state from Redis
// Key format: "game:{id}"
func (rc *RedisClient) DeleteGameSnapshot(gameID string) error {
	key := redis_utils.FormatGameKey(gameID)
	if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting game snapshot: %v", err)
	}
	return nil
}

// CleanupKeys removes the specified keys from Redis
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
