package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/siddharthray/chatApp-backend/internal/config"
	"github.com/siddharthray/chatApp-backend/internal/domain"
	"github.com/siddharthray/chatApp-backend/pkg/log"
)

// redisStore implements PresenceStore on Redis.
type redisStore struct {
	client *redis.Client
	limit  int
}

// NewRedisStore connects to Redis and returns a PresenceStore capped at
// limit history entries per room.
func NewRedisStore(cfg config.RedisConfig, limit int) (PresenceStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}

	return &redisStore{client: client, limit: limit}, nil
}

// Redis key patterns:
// chat:{room}           LIST<record json>  - bounded message history
// room:{room}:users     SET<username>      - presence set
// rooms:all             SET<room>          - room directory
func historyKey(room string) string {
	return fmt.Sprintf("chat:%s", room)
}

func presenceKey(room string) string {
	return fmt.Sprintf("room:%s:users", room)
}

const roomsKey = "rooms:all"

func (s *redisStore) Join(ctx context.Context, room, username string) error {
	if err := s.client.SAdd(ctx, presenceKey(room), username).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *redisStore) Leave(ctx context.Context, room, username string) error {
	if err := s.client.SRem(ctx, presenceKey(room), username).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *redisStore) Members(ctx context.Context, room string) ([]string, error) {
	members, err := s.client.SMembers(ctx, presenceKey(room)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return members, nil
}

func (s *redisStore) Append(ctx context.Context, room string, rec domain.MessageRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	// MULTI/EXEC keeps the push and the trim one atomic unit per room, so
	// concurrent appends never interleave a read-modify-write on the trim.
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, historyKey(room), data)
	pipe.LTrim(ctx, historyKey(room), int64(-s.limit), -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *redisStore) Recent(ctx context.Context, room string) ([]domain.MessageRecord, error) {
	entries, err := s.client.LRange(ctx, historyKey(room), int64(-s.limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	records := make([]domain.MessageRecord, 0, len(entries))
	for _, entry := range entries {
		var rec domain.MessageRecord
		if err := json.Unmarshal([]byte(entry), &rec); err != nil {
			l := log.L()
			l.Warn().Str(log.FieldRoom, room).Err(err).Msg("skipping undecodable history entry")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *redisStore) AddRoom(ctx context.Context, name string) error {
	if err := s.client.SAdd(ctx, roomsKey, name).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *redisStore) Rooms(ctx context.Context) ([]string, error) {
	rooms, err := s.client.SMembers(ctx, roomsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return rooms, nil
}

func (s *redisStore) Close() error {
	return s.client.Close()
}
