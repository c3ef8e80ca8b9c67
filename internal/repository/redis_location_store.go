package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

const (
	locationKeyPrefix  = "campus:location:user:"
	locationSeqKey     = "campus:location:seq"
	maxSharingAttempts = 3
)

// RedisLocationStore keeps one key per user holding its current location.
// SET replaces the key atomically so the one-location-per-user invariant holds
// without a lock.
type RedisLocationStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisLocationStore constructs the store. A positive ttl expires idle locations.
func NewRedisLocationStore(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisLocationStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocationStore{client: client, ttl: ttl, logger: logger}
}

var _ LocationStore = (*RedisLocationStore)(nil)

func locationKey(userID int64) string {
	return locationKeyPrefix + strconv.FormatInt(userID, 10)
}

// GetLocation returns the user's current location.
func (s *RedisLocationStore) GetLocation(ctx context.Context, userID int64) (*models.StudentLocation, error) {
	key := locationKey(userID)
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return decodeLocation(key, raw)
}

// ReplaceLocation overwrites the user's key with loc.
func (s *RedisLocationStore) ReplaceLocation(ctx context.Context, loc models.StudentLocation) (*models.StudentLocation, error) {
	id, err := s.client.Incr(ctx, locationSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis incr %s: %w", locationSeqKey, err)
	}
	loc.ID = id
	loc.Timestamp = loc.Timestamp.UTC()

	payload, err := json.Marshal(loc)
	if err != nil {
		return nil, fmt.Errorf("marshal location for user %d: %w", loc.UserID, err)
	}

	key := locationKey(loc.UserID)
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("redis set %s: %w", key, err)
	}
	return &loc, nil
}

// SetSharing rewrites the sharing flag under WATCH so a concurrent replace wins cleanly.
func (s *RedisLocationStore) SetSharing(ctx context.Context, userID int64, isSharing bool) (bool, error) {
	key := locationKey(userID)
	found := false

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			found = false
			return nil
		}
		if err != nil {
			return err
		}
		loc, err := decodeLocation(key, raw)
		if err != nil {
			return err
		}
		found = true
		loc.IsSharing = isSharing
		payload, err := json.Marshal(loc)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, redis.KeepTTL)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxSharingAttempts; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return false, fmt.Errorf("redis set sharing %s: %w", key, err)
		}
		s.logger.Debug("location sharing toggle raced a replace, retrying", zap.Int64("user_id", userID), zap.Int("attempt", attempt+1))
	}
	return false, fmt.Errorf("redis set sharing %s: %w", key, redis.TxFailedErr)
}

// ListSharingLocations scans every user key and keeps sharing rows.
func (s *RedisLocationStore) ListSharingLocations(ctx context.Context) ([]models.StudentLocation, error) {
	all, err := s.scanLocations(ctx)
	if err != nil {
		return nil, err
	}
	sharing := make([]models.StudentLocation, 0, len(all))
	for _, loc := range all {
		if loc.IsSharing {
			sharing = append(sharing, loc)
		}
	}
	return sharing, nil
}

// PurgeLocationsBefore deletes keys whose location predates cutoff. Keys with a
// TTL normally expire before the sweep reaches them.
func (s *RedisLocationStore) PurgeLocationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	all, err := s.scanLocations(ctx)
	if err != nil {
		return 0, err
	}
	var removed int64
	for _, loc := range all {
		if !loc.Timestamp.Before(cutoff) {
			continue
		}
		key := locationKey(loc.UserID)
		n, err := s.client.Del(ctx, key).Result()
		if err != nil {
			return removed, fmt.Errorf("redis delete %s: %w", key, err)
		}
		removed += n
	}
	return removed, nil
}

func (s *RedisLocationStore) scanLocations(ctx context.Context) ([]models.StudentLocation, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, locationKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan locations: %w", err)
	}

	locations := make([]models.StudentLocation, 0, len(keys))
	if len(keys) == 0 {
		return locations, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis mget locations: %w", err)
	}
	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			// expired between SCAN and MGET
			continue
		}
		loc, err := decodeLocation(keys[i], []byte(raw))
		if err != nil {
			s.logger.Warn("skipping unreadable location", zap.String("key", keys[i]), zap.Error(err))
			continue
		}
		locations = append(locations, *loc)
	}
	sort.Slice(locations, func(i, j int) bool { return locations[i].ID < locations[j].ID })
	return locations, nil
}

func decodeLocation(key string, raw []byte) (*models.StudentLocation, error) {
	var loc models.StudentLocation
	if err := json.Unmarshal(raw, &loc); err != nil {
		return nil, fmt.Errorf("unmarshal location %s: %w", key, err)
	}
	return &loc, nil
}
