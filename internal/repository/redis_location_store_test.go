package repository

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-nav-api/internal/models"
)

func TestLocationKey(t *testing.T) {
	assert.Equal(t, "campus:location:user:42", locationKey(42))
}

func TestDecodeLocationUsesWireNames(t *testing.T) {
	ts := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	raw, err := json.Marshal(models.StudentLocation{ID: 3, UserID: 2, Latitude: "12.1", Longitude: "74.1", Timestamp: ts, IsSharing: true})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"isSharing":true`)

	loc, err := decodeLocation("k", raw)
	require.NoError(t, err)
	assert.Equal(t, int64(2), loc.UserID)
	assert.True(t, loc.Timestamp.Equal(ts))

	_, err = decodeLocation("k", []byte("{"))
	assert.Error(t, err)
}

// Runs against a real server when REDIS_TEST_ADDR is set, e.g. localhost:6379.
func TestRedisLocationStoreAgainstServer(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	defer client.Close()
	ctx := context.Background()
	require.NoError(t, client.FlushDB(ctx).Err())

	store := NewRedisLocationStore(client, time.Minute, nil)

	ok, err := store.SetSharing(ctx, 1, true)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.ReplaceLocation(ctx, models.StudentLocation{UserID: 1, Latitude: "12.1", Longitude: "74.1", Timestamp: time.Now(), IsSharing: true})
	require.NoError(t, err)
	second, err := store.ReplaceLocation(ctx, models.StudentLocation{UserID: 1, Latitude: "12.2", Longitude: "74.2", Timestamp: time.Now(), IsSharing: true})
	require.NoError(t, err)

	current, err := store.GetLocation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, "12.2", current.Latitude)

	ok, err = store.SetSharing(ctx, 1, false)
	require.NoError(t, err)
	assert.True(t, ok)

	sharing, err := store.ListSharingLocations(ctx)
	require.NoError(t, err)
	assert.Empty(t, sharing)

	removed, err := store.PurgeLocationsBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
