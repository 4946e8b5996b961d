package registry

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testProgramID  = "Bj4vH3tVu1GjCHeU3peRfYyxJpAzooyZCTU6rRFR4AnY"
	otherProgramID = "JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := client.Ping(ctx).Err()
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	err = client.FlushDB(ctx).Err()
	require.NoError(t, err)

	return client
}

func cleanupTestRedis(client *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = client.FlushDB(ctx).Err()
	_ = client.Close()
}

func TestStore_Upsert(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	m, err := store.Upsert(ctx, Manifest{
		ProgramID: testProgramID,
		Name:      "send_program",
		Route:     RouteGenerated,
		Priority:  10,
		Enabled:   true,
	})
	require.NoError(t, err)
	assert.NotZero(t, m.UpdatedAt)

	got, err := store.Get(ctx, testProgramID)
	require.NoError(t, err)
	assert.Equal(t, "send_program", got.Name)
	assert.Equal(t, RouteGenerated, got.Route)

	// Updating flips the route and refreshes the timestamp.
	time.Sleep(time.Millisecond)
	m2, err := store.Upsert(ctx, Manifest{
		ProgramID: testProgramID,
		Name:      "send_program",
		Route:     RouteDynamic,
		Enabled:   true,
	})
	require.NoError(t, err)
	assert.True(t, m2.UpdatedAt.After(m.UpdatedAt))

	got, err = store.Get(ctx, testProgramID)
	require.NoError(t, err)
	assert.Equal(t, RouteDynamic, got.Route)
}

func TestStore_UpsertRejectsInvalidInput(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Upsert(ctx, Manifest{ProgramID: "not-base58!", Route: RouteDynamic})
	assert.Error(t, err)

	_, err = store.Upsert(ctx, Manifest{ProgramID: testProgramID, Route: Route("custom")})
	assert.Error(t, err)
}

func TestStore_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), testProgramID)
	assert.Equal(t, ErrNotFound, err)
}

func TestStore_ListAndDelete(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	manifests, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, manifests)

	_, err = store.Upsert(ctx, Manifest{ProgramID: testProgramID, Name: "send_program", Route: RouteGenerated, Enabled: true})
	require.NoError(t, err)
	_, err = store.Upsert(ctx, Manifest{ProgramID: otherProgramID, Name: "jupiter", Route: RouteDynamic, Enabled: true})
	require.NoError(t, err)

	manifests, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, manifests, 2)

	err = store.Delete(ctx, testProgramID)
	require.NoError(t, err)

	manifests, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, manifests, 1)
	assert.Equal(t, otherProgramID, manifests[0].ProgramID)

	// Deleting an absent manifest is not an error.
	err = store.Delete(ctx, testProgramID)
	assert.NoError(t, err)
}

func TestStore_Resolve(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	// Unknown program defaults to the dynamic path.
	route, err := store.Resolve(ctx, testProgramID)
	require.NoError(t, err)
	assert.Equal(t, RouteDynamic, route)

	_, err = store.Upsert(ctx, Manifest{ProgramID: testProgramID, Route: RouteGenerated, Enabled: true})
	require.NoError(t, err)

	route, err = store.Resolve(ctx, testProgramID)
	require.NoError(t, err)
	assert.Equal(t, RouteGenerated, route)

	// Disabled manifests fall back to dynamic.
	_, err = store.Upsert(ctx, Manifest{ProgramID: testProgramID, Route: RouteGenerated, Enabled: false})
	require.NoError(t, err)

	route, err = store.Resolve(ctx, testProgramID)
	require.NoError(t, err)
	assert.Equal(t, RouteDynamic, route)
}
