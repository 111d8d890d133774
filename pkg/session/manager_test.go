package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/adapters/redis"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/aretw0/tendril/pkg/ports"
	"github.com/aretw0/tendril/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowStore adds latency to provoke lost updates if locking is missing.
type slowStore struct {
	*memory.Store
}

func (s slowStore) Save(ctx context.Context, id string, state *domain.State) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, id, state)
}

func (s slowStore) Load(ctx context.Context, id string) (*domain.State, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func appendConcurrently(t *testing.T, manager *session.Manager, id string, n int) {
	t.Helper()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := manager.WithLock(ctx, id, func(ctx context.Context) error {
				state, err := manager.LoadOrCreate(ctx, id)
				if err != nil {
					return err
				}
				state.Append(domain.UserMessage("ping"))
				return manager.Save(ctx, id, state)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestManager_SerializesReadModifyWrite(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	appendConcurrently(t, manager, "race-test", 20)

	state, err := manager.Load(context.Background(), "race-test")
	require.NoError(t, err)
	assert.Len(t, state.Messages, 20, "no append may be lost")
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewFromClient(client)
	// Two managers simulate two replicas sharing Redis.
	a := session.NewManager(store, session.WithLocker(redis.NewLocker(client, store.Prefix())))
	b := session.NewManager(store, session.WithLocker(redis.NewLocker(client, store.Prefix())))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); appendConcurrently(t, a, "shared", 5) }()
	go func() { defer wg.Done(); appendConcurrently(t, b, "shared", 5) }()
	wg.Wait()

	state, err := a.Load(context.Background(), "shared")
	require.NoError(t, err)
	assert.Len(t, state.Messages, 10)
	assert.False(t, mr.Exists(store.Prefix()+"lock:shared"), "lock must be released")
}

func TestManager_LoadOrCreate(t *testing.T) {
	manager := session.NewManager(slowStore{memory.NewStore()})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state, err := manager.LoadOrCreate(ctx, "atomic-init")
			assert.NoError(t, err)
			assert.NotNil(t, state)
		}()
	}
	wg.Wait()

	state, err := manager.Load(ctx, "atomic-init")
	require.NoError(t, err)
	assert.Equal(t, "atomic-init", state.SessionID)
	assert.Empty(t, state.Messages)
}

func TestManager_RequiresThreadID(t *testing.T) {
	manager := session.NewManager(memory.NewStore())
	_, err := manager.LoadOrCreate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrThreadIDRequired)
}

type failingLocker struct{}

func (failingLocker) Lock(context.Context, string, time.Duration) (ports.UnlockFunc, error) {
	return nil, errors.New("redis down")
}

func TestManager_LockFailure(t *testing.T) {
	manager := session.NewManager(memory.NewStore(), session.WithLocker(failingLocker{}))
	err := manager.Save(context.Background(), "t", domain.NewState("t"))
	assert.ErrorContains(t, err, "failed to acquire distributed lock")
}
