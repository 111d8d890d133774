package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/tendril/pkg/adapters/memory"
	"github.com/aretw0/tendril/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		sid := fmt.Sprintf("thread-%d", i)
		_ = mgr.Save(ctx, sid, domain.NewState(sid))
		_ = mgr.Delete(ctx, sid)
	}

	assert.Empty(t, mgr.locks, "lock entries must be released once unused")
}

func TestManager_NestedCallsReuseLock(t *testing.T) {
	mgr := NewManager(memory.NewStore())
	ctx := context.Background()

	err := mgr.WithLock(ctx, "t1", func(ctx context.Context) error {
		state, err := mgr.LoadOrCreate(ctx, "t1")
		if err != nil {
			return err
		}
		state.Append(domain.UserMessage("hi"))
		return mgr.Save(ctx, "t1", state)
	})
	assert.NoError(t, err)
	assert.Empty(t, mgr.locks)
}
