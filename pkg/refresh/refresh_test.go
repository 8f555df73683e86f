package refresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/toolpilot-ai/toolpilot/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type staticSource struct {
	ids []uint
}

func (s *staticSource) UserIDs(context.Context) ([]uint, error) {
	return s.ids, nil
}

func TestRefresherRunsAllUsers(t *testing.T) {
	var mu sync.Mutex
	refreshed := make(map[uint]int)

	r := NewRefresher(20*time.Millisecond, &staticSource{ids: []uint{1, 2, 3}},
		func(_ context.Context, userID uint) error {
			mu.Lock()
			refreshed[userID]++
			mu.Unlock()
			return nil
		}, logger.NewNop())

	r.Start()
	time.Sleep(70 * time.Millisecond)
	r.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, refreshed, 3)
	for _, userID := range []uint{1, 2, 3} {
		assert.GreaterOrEqual(t, refreshed[userID], 1)
	}
}

func TestRefresherStopIsIdempotent(t *testing.T) {
	r := NewRefresher(time.Hour, &staticSource{}, func(context.Context, uint) error { return nil }, logger.NewNop())

	r.Start()
	r.Stop()
	r.Stop() // 二次Stop不应panic
}
