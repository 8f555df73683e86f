package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/toolpilot-ai/toolpilot/pkg/logger"
)

// UserSource 提供需要刷新的用户列表
type UserSource interface {
	UserIDs(ctx context.Context) ([]uint, error)
}

// GenerateFunc 为单个用户执行一轮推荐
type GenerateFunc func(ctx context.Context, userID uint) error

// Refresher 可选的定时推荐刷新器，周期性为所有已建画像的用户重跑推荐
type Refresher struct {
	interval time.Duration
	source   UserSource
	generate GenerateFunc
	log      *logger.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewRefresher 创建刷新器
func NewRefresher(interval time.Duration, source UserSource, generate GenerateFunc, baseLog *logger.Logger) *Refresher {
	return &Refresher{
		interval: interval,
		source:   source,
		generate: generate,
		log:      baseLog.With("component", "refresh"),
		stopCh:   make(chan struct{}),
	}
}

// Start 启动后台刷新循环
func (r *Refresher) Start() {
	r.wg.Add(1)
	go r.run()
	r.log.Info("recommendation refresher started", "interval", r.interval.String())
}

// Stop 停止刷新循环并等待当前一轮结束
func (r *Refresher) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
	})
	r.wg.Wait()
}

func (r *Refresher) run() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.refreshAll()
		}
	}
}

// 单个用户失败不影响本轮其他用户
func (r *Refresher) refreshAll() {
	ctx := context.Background()

	userIDs, err := r.source.UserIDs(ctx)
	if err != nil {
		r.log.Error("failed to list users for refresh", "error", err.Error())
		return
	}

	var failed int
	for _, userID := range userIDs {
		select {
		case <-r.stopCh:
			return
		default:
		}
		if err := r.generate(ctx, userID); err != nil {
			failed++
			r.log.Warn("refresh failed for user", "userId", userID, "error", err.Error())
		}
	}
	r.log.Info("refresh cycle complete", "users", len(userIDs), "failed", failed)
}
