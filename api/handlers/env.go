package handlers

import (
	"github.com/toolpilot-ai/toolpilot/pkg/cache"
	"github.com/toolpilot-ai/toolpilot/pkg/progression"
	"github.com/toolpilot-ai/toolpilot/pkg/recommend"
)

// Env 推荐与进度引擎的句柄集合，显式注入而不是包级单例，便于测试隔离
type Env struct {
	Manager  *recommend.Manager
	Ledger   *progression.Ledger
	Resolver *progression.Resolver
	Cache    *cache.SetCache
}
