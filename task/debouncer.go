package task

import (
	"sync"
	"time"

	"gitee.com/taoJie_1/mall-advisor/global"
)

var (
	reindexTimer *time.Timer
	reindexMutex sync.Mutex
)

// DebounceProductReindex 为 ProductReindexer 提供防抖调用功能。
// 每次调用都会重置定时器。
func (m *Manager) DebounceProductReindex(delay time.Duration) {
	reindexMutex.Lock()
	defer reindexMutex.Unlock()

	// 如果已存在一个定时器，则停止它
	if reindexTimer != nil {
		reindexTimer.Stop()
	}

	// 创建一个新的定时器，在延迟时间后执行同步任务
	reindexTimer = time.AfterFunc(delay, func() {
		global.Log.Info("触发经防抖处理的商品索引任务...")
		if err := m.ProductReindexer(); err != nil {
			global.Log.Errorf("执行经防抖处理的商品索引任务失败: %v", err)
		}
	})
	global.Log.Infof("商品索引任务已调度在 %v 后执行", delay)
}
