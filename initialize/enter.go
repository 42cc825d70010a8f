package initialize

import (
	"context"
	"io"
	"sync"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/task"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// Initializer 统一管理项目的所有初始化工作
type Initializer struct {
	cron           *cron.Cron
	reloadLock     sync.Mutex
	logFileClosers []io.Closer
	taskManager    *task.Manager
}

// Run 并发执行所有核心服务的初始化
func (i *Initializer) Run() error {
	// LLM客户端依赖指标, 需先初始化
	i.initMetrics()

	eg, _ := errgroup.WithContext(context.Background())

	// 关键任务，失败会终止程序
	eg.Go(i.dbStart)
	eg.Go(i.initRedis)

	// 非关键任务，失败只打印日志，不影响启动
	eg.Go(func() error {
		_ = i.initLlm()
		return nil
	})
	eg.Go(func() error {
		_ = i.initLlmEmbedding()
		return nil
	})
	eg.Go(func() error {
		_ = i.initVectorDb()
		return nil
	})
	eg.Go(func() error {
		_ = i.initMcp()
		return nil
	})

	return eg.Wait()
}

// Close 优雅地关闭和释放所有资源
func (i *Initializer) Close() {
	i.timerStop()
	if err := i.mcpClose(); err != nil {
		global.Log.Warnf("关闭MCP服务失败: %v", err)
	}
	if err := i.vectorDbClose(); err != nil {
		global.Log.Warnf("关闭向量数据库客户端失败: %v", err)
	}
	if err := i.redisClose(); err != nil {
		global.Log.Warnf("关闭Redis客户端失败: %v", err)
	}
	if err := i.dbClose(); err != nil {
		global.Log.Warnf("关闭数据库失败: %v", err)
	}
	for _, c := range i.logFileClosers {
		_ = c.Close()
	}
}

// StartSystem 启动系统级服务，如定时器和数据加载
func (i *Initializer) StartSystem(taskManager *task.Manager) {
	i.taskManager = taskManager
	if err := i.timerStart(taskManager); err != nil {
		panic(err)
	}
	i.loadData(taskManager)
}
