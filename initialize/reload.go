package initialize

import (
	"context"
	"reflect"
	"strings"
	"time"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/model/config"
	"gitee.com/taoJie_1/mall-advisor/service"
	"gitee.com/taoJie_1/mall-advisor/service/user"
	"gitee.com/taoJie_1/mall-advisor/task"
	"golang.org/x/sync/errgroup"
)

// HandleConfigChange 检测配置变化并并发地重载相关服务
func (i *Initializer) HandleConfigChange(oldConfig, newConfig *config.Config) {
	i.reloadLock.Lock()
	defer i.reloadLock.Unlock()

	var restartNeeded []string

	// 不可热重载的配置
	if !reflect.DeepEqual(oldConfig.Database, newConfig.Database) {
		restartNeeded = append(restartNeeded, "database")
	}
	if oldConfig.GinAddr != newConfig.GinAddr {
		restartNeeded = append(restartNeeded, "gin_addr")
	}
	if oldConfig.GinLogPath != newConfig.GinLogPath || oldConfig.RunLogPath != newConfig.RunLogPath {
		restartNeeded = append(restartNeeded, "log_path")
	}
	if !reflect.DeepEqual(oldConfig.Cors, newConfig.Cors) {
		restartNeeded = append(restartNeeded, "cors")
	}

	eg, _ := errgroup.WithContext(context.Background())

	if oldConfig.Tz != newConfig.Tz {
		eg.Go(func() error {
			if err := i.InitTz(); err != nil {
				global.Log.Errorf("热重载时区失败: %v", err)
				return err
			}
			return nil
		})
	}

	if !reflect.DeepEqual(oldConfig.Redis, newConfig.Redis) {
		eg.Go(func() error {
			if err := i.redisClose(); err != nil {
				global.Log.Warnf("关闭旧Redis客户端失败: %v", err)
			}
			if err := i.initRedis(); err != nil {
				global.Log.Errorf("热重载Redis客户端失败: %v", err)
				return err
			}
			return nil
		})
	}

	if !reflect.DeepEqual(oldConfig.Llm, newConfig.Llm) {
		eg.Go(func() error {
			if err := i.initLlm(); err != nil {
				global.Log.Errorf("热重载LLM服务失败: %v", err)
				return err
			}
			return nil
		})
	}

	embeddingChanged := !reflect.DeepEqual(oldConfig.LlmEmbedding, newConfig.LlmEmbedding)
	if embeddingChanged {
		eg.Go(func() error {
			if err := i.initLlmEmbedding(); err != nil {
				global.Log.Errorf("热重载向量化模型服务失败: %v", err)
				return err
			}
			return nil
		})
	}

	vectorChanged := !reflect.DeepEqual(oldConfig.VectorDb, newConfig.VectorDb)
	if vectorChanged {
		eg.Go(func() error {
			if err := i.vectorDbClose(); err != nil {
				global.Log.Warnf("关闭旧向量数据库客户端失败: %v", err)
			}
			if err := i.initVectorDb(); err != nil {
				global.Log.Errorf("热重载向量数据库客户端失败: %v", err)
				return err
			}
			return nil
		})
	}

	if !reflect.DeepEqual(oldConfig.McpServers, newConfig.McpServers) {
		eg.Go(func() error {
			if global.McpService == nil {
				if err := i.initMcp(); err != nil {
					global.Log.Errorf("热重载期间初始化MCP服务失败: %v", err)
					return err
				}
				return nil
			}

			oldMap := oldConfig.McpServers
			newMap := newConfig.McpServers

			for name, oldCfg := range oldMap {
				if newCfg, ok := newMap[name]; !ok {
					_ = global.McpService.RemoveClient(name)
				} else if !reflect.DeepEqual(oldCfg, newCfg) {
					if err := global.McpService.AddOrUpdateClient(name, newCfg); err != nil {
						global.Log.Warnf("热重载MCP服务 '%s' 失败: %v", name, err)
					}
				}
			}
			for name, newCfg := range newMap {
				if _, ok := oldMap[name]; !ok {
					if err := global.McpService.AddOrUpdateClient(name, newCfg); err != nil {
						global.Log.Warnf("添加MCP服务 '%s' 失败: %v", name, err)
					}
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		global.Log.Errorf("并发热重载过程中发生错误: %v", err)
	}

	// 服务组持有客户端与业务配置, 任何变化后都重新组装
	service.Service.UserServiceGroup = user.NewServiceGroup()

	// 向量化服务或向量库变化后需要重建索引
	if embeddingChanged || vectorChanged {
		i.taskManager = task.NewManager(global.EmbeddingService)
		i.taskManager.DebounceProductReindex(5 * time.Second)
	}

	if len(restartNeeded) > 0 {
		global.Log.Warnf("检测到存在需要 重启服务 才能生效的配置变更: [%s]。", strings.Join(restartNeeded, ", "))
	}

	global.Log.Info("配置变更处理完成")
}
