package initialize

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gitee.com/taoJie_1/mall-advisor/dao"
	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/internal/embedding"
	"gitee.com/taoJie_1/mall-advisor/internal/llm"
	"gitee.com/taoJie_1/mall-advisor/internal/mcp"
	"gitee.com/taoJie_1/mall-advisor/internal/metrics"
	"gitee.com/taoJie_1/mall-advisor/internal/redis"
	"gitee.com/taoJie_1/mall-advisor/internal/vector"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"
)

func (i *Initializer) InitTz() error {
	Location, err := time.LoadLocation(global.Config.Tz)
	if err != nil {
		return fmt.Errorf("时区配置失败[siortuj]: %w", err)
	}
	global.Tz = Location
	return nil
}

// initMetrics 指标只注册一次, 热重载时不重复注册
func (i *Initializer) initMetrics() {
	if global.Metrics != nil {
		return
	}
	global.Metrics = metrics.NewAdvisorMetrics(prometheus.DefaultRegisterer)
}

// initRedis 初始化Redis客户端
func (i *Initializer) initRedis() error {
	client, err := redis.NewClient(
		global.Config.Redis.Addr,
		global.Config.Redis.Password,
		int(global.Config.Redis.DB),
	)
	if err != nil {
		return fmt.Errorf("初始化Redis客户端失败: %w", err)
	}
	global.RedisClient = client
	global.Log.Info("初始化Redis服务成功")
	return nil
}

// redisClose 关闭Redis客户端连接
func (i *Initializer) redisClose() error {
	if global.RedisClient != nil {
		return global.RedisClient.Close()
	}
	return nil
}

func (i *Initializer) initVectorDb() error {
	if global.Config.VectorDb.Url == "" {
		global.Log.Info("未配置向量数据库, 语义检索不可用")
		return nil
	}
	client, err := vector.NewClient(
		global.Config.VectorDb.Url,
		global.Config.VectorDb.Auth,
	)
	if err != nil {
		global.Log.Warnf("创建VectorDb客户端失败: %v", err)
		return err
	}

	// 通过心跳检测验证与VectorDb服务的连接
	if err = client.Heartbeat(context.Background()); err != nil {
		global.Log.Warnf("无法连接到VectorDb服务 (url: %s): %v", global.Config.VectorDb.Url, err)
		_ = client.Close()
		return err
	}

	global.VectorDb = client
	dao.App.ProductVector.CollectionName = global.Config.VectorDb.CollectionName
	global.Log.Info("初始化VectorDb服务成功")
	return nil
}

// vectorDbClose 关闭VectorDb客户端连接
func (i *Initializer) vectorDbClose() error {
	if global.VectorDb != nil {
		return global.VectorDb.Close()
	}
	return nil
}

func (i *Initializer) initLlm() error {
	if err := i.doInitLlm(); err != nil {
		global.Log.Warnf("初始化LLM服务失败: %v", err)
		return err
	}
	global.Log.Info("初始化LLM服务成功")
	return nil
}

func (i *Initializer) doInitLlm() error {
	if len(global.Config.Llm) == 0 {
		return fmt.Errorf("未配置任何LLM")
	}

	llmClients := make(map[enum.LlmSize]*openai.Client, len(global.Config.Llm))
	for _, cfg := range global.Config.Llm {
		config := openai.DefaultConfig(cfg.Auth)
		config.BaseURL = cfg.Url
		config.HTTPClient = &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}
		llmClients[enum.LlmSize(cfg.Size)] = openai.NewClientWithConfig(config)
	}

	g, gCtx := errgroup.WithContext(context.Background())
	// 并发地对所有配置的LLM服务进行连接测试
	for _, cfg := range global.Config.Llm {
		g.Go(func() error {
			size := enum.LlmSize(cfg.Size)
			client := llmClients[size]

			reqCtx, cancel := context.WithTimeout(gCtx, 5*time.Second)
			defer cancel()

			// 通过ListModels接口验证服务是否可用
			if _, err := client.ListModels(reqCtx); err != nil {
				return fmt.Errorf("无法连接到LLM服务 (size: %s, url: %s): %w", size, cfg.Url, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	global.LlmService = llm.NewClient(
		global.Log,
		llmClients,
		global.Config.Llm,
		global.Metrics,
	)
	return nil
}

func (i *Initializer) initLlmEmbedding() error {
	if global.Config.LlmEmbedding.Url == "" {
		global.Log.Info("未配置向量化服务, 语义检索不可用")
		return nil
	}
	if err := i.doInitLlmEmbedding(); err != nil {
		global.Log.Warnf("初始化向量化服务失败: %v", err)
		return err
	}
	global.Log.Info("初始化向量化服务成功")
	return nil
}

func (i *Initializer) doInitLlmEmbedding() error {
	config := openai.DefaultConfig(global.Config.LlmEmbedding.Auth)
	config.BaseURL = global.Config.LlmEmbedding.Url
	config.HTTPClient = &http.Client{Timeout: time.Duration(global.Config.LlmEmbedding.Timeout) * time.Second}
	openAIClient := openai.NewClientWithConfig(config)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// 通过ListModels接口验证向量化服务是否可用
	if _, err := openAIClient.ListModels(ctx); err != nil {
		return fmt.Errorf("无法连接到向量化服务 (url: %s): %w", config.BaseURL, err)
	}

	global.EmbeddingService = embedding.NewClient(
		openAIClient,
		global.Config.LlmEmbedding.Model,
	)
	return nil
}

func (i *Initializer) initMcp() error {
	if len(global.Config.McpServers) == 0 {
		return nil
	}
	client, err := mcp.NewClient(global.Log, global.Config.McpServers, global.Version, global.Config.ProjectName)
	if err != nil {
		global.Log.Warnf("MCP服务初始化失败: %v", err)
		return err
	}
	global.McpService = client
	global.Log.Info("初始化MCP服务结束")
	return nil
}

func (i *Initializer) mcpClose() error {
	if global.McpService != nil {
		return global.McpService.Close()
	}
	return nil
}
