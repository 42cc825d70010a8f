package global

import (
	"time"

	"gitee.com/taoJie_1/mall-advisor/internal/embedding"
	"gitee.com/taoJie_1/mall-advisor/internal/llm"
	"gitee.com/taoJie_1/mall-advisor/internal/mcp"
	"gitee.com/taoJie_1/mall-advisor/internal/metrics"
	"gitee.com/taoJie_1/mall-advisor/internal/redis"
	"gitee.com/taoJie_1/mall-advisor/internal/vector"
	"gitee.com/taoJie_1/mall-advisor/model/config"
	"github.com/sirupsen/logrus"
)

// 全局变量
// 业务逻辑禁止修改
var (
	Config           *config.Config = new(config.Config) //指针类型, 给与其内存空间
	Log              *logrus.Logger
	Tz               *time.Location
	Version          = "dev"
	LlmService       llm.Service
	EmbeddingService embedding.Service
	VectorDb         vector.Service
	RedisClient      redis.Service
	McpService       mcp.Service
	Metrics          *metrics.AdvisorMetrics
)
