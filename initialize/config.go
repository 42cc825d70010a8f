package initialize

import (
	"flag"
	"fmt"
	"strings"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/model/config"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	Conf string
	Act  string
)

func init() {
	flag.StringVar(&Conf, "c", "", "choose config file.")
	flag.StringVar(&Act, "a", "", `行为,默认为空,即启动服务; "product": 重建商品向量索引; "mcp": 检测MCP工具;`)
}

// New 创建一个新的初始化器，并加载配置文件
func New() *Initializer {
	var configPath string
	if gin.Mode() != gin.TestMode {
		flag.Parse()
		if Conf != "" {
			configPath = Conf
		}
	}
	if configPath == "" {
		configPath = `config.yaml`
	}

	// .env 不存在时忽略
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("ADVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		panic("读取配置失败[u9ij]: " + configPath + err.Error())
	}

	if err := v.Unmarshal(global.Config); err != nil {
		panic("出错[dhfal]: " + err.Error())
	}
	handleConfig(global.Config)

	i := &Initializer{}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		fmt.Println("配置文件变化[djiads]: ", e.Name)
		oldConfig := global.Config.DeepCopy()
		newConfig := new(config.Config)
		if err := v.Unmarshal(newConfig); err != nil {
			fmt.Println(err)
			return
		}
		handleConfig(newConfig)
		*global.Config = *newConfig
		if global.Log != nil {
			i.HandleConfigChange(oldConfig, newConfig)
		}
	})

	return i
}

// handleConfig 处理和设置配置的默认值
func handleConfig(c *config.Config) {
	if c.ProjectName == "" {
		c.ProjectName = "Mall Advisor"
	}
	if c.GinAddr == "" {
		c.GinAddr = ":80"
	}
	if c.GinLogPath == "" {
		c.GinLogPath = "log/gin.log"
	}
	if c.RunLogPath == "" {
		c.RunLogPath = "log/run.log"
	}
	if c.Tz == "" {
		c.Tz = "Asia/Ho_Chi_Minh"
	}
	if len(c.Cors) == 0 {
		c.Cors = []string{"*"}
	}
	if c.Database.Type == "" {
		c.Database.Type = string(enum.SQLITE)
	}
	if c.Database.SqlitePath == "" {
		c.Database.SqlitePath = "data.db"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Redis.SessionTTL == 0 {
		c.Redis.SessionTTL = 3600 // 默认1小时
	}
	if c.Redis.LockExpiry == 0 {
		c.Redis.LockExpiry = 30
	}
	if c.Redis.LockWait == 0 {
		c.Redis.LockWait = 3
	}
	for i := range c.Llm {
		if c.Llm[i].Timeout == 0 {
			c.Llm[i].Timeout = 10
		}
		if c.Llm[i].Size == "" {
			c.Llm[i].Size = string(enum.ModelSmall)
		}
	}
	if c.LlmEmbedding.Timeout == 0 {
		c.LlmEmbedding.Timeout = 30
	}
	if c.VectorDb.CollectionName == "" {
		c.VectorDb.CollectionName = "mall_products"
	}
	if c.Ai.MaxPromptLength == 0 {
		c.Ai.MaxPromptLength = 1000
	}
	if c.Ai.CallTimeout == 0 {
		c.Ai.CallTimeout = 8
	}
	if c.Ai.HistoryWindow == 0 {
		c.Ai.HistoryWindow = 10
	}
	if c.Ai.SearchLimit == 0 {
		c.Ai.SearchLimit = 5
	}
	if c.Ai.ContextLimit == 0 {
		c.Ai.ContextLimit = 8
	}
	if c.Ai.VectorSearchTopK == 0 {
		c.Ai.VectorSearchTopK = 10
	}
	if c.Ai.VectorSearchMinSimilarity == 0 {
		c.Ai.VectorSearchMinSimilarity = 0.5
	}
	if len(c.Ai.ResetKeywords) == 0 {
		c.Ai.ResetKeywords = []string{"tư vấn lại", "bắt đầu lại", "làm lại từ đầu"}
	}
	keywords := c.Ai.ResetKeywords[:0]
	for _, k := range c.Ai.ResetKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			keywords = append(keywords, k)
		}
	}
	c.Ai.ResetKeywords = keywords
	if c.Ai.GreetingReply == "" {
		c.Ai.GreetingReply = string(enum.ReplyMsgGreeting)
	}
	if c.Ai.FallbackReply == "" {
		c.Ai.FallbackReply = string(enum.ReplyMsgFallback)
	}
	if c.Consult.MaxRounds == 0 {
		c.Consult.MaxRounds = 2
	}
}
