package user

import (
	"time"

	"gitee.com/taoJie_1/mall-advisor/dao"
	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
)

type ServiceGroup struct {
	ChatService ChatService
	Catalog     Catalog
	Validator   IValidator
}

// NewServiceGroup 使用全局配置与客户端组装服务, 配置热更新后重新调用
func NewServiceGroup() ServiceGroup {
	cfg := global.Config
	callTimeout := time.Duration(cfg.Ai.CallTimeout) * time.Second

	var vector vectorSearcher
	if global.VectorDb != nil && global.EmbeddingService != nil {
		vector = &dao.App.ProductVector
	}
	var tools toolRunner
	if global.McpService != nil {
		tools = global.McpService
	}

	catalog := NewCatalog(&dao.App.ProductDb, vector, tools, CatalogOptions{
		TopK:          cfg.Ai.VectorSearchTopK,
		MinSimilarity: cfg.Ai.VectorSearchMinSimilarity,
		Tool:          cfg.Ai.CatalogTool,
	}, global.Log)

	sessions := NewSessionStore(global.RedisClient, SessionOptions{
		TTL:        time.Duration(cfg.Redis.SessionTTL) * time.Second,
		LockExpiry: time.Duration(cfg.Redis.LockExpiry) * time.Second,
		LockWait:   time.Duration(cfg.Redis.LockWait) * time.Second,
	}, global.Log)

	chat := NewChatService(ChatDeps{
		Llm:          global.LlmService,
		Classifier:   NewIntentClassifier(global.LlmService, callTimeout, global.Log, global.Metrics),
		Extractor:    NewSlotExtractor(global.LlmService, callTimeout, global.Log, global.Metrics),
		ScriptEngine: NewScriptEngine(),
		Knowledge:    NewKnowledgeProvider(cfg.Ai.AfterSalesPolicy),
		Catalog:      catalog,
		Sessions:     sessions,
		Leads:        &dao.App.LeadDb,
		Metrics:      global.Metrics,
	}, ChatOptions{
		HistoryWindow: cfg.Ai.HistoryWindow,
		SearchLimit:   cfg.Ai.SearchLimit,
		ContextLimit:  cfg.Ai.ContextLimit,
		MaxRounds:     cfg.Consult.MaxRounds,
		ResetKeywords: cfg.Ai.ResetKeywords,
		GreetingReply: cfg.Ai.GreetingReply,
		FallbackReply: cfg.Ai.FallbackReply,
		AdvisorSize:   advisorSize(),
	}, global.Log)

	return ServiceGroup{
		ChatService: chat,
		Catalog:     catalog,
		Validator:   &Validator{MaxPromptLength: cfg.Ai.MaxPromptLength},
	}
}

// advisorSize 顾问回答优先使用配置中最大的模型
func advisorSize() enum.LlmSize {
	sizes := map[enum.LlmSize]bool{}
	for _, l := range global.Config.Llm {
		sizes[enum.LlmSize(l.Size)] = true
	}
	for _, size := range []enum.LlmSize{enum.ModelLarge, enum.ModelMedium, enum.ModelSmall} {
		if sizes[size] {
			return size
		}
	}
	return enum.ModelSmall
}
