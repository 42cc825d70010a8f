package config

type Database struct {
	Type          string `json:"type" mapstructure:"type" yaml:"type"`
	SqlitePath    string `json:"sqlite_path" mapstructure:"sqlite_path" yaml:"sqlite_path"`
	MysqlHost     string `json:"mysql_host" mapstructure:"mysql_host" yaml:"mysql_host"`
	MysqlPort     string `json:"mysql_port" mapstructure:"mysql_port" yaml:"mysql_port"`
	MysqlDbname   string `json:"mysql_dbname" mapstructure:"mysql_dbname" yaml:"mysql_dbname"`
	MysqlUsername string `json:"mysql_username" mapstructure:"mysql_username" yaml:"mysql_username"`
	MysqlPassword string `json:"mysql_password" mapstructure:"mysql_password" yaml:"mysql_password"`
}

type Redis struct {
	Addr     string `json:"addr" mapstructure:"addr" yaml:"addr"`
	Password string `json:"password" mapstructure:"password" yaml:"password"`
	DB       uint   `json:"db" mapstructure:"db" yaml:"db"`
	// 会话状态的过期时间(秒)
	SessionTTL int64 `json:"session_ttl" mapstructure:"session_ttl" yaml:"session_ttl"`
	// 会话锁的过期时间(秒), 防止持锁进程崩溃后死锁
	LockExpiry int64 `json:"lock_expiry" mapstructure:"lock_expiry" yaml:"lock_expiry"`
	// 等待会话锁的最长时间(秒)
	LockWait int64 `json:"lock_wait" mapstructure:"lock_wait" yaml:"lock_wait"`
}

type Llm struct {
	Url         string   `json:"url" mapstructure:"url" yaml:"url"`
	Model       string   `json:"model" mapstructure:"model" yaml:"model"`
	Auth        string   `json:"auth" mapstructure:"auth" yaml:"auth"`
	Size        string   `json:"size" mapstructure:"size" yaml:"size"`
	Timeout     int64    `json:"timeout" mapstructure:"timeout" yaml:"timeout"`
	Temperature *float32 `json:"temperature" mapstructure:"temperature" yaml:"temperature"`
}

type LlmEmbedding struct {
	Url     string `json:"url" mapstructure:"url" yaml:"url"`
	Model   string `json:"model" mapstructure:"model" yaml:"model"`
	Auth    string `json:"auth" mapstructure:"auth" yaml:"auth"`
	Timeout int64  `json:"timeout" mapstructure:"timeout" yaml:"timeout"`
}

type VectorDb struct {
	Url            string `json:"url" mapstructure:"url" yaml:"url"`
	Auth           string `json:"auth" mapstructure:"auth" yaml:"auth"`
	CollectionName string `json:"collection_name" mapstructure:"collection_name" yaml:"collection_name"`
}

type Ai struct {
	MaxPromptLength uint `json:"max_prompt_length" mapstructure:"max_prompt_length" yaml:"max_prompt_length"`
	// 意图分类、字段提取单次调用的超时(秒), 超时按失败处理
	CallTimeout int64 `json:"call_timeout" mapstructure:"call_timeout" yaml:"call_timeout"`
	// 会话中保留的历史消息条数
	HistoryWindow int `json:"history_window" mapstructure:"history_window" yaml:"history_window"`
	// 商品搜索返回的默认条数
	SearchLimit int `json:"search_limit" mapstructure:"search_limit" yaml:"search_limit"`
	// 提供给顾问的上下文商品最大条数
	ContextLimit              int     `json:"context_limit" mapstructure:"context_limit" yaml:"context_limit"`
	VectorSearchTopK          int     `json:"vector_search_top_k" mapstructure:"vector_search_top_k" yaml:"vector_search_top_k"`
	VectorSearchMinSimilarity float32 `json:"vector_search_min_similarity" mapstructure:"vector_search_min_similarity" yaml:"vector_search_min_similarity"`
	// 远程商品目录MCP工具, 格式: 服务名.工具名
	CatalogTool string `json:"catalog_tool" mapstructure:"catalog_tool" yaml:"catalog_tool"`
	// 命中任一关键词时重新开始咨询
	ResetKeywords []string `json:"reset_keywords" mapstructure:"reset_keywords" yaml:"reset_keywords"`
	GreetingReply string   `json:"greeting_reply" mapstructure:"greeting_reply" yaml:"greeting_reply"`
	FallbackReply string   `json:"fallback_reply" mapstructure:"fallback_reply" yaml:"fallback_reply"`
	// 售后政策补充说明, 追加到顾问提示词末尾
	AfterSalesPolicy string `json:"after_sales_policy" mapstructure:"after_sales_policy" yaml:"after_sales_policy"`
}

type Consult struct {
	// 全部问题问完后仍有字段未填时, 最多再从头补问的轮数
	MaxRounds int `json:"max_rounds" mapstructure:"max_rounds" yaml:"max_rounds"`
}

type Mcp struct {
	Url  string `json:"url" mapstructure:"url" yaml:"url"`
	Auth string `json:"auth" mapstructure:"auth" yaml:"auth"`
}
