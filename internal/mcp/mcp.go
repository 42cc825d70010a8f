package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"gitee.com/taoJie_1/mall-advisor/model/config"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// Service 定义了与MCP服务交互的接口
type Service interface {
	// Close 关闭所有MCP会话
	Close() error
	// ListTools 按服务名返回已发现的工具名
	ListTools() map[string][]string
	// HasTool 判断服务是否提供指定工具
	HasTool(clientName, toolName string) bool
	// ExecuteTool 执行工具并返回文本结果
	ExecuteTool(ctx context.Context, clientName string, toolName string, arguments json.RawMessage) (string, error)
	// AddOrUpdateClient 添加或更新一个MCP客户端配置，并执行一次性连接以发现工具
	AddOrUpdateClient(name string, cfg config.Mcp) error
	// RemoveClient 移除一个MCP客户端
	RemoveClient(name string) error
}

type client struct {
	log         *logrus.Logger
	clients     map[string]*mcp.Client
	configs     map[string]config.Mcp
	tools       map[string]map[string]mcp.Tool
	mu          sync.RWMutex
	appVersion  string
	projectName string
}

// transportWithAuth 在每个请求中添加认证头
type transportWithAuth struct {
	http.RoundTripper
	token string
}

func (t *transportWithAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	if t.token != "" {
		req2.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.RoundTripper.RoundTrip(req2)
}

func newTransport(cfg config.Mcp) *mcp.StreamableClientTransport {
	return &mcp.StreamableClientTransport{
		Endpoint: cfg.Url,
		HTTPClient: &http.Client{
			Transport: &transportWithAuth{
				RoundTripper: http.DefaultTransport,
				token:        cfg.Auth,
			},
		},
	}
}

// ParseToolName 将 "服务名.工具名" 拆分为两部分
func ParseToolName(fullName string) (clientName, toolName string, ok bool) {
	clientName, toolName, ok = strings.Cut(strings.TrimSpace(fullName), ".")
	if !ok || clientName == "" || toolName == "" {
		return "", "", false
	}
	return clientName, toolName, true
}

// NewClient 创建并初始化一个新的MCP服务客户端, 单个服务连接失败不影响其他服务
func NewClient(log *logrus.Logger, mcpConfigs map[string]config.Mcp, appVersion, projectName string) (Service, error) {
	c := &client{
		log:         log,
		clients:     make(map[string]*mcp.Client),
		configs:     make(map[string]config.Mcp),
		tools:       make(map[string]map[string]mcp.Tool),
		appVersion:  appVersion,
		projectName: projectName,
	}

	for name, cfg := range mcpConfigs {
		if err := c.AddOrUpdateClient(name, cfg); err != nil {
			log.Errorf("初始化MCP客户端 '%s' 失败: %v", name, err)
		}
	}

	return c, nil
}

func (c *client) AddOrUpdateClient(name string, cfg config.Mcp) error {
	if cfg.Url == "" {
		return fmt.Errorf("MCP服务 '%s' 未配置url", name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clients[name] = mcp.NewClient(&mcp.Implementation{Name: c.projectName, Version: c.appVersion}, nil)
	c.configs[name] = cfg

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := c.clients[name].Connect(ctx, newTransport(cfg), nil)
	if err != nil {
		c.log.Errorf("为MCP服务 '%s' 发现工具时连接失败: %v", name, err)
		delete(c.tools, name)
		return nil
	}
	defer session.Close()

	loadedTools := make(map[string]mcp.Tool)
	for tool, err := range session.Tools(ctx, nil) {
		if err != nil {
			c.log.Errorf("从MCP服务 '%s' 获取工具列表时出错: %v", name, err)
			delete(c.tools, name)
			return nil
		}
		loadedTools[tool.Name] = *tool
	}

	c.tools[name] = loadedTools
	c.log.Infof("成功为MCP服务 '%s' 发现 %d 个工具", name, len(loadedTools))
	return nil
}

func (c *client) RemoveClient(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeClientUnderLock(name)
	c.log.Infof("已移除MCP客户端: %s", name)
	return nil
}

func (c *client) removeClientUnderLock(name string) {
	delete(c.clients, name)
	delete(c.configs, name)
	delete(c.tools, name)
}

func (c *client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name := range c.clients {
		c.removeClientUnderLock(name)
	}
	return nil
}

func (c *client) ListTools() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string][]string, len(c.tools))
	for clientName, tools := range c.tools {
		names := make([]string, 0, len(tools))
		for name := range tools {
			names = append(names, name)
		}
		sort.Strings(names)
		result[clientName] = names
	}
	return result
}

func (c *client) HasTool(clientName, toolName string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tools[clientName][toolName]
	return ok
}

// coerceArguments 按工具的 schema 把字符串参数转换为数字或布尔值
func coerceArguments(arguments json.RawMessage, schema *jsonschema.Schema) (json.RawMessage, error) {
	if len(arguments) == 0 || string(arguments) == "null" || schema.Properties == nil {
		return arguments, nil
	}

	var argsMap map[string]interface{}
	if err := json.Unmarshal(arguments, &argsMap); err != nil {
		return nil, fmt.Errorf("无法将参数解码为map: %w", err)
	}

	for key, value := range argsMap {
		propSchema, ok := schema.Properties[key]
		if !ok || propSchema.Type == "" {
			continue
		}
		valStr, ok := value.(string)
		if !ok {
			continue
		}
		switch propSchema.Type {
		case "integer":
			if intVal, err := strconv.ParseInt(valStr, 10, 64); err == nil {
				argsMap[key] = intVal
			}
		case "number":
			if floatVal, err := strconv.ParseFloat(valStr, 64); err == nil {
				argsMap[key] = floatVal
			}
		case "boolean":
			if boolVal, err := strconv.ParseBool(valStr); err == nil {
				argsMap[key] = boolVal
			}
		}
	}

	coercedJSON, err := json.Marshal(argsMap)
	if err != nil {
		return nil, fmt.Errorf("无法将修正后的参数重新编码为JSON: %w", err)
	}
	return coercedJSON, nil
}

// toolSchema 将工具的 InputSchema 转为 jsonschema.Schema
func toolSchema(tool mcp.Tool) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(tool.InputSchema)
	if err != nil {
		return nil, err
	}
	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *client) ExecuteTool(ctx context.Context, clientName string, toolName string, arguments json.RawMessage) (string, error) {
	c.mu.RLock()
	cfg, cfgOk := c.configs[clientName]
	mcpClient, clientOk := c.clients[clientName]
	tool, toolOk := c.tools[clientName][toolName]
	c.mu.RUnlock()

	if !cfgOk || !clientOk {
		return "", fmt.Errorf("未找到名为 '%s' 的MCP客户端", clientName)
	}

	finalArguments := arguments
	if toolOk && tool.InputSchema != nil {
		if schema, err := toolSchema(tool); err != nil {
			c.log.Warnf("无法解析工具 '%s' 的InputSchema: %v。将使用原始参数。", toolName, err)
		} else if coerced, err := coerceArguments(arguments, schema); err != nil {
			c.log.Warnf("MCP工具 '%s' 的参数类型转换失败: %v。将使用原始参数。", toolName, err)
		} else {
			finalArguments = coerced
		}
	}

	// 按需执行 连接-调用-关闭
	session, err := mcpClient.Connect(ctx, newTransport(cfg), nil)
	if err != nil {
		return "", fmt.Errorf("执行工具时连接到MCP服务 '%s' 失败: %w", clientName, err)
	}
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      toolName,
		Arguments: finalArguments,
	})
	if err != nil {
		return "", fmt.Errorf("调用工具 '%s' 失败: %w", toolName, err)
	}

	var text strings.Builder
	for _, content := range res.Content {
		if textContent, ok := content.(*mcp.TextContent); ok {
			text.WriteString(textContent.Text)
		}
	}
	if res.IsError {
		return "", fmt.Errorf("工具 '%s' 执行返回错误: %s", toolName, text.String())
	}
	return text.String(), nil
}
