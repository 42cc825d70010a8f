package llm

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"gitee.com/taoJie_1/mall-advisor/internal/metrics"
	"gitee.com/taoJie_1/mall-advisor/model/common"
	"gitee.com/taoJie_1/mall-advisor/model/config"
	"gitee.com/taoJie_1/mall-advisor/model/enum"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

var (
	ErrClientNotFound = errors.New("未找到指定大小的LLM客户端实例")
	ErrConfigNotFound = errors.New("未找到指定的LLM客户端配置")
	ErrUnavailable    = errors.New("LLM服务暂不可用, 请稍后再试")
	ErrEmptyResult    = errors.New("LLM服务返回了空结果")
)

// CompletionRequest 一次补全调用的参数
type CompletionRequest struct {
	Size         enum.LlmSize
	SystemPrompt enum.SystemPrompt
	Content      string
	History      []common.LlmMessage
	// nil 时使用配置文件中的温度, 再没有则使用模型默认值
	Temperature *float32
	// 为空时不设置 response_format
	Format enum.ResponseFormat
}

type Service interface {
	// 调用LLM进行实时对话
	ChatCompletion(ctx context.Context, size enum.LlmSize, systemPrompt enum.SystemPrompt, content string, temperature ...float32) (string, error)
	// 调用LLM进行实时对话，并支持传入历史消息
	ChatCompletionWithHistory(ctx context.Context, size enum.LlmSize, systemPrompt enum.SystemPrompt, content string, history []common.LlmMessage, temperature ...float32) (string, error)
	// Complete 完整参数的补全调用, 分类与提取使用 json_object 格式
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

// client 封装了与LLM交互的底层逻辑
type client struct {
	log        *logrus.Logger
	llmClients map[enum.LlmSize]*openai.Client
	llmConfigs []config.Llm
	metrics    *metrics.AdvisorMetrics
}

// NewClient 创建一个新的LLM客户端实例，并通过依赖注入初始化
func NewClient(log *logrus.Logger, clients map[enum.LlmSize]*openai.Client, configs []config.Llm, m *metrics.AdvisorMetrics) Service {
	return &client{
		log:        log,
		llmClients: clients,
		llmConfigs: configs,
		metrics:    m,
	}
}

// Temperature 返回指向 t 的指针
func Temperature(t float32) *float32 {
	return &t
}

// getLlmConfig 根据大小获取模型配置, 找不到时使用第一个
func (c *client) getLlmConfig(size enum.LlmSize) *config.Llm {
	for i := range c.llmConfigs {
		if enum.LlmSize(c.llmConfigs[i].Size) == size {
			return &c.llmConfigs[i]
		}
	}
	if len(c.llmConfigs) > 0 {
		return &c.llmConfigs[0]
	}
	return nil
}

// filterContent 从LLM的原始响应中剥离思考过程标签
func filterContent(rawAnswer string) string {
	if parts := strings.SplitN(rawAnswer, "</think>", 2); len(parts) > 1 {
		return strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(rawAnswer)
}

// wireTemperature go-openai 对 temperature 使用 omitempty, 0 会被丢弃
func wireTemperature(t float32) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}

func (c *client) ChatCompletion(ctx context.Context, size enum.LlmSize, systemPrompt enum.SystemPrompt, content string, temperature ...float32) (string, error) {
	return c.ChatCompletionWithHistory(ctx, size, systemPrompt, content, nil, temperature...)
}

// systemPrompt: LLM的系统提示词
// content: 用户问题 + 商品资料
// history: 之前的对话历史消息列表
func (c *client) ChatCompletionWithHistory(ctx context.Context, size enum.LlmSize, systemPrompt enum.SystemPrompt, content string, history []common.LlmMessage, temperature ...float32) (string, error) {
	req := &CompletionRequest{
		Size:         size,
		SystemPrompt: systemPrompt,
		Content:      content,
		History:      history,
	}
	if len(temperature) > 0 {
		req.Temperature = Temperature(temperature[0])
	}
	return c.Complete(ctx, req)
}

func (c *client) Complete(ctx context.Context, r *CompletionRequest) (string, error) {
	llmClient, ok := c.llmClients[r.Size]
	if !ok {
		return "", ErrClientNotFound
	}
	llmConfig := c.getLlmConfig(r.Size)
	if llmConfig == nil || llmConfig.Model == "" {
		return "", ErrConfigNotFound
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(r.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: string(r.SystemPrompt),
	})
	for _, msg := range r.History {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: r.Content,
	})

	req := openai.ChatCompletionRequest{
		Model:    llmConfig.Model,
		Messages: messages,
	}

	// 优先使用传入的temperature参数，其次是配置文件中的，最后使用LLM默认值
	if r.Temperature != nil {
		req.Temperature = wireTemperature(*r.Temperature)
	} else if llmConfig.Temperature != nil {
		req.Temperature = wireTemperature(*llmConfig.Temperature)
	}

	if r.Format == enum.ResponseFormatJsonObject {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := llmClient.CreateChatCompletion(ctx, req)
	if err != nil {
		c.metrics.ObserveLlmLatency(llmConfig.Model, "error", time.Since(start).Seconds())
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		c.log.Errorf("LLM API调用失败[p0ol]: %v", err)
		return "", ErrUnavailable
	}
	c.metrics.ObserveLlmLatency(llmConfig.Model, "ok", time.Since(start).Seconds())

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResult
	}
	return filterContent(resp.Choices[0].Message.Content), nil
}
