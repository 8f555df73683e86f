package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/toolpilot-ai/toolpilot/models"
	"github.com/toolpilot-ai/toolpilot/pkg/logger"
)

// Provider 推荐理由润色服务提供方
type Provider interface {
	GenerateRationale(ctx context.Context, prompt string) (string, error)
}

// Enricher 可选的推荐理由润色器
// 外部服务失败或超时绝不阻塞推荐流程，始终回退到确定性理由
type Enricher struct {
	provider Provider
	timeout  time.Duration
	log      *logger.Logger
}

// NewEnricher 创建润色器，provider为nil时所有调用直接回退
func NewEnricher(provider Provider, timeout time.Duration, baseLog *logger.Logger) *Enricher {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Enricher{
		provider: provider,
		timeout:  timeout,
		log:      baseLog.With("component", "advisory"),
	}
}

// Enrich 尝试用自然语言润色推荐理由，任何失败都返回fallback
func (e *Enricher) Enrich(ctx context.Context, tool *models.Tool, profile *models.UserProfile, fallback string) string {
	if e == nil || e.provider == nil {
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Rewrite the following reasons why the AI tool %q fits a %s in the %s industry into one friendly sentence: %s",
		tool.Name, profile.Role, profile.Industry, fallback,
	)

	enriched, err := e.provider.GenerateRationale(ctx, prompt)
	if err != nil {
		e.log.Warn("advisory enrichment failed, using deterministic reason",
			"tool", tool.Name, "error", err.Error())
		return fallback
	}
	if enriched == "" {
		return fallback
	}
	return enriched
}

// OpenAIProvider 基于OpenAI兼容接口的润色实现
type OpenAIProvider struct {
	apiKey string
	model  string
	client *http.Client
}

// NewOpenAIProvider 创建OpenAI提供方，apiKey为空时返回nil表示未配置
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{},
	}
}

// 请求结构体
type openAIRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// 响应结构体
type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateRationale 调用模型生成一句话推荐理由
func (p *OpenAIProvider) GenerateRationale(ctx context.Context, prompt string) (string, error) {
	requestBody := openAIRequest{
		Model: p.model,
		Messages: []message{
			{Role: "system", Content: "You write one short, friendly sentence explaining why a productivity tool suits a user. No marketing fluff."},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var response openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", err
	}

	if response.Error.Message != "" {
		return "", errors.New(response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return "", errors.New("no response from advisory model")
	}

	return response.Choices[0].Message.Content, nil
}
