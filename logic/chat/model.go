package chat

import (
	"context"
	"log"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"legalsense/vars"
)

// NewChatModel 按配置创建聊天模型。LLM 是唯一的可选依赖：
// 没配置或创建失败都返回 nil，服务降级为纯本地模式，不中断启动
func NewChatModel(ctx context.Context) model.ToolCallingChatModel {
	switch vars.LLMPROVIDER {
	case vars.ProviderOllama:
		return createOllamaChatModel(ctx, vars.OLLAMA_PATH, vars.QWEN3B)
	case vars.ProviderOpenAI:
		return createOpenAIChatModel(ctx, vars.OPENAI_BASE, vars.OPENAI_KEY, vars.GPT4O)
	default:
		log.Println(">>> [LLM] 未配置模型，分析和问答走本地兜底")
		return nil
	}
}

func createOllamaChatModel(ctx context.Context, url string, modelName string) model.ToolCallingChatModel {
	chatModel, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: url,       // Ollama 服务地址
		Model:   modelName, // 模型名称
	})
	if err != nil {
		log.Printf(">>> [LLM] create ollama chat model failed: %v, 降级为本地模式", err)
		return nil
	}
	return chatModel
}

func createOpenAIChatModel(ctx context.Context, baseURL, apiKey, modelName string) model.ToolCallingChatModel {
	if apiKey == "" {
		log.Println(">>> [LLM] OPENAI_API_KEY 为空，降级为本地模式")
		return nil
	}
	cfg := &openai.ChatModelConfig{
		APIKey: apiKey,
		Model:  modelName,
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	chatModel, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		log.Printf(">>> [LLM] create openai chat model failed: %v, 降级为本地模式", err)
		return nil
	}
	return chatModel
}
