package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

var (
	errEmptyResponse = errors.New("empty response from Gemini")
	errNoKeys        = errors.New("no Gemini API keys configured")
)

const summaryPrompt = `你是一名培训视频内容分析专家。请根据下面的视频文字稿，用简体中文写一份详细的总结。

要求：
- 以一句话的总标题开头，概括视频主题
- 按出现顺序列出所有主要步骤或要点
- 详细解释每个步骤，包括重要的注意事项、技巧和警告
- 专业术语保留原文，并在括号中注明
- 使用 markdown 格式：标题、列表、关键词加粗
- 如有需要强调的信息，最后加上"重要提示"一节

视频文字稿：
---
%s
---`

func geminiGenerate(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errEmptyResponse
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return "", errEmptyResponse
	}
	return sb.String(), nil
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// summarize sends prose to Gemini. Rate-limited keys are rotated; once every
// key has been tried the round is retried after a backoff, up to MaxRetries rounds.
func (s *implSummarizer) summarize(ctx context.Context, prose string) (string, error) {
	if len(s.cfg.APIKeys) == 0 {
		return "", errNoKeys
	}
	prompt := fmt.Sprintf(summaryPrompt, prose)

	rounds := max(s.cfg.MaxRetries, 1)
	var lastErr error
	for round := range rounds {
		if round > 0 && s.backoff > 0 {
			select {
			case <-time.After(s.backoff * time.Duration(round)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		for range s.cfg.APIKeys {
			text, err := s.generate(ctx, s.cfg.APIKeys[s.currentKey], s.cfg.Model, prompt)
			if err == nil {
				return text, nil
			}
			if !isRateLimited(err) {
				return "", err
			}
			s.logger.Warn(ctx, "Key %d rate limited, rotating...", s.currentKey+1)
			s.rotateKey()
			lastErr = err
		}
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (s *implSummarizer) rotateKey() {
	s.currentKey = (s.currentKey + 1) % len(s.cfg.APIKeys)
}
