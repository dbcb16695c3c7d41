package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openaigo "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Cea89585/Wasteland-Automata-sub000/internal/adapters/metrics"
	"github.com/Cea89585/Wasteland-Automata-sub000/internal/domain/narrative"
)

// ErrGenerationFailed wraps every failure of the remote generator
var ErrGenerationFailed = errors.New("narrative generation failed")

const systemPrompt = `You write short encounters for a post-apocalyptic survival game.
Answer with a single JSON object: {"faction": "<name>", "description": "<one or two sentences>"}.
Pick the faction from the list you are given. Keep the description under 240 characters.`

// Config holds the remote generator settings
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	RequestsPerMinute int
}

// OpenAIGenerator produces encounters with an OpenAI compatible chat completion API
type OpenAIGenerator struct {
	client  *openaigo.Client
	model   string
	limiter *rate.Limiter
	logger  *zap.Logger
}

var _ narrative.Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates a generator; an empty BaseURL keeps the client default
func NewOpenAIGenerator(cfg Config, logger *zap.Logger) *OpenAIGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openaigo.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 6
	}
	return &OpenAIGenerator{
		client:  openaigo.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		logger:  logger.Named("OpenAIGenerator"),
	}
}

// Generate asks the model for one encounter at req's location
func (g *OpenAIGenerator) Generate(ctx context.Context, req narrative.Request) (narrative.Response, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		metrics.RecordNarrativeRequest("rate_limited", 0)
		return narrative.Response{}, fmt.Errorf("%w: rate limit: %v", ErrGenerationFailed, err)
	}

	prompt, err := json.Marshal(req)
	if err != nil {
		return narrative.Response{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openaigo.ChatCompletionRequest{
		Model: g.model,
		Messages: []openaigo.ChatCompletionMessage{
			{Role: openaigo.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openaigo.ChatMessageRoleUser, Content: string(prompt)},
		},
		Temperature: 0.9,
		MaxTokens:   200,
		ResponseFormat: &openaigo.ChatCompletionResponseFormat{
			Type: openaigo.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordNarrativeRequest("error", elapsed)
		g.logger.Warn("chat completion failed", zap.String("model", g.model), zap.Duration("elapsed", elapsed), zap.Error(err))
		return narrative.Response{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.RecordNarrativeRequest("empty", elapsed)
		return narrative.Response{}, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	out, err := parseEncounter(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.RecordNarrativeRequest("invalid", elapsed)
		return narrative.Response{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	metrics.RecordNarrativeRequest("success", elapsed)
	g.logger.Debug("encounter generated",
		zap.String("location", req.Location),
		zap.String("faction", out.Faction),
		zap.Int("totalTokens", resp.Usage.TotalTokens),
	)
	return out, nil
}

// parseEncounter reads the JSON object out of a completion, tolerating code fences
func parseEncounter(content string) (narrative.Response, error) {
	text := strings.TrimSpace(content)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var out narrative.Response
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return narrative.Response{}, fmt.Errorf("response is not an encounter object: %w", err)
	}
	out.Faction = strings.TrimSpace(out.Faction)
	out.Description = strings.TrimSpace(out.Description)
	if !out.Valid() {
		return narrative.Response{}, errors.New("encounter is missing faction or description")
	}
	return out, nil
}
