package llm

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// OpenAIModel calls an OpenAI-compatible chat completions endpoint.
type OpenAIModel struct {
	client *openai.Client
	model  string
	logger logging.Logger
}

// NewOpenAIModel builds a client for cfg.Model.  cfg.BaseURL selects a
// compatible endpoint other than api.openai.com.
func NewOpenAIModel(cfg config.IntelligenceConfig, log logging.Logger) *OpenAIModel {
	if log == nil {
		log = logging.NewNopLogger()
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &OpenAIModel{
		client: openai.NewClientWithConfig(oc),
		model:  cfg.Model,
		logger: log.Named("openai"),
	}
}

func (m *OpenAIModel) Name() string { return m.model }

func (m *OpenAIModel) Complete(ctx context.Context, req *Request) (*Response, error) {
	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User})

	ccr := openai.ChatCompletionRequest{
		Model:       m.model,
		Messages:    msgs,
		Temperature: float32(req.Temperature),
	}
	if req.Schema != nil {
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   req.Prompt,
				Schema: req.Schema.toJSONSchema(),
			},
		}
	} else {
		ccr.ResponseFormat = &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject}
	}

	resp, err := m.client.CreateChatCompletion(ctx, ccr)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAIInferenceFailed, "openai request failed").WithDetail(req.Prompt)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(errors.ErrCodeAIOutputMalformed, "openai returned no choices").WithDetail(req.Prompt)
	}

	out := &Response{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}
	m.logger.Debug("openai completion",
		logging.String("prompt", req.Prompt),
		logging.Int("input_tokens", out.InputTokens),
		logging.Int("output_tokens", out.OutputTokens))
	return out, nil
}

//Personal.AI order the ending
