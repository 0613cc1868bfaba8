package llm

import (
	"context"

	"google.golang.org/genai"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// contentGenerator is satisfied by *genai.Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiModel calls the Gemini API.
type GeminiModel struct {
	models contentGenerator
	model  string
	logger logging.Logger
}

// NewGeminiModel creates a Gemini API client for cfg.Model.
func NewGeminiModel(ctx context.Context, cfg config.IntelligenceConfig, log logging.Logger) (*GeminiModel, error) {
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAIModelNotAvailable, "failed to create gemini client")
	}
	return newGeminiModel(client.Models, cfg.Model, log), nil
}

func newGeminiModel(models contentGenerator, model string, log logging.Logger) *GeminiModel {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &GeminiModel{models: models, model: model, logger: log.Named("gemini")}
}

func (m *GeminiModel) Name() string { return m.model }

func (m *GeminiModel) Complete(ctx context.Context, req *Request) (*Response, error) {
	gc := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(req.Temperature)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   req.Schema.toGenai(),
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := m.models.GenerateContent(ctx, m.model, genai.Text(req.User), gc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeAIInferenceFailed, "gemini request failed").WithDetail(req.Prompt)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errors.New(errors.ErrCodeAIOutputMalformed, "gemini returned no candidates").WithDetail(req.Prompt)
	}

	out := &Response{Text: resp.Text()}
	if u := resp.UsageMetadata; u != nil {
		out.InputTokens = int(u.PromptTokenCount)
		out.OutputTokens = int(u.CandidatesTokenCount)
	}
	m.logger.Debug("gemini completion",
		logging.String("prompt", req.Prompt),
		logging.Int("input_tokens", out.InputTokens),
		logging.Int("output_tokens", out.OutputTokens))
	return out, nil
}

//Personal.AI order the ending
