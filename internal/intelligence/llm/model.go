// Package llm runs structured prompts against a generative model.  A prompt
// renders its template, asks the model for JSON matching a schema, and
// decodes and validates the answer into a typed output.
package llm

import (
	"context"
	"sync"

	"github.com/turtacn/ChemDraw-AI/internal/config"
	"github.com/turtacn/ChemDraw-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemDraw-AI/pkg/errors"
)

// Request is one completion call.
type Request struct {
	// Prompt names the calling prompt for logs and metrics.
	Prompt      string
	System      string
	User        string
	Schema      *Schema
	Temperature float64
}

// Response is the raw model answer.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Model is a generative backend able to answer in JSON.
type Model interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
	Name() string
}

// NewModel builds the backend selected by cfg.Provider.
func NewModel(ctx context.Context, cfg config.IntelligenceConfig, log logging.Logger) (Model, error) {
	if cfg.APIKey == "" {
		return nil, errors.New(errors.ErrCodeAIModelNotAvailable, "no API key configured").WithDetail(string(cfg.Provider))
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiModel(ctx, cfg, log)
	case config.ProviderOpenAI:
		return NewOpenAIModel(cfg, log), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfig, "unknown provider %q", cfg.Provider)
	}
}

// MockModel answers from CompleteFunc and records every request.
type MockModel struct {
	ModelName    string
	CompleteFunc func(ctx context.Context, req *Request) (*Response, error)

	mu       sync.Mutex
	requests []*Request
}

// NewMockModel returns a MockModel that answers with text.
func NewMockModel(text string) *MockModel {
	return &MockModel{
		ModelName: "mock",
		CompleteFunc: func(context.Context, *Request) (*Response, error) {
			return &Response{Text: text}, nil
		},
	}
}

func (m *MockModel) Complete(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return &Response{Text: "{}"}, nil
}

func (m *MockModel) Name() string {
	if m.ModelName == "" {
		return "mock"
	}
	return m.ModelName
}

// Requests returns the requests seen so far.
func (m *MockModel) Requests() []*Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Request(nil), m.requests...)
}

//Personal.AI order the ending
