package client

import (
	"context"
	"net/http"

	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
	"github.com/turtacn/ChemDraw-AI/pkg/types/common"
)

// Generate calls the stateless Generation Service.
func (c *Client) Generate(ctx context.Context, formula string) (*chem.GenerationResult, error) {
	var out chem.GenerationResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/generations", chem.GenerateRequest{Formula: formula}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SuggestCorrections calls the stateless Correction Service.
func (c *Client) SuggestCorrections(ctx context.Context, formula string) (*chem.CorrectionResult, error) {
	var out chem.CorrectionResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/corrections", chem.CorrectionRequest{Formula: formula}, &out); err != nil {
		return nil, err
	}
	if out.CorrectedFormulas == nil {
		out.CorrectedFormulas = []string{}
	}
	return &out, nil
}

// Ready queries the readiness probe.  A 503 is returned as *APIError.
func (c *Client) Ready(ctx context.Context) (*common.HealthReport, error) {
	raw, err := c.send(ctx, http.MethodGet, "/readyz", nil)
	if err != nil {
		return nil, err
	}
	var report common.HealthReport
	if err := unmarshal(raw.body, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

//Personal.AI order the ending
