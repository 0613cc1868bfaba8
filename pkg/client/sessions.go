package client

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"

	"github.com/turtacn/ChemDraw-AI/pkg/types/chem"
)

// SessionsClient drives controller sessions.
type SessionsClient struct {
	client *Client
}

// DownloadedFile is the payload of a session download.
type DownloadedFile struct {
	Name        string
	ContentType string
	Data        []byte
	// ArchiveURL is set when the server archived the file.
	ArchiveURL string
}

func sessionPath(id string, suffix string) string {
	return "/api/v1/sessions/" + url.PathEscape(id) + suffix
}

// Create starts a new session.
func (s *SessionsClient) Create(ctx context.Context) (*chem.SessionView, error) {
	var v chem.SessionView
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/sessions", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Get returns the current view of session id.
func (s *SessionsClient) Get(ctx context.Context, id string) (*chem.SessionView, error) {
	var v chem.SessionView
	if err := s.client.do(ctx, http.MethodGet, sessionPath(id, ""), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete ends session id.
func (s *SessionsClient) Delete(ctx context.Context, id string) error {
	_, err := s.client.send(ctx, http.MethodDelete, sessionPath(id, ""), nil)
	return err
}

// SetFormula replaces the formula text.
func (s *SessionsClient) SetFormula(ctx context.Context, id, formula string) (*chem.SessionView, error) {
	var v chem.SessionView
	if err := s.client.do(ctx, http.MethodPut, sessionPath(id, "/formula"), chem.SetFormulaRequest{Formula: formula}, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Generate runs generate-then-correct for the session's formula.
func (s *SessionsClient) Generate(ctx context.Context, id string) (*chem.SessionView, error) {
	var v chem.SessionView
	if err := s.client.do(ctx, http.MethodPost, sessionPath(id, "/generate"), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ApplySuggestion copies suggestion index into the formula.
func (s *SessionsClient) ApplySuggestion(ctx context.Context, id string, index int) (*chem.SessionView, error) {
	var v chem.SessionView
	path := sessionPath(id, fmt.Sprintf("/suggestions/%d/apply", index))
	if err := s.client.do(ctx, http.MethodPost, path, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Download fetches the current result of the session.
func (s *SessionsClient) Download(ctx context.Context, id string) (*DownloadedFile, error) {
	raw, err := s.client.send(ctx, http.MethodGet, sessionPath(id, "/download"), nil)
	if err != nil {
		return nil, err
	}
	f := &DownloadedFile{
		ContentType: raw.header.Get("Content-Type"),
		Data:        raw.body,
		ArchiveURL:  raw.header.Get("X-Archive-URL"),
	}
	if _, params, err := mime.ParseMediaType(raw.header.Get("Content-Disposition")); err == nil {
		f.Name = params["filename"]
	}
	return f, nil
}

func unmarshal(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

//Personal.AI order the ending
