// Package engine is the HTTP boundary to the match simulation service. It
// opens the chunked event streams and hands the raw body readers to the
// session layer; it never touches session state itself.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Streamer is the surface the session layer depends on, so tests can feed
// sessions from scripted readers instead of a live engine.
type Streamer interface {
	StartMatch(ctx context.Context, req StartRequest) (io.ReadCloser, error)
	ContinueMatch(ctx context.Context, req ContinuationRequest) (io.ReadCloser, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewClient builds a client for the engine at baseURL. headerTimeout bounds
// how long we wait for the stream to open; the body itself stays open for
// the whole half, so no overall client timeout is set.
func NewClient(baseURL string, headerTimeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Transport: &http.Transport{ResponseHeaderTimeout: headerTimeout},
		},
		log: log,
	}
}

// StartMatch opens the first-half stream.
func (c *Client) StartMatch(ctx context.Context, req StartRequest) (io.ReadCloser, error) {
	return c.stream(ctx, "/simulate_match", req)
}

// ContinueMatch opens the second-half stream after the half-time interrupt.
func (c *Client) ContinueMatch(ctx context.Context, req ContinuationRequest) (io.ReadCloser, error) {
	return c.stream(ctx, "/continue_match", req)
}

func (c *Client) stream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("engine %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("engine %s: unexpected status %s", path, resp.Status)
	}

	c.log.Info("engine stream opened", zap.String("path", path))
	return resp.Body, nil
}
