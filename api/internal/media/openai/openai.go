// Package openai calls the OpenAI REST API directly: chat completions for
// text features and the images endpoint for DALL-E.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/util"
)

const defaultBaseURL = "https://api.openai.com/v1"

type Client struct {
	APIKey  string
	httpc   *http.Client
	baseURL string
}

func New(key string) *Client {
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		// Image generations can take a while before the first byte.
		ResponseHeaderTimeout: 120 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
	}
	return &Client{
		APIKey:  strings.TrimSpace(key),
		httpc:   &http.Client{Timeout: 0, Transport: tr},
		baseURL: defaultBaseURL,
	}
}

// WithHTTPClient overrides the internal HTTP client (e.g. for tests).
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpc = hc
	}
	return c
}

// WithBaseURL points the client at a different API root (tests).
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = strings.TrimRight(base, "/")
	return c
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	if c.APIKey == "" {
		return apperr.New(apperr.KindAuth, "OPEN_AI_API_KEY is empty")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("openai marshal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindNetwork, "openai request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("openai read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return apperr.Wrap(kindForStatus(resp.StatusCode), "openai",
			fmt.Errorf("openai %d: %s", resp.StatusCode, util.Truncate(string(raw), 512)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("openai decode: %w", err)
	}
	return nil
}

func kindForStatus(code int) apperr.Kind {
	switch code {
	case http.StatusUnauthorized:
		return apperr.KindAuth
	case http.StatusForbidden:
		return apperr.KindForbidden
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusTooManyRequests:
		return apperr.KindRateLimit
	case http.StatusBadRequest:
		return apperr.KindContentPolicy
	default:
		return apperr.KindService
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat sends one system+user exchange and returns the assistant text.
func (c *Client) Chat(ctx context.Context, model, system, user string, maxTokens int) (string, error) {
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	req := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	}
	if err := c.post(ctx, "/chat/completions", req, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", apperr.New(apperr.KindEmptyResult, "openai chat returned no choices")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
