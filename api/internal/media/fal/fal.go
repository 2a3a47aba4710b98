// Package fal calls fal.ai-hosted models through the queue API: submit,
// poll at a fixed interval, fetch the result.
package fal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"media-proxy/api/internal/apperr"
	"media-proxy/api/internal/util"
)

const defaultQueueURL = "https://queue.fal.run"

type Client struct {
	apiKey       string
	httpc        *http.Client
	queueURL     string
	pollInterval time.Duration
}

func New(apiKey string) *Client {
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		// generation jobs run long; the poll loop owns the deadline
		httpc:        &http.Client{Timeout: 300 * time.Second},
		queueURL:     defaultQueueURL,
		pollInterval: 2 * time.Second,
	}
}

// WithEndpoint points the client at a different queue base URL (tests).
func (c *Client) WithEndpoint(base string) *Client {
	c.queueURL = strings.TrimRight(base, "/")
	return c
}

// WithPollInterval overrides the fixed status-poll interval.
func (c *Client) WithPollInterval(d time.Duration) *Client {
	c.pollInterval = d
	return c
}

type queueSubmit struct {
	RequestID   string `json:"request_id"`
	StatusURL   string `json:"status_url"`
	ResponseURL string `json:"response_url"`
}

type queueStatus struct {
	Status string `json:"status"`
	Error  any    `json:"error,omitempty"`
}

type falError struct {
	Detail any `json:"detail"`
}

// Run submits args to model, polls until the job leaves the queue and
// decodes the result payload into out.
func (c *Client) Run(ctx context.Context, model string, args any, out any) error {
	if c.apiKey == "" {
		return apperr.New(apperr.KindAuth, "FAL_API_KEY is empty")
	}

	var sub queueSubmit
	if err := c.do(ctx, http.MethodPost, c.queueURL+"/"+model, args, &sub); err != nil {
		return err
	}
	if sub.StatusURL == "" || sub.ResponseURL == "" {
		return apperr.New(apperr.KindService, "fal.ai queue returned no status URL")
	}

	for {
		var st queueStatus
		if err := c.do(ctx, http.MethodGet, sub.StatusURL, nil, &st); err != nil {
			return err
		}
		switch st.Status {
		case "COMPLETED":
			return c.do(ctx, http.MethodGet, sub.ResponseURL, nil, out)
		case "ERROR", "FAILED":
			return apperr.New(apperr.KindService, fmt.Sprintf("fal.ai job failed: %v", st.Error))
		}
		log.Printf("fal.ai job %s is %s, checking again in %s", sub.RequestID, st.Status, c.pollInterval)
		select {
		case <-ctx.Done():
			return apperr.Wrap(apperr.KindTimeout, "fal.ai poll", ctx.Err())
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("fal marshal: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindNetwork, "fal.ai request", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fal read body: %w", err)
	}
	if resp.StatusCode >= 400 {
		var fe falError
		if json.Unmarshal(raw, &fe) == nil && fe.Detail != nil {
			return apperr.Wrap(kindForStatus(resp.StatusCode), "fal.ai",
				fmt.Errorf("fal.ai error: %v", fe.Detail))
		}
		return apperr.Wrap(kindForStatus(resp.StatusCode), "fal.ai",
			fmt.Errorf("fal.ai %d: %s", resp.StatusCode, util.Truncate(string(raw), 512)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("fal decode: %w", err)
	}
	return nil
}

// Download fetches generated media bytes from the result URL fal hands back.
func (c *Client) Download(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, "", apperr.Wrap(apperr.KindNetwork, "fal.ai download", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", apperr.New(apperr.KindService, fmt.Sprintf("fal.ai download %d", resp.StatusCode))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("fal download read: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
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
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		return apperr.KindValidation
	default:
		return apperr.KindService
	}
}
