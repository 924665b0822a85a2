package parse

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"docindex/config"
	"docindex/pkg/logger"
)

// Client talks to the cloud document-parsing service: upload a file, poll
// the parse job, fetch the JSON result and download extracted images. All
// parsing, layout and image-detection semantics belong to the service; this
// client only moves bytes.
type Client struct {
	baseURL      string
	apiKey       string
	httpClient   *http.Client
	pollInterval time.Duration
}

// NewClient builds a parse client from configuration.
func NewClient() *Client {
	interval := time.Duration(config.Cfg.Parse.PollInterval) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(config.Cfg.Parse.BaseURL, "/"),
		apiKey:       config.Cfg.Parse.Key,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		pollInterval: interval,
	}
}

// Enabled reports whether a service key is configured. Without one the
// ingestion pipeline falls back to local text extraction.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// ParseJSON uploads the file, waits for the parse job to finish and returns
// the page-level JSON result. Waiting is bounded by ctx.
func (c *Client) ParseJSON(ctx context.Context, filePath string) (*Result, error) {
	jobID, err := c.upload(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("parse upload: %w", err)
	}
	logger.WithFields(map[string]interface{}{
		"job_id": jobID,
		"file":   filePath,
	}).Info("parse: job submitted")

	if err := c.waitForJob(ctx, jobID); err != nil {
		return nil, err
	}

	pages, err := c.fetchJSONResult(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("parse result: %w", err)
	}
	logger.WithFields(map[string]interface{}{
		"job_id": jobID,
		"pages":  len(pages),
	}).Info("parse: job done")
	return &Result{JobID: jobID, Pages: pages}, nil
}

func (c *Client) upload(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(filePath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/parsing/upload", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	var out uploadResponse
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("parse service returned no job id")
	}
	return out.ID, nil
}

func (c *Client) waitForJob(ctx context.Context, jobID string) error {
	for {
		status, err := c.jobStatus(ctx, jobID)
		if err != nil {
			return err
		}
		switch strings.ToUpper(status.Status) {
		case "SUCCESS":
			return nil
		case "ERROR", "CANCELED":
			return fmt.Errorf("parse job %s failed: %s", jobID, status.Error)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) jobStatus(ctx context.Context, jobID string) (*jobStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/parsing/job/%s", c.baseURL, jobID), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)
	var out jobStatusResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) fetchJSONResult(ctx context.Context, jobID string) ([]Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/parsing/job/%s/result/json", c.baseURL, jobID), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)
	var out jsonResultResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out.Pages, nil
}

func (c *Client) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("parse service: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
