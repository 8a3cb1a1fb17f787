package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"anglicorpus/internal/vocab"
)

const defaultHTTPTimeout = 10 * time.Second

// Config describes the tagging service client configuration.
type Config struct {
	URL        string
	HTTPClient *http.Client
}

// Client asks a remote tagging service for the part of speech of one word.
// The service accepts POST {"word": "..."} and answers {"pos": "NOUN"} using
// Universal Dependencies labels.
type Client struct {
	url  string
	http *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimSpace(cfg.URL)
	if endpoint == "" {
		return nil, errors.New("tagger: service url is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{url: endpoint, http: client}, nil
}

type tagRequest struct {
	Word string `json:"word"`
}

type tagResponse struct {
	POS string `json:"pos"`
}

// Tag implements vocab.Tagger.
func (c *Client) Tag(ctx context.Context, word string) (vocab.POS, error) {
	if c == nil {
		return "", errors.New("tagger: client is nil")
	}
	body, err := json.Marshal(tagRequest{Word: word})
	if err != nil {
		return "", fmt.Errorf("tagger: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("tagger: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("tagger: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("tagger: tag %q failed (%s): %s", word, resp.Status, strings.TrimSpace(string(snippet)))
	}

	var payload tagResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("tagger: decode response: %w", err)
	}
	pos, err := vocab.ParsePOS(payload.POS)
	if err != nil {
		return "", fmt.Errorf("tagger: tag %q: %w", word, err)
	}
	return pos, nil
}
