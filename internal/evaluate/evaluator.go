// Package evaluate rates candidate answers against ideal answers using
// text embeddings and cosine similarity.
package evaluate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/agakshita/voxhire/internal/interview"
)

// Similarity thresholds for the four ordinal ratings.
const (
	excellentThreshold    = 0.8
	goodThreshold         = 0.6
	satisfactoryThreshold = 0.4
)

// Client rates answers via an OpenAI-compatible embeddings endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// New creates an evaluator client. baseURL defaults to the OpenAI API and
// model to "text-embedding-3-small" when empty.
func New(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 1 * time.Minute},
	}
}

// Rate embeds both texts in one request and maps their cosine similarity to
// a rating. It never retries; failures are surfaced to the caller.
func (c *Client) Rate(ctx context.Context, answer, ideal string) (interview.Rating, error) {
	var result struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	reqBody := map[string]any{
		"model": c.model,
		"input": []string{answer, ideal},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/embeddings", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("embeddings API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("embeddings API error (%d): %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing embeddings response: %w", err)
	}
	if len(result.Data) != 2 {
		return "", fmt.Errorf("expected 2 embeddings, got %d", len(result.Data))
	}

	score := Cosine(result.Data[0].Embedding, result.Data[1].Embedding)
	return RateScore(score), nil
}

// RateScore maps a similarity score to the four-level rating scale.
func RateScore(score float64) interview.Rating {
	switch {
	case score > excellentThreshold:
		return interview.RatingExcellent
	case score > goodThreshold:
		return interview.RatingGood
	case score > satisfactoryThreshold:
		return interview.RatingSatisfactory
	default:
		return interview.RatingPoor
	}
}

// Cosine computes the cosine similarity of two vectors. Mismatched or empty
// vectors score zero.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
