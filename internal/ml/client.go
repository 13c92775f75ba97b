// Package ml is the HTTP client for the prediction/recommendation
// microservice.
package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// PredictRequest carries the habit statistics the model scores.
type PredictRequest struct {
	Streak      int `json:"streak"`
	TargetDays  int `json:"targetDays"`
	Completions int `json:"completions"`
}

type PredictResponse struct {
	SuccessChance float64  `json:"success_chance"`
	Suggestions   []string `json:"suggestions"`
}

func (c *Client) Predict(ctx context.Context, req PredictRequest) (*PredictResponse, error) {
	var out PredictResponse
	if err := c.post(ctx, "/predict", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type recommendRequest struct {
	Habits []string `json:"habits"`
}

type recommendResponse struct {
	Suggestion string `json:"suggestion"`
}

// Recommend returns one habit suggestion based on the names the user
// already tracks.
func (c *Client) Recommend(ctx context.Context, habitNames []string) (string, error) {
	var out recommendResponse
	if err := c.post(ctx, "/recommend", recommendRequest{Habits: habitNames}, &out); err != nil {
		return "", err
	}
	return out.Suggestion, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml service returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
