package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// SpeakerTurn is one stretch of speech attributed to a single speaker,
// with timestamps in seconds.
type SpeakerTurn struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

// Diarizer returns who spoke when for an audio file.
type Diarizer interface {
	Diarize(ctx context.Context, audioPath string) ([]SpeakerTurn, error)
}

// DiarizeClient implements Diarizer against a pyannote-style diarization
// webservice that accepts an audio upload and returns speaker turns.
type DiarizeClient struct {
	baseURL    string
	httpClient *http.Client
}

// DiarizeOption configures the DiarizeClient.
type DiarizeOption func(*DiarizeClient)

// WithDiarizeTimeout sets the HTTP request timeout.
func WithDiarizeTimeout(d time.Duration) DiarizeOption {
	return func(c *DiarizeClient) {
		c.httpClient.Timeout = d
	}
}

// WithDiarizeHTTPClient sets a custom HTTP client.
func WithDiarizeHTTPClient(client *http.Client) DiarizeOption {
	return func(c *DiarizeClient) {
		c.httpClient = client
	}
}

// NewDiarizeClient creates a new client for the diarization webservice.
func NewDiarizeClient(baseURL string, opts ...DiarizeOption) *DiarizeClient {
	c := &DiarizeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Diarize uploads the audio file and returns the detected speaker turns
// in temporal order.
func (c *DiarizeClient) Diarize(ctx context.Context, audioPath string) ([]SpeakerTurn, error) {
	body, contentType, err := multipartAudioBody(audioPath)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("build URL: %w", err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/diarize"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: status %d: %s", resp.StatusCode, string(respBody))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var diarizeResp diarizeResponse
	if err := json.Unmarshal(data, &diarizeResp); err != nil {
		return nil, fmt.Errorf("parse JSON response: %w", err)
	}

	return diarizeResp.Turns, nil
}

// diarizeResponse represents the JSON response from the diarization service.
type diarizeResponse struct {
	Turns []SpeakerTurn `json:"turns"`
}
