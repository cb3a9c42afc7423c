// Package client provides HTTP clients for the transcription and
// diarization webservices.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// TranscriptionClient sends audio and receives timed text.
type TranscriptionClient interface {
	Transcribe(ctx context.Context, audioPath string, opts TranscribeOptions) (*TranscriptionResult, error)
}

// TranscribeOptions configures the transcription request.
type TranscribeOptions struct {
	Language string
	Model    string
}

// Word is a single recognized word with its timestamps in seconds.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// TranscriptSegment is a recognized stretch of speech.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words"`
}

// TranscriptionResult contains the API response.
type TranscriptionResult struct {
	Text     string
	Language string
	Duration float64
	Segments []TranscriptSegment
}

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 5 * time.Minute

// WhisperASRClient implements TranscriptionClient for
// onerahmet/openai-whisper-asr-webservice.
type WhisperASRClient struct {
	baseURL    string
	httpClient *http.Client
}

// WhisperASROption configures the WhisperASRClient.
type WhisperASROption func(*WhisperASRClient)

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) WhisperASROption {
	return func(c *WhisperASRClient) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) WhisperASROption {
	return func(c *WhisperASRClient) {
		c.httpClient = client
	}
}

// NewWhisperASRClient creates a new client for the whisper-asr-webservice.
func NewWhisperASRClient(baseURL string, opts ...WhisperASROption) *WhisperASRClient {
	c := &WhisperASRClient{
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

// Transcribe sends an audio file to the whisper-asr-webservice and
// returns the transcription with segment and word timestamps.
func (c *WhisperASRClient) Transcribe(ctx context.Context, audioPath string, opts TranscribeOptions) (*TranscriptionResult, error) {
	body, contentType, err := multipartAudioBody(audioPath)
	if err != nil {
		return nil, err
	}

	reqURL, err := c.buildURL(opts)
	if err != nil {
		return nil, fmt.Errorf("build URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
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

	return parseTranscriptionResponse(resp.Body)
}

func (c *WhisperASRClient) buildURL(opts TranscribeOptions) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}

	// Ensure path ends with /asr
	if u.Path == "" || u.Path == "/" {
		u.Path = "/asr"
	}

	q := u.Query()
	q.Set("output", "json")
	q.Set("word_timestamps", "true")

	if opts.Language != "" && opts.Language != "auto" {
		q.Set("language", opts.Language)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

func parseTranscriptionResponse(body io.Reader) (*TranscriptionResult, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp whisperASRResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("parse JSON response: %w", err)
	}

	result := &TranscriptionResult{
		Text:     resp.Text,
		Language: resp.Language,
		Segments: resp.Segments,
	}
	if n := len(resp.Segments); n > 0 {
		result.Duration = resp.Segments[n-1].End
	}
	return result, nil
}

// whisperASRResponse represents the JSON response from the whisper-asr-webservice.
type whisperASRResponse struct {
	Text     string              `json:"text"`
	Language string              `json:"language"`
	Segments []TranscriptSegment `json:"segments"`
}

// multipartAudioBody builds a multipart form holding the audio file.
func multipartAudioBody(audioPath string) (io.Reader, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio_file", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy audio data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
