package narration

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client communicates with a Google-style text:synthesize REST API.
// The credential is re-read on every call so edits take effect without a
// restart.
type Client struct {
	endpoint string
	voice    VoiceConfig
	key      func() string
	http     *http.Client
}

// NewClient creates a synthesis client. key returns the current API
// credential.
func NewClient(endpoint string, voice VoiceConfig, key func() string) *Client {
	return &Client{
		endpoint: endpoint,
		voice:    voice,
		key:      key,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type synthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string  `json:"audioEncoding"`
		Pitch         float64 `json:"pitch"`
		SpeakingRate  float64 `json:"speakingRate"`
	} `json:"audioConfig"`
}

type synthesizeResponse struct {
	AudioContent string `json:"audioContent"`
	Error        struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Synthesize submits text and returns the decoded audio payload (MP3).
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var req synthesizeRequest
	req.Input.Text = text
	req.Voice.LanguageCode = c.voice.LanguageCode
	req.Voice.Name = c.voice.Name
	req.AudioConfig.AudioEncoding = "MP3"
	req.AudioConfig.Pitch = c.voice.Pitch
	req.AudioConfig.SpeakingRate = c.voice.SpeakingRate

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.endpoint + "/v1/text:synthesize?key=" + url.QueryEscape(c.key())
	httpReq, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("synthesize request: %w", err)
	}
	defer resp.Body.Close()

	var result synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if result.Error.Message != "" {
			return nil, fmt.Errorf("provider: %s", result.Error.Message)
		}
		return nil, fmt.Errorf("provider: HTTP %d", resp.StatusCode)
	}
	if result.AudioContent == "" {
		return nil, fmt.Errorf("provider: empty audio content")
	}

	payload, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return payload, nil
}
