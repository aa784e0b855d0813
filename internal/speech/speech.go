// Package speech provides speech-to-text and text-to-speech over an
// OpenAI-compatible audio API, plus the on-disk store for synthesized
// audio artifacts. The orchestration engine only ever sees text and
// artifact names, never audio bytes.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to Whisper-compatible transcription and speech endpoints.
type Client struct {
	baseURL  string
	apiKey   string
	sttModel string
	ttsModel string
	voice    string
	client   *http.Client
	dir      *Dir
}

// NewClient creates a speech client writing artifacts into dir. baseURL
// defaults to the Groq API; models default to whisper-large-v3 for
// transcription and playai-tts for synthesis.
func NewClient(baseURL, apiKey, sttModel, ttsModel, voice string, dir *Dir) *Client {
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	if sttModel == "" {
		sttModel = "whisper-large-v3"
	}
	if ttsModel == "" {
		ttsModel = "playai-tts"
	}
	if voice == "" {
		voice = "Fritz-PlayAI"
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		sttModel: sttModel,
		ttsModel: ttsModel,
		voice:    voice,
		client:   &http.Client{Timeout: 2 * time.Minute},
		dir:      dir,
	}
}

// Transcribe converts candidate audio to text. An empty transcription is a
// valid result (silence) and is returned as "".
func (c *Client) Transcribe(ctx context.Context, wav []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(wav); err != nil {
		return "", err
	}
	if err := mw.WriteField("model", c.sttModel); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription API error (%d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parsing transcription response: %w", err)
	}
	return result.Text, nil
}

// Synthesize renders text to speech and stores the audio under filename,
// returning the artifact name for later streaming.
func (c *Client) Synthesize(ctx context.Context, text, filename string) (string, error) {
	reqBody := map[string]any{
		"model":           c.ttsModel,
		"voice":           c.voice,
		"input":           text,
		"response_format": "wav",
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/audio/speech", bytes.NewReader(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech API: %w", err)
	}
	defer resp.Body.Close()

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech API error (%d): %s", resp.StatusCode, string(audio))
	}

	return c.dir.Write(filename, audio)
}
