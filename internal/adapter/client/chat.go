package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"learnify-core/internal/domain/entity"
	"learnify-core/internal/domain/repository"
)

const (
	ssePrefix   = "data: "
	sseSentinel = "[DONE]"
)

// ChatCompletionsClient talks to an OpenAI-compatible chat-completions
// endpoint, in both buffered and SSE streaming modes.
type ChatCompletionsClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

func NewChatCompletionsClient(baseURL, apiKey, model string) *ChatCompletionsClient {
	return &ChatCompletionsClient{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: 0.7,
		maxTokens:   1000,
		// No overall timeout: streaming responses are open-ended and bounded
		// by the caller's context instead.
		httpClient: &http.Client{},
	}
}

func (c *ChatCompletionsClient) request(ctx context.Context, systemPrompt, userQuery string, stream bool) (*http.Response, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userQuery},
		},
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
		"stream":      stream,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &entity.TransportError{Provider: "chat", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, &entity.TransportError{Provider: "chat", Status: resp.StatusCode}
	}
	return resp, nil
}

// Complete returns the full completion text in one call.
func (c *ChatCompletionsClient) Complete(ctx context.Context, systemPrompt, userQuery string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.request(ctx, systemPrompt, userQuery, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &entity.TransportError{Provider: "chat", Err: err}
	}
	content := gjson.GetBytes(raw, "choices.0.message.content")
	if !content.Exists() {
		return "", &entity.MalformedResponseError{Provider: "chat", Reason: "missing completion content"}
	}
	return content.String(), nil
}

// Stream opens a streaming completion and relays each delta fragment.
// Malformed individual events are skipped; a transport failure or a stream
// ending without the terminator sentinel yields a final delta with Err set.
// Cancelling ctx aborts the read and releases the connection.
func (c *ChatCompletionsClient) Stream(ctx context.Context, systemPrompt, userQuery string) (<-chan repository.StreamDelta, error) {
	resp, err := c.request(ctx, systemPrompt, userQuery, true)
	if err != nil {
		return nil, err
	}

	out := make(chan repository.StreamDelta)
	go func() {
		defer close(out)
		defer func() {
			if errClose := resp.Body.Close(); errClose != nil {
				log.WithError(errClose).Debug("chat stream: close response body")
			}
		}()

		sawSentinel := false
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(nil, 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || !strings.HasPrefix(line, ssePrefix) {
				continue
			}
			payload := line[len(ssePrefix):]
			if payload == sseSentinel {
				sawSentinel = true
				break
			}
			if !gjson.Valid(payload) {
				// Malformed events are not fatal.
				continue
			}
			text := gjson.Get(payload, "choices.0.delta.content").String()
			if text == "" {
				continue
			}
			select {
			case out <- repository.StreamDelta{Text: text}:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			c.fail(ctx, out, fmt.Errorf("%w: %v", entity.ErrStreamTransport, err))
			return
		}
		if !sawSentinel {
			c.fail(ctx, out, fmt.Errorf("%w: stream ended without terminator", entity.ErrStreamTransport))
		}
	}()
	return out, nil
}

func (c *ChatCompletionsClient) fail(ctx context.Context, out chan<- repository.StreamDelta, err error) {
	select {
	case out <- repository.StreamDelta{Err: err}:
	case <-ctx.Done():
	}
}
