package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"learnify-core/internal/domain/entity"
)

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint. The usage
// report in the response feeds the token budget; callers fall back to their
// own estimate when the report is absent.
type OpenAIEmbedder struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewOpenAIEmbedder(baseURL, apiKey, model string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *OpenAIEmbedder) CreateEmbedding(ctx context.Context, text string) ([]float32, int, error) {
	body, err := json.Marshal(map[string]any{
		"model":           e.model,
		"input":           text,
		"encoding_format": "float",
	})
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, 0, &entity.TransportError{Provider: "embeddings", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, 0, &entity.TransportError{Provider: "embeddings", Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &entity.TransportError{Provider: "embeddings", Err: err}
	}
	if !gjson.ValidBytes(raw) {
		return nil, 0, &entity.MalformedResponseError{Provider: "embeddings", Reason: "invalid JSON body"}
	}

	values := gjson.GetBytes(raw, "data.0.embedding").Array()
	if len(values) == 0 {
		return nil, 0, &entity.MalformedResponseError{Provider: "embeddings", Reason: "empty embedding"}
	}
	vector := make([]float32, len(values))
	for i, v := range values {
		vector[i] = float32(v.Float())
	}

	usage := int(gjson.GetBytes(raw, "usage.total_tokens").Int())
	return vector, usage, nil
}
