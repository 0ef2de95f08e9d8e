package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"learnify-core/internal/domain/entity"
)

// callTimeout bounds a single provider attempt so the retry loop's worst
// case stays finite.
const callTimeout = 30 * time.Second

// HTTPProvider calls a provider's feature-specific endpoints over HTTP with
// bearer auth. A non-2xx status, a non-JSON content type, or a body that
// fails feature-schema validation all surface as errors so the gateway can
// advance its fallback chain.
type HTTPProvider struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPProvider(name, baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		name:       name,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: callTimeout},
	}
}

func (p *HTTPProvider) Name() string { return p.name }

func (p *HTTPProvider) Call(ctx context.Context, feature entity.AIFeature, data map[string]any) (*entity.AIResponse, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	url := p.baseURL + feature.EndpointPath()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, &entity.TransportError{Provider: p.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &entity.TransportError{Provider: p.name, Status: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return nil, &entity.MalformedResponseError{
			Provider:    p.name,
			ContentType: contentType,
			Reason:      "non-JSON content received",
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &entity.TransportError{Provider: p.name, Err: err}
	}

	result, err := entity.DecodeFeatureResult(feature, raw)
	if err != nil {
		return nil, &entity.MalformedResponseError{
			Provider:    p.name,
			ContentType: contentType,
			Reason:      err.Error(),
		}
	}
	return &entity.AIResponse{Success: true, Data: result}, nil
}
