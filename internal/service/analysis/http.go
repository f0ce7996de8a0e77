package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"BeautyGenius/entity"
)

// HTTPAnalyzer delegates the analysis to a remote service.
type HTTPAnalyzer struct {
	url    string
	client *http.Client
}

type analyzeRequest struct {
	ImageID     string `json:"image_id"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

func NewHTTPAnalyzer(baseURL string, timeout time.Duration) *HTTPAnalyzer {
	return &HTTPAnalyzer{
		url:    strings.TrimRight(baseURL, "/"),
		client: &http.Client{Timeout: timeout},
	}
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, image *entity.Image) (entity.Analysis, error) {
	if image == nil {
		return entity.Analysis{}, fmt.Errorf("no image")
	}

	requestBody, err := json.Marshal(analyzeRequest{
		ImageID:     image.ID,
		ContentType: image.ContentType,
		Data:        base64.StdEncoding.EncodeToString(image.Data),
	})
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url+"/analyze", bytes.NewBuffer(requestBody))
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return entity.Analysis{}, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.Analysis{}, fmt.Errorf("failed to analyze image: status code %d", resp.StatusCode)
	}

	var result entity.Analysis
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return entity.Analysis{}, fmt.Errorf("failed to decode response body: %w", err)
	}
	return result, nil
}
