package health

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/healthhub-app/healthhub/backend/internal/models"
)

// checkResp reads the response body and returns an error if the status is not 2xx.
// On error it includes the upstream body for debugging.
func checkResp(resp *http.Response, service, path string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(resp.Body)
	return fmt.Errorf("%s %s returned %d: %s", service, path, resp.StatusCode, string(body))
}

// AdviceClient calls the external diet-advice service over HTTP. The call
// is synchronous and best-effort: a failure is surfaced inline to the
// caller and nothing is retried.
type AdviceClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAdviceClient(baseURL string) *AdviceClient {
	return &AdviceClient{baseURL: strings.TrimRight(baseURL, "/"), httpClient: &http.Client{}}
}

// Suggest calls POST /api/advice with (calories, goal) and returns the
// free-text suggestion.
func (c *AdviceClient) Suggest(calories int, goal models.Goal) (string, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"calories": calories, "goal": goal,
	})
	resp, err := c.post("/api/advice", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkResp(resp, "advice-service", "/api/advice"); err != nil {
		return "", err
	}

	var result struct {
		Advice string `json:"advice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("advice-service /api/advice: decode: %w", err)
	}
	return result.Advice, nil
}

func (c *AdviceClient) post(path string, body []byte) (*http.Response, error) {
	resp, err := c.httpClient.Post(
		c.baseURL+path,
		"application/json",
		bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("advice-service %s: %w", path, err)
	}
	return resp, nil
}
