package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HuggingFaceProvider talks to a Hugging Face inference endpoint. It is the
// second provider in the chain and shares the Groq temperature and token cap.
type HuggingFaceProvider struct {
	APIKey      string
	URL         string
	Temperature float64
	MaxTokens   int
	HTTPClient  *http.Client
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

type hfCandidate struct {
	GeneratedText string `json:"generated_text"`
}

func (p *HuggingFaceProvider) Name() string { return "huggingface" }

func (p *HuggingFaceProvider) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := hfRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens: p.MaxTokens,
			Temperature:  p.Temperature,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.URL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("huggingface request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("huggingface returned status %d", resp.StatusCode)
	}

	var candidates []hfCandidate
	if err := json.Unmarshal(respBytes, &candidates); err != nil {
		return "", fmt.Errorf("parse huggingface response: %w", err)
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("huggingface returned no candidates")
	}

	return strings.TrimSpace(candidates[0].GeneratedText), nil
}
