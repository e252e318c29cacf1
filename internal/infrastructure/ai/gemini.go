package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Turn is one prior exchange in a conversation, passed back to the model as
// context.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Result carries the generated text and the token cost the caller is charged.
type Result struct {
	Text       string
	TokensUsed int64
}

// Provider generates an assistant reply from stored instructions and history.
// Implementations report the actual token usage of the call; the ledger
// charges that figure, not an estimate.
type Provider interface {
	Generate(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (*Result, error)
}

type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

func (c *GeminiClient) Generate(ctx context.Context, systemPrompt string, history []Turn, userMessage string) (*Result, error) {
	contents := make([]geminiContent, 0, len(history)+1)
	for _, turn := range history {
		role := "user"
		if turn.Role == "assistant" {
			role = "model"
		}
		contents = append(contents, geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: turn.Content}},
		})
	}
	contents = append(contents, geminiContent{
		Role:  "user",
		Parts: []geminiPart{{Text: userMessage}},
	})

	requestBody := map[string]interface{}{
		"systemInstruction": geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		"contents": contents,
		"generationConfig": map[string]interface{}{
			"temperature": 0.7,
		},
	}

	text, usage, err := c.makeAPICall(ctx, fmt.Sprintf("/models/%s:generateContent", c.model), requestBody)
	if err != nil {
		return nil, err
	}

	tokensUsed := usage
	if tokensUsed == 0 {
		// Older API versions omit usageMetadata; fall back to the same
		// character heuristic used for pre-flight pricing.
		inputLen := len(systemPrompt) + len(userMessage)
		for _, turn := range history {
			inputLen += len(turn.Content)
		}
		tokensUsed = estimateFromLength(inputLen) + estimateFromLength(len(text))
	}

	return &Result{Text: text, TokensUsed: tokensUsed}, nil
}

func estimateFromLength(n int) int64 {
	return int64((n + 3) / 4)
}

func (c *GeminiClient) makeAPICall(ctx context.Context, endpoint string, requestBody map[string]interface{}) (string, int64, error) {
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", 0, err
	}

	url := fmt.Sprintf("%s%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", 0, err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
		UsageMetadata *struct {
			TotalTokenCount int64 `json:"totalTokenCount"`
		} `json:"usageMetadata"`
		Error *struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", 0, fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if response.Error != nil {
		return "", 0, fmt.Errorf("gemini API error %d: %s", response.Error.Code, response.Error.Message)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", 0, fmt.Errorf("no response from Gemini")
	}

	var usage int64
	if response.UsageMetadata != nil {
		usage = response.UsageMetadata.TotalTokenCount
	}

	return response.Candidates[0].Content.Parts[0].Text, usage, nil
}
