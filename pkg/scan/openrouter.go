package scan

import (
	"LabelWise-Backend/domain"
	"LabelWise-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

	ocrPrompt = "Extract all text from this image. Respond ONLY with the raw text and no additional commentary."

	categorizePromptFormat = `Analyze the following ingredient list:
"%s"

Your response MUST be a valid JSON object. Do not include any text before or after the JSON. The JSON object must have the following structure:
{
  "beneficial": [],
  "harmful": [],
  "neutral": [],
  "summary": ""
}

Each item inside the 'beneficial', 'harmful', and 'neutral' arrays MUST be an object with two specific keys: "ingredient" and "reason".

For example:
{
  "beneficial": [
    { "ingredient": "Almonds", "reason": "Good source of healthy fats and protein." }
  ]
}

Do NOT combine the ingredient and its reason into a single string. They must be separate keys within an object.`
)

// OpenRouterClient implements both provider adapters against the OpenRouter
// chat completions API. The OCR and categorization models are configuration,
// not hard-wired behavior.
type OpenRouterClient struct {
	APIKey     string
	OCRModel   string
	LLMModel   string
	BaseURL    string
	HTTPClient *http.Client
}

func NewOpenRouterClient() *OpenRouterClient {
	baseURL := utils.GetConfig("OPENROUTER_BASE_URL")
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}

	return &OpenRouterClient{
		APIKey:     utils.GetConfig("OPENROUTER_KEY"),
		OCRModel:   utils.GetConfig("OCR_MODEL"),
		LLMModel:   utils.GetConfig("LLM_MODEL"),
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type (
	chatRequest struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}

	chatMessage struct {
		Role    string `json:"role"`
		Content any    `json:"content"`
	}

	chatResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
)

func (c *OpenRouterClient) ExtractText(ctx context.Context, img ImageInput) (string, error) {
	imageURL := img.URL
	if imageURL == "" {
		mimeType := img.MimeType
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		imageURL = fmt.Sprintf("data:%s;base64,%s", mimeType, img.Base64)
	}

	reqBody := chatRequest{
		Model: c.OCRModel,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []map[string]any{
					{"type": "text", "text": ocrPrompt},
					{"type": "image_url", "image_url": map[string]string{"url": imageURL}},
				},
			},
		},
	}

	content, err := c.complete(ctx, reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrOCRUpstream, err)
	}
	return content, nil
}

func (c *OpenRouterClient) Categorize(ctx context.Context, ingredientsText string) (string, error) {
	reqBody := chatRequest{
		Model: c.LLMModel,
		Messages: []chatMessage{
			{
				Role:    "user",
				Content: fmt.Sprintf(categorizePromptFormat, ingredientsText),
			},
		},
	}

	content, err := c.complete(ctx, reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLLMUpstream, err)
	}
	return content, nil
}

func (c *OpenRouterClient) complete(ctx context.Context, reqBody chatRequest) (string, error) {
	requestJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/chat/completions", bytes.NewBuffer(requestJSON))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openrouter API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", nil
	}
	return chatResp.Choices[0].Message.Content, nil
}
