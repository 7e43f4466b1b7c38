// Package insights talks to the chat-completion API behind the AwareAI
// support chat and the premium insight generator. The exchange is
// stateless request/response; responses are opaque display text.
package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mealcheckin/internal/models"
)

const systemPrompt = `You are a warm, non-judgmental AI guide named "AwareAI", trained in mindful eating, emotional awareness, and user-centred coaching. You support users in understanding the app and deepening their mindful eating practice. Do not give personalised medical, nutritional, or therapeutic advice.`

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey, model string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, model: model, httpClient: httpClient}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c != nil && c.apiKey != "" }

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Complete sends the system prompt plus the conversation and returns the
// assistant's reply text.
func (c *Client) Complete(ctx context.Context, conversation []Message) (string, error) {
	reqBody := completionRequest{
		Model:    c.model,
		Messages: append([]Message{{Role: "system", Content: systemPrompt}}, conversation...),
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion: unexpected status %d", resp.StatusCode)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("chat completion decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return out.Choices[0].Message.Content, nil
}

// GenerateInsight asks for a short reflection over the user's completed
// entries. The entry list is summarized into a compact digest so the
// prompt stays small regardless of history size.
func (c *Client) GenerateInsight(ctx context.Context, completed []models.MealEntry) (string, error) {
	digest := summarize(completed)
	return c.Complete(ctx, []Message{{
		Role:    "user",
		Content: "Here is a digest of my recent completed meal check-ins. Offer one gentle, non-prescriptive reflection.\n\n" + digest,
	}})
}

func summarize(completed []models.MealEntry) string {
	if len(completed) == 0 {
		return "No completed check-ins yet."
	}
	var b strings.Builder
	for i, e := range completed {
		if i == 20 {
			fmt.Fprintf(&b, "... and %d more\n", len(completed)-i)
			break
		}
		mood := ""
		if len(e.Emotions) > 0 && len(e.EmotionsAfter) > 0 {
			mood = fmt.Sprintf(", mood %s → %s", e.Emotions[0], e.EmotionsAfter[0])
		}
		fmt.Fprintf(&b, "- %s %s: energy %d → %d, hunger %d, fullness %d%s\n",
			e.Date.Format("2006-01-02"), e.MealType,
			e.EnergyLevel, e.Energy, e.HungerLevel, e.Fullness, mood)
	}
	return b.String()
}
