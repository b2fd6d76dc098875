package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the completion surface the consultation flow depends on. Only
// the white triage path and interview creation call out to it.
type Client interface {
	// GenerateQuestionnaire synthesizes follow-up questions for a symptom
	// description. The is_child flag adjusts the prompt for pediatric
	// phrasing.
	GenerateQuestionnaire(ctx context.Context, symptom string, isChild bool) ([]string, error)
	// MatchCategory picks the best-fitting symptom category for free text,
	// returning the chosen category id.
	MatchCategory(ctx context.Context, symptom string, options []CategoryOption) (int, error)
}

// CategoryOption is one candidate for category matching.
type CategoryOption struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Config configures the completion client.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	Timeout    time.Duration
}

type completionClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	httpClient *http.Client
}

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 1024
	defaultTimeout   = 30 * time.Second
)

// baseBackoff is the first-retry delay; doubled on each subsequent attempt.
// A variable so tests can shrink it.
var baseBackoff = time.Second

// NewClient builds a chat-completion client for any OpenAI-compatible
// endpoint.
func NewClient(cfg Config) Client {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &completionClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

const questionnairePrompt = `あなたは問診票を作成する医療アシスタントです。
患者の症状説明に合わせた追加質問を作成してください。
回答は次のJSONのみで返してください: {"questions": [{"text": "..."}]}`

const categoryMatchPrompt = `あなたは症状を分類する医療アシスタントです。
症状説明に最も合うカテゴリを選び、次のJSONのみで返してください: {"category_id": <id>}`

// questionnairePayload is the structured shape expected from the model.
type questionnairePayload struct {
	Questions []struct {
		Text string `json:"text"`
	} `json:"questions"`
}

type categoryPayload struct {
	CategoryID int `json:"category_id"`
}

func (c *completionClient) GenerateQuestionnaire(ctx context.Context, symptom string, isChild bool) ([]string, error) {
	subject := "成人"
	if isChild {
		subject = "小児"
	}
	user := fmt.Sprintf("対象: %s\n症状: %s", subject, symptom)

	content, err := c.complete(ctx, questionnairePrompt, user)
	if err != nil {
		return nil, err
	}

	var payload questionnairePayload
	if err := ExtractPayload(content, &payload); err != nil {
		return nil, err
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("completion returned no questions")
	}

	texts := make([]string, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		if q.Text != "" {
			texts = append(texts, q.Text)
		}
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("completion returned no questions")
	}
	return texts, nil
}

func (c *completionClient) MatchCategory(ctx context.Context, symptom string, options []CategoryOption) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("no category options provided")
	}

	opts, err := json.Marshal(options)
	if err != nil {
		return 0, fmt.Errorf("marshal category options: %w", err)
	}
	user := fmt.Sprintf("症状: %s\n候補: %s", symptom, string(opts))

	content, err := c.complete(ctx, categoryMatchPrompt, user)
	if err != nil {
		return 0, err
	}

	var payload categoryPayload
	if err := ExtractPayload(content, &payload); err != nil {
		return 0, err
	}
	for _, o := range options {
		if o.ID == payload.CategoryID {
			return payload.CategoryID, nil
		}
	}
	return 0, fmt.Errorf("completion chose unknown category %d", payload.CategoryID)
}

// complete issues the chat-completion request with bounded retries and
// exponential backoff on transport errors, 429s and 5xx responses.
func (c *completionClient) complete(ctx context.Context, system, user string) (string, error) {
	req := chatRequest{
		Model:       c.model,
		MaxTokens:   defaultMaxTokens,
		Temperature: 0.3,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := baseBackoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		content, err := c.doRequest(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *completionClient) doRequest(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &retryableError{err: fmt.Errorf("completion request failed: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &retryableError{err: fmt.Errorf("rate limited (429)")}
	}
	if resp.StatusCode >= 500 {
		return "", &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(respBody))}
	}
	if resp.StatusCode != http.StatusOK {
		var errResp apiError
		if jerr := json.Unmarshal(respBody, &errResp); jerr == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}
	return chat.Choices[0].Message.Content, nil
}
