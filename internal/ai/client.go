package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/config"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

var (
	// ErrNotConfigured indicates the AI client has no API key.
	ErrNotConfigured = errors.New("ai client not configured")
	// ErrAPICallFailed indicates the chat completion call failed.
	ErrAPICallFailed = errors.New("ai api call failed")
	// ErrInvalidResponse indicates an unusable response payload.
	ErrInvalidResponse = errors.New("invalid ai api response")
)

const (
	defaultOpenAIBase = "https://api.openai.com/v1"
	defaultClaudeBase = "https://api.anthropic.com/v1"

	maxCandidateSnippet = 200
	maxBriefEmails      = 5
)

// Client talks to an OpenAI-compatible chat-completions endpoint. It backs
// the two generative capabilities the assistant uses: the optional relevance
// pass over retrieved emails, and brief generation. Both callers treat
// failures as degradable.
type Client struct {
	provider   string
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a Client from config. The zero-key client is valid but
// reports ErrNotConfigured on use.
func NewClient(cfg config.AI) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		switch strings.ToLower(cfg.Provider) {
		case "claude":
			baseURL = defaultClaudeBase
		default:
			baseURL = defaultOpenAIBase
		}
	}
	return &Client{
		provider: strings.ToLower(cfg.Provider),
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured reports whether the client can make calls at all.
func (c *Client) IsConfigured() bool { return c.apiKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) sendChat(ctx context.Context, messages []chatMessage, maxTokens int) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	switch c.provider {
	case "claude":
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")
	default:
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPICallFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrAPICallFailed, resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrAPICallFailed, chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", ErrInvalidResponse
	}
	return chatResp.Choices[0].Message.Content, nil
}

// ClassifyRelevance asks the model which candidates actually relate to the
// meeting and returns that subset in the original order. Callers treat any
// error as "keep everything".
func (c *Client) ClassifyRelevance(ctx context.Context, meeting model.Meeting, candidates []model.EmailCandidate) ([]model.EmailCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Meeting: %s\n", meeting.Title)
	if meeting.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", truncate(meeting.Description, 500))
	}
	sb.WriteString("\nCandidate emails:\n")
	for i, cand := range candidates {
		preview := cand.Snippet
		if preview == "" {
			preview = cand.Body
		}
		fmt.Fprintf(&sb, "%d. From: %s | Subject: %s | %s\n",
			i+1, cand.From, cand.Subject, truncate(preview, maxCandidateSnippet))
	}

	messages := []chatMessage{
		{
			Role: "system",
			Content: `You select which emails are relevant to preparing for a meeting.
Rules:
- Respond with ONLY the numbers of the relevant emails, comma-separated (e.g. "1,3,4")
- Respond with "NONE" if no email is relevant
- An email is relevant if it discusses the meeting's topic, participants, or agenda
- Do not include any explanation`,
		},
		{Role: "user", Content: sb.String()},
	}

	response, err := c.sendChat(ctx, messages, 100)
	if err != nil {
		return nil, err
	}

	response = strings.TrimSpace(response)
	if strings.EqualFold(response, "NONE") {
		return nil, nil
	}

	keep := make(map[int]bool)
	for _, tok := range strings.FieldsFunc(response, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n'
	}) {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			continue
		}
		if n >= 1 && n <= len(candidates) {
			keep[n-1] = true
		}
	}
	if len(keep) == 0 {
		return nil, fmt.Errorf("%w: unparsable selection %q", ErrInvalidResponse, response)
	}

	out := make([]model.EmailCandidate, 0, len(keep))
	for i, cand := range candidates {
		if keep[i] {
			out = append(out, cand)
		}
	}
	return out, nil
}

// GenerateBrief produces a sectioned markdown prep brief for the meeting and
// its top relevant emails.
func (c *Client) GenerateBrief(ctx context.Context, meeting model.Meeting, emails []model.ScoredEmail) (string, error) {
	if len(emails) > maxBriefEmails {
		emails = emails[:maxBriefEmails]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Meeting: %s\n", meeting.Title)
	fmt.Fprintf(&sb, "Time: %s\n", meeting.StartTime.Format(time.RFC1123))
	fmt.Fprintf(&sb, "Priority: %s\n", meeting.Priority)
	fmt.Fprintf(&sb, "Attendees: %s\n", strings.Join(meeting.Attendees, ", "))
	if meeting.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", truncate(meeting.Description, 500))
	}
	sb.WriteString("\nRelevant emails:\n")
	for i, e := range emails {
		fmt.Fprintf(&sb, "%d. From: %s | Subject: %s | Date: %s\n%s\n\n",
			i+1, e.From, e.Subject, e.Date, truncate(e.Body, 800))
	}
	if len(emails) == 0 {
		sb.WriteString("(no relevant emails found)\n")
	}

	messages := []chatMessage{
		{
			Role: "system",
			Content: `Create a meeting preparation brief from the provided context.
Format:
## MEETING CONTEXT (2-3 sentences)
## KEY DISCUSSION POINTS (3-5 bullets)
## ACTION ITEMS (if any)
## RECOMMENDED PREPARATION (2-3 bullets)`,
		},
		{Role: "user", Content: sb.String()},
	}

	response, err := c.sendChat(ctx, messages, 800)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "…"
	}
	return s
}
