package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	gmailv1 "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

const (
	user          = "me"
	bodyLimit     = 2000
	truncationTag = "\n...[email truncated for length]"
)

// Client wraps the Gmail API for search, detail fetch, and send.
type Client struct {
	svc *gmailv1.Service
	log *slog.Logger
}

// NewClient wraps an authenticated HTTP client in a Gmail service.
func NewClient(ctx context.Context, httpClient *http.Client, log *slog.Logger) (*Client, error) {
	svc, err := gmailv1.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	return &Client{svc: svc, log: log}, nil
}

// Search runs a query and returns the matching message IDs in the backend's
// ranking order.
func (c *Client) Search(ctx context.Context, query string, limit int64) ([]string, error) {
	resp, err := c.svc.Users.Messages.List(user).
		Q(query).
		MaxResults(limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// GetMessage fetches one message in full and flattens it into a candidate
// record. The body is the first text/plain part found, falling back to
// stripped HTML and finally the snippet, truncated to 2000 chars.
func (c *Client) GetMessage(ctx context.Context, id string) (model.EmailCandidate, error) {
	msg, err := c.svc.Users.Messages.Get(user, id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return model.EmailCandidate{}, fmt.Errorf("get message %s: %w", id, err)
	}

	cand := model.EmailCandidate{
		ID:        id,
		ThreadID:  msg.ThreadId,
		Snippet:   msg.Snippet,
		Permalink: "https://mail.google.com/mail/u/0/#inbox/" + id,
	}
	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch strings.ToLower(h.Name) {
			case "subject":
				cand.Subject = h.Value
			case "from":
				cand.From = h.Value
			case "to":
				cand.To = h.Value
			case "date":
				cand.Date = h.Value
			}
		}
	}

	body := bodyText(msg)
	if len(body) > bodyLimit {
		body = body[:bodyLimit] + truncationTag
	}
	cand.Body = body
	return cand, nil
}
