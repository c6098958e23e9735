package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// Send delivers a message from the authenticated account and returns the new
// message ID. Used by the surrounding application to mail a prep brief to the
// user, not by the ranking core.
func (c *Client) Send(ctx context.Context, to, subject, body string, isHTML bool) (string, error) {
	contentType := "text/plain; charset=UTF-8"
	if isHTML {
		contentType = "text/html; charset=UTF-8"
	}

	var raw strings.Builder
	fmt.Fprintf(&raw, "To: %s\r\n", to)
	fmt.Fprintf(&raw, "Subject: %s\r\n", subject)
	raw.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&raw, "Content-Type: %s\r\n", contentType)
	raw.WriteString("\r\n")
	raw.WriteString(body)

	msg := &gmailv1.Message{
		Raw: base64.RawURLEncoding.EncodeToString([]byte(raw.String())),
	}
	sent, err := c.svc.Users.Messages.Send(user, msg).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	c.log.Info("brief emailed", "to", to, "id", sent.Id)
	return sent.Id, nil
}
