package gmail

import (
	"encoding/base64"
	"strings"
	"testing"

	gmailv1 "google.golang.org/api/gmail/v1"
)

func encodePart(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestBodyTextPrefersPlain(t *testing.T) {
	msg := &gmailv1.Message{
		Snippet: "snippet fallback",
		Payload: &gmailv1.MessagePart{
			MimeType: "multipart/alternative",
			Parts: []*gmailv1.MessagePart{
				{
					MimeType: "text/html",
					Body:     &gmailv1.MessagePartBody{Data: encodePart("<p>html body</p>")},
				},
				{
					MimeType: "text/plain",
					Body:     &gmailv1.MessagePartBody{Data: encodePart("plain body")},
				},
			},
		},
	}

	if got := bodyText(msg); got != "plain body" {
		t.Errorf("bodyText() = %q, want plain body", got)
	}
}

func TestBodyTextHTMLFallback(t *testing.T) {
	msg := &gmailv1.Message{
		Payload: &gmailv1.MessagePart{
			MimeType: "text/html",
			Body:     &gmailv1.MessagePartBody{Data: encodePart("<div>Hello <b>there</b></div><p>second &amp; third</p>")},
		},
	}

	got := bodyText(msg)
	if !strings.Contains(got, "Hello there") || !strings.Contains(got, "second & third") {
		t.Errorf("bodyText() = %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("bodyText() left tags in %q", got)
	}
}

func TestBodyTextSnippetFallback(t *testing.T) {
	msg := &gmailv1.Message{
		Snippet: "snippet only",
		Payload: &gmailv1.MessagePart{MimeType: "application/pdf"},
	}
	if got := bodyText(msg); got != "snippet only" {
		t.Errorf("bodyText() = %q, want snippet", got)
	}
}

func TestBodyTextNestedMultipart(t *testing.T) {
	msg := &gmailv1.Message{
		Payload: &gmailv1.MessagePart{
			MimeType: "multipart/mixed",
			Parts: []*gmailv1.MessagePart{
				{
					MimeType: "multipart/alternative",
					Parts: []*gmailv1.MessagePart{
						{
							MimeType: "text/plain",
							Body:     &gmailv1.MessagePartBody{Data: encodePart("nested plain")},
						},
					},
				},
				{MimeType: "application/pdf"},
			},
		},
	}
	if got := bodyText(msg); got != "nested plain" {
		t.Errorf("bodyText() = %q, want nested plain", got)
	}
}

func TestBodyTextNil(t *testing.T) {
	if got := bodyText(nil); got != "" {
		t.Errorf("bodyText(nil) = %q", got)
	}
	if got := bodyText(&gmailv1.Message{}); got != "" {
		t.Errorf("bodyText(no payload) = %q", got)
	}
}

func TestStripHTMLTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"line breaks", "line one<br>line two", "line one\nline two"},
		{"entities", "a &lt;b&gt; &quot;c&quot; &#39;d&#39;", `a <b> "c" 'd'`},
		{"collapses blank runs", "<p>a</p><p></p><p></p><p>b</p>", "a\n\nb"},
		{"plain text unchanged", "no markup here", "no markup here"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripHTMLTags(tt.in); got != tt.want {
				t.Errorf("stripHTMLTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeBase64URL(t *testing.T) {
	raw := "hello world"
	if got := decodeBase64URL(base64.URLEncoding.EncodeToString([]byte(raw))); got != raw {
		t.Errorf("padded decode = %q", got)
	}
	if got := decodeBase64URL(base64.RawURLEncoding.EncodeToString([]byte(raw))); got != raw {
		t.Errorf("unpadded decode = %q", got)
	}
	if got := decodeBase64URL("!!!not base64!!!"); got != "" {
		t.Errorf("invalid input = %q, want empty", got)
	}
}
