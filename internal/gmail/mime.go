package gmail

import (
	"encoding/base64"
	"strings"

	gmailv1 "google.golang.org/api/gmail/v1"
)

// bodyText picks the best readable body for a message: the first text/plain
// part, else stripped text/html, else the snippet.
func bodyText(msg *gmailv1.Message) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	if plain := findPart(msg.Payload, "text/plain"); plain != "" {
		return plain
	}
	if html := findPart(msg.Payload, "text/html"); html != "" {
		return stripHTMLTags(html)
	}
	return msg.Snippet
}

// findPart walks the MIME part tree and returns the first decoded body with
// the wanted mime type. For multipart/alternative the wanted type is checked
// on direct children before recursing, so text/plain wins over text/html.
func findPart(part *gmailv1.MessagePart, want string) string {
	if part == nil {
		return ""
	}
	if strings.EqualFold(part.MimeType, want) && part.Body != nil && part.Body.Data != "" {
		return decodeBase64URL(part.Body.Data)
	}
	for _, sub := range part.Parts {
		if strings.EqualFold(sub.MimeType, want) {
			if body := findPart(sub, want); body != "" {
				return body
			}
		}
	}
	for _, sub := range part.Parts {
		if body := findPart(sub, want); body != "" {
			return body
		}
	}
	return ""
}

// stripHTMLTags removes tags and decodes common entities to produce readable text.
func stripHTMLTags(html string) string {
	for _, tag := range []string{"<br>", "<br/>", "<br />", "</p>", "</div>", "</tr>", "</li>"} {
		html = strings.ReplaceAll(html, tag, "\n")
		html = strings.ReplaceAll(html, strings.ToUpper(tag), "\n")
	}

	var b strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	result := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&#39;", "'",
		"&apos;", "'",
		"&nbsp;", " ",
	).Replace(b.String())

	for strings.Contains(result, "\n\n\n") {
		result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(result)
}

func decodeBase64URL(data string) string {
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Gmail uses unpadded base64url
		b, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return ""
		}
	}
	return string(b)
}
