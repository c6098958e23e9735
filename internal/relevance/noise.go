package relevance

import (
	"strings"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/util"
)

const (
	contentScanLimit   = 500 // body prefix scanned for notification phrases
	shortBodyLimit     = 300
	contentPhraseCount = 2
)

// NoiseFilter detects automated calendar-notification mail so it can be
// dropped before scoring. Three independent signals, any one sufficient:
// a known notification sender, a notification subject phrase, or notification
// content (two phrases, or a short body that is little more than an event
// link). Biased toward precision so genuine discussion threads that merely
// mention a meeting survive.
type NoiseFilter struct {
	senders        []string
	subjectPhrases []string
	contentPhrases []string
	calendarLinks  []string
}

// NewNoiseFilter builds a filter from the injected phrase lists. All matching
// is lowercase substring.
func NewNoiseFilter(senders, subjectPhrases, contentPhrases, calendarLinks []string) *NoiseFilter {
	return &NoiseFilter{
		senders:        lowerAll(senders),
		subjectPhrases: lowerAll(subjectPhrases),
		contentPhrases: lowerAll(contentPhrases),
		calendarLinks:  lowerAll(calendarLinks),
	}
}

// IsNotification reports whether the email is an automated calendar notification.
func (f *NoiseFilter) IsNotification(email model.EmailCandidate) bool {
	from := util.NormalizeAddress(email.From)
	if from == "" {
		from = strings.ToLower(email.From)
	}
	for _, s := range f.senders {
		if strings.Contains(from, s) {
			return true
		}
	}

	subject := strings.ToLower(email.Subject)
	for _, p := range f.subjectPhrases {
		if strings.Contains(subject, p) {
			return true
		}
	}

	body := strings.ToLower(email.Body)
	content := strings.ToLower(email.Snippet) + " " + head(body, contentScanLimit)
	hits := 0
	for _, p := range f.contentPhrases {
		if strings.Contains(content, p) {
			hits++
			if hits >= contentPhraseCount {
				return true
			}
		}
	}

	if len(body) < shortBodyLimit {
		for _, link := range f.calendarLinks {
			if strings.Contains(body, link) {
				return true
			}
		}
	}

	return false
}

// Filter returns the candidates that are not notifications, preserving order.
func (f *NoiseFilter) Filter(candidates []model.EmailCandidate) []model.EmailCandidate {
	out := make([]model.EmailCandidate, 0, len(candidates))
	for _, c := range candidates {
		if !f.IsNotification(c) {
			out = append(out, c)
		}
	}
	return out
}

func head(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}
