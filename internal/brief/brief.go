package brief

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

const (
	descriptionPreview = 200
	snippetPreview     = 100
	maxListedEmails    = 5
)

// Summarizer is the generative collaborator producing prose briefs. Optional:
// absence or failure falls back to the locally composed summary.
type Summarizer interface {
	GenerateBrief(ctx context.Context, meeting model.Meeting, emails []model.ScoredEmail) (string, error)
}

// Generator turns a ranked meeting into a stored Brief.
type Generator struct {
	summarizer Summarizer // may be nil
	log        *slog.Logger
	now        func() time.Time
}

// NewGenerator builds a Generator. summarizer may be nil; now may be nil and
// defaults to time.Now.
func NewGenerator(summarizer Summarizer, log *slog.Logger, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{summarizer: summarizer, log: log, now: now}
}

// Generate produces the Brief for one prepared meeting, preferring the AI
// summary and degrading to the local composition on any failure.
func (g *Generator) Generate(ctx context.Context, meeting model.Meeting, emails []model.ScoredEmail) model.Brief {
	summary := ""
	if g.summarizer != nil {
		s, err := g.summarizer.GenerateBrief(ctx, meeting, emails)
		if err != nil {
			g.log.Warn("ai brief failed, using local summary", "meeting", meeting.Title, "err", err)
		} else {
			summary = s
		}
	}
	if summary == "" {
		summary = Compose(meeting, emails)
	}

	return model.Brief{
		ID:           uuid.NewString(),
		MeetingID:    meeting.ID,
		MeetingTitle: meeting.Title,
		StartTime:    meeting.StartTime,
		Priority:     meeting.Priority,
		Summary:      summary,
		EmailCount:   len(emails),
		GeneratedAt:  g.now().UTC(),
	}
}

// Compose builds the plain-text prep summary without any generative help.
func Compose(meeting model.Meeting, emails []model.ScoredEmail) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)

	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "MEETING PREP: %s\n", meeting.Title)
	sb.WriteString(rule + "\n")
	fmt.Fprintf(&sb, "\nTime: %s\n", meeting.StartTime.Format(time.RFC1123))
	fmt.Fprintf(&sb, "Priority: %s\n", meeting.Priority)

	if meeting.IsClientMeeting {
		sb.WriteString("\nCLIENT MEETING - external attendees detected\n")
	}

	fmt.Fprintf(&sb, "\nAttendees (%d):\n", len(meeting.Attendees))
	for _, a := range meeting.Attendees {
		fmt.Fprintf(&sb, "  - %s\n", a)
	}

	if meeting.Location != "" {
		fmt.Fprintf(&sb, "\nLocation: %s\n", meeting.Location)
	}
	if meeting.Description != "" {
		fmt.Fprintf(&sb, "\nDescription:\n%s\n", preview(meeting.Description, descriptionPreview))
	}

	fmt.Fprintf(&sb, "\nRELEVANT EMAILS (%d):\n", len(emails))
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	listed := emails
	if len(listed) > maxListedEmails {
		listed = listed[:maxListedEmails]
	}
	for i, e := range listed {
		fmt.Fprintf(&sb, "\n%d. From: %s\n", i+1, orUnknown(e.From))
		fmt.Fprintf(&sb, "   Subject: %s\n", orUnknown(e.Subject))
		fmt.Fprintf(&sb, "   Date: %s\n", orUnknown(e.Date))
		fmt.Fprintf(&sb, "   Relevance: %.2f\n", e.RelevanceScore)
		if e.Snippet != "" {
			fmt.Fprintf(&sb, "   Preview: %s\n", preview(e.Snippet, snippetPreview))
		}
	}

	sb.WriteString("\n" + rule + "\n")
	return sb.String()
}

func preview(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
