package calendar

import (
	"strings"
	"time"

	calendarv3 "google.golang.org/api/calendar/v3"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/util"
)

const minDuration = 15 * time.Minute

// Classifier decides which raw calendar events warrant preparation and how
// urgent they are. Pure: every decision depends only on the event passed in
// and the injected domain/keyword sets.
type Classifier struct {
	internalDomains map[string]struct{}
	skipKeywords    []string
}

// NewClassifier builds a Classifier from the internal-domain set and the
// skip-keyword list. Both are matched case-insensitively.
func NewClassifier(internalDomains, skipKeywords []string) *Classifier {
	domains := make(map[string]struct{}, len(internalDomains))
	for _, d := range internalDomains {
		domains[strings.ToLower(d)] = struct{}{}
	}
	kws := make([]string, 0, len(skipKeywords))
	for _, k := range skipKeywords {
		kws = append(kws, strings.ToLower(k))
	}
	return &Classifier{internalDomains: domains, skipKeywords: kws}
}

// ShouldPrepare reports whether an event needs preparation. The checks form a
// short-circuiting veto chain in fixed order; the first failing check wins.
// Calendar data is untrusted third-party input, so parsing anomalies fail
// closed (ineligible) rather than panic.
func (c *Classifier) ShouldPrepare(ev *calendarv3.Event) bool {
	if ev == nil || ev.Start == nil {
		return false
	}

	// 1. All-day events carry a date, not a time of day.
	if ev.Start.Date != "" {
		return false
	}

	// 2. Too short to need prep.
	if ev.End != nil && ev.Start.DateTime != "" && ev.End.DateTime != "" {
		start, err1 := time.Parse(time.RFC3339, ev.Start.DateTime)
		end, err2 := time.Parse(time.RFC3339, ev.End.DateTime)
		if err1 != nil || err2 != nil {
			return false
		}
		if end.Sub(start) < minDuration {
			return false
		}
	}

	// 3. Cancelled events.
	if ev.Status == "cancelled" {
		return false
	}

	// 4. Events the user declined.
	for _, a := range ev.Attendees {
		if a != nil && a.Self {
			if a.ResponseStatus == "declined" {
				return false
			}
			break
		}
	}

	// 5. Standups, socials, and the like.
	title := strings.ToLower(ev.Summary)
	description := strings.ToLower(ev.Description)
	for _, kw := range c.skipKeywords {
		if strings.Contains(title, kw) || strings.Contains(description, kw) {
			return false
		}
	}

	// 6. Nobody besides the organizer.
	if len(ev.Attendees) < 2 {
		return false
	}

	return true
}

// Classify computes the client-meeting flag and priority for a meeting.
// A meeting is a client meeting iff any attendee's domain is outside the
// internal set; client meetings are HIGH, large internal meetings MEDIUM,
// the rest LOW.
func (c *Classifier) Classify(m model.Meeting) (isClient bool, priority model.Priority) {
	isClient = c.hasExternalAttendee(m.Attendees)
	switch {
	case isClient:
		priority = model.PriorityHigh
	case len(m.Attendees) >= 5:
		priority = model.PriorityMedium
	default:
		priority = model.PriorityLow
	}
	return isClient, priority
}

func (c *Classifier) hasExternalAttendee(attendees []string) bool {
	for _, email := range attendees {
		domain := util.Domain(email)
		if domain == "" {
			continue
		}
		if _, internal := c.internalDomains[domain]; !internal {
			return true
		}
	}
	return false
}

// BuildMeeting parses an eligible event into a classified Meeting record.
// Returns false when the start timestamp cannot be parsed.
func (c *Classifier) BuildMeeting(ev *calendarv3.Event) (model.Meeting, bool) {
	if ev == nil || ev.Start == nil || ev.Start.DateTime == "" {
		return model.Meeting{}, false
	}
	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return model.Meeting{}, false
	}

	var attendees []string
	for _, a := range ev.Attendees {
		if a != nil && a.Email != "" {
			attendees = append(attendees, a.Email)
		}
	}

	title := ev.Summary
	if title == "" {
		title = "Untitled Meeting"
	}

	m := model.Meeting{
		ID:          ev.Id,
		Title:       title,
		Description: ev.Description,
		StartTime:   start,
		Attendees:   attendees,
		Location:    ev.Location,
		Permalink:   ev.HtmlLink,
	}
	if ev.Organizer != nil {
		m.Organizer = ev.Organizer.Email
	}
	m.IsClientMeeting, m.Priority = c.Classify(m)
	return m, true
}

// MatchesFilter applies one tagged topic filter to a classified meeting.
// A TopicNone filter passes everything.
func (c *Classifier) MatchesFilter(m model.Meeting, f model.TopicFilter) bool {
	switch f.Kind {
	case model.TopicCustomerDomain:
		want := strings.ToLower(f.Domain)
		for _, email := range m.Attendees {
			if util.Domain(email) == want {
				return true
			}
		}
		return false

	case model.TopicProjectKeywords:
		text := strings.ToLower(m.Title + " " + m.Description)
		for _, kw := range f.Keywords {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				return true
			}
		}
		return false

	case model.TopicCustomerName:
		name := strings.ToLower(f.Name)
		if name == "" {
			return false
		}
		text := strings.ToLower(m.Title + " " + m.Description)
		if strings.Contains(text, name) {
			return true
		}
		for _, email := range m.Attendees {
			domain := util.Domain(email)
			if domain == name || strings.Contains(domain, name) {
				return true
			}
		}
		return false

	default:
		return true
	}
}
