package gmail

import (
	"fmt"
	"strings"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/keyword"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

const (
	maxAttendeeTerms = 10
	defaultDays      = 7
)

// QueryBuilder constructs Gmail search expressions for a meeting. It only
// builds the string; execution belongs to the retrieval collaborator.
type QueryBuilder struct {
	extractor *keyword.Extractor
}

func NewQueryBuilder(e *keyword.Extractor) *QueryBuilder {
	return &QueryBuilder{extractor: e}
}

// Build renders criteria as a space-joined conjunction of clauses (space is
// implicit AND in Gmail's grammar):
//
//	(from:@acme.com OR to:@acme.com) (subject:"roadmap" OR "roadmap") newer_than:7d -in:spam -in:trash
//
// The identity clause uses the customer domain when given, otherwise the
// first 10 attendees. The topic clause is resolved once, by priority:
// customer name, then project keywords, then keywords auto-extracted from the
// title. When a customer domain is set the topic clause is omitted entirely —
// the domain is specific enough and scoring handles relevance, so the query
// stays broad instead of returning nothing.
func (b *QueryBuilder) Build(criteria model.SearchCriteria) string {
	var parts []string

	if domain := normalizeDomain(criteria.CustomerDomain); domain != "" {
		parts = append(parts, fmt.Sprintf("(from:@%s OR to:@%s)", domain, domain))
	} else {
		if clause := attendeeClause(criteria.Meeting.Attendees); clause != "" {
			parts = append(parts, clause)
		}
		if clause := b.topicClause(criteria); clause != "" {
			parts = append(parts, clause)
		}
	}

	days := criteria.Days
	if days <= 0 {
		days = defaultDays
	}
	parts = append(parts, fmt.Sprintf("newer_than:%dd", days))
	parts = append(parts, "-in:spam", "-in:trash")

	return strings.Join(parts, " ")
}

func (b *QueryBuilder) topicClause(criteria model.SearchCriteria) string {
	var terms []string
	switch {
	case criteria.CustomerName != "":
		terms = []string{criteria.CustomerName}
	case len(criteria.ProjectKeywords) > 0:
		terms = criteria.ProjectKeywords
	default:
		terms = b.extractor.Extract(criteria.Meeting.Title, keyword.ModeSearch)
	}
	if len(terms) == 0 {
		return ""
	}

	group := make([]string, 0, len(terms)*2)
	for _, t := range terms {
		group = append(group, fmt.Sprintf("subject:%q", t), fmt.Sprintf("%q", t))
	}
	return "(" + strings.Join(group, " OR ") + ")"
}

func attendeeClause(attendees []string) string {
	if len(attendees) == 0 {
		return ""
	}
	// Cap attendee terms to keep the query within backend length limits.
	if len(attendees) > maxAttendeeTerms {
		attendees = attendees[:maxAttendeeTerms]
	}
	group := make([]string, 0, len(attendees)*2)
	for _, a := range attendees {
		group = append(group, "from:"+a, "to:"+a)
	}
	return "(" + strings.Join(group, " OR ") + ")"
}

func normalizeDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
}
