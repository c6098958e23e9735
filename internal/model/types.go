package model

import "time"

// Priority ranks how urgently a meeting needs preparation.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank returns a sortable weight, highest priority first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Meeting is the parsed, classified form of one calendar event. Immutable once
// built. Attendees keep the backend's delivery order and are NOT deduplicated.
type Meeting struct {
	ID              string
	Title           string
	Description     string
	StartTime       time.Time
	Attendees       []string
	Location        string
	Organizer       string
	Permalink       string
	IsClientMeeting bool
	Priority        Priority
}

// EmailCandidate is one retrieved message. Date is the raw header display
// string, not a parsed timestamp. Body is truncated to 2000 chars upstream.
type EmailCandidate struct {
	ID        string
	ThreadID  string
	Subject   string
	From      string
	To        string
	Date      string
	Body      string
	Snippet   string
	Permalink string
}

// ScoredEmail wraps a candidate with its relevance breakdown. The underlying
// candidate identity never changes.
type ScoredEmail struct {
	EmailCandidate

	RelevanceScore float64 // [0,1], rounded to 2 decimals
	AttendeeMatch  bool
	CustomerMatch  bool
	ContextMatch   bool
	FilterReason   string // set when the false-positive penalty fired
}

// TopicFilterKind tags which optional topic filter is active for a request.
type TopicFilterKind int

const (
	TopicNone TopicFilterKind = iota
	TopicCustomerDomain
	TopicProjectKeywords
	TopicCustomerName
)

// TopicFilter is the single tagged topic-filter variant. Exactly one case is
// active; it is resolved once per request from the raw optional arguments.
type TopicFilter struct {
	Kind     TopicFilterKind
	Domain   string
	Keywords []string
	Name     string
}

// ResolveTopicFilter picks the active filter by argument priority: customer
// domain wins over project keywords, which win over customer name.
func ResolveTopicFilter(domain string, keywords []string, name string) TopicFilter {
	switch {
	case domain != "":
		return TopicFilter{Kind: TopicCustomerDomain, Domain: domain}
	case len(keywords) > 0:
		return TopicFilter{Kind: TopicProjectKeywords, Keywords: keywords}
	case name != "":
		return TopicFilter{Kind: TopicCustomerName, Name: name}
	default:
		return TopicFilter{Kind: TopicNone}
	}
}

// SearchCriteria is the per-request value object driving one ranking run.
type SearchCriteria struct {
	Meeting         Meeting
	Days            int
	MaxResults      int
	ProjectKeywords []string
	CustomerName    string
	CustomerDomain  string
}

// Brief is one stored preparation result for a meeting.
type Brief struct {
	ID           string
	MeetingID    string
	MeetingTitle string
	StartTime    time.Time
	Priority     Priority
	Summary      string
	EmailCount   int
	GeneratedAt  time.Time
}
