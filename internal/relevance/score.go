package relevance

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/keyword"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

// Scoring weights sum to 1.0 before the penalty.
const (
	weightAttendee = 0.40
	weightCustomer = 0.25
	weightContext  = 0.25
	recencyNear    = 0.10 // within 3 days
	recencyWeek    = 0.05 // within 7 days

	penaltyFactor  = 0.3
	scoreThreshold = 0.40

	nearWindow = 3 * 24 * time.Hour
	weekWindow = 7 * 24 * time.Hour
)

const penaltyReason = "customer name match without attendee or topical corroboration"

// dateLayouts covers the Date header formats seen in the wild.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC850,
	time.RFC3339,
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

var digitsRegex = regexp.MustCompile(`\d+`)

// Scorer assigns each candidate a relevance score in [0,1] from attendee
// overlap, customer match, meeting-context match, and recency. Deterministic:
// the score is recomputed from its inputs on every call, with no hidden state.
type Scorer struct {
	extractor *keyword.Extractor
	now       func() time.Time
}

// NewScorer builds a Scorer. now may be nil; it exists so tests can pin the
// recency reference.
func NewScorer(e *keyword.Extractor, now func() time.Time) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{extractor: e, now: now}
}

// Score ranks candidates against a meeting, strictly descending by score and
// containing only entries at or above the 0.40 threshold. Ties keep the
// original retrieval order. Inputs are never mutated.
//
// When only a customer domain is known, the customer name is derived from the
// domain's first label (microsoft.com -> microsoft).
func (s *Scorer) Score(candidates []model.EmailCandidate, meeting model.Meeting, customerName, customerDomain string) []model.ScoredEmail {
	if customerName == "" && customerDomain != "" {
		customerName = domainLabel(customerDomain)
	}
	customerName = strings.ToLower(customerName)

	contextKeywords := s.extractor.MeetingKeywords(meeting.Title, meeting.Description)

	attendees := make([]string, 0, len(meeting.Attendees))
	for _, a := range meeting.Attendees {
		attendees = append(attendees, strings.ToLower(a))
	}

	scored := make([]model.ScoredEmail, 0, len(candidates))
	for _, cand := range candidates {
		scored = append(scored, s.scoreOne(cand, attendees, contextKeywords, customerName))
	}

	kept := scored[:0]
	for _, se := range scored {
		if se.RelevanceScore >= scoreThreshold {
			kept = append(kept, se)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].RelevanceScore > kept[j].RelevanceScore
	})
	return kept
}

func (s *Scorer) scoreOne(cand model.EmailCandidate, attendees, contextKeywords []string, customerName string) model.ScoredEmail {
	se := model.ScoredEmail{EmailCandidate: cand}
	text := strings.ToLower(cand.Subject + " " + cand.Body)
	from := strings.ToLower(cand.From)
	to := strings.ToLower(cand.To)

	score := 0.0

	// Attendee overlap is binary; the first matching attendee wins.
	for _, a := range attendees {
		if a != "" && (strings.Contains(from, a) || strings.Contains(to, a)) {
			se.AttendeeMatch = true
			score += weightAttendee
			break
		}
	}

	if customerName != "" && strings.Contains(text, customerName) {
		se.CustomerMatch = true
		score += weightCustomer
	}

	// Context match is proportional to how many meeting keywords appear.
	if len(contextKeywords) > 0 {
		matches := 0
		for _, kw := range contextKeywords {
			if strings.Contains(text, kw) {
				matches++
			}
		}
		if matches > 0 {
			se.ContextMatch = true
		}
		ratio := float64(matches) / float64(len(contextKeywords))
		score += weightContext * math.Min(ratio, 1.0)
	}

	score += s.recencyBoost(cand.Date)

	// A customer-name hit alone (a licensing email mentioning "Microsoft")
	// must not outrank meeting-specific mail: without an attendee match or
	// both customer and topical corroboration, the score collapses.
	if customerName != "" && !se.AttendeeMatch && !(se.CustomerMatch && se.ContextMatch) {
		score *= penaltyFactor
		se.FilterReason = penaltyReason
	}

	se.RelevanceScore = math.Round(score*100) / 100
	return se
}

// recencyBoost buckets a message's age: 0.10 within 3 days, 0.05 within 7,
// else nothing. The Date header is parsed against known layouts relative to
// the scorer's now; unparsable values fall back to the display-string
// heuristic so the tiered contract still holds for relative dates.
func (s *Scorer) recencyBoost(dateStr string) float64 {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return 0
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, dateStr)
		if err != nil {
			continue
		}
		age := s.now().Sub(t)
		switch {
		case age <= nearWindow:
			return recencyNear
		case age <= weekWindow:
			return recencyWeek
		default:
			return 0
		}
	}
	return heuristicBoost(dateStr)
}

func heuristicBoost(dateStr string) float64 {
	l := strings.ToLower(dateStr)
	for _, ind := range []string{"hour", "minute", "today", "yesterday"} {
		if strings.Contains(l, ind) {
			return recencyNear
		}
	}
	if strings.Contains(l, "day") {
		if raw := digitsRegex.FindString(l); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil {
				switch {
				case n <= 3:
					return recencyNear
				case n <= 7:
					return recencyWeek
				}
			}
		}
	}
	return 0
}

// domainLabel returns the first label of a domain: microsoft.com -> microsoft.
func domainLabel(domain string) string {
	domain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(domain)), "@")
	if i := strings.IndexByte(domain, '.'); i > 0 {
		return domain[:i]
	}
	return domain
}
