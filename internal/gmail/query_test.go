package gmail

import (
	"fmt"
	"strings"
	"testing"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/keyword"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

func testBuilder() *QueryBuilder {
	return NewQueryBuilder(keyword.NewExtractor(
		[]string{"meeting", "sync", "weekly", "the", "with"},
		[]string{"review", "update"},
	))
}

func TestBuildQueryDomain(t *testing.T) {
	b := testBuilder()
	q := b.Build(model.SearchCriteria{
		Meeting:        model.Meeting{Title: "Acme roadmap", Attendees: []string{"x@acme.com"}},
		CustomerDomain: "Acme.com",
		CustomerName:   "Acme",
		Days:           14,
	})

	if !strings.Contains(q, "(from:@acme.com OR to:@acme.com)") {
		t.Errorf("query missing domain clause: %q", q)
	}
	// Domain replaces both the attendee and topic clauses.
	if strings.Contains(q, "x@acme.com") {
		t.Errorf("query should not contain attendee terms when domain is set: %q", q)
	}
	if strings.Contains(q, "subject:") {
		t.Errorf("query should omit topic clause when domain is set: %q", q)
	}
	if !strings.Contains(q, "newer_than:14d") {
		t.Errorf("query missing recency clause: %q", q)
	}
	if !strings.Contains(q, "-in:spam") || !strings.Contains(q, "-in:trash") {
		t.Errorf("query missing exclusions: %q", q)
	}
}

func TestBuildQueryAttendees(t *testing.T) {
	b := testBuilder()
	q := b.Build(model.SearchCriteria{
		Meeting: model.Meeting{
			Title:     "Acme roadmap",
			Attendees: []string{"alice@ourcorp.com", "bob@acme.com"},
		},
	})

	if !strings.Contains(q, "from:alice@ourcorp.com OR to:alice@ourcorp.com") {
		t.Errorf("query missing attendee terms: %q", q)
	}
	if !strings.Contains(q, "from:bob@acme.com OR to:bob@acme.com") {
		t.Errorf("query missing attendee terms: %q", q)
	}
	if !strings.Contains(q, "newer_than:7d") {
		t.Errorf("query missing default recency: %q", q)
	}
}

func TestBuildQueryAttendeeCap(t *testing.T) {
	b := testBuilder()
	attendees := make([]string, 15)
	for i := range attendees {
		attendees[i] = fmt.Sprintf("p%d@ourcorp.com", i)
	}
	q := b.Build(model.SearchCriteria{Meeting: model.Meeting{Attendees: attendees}})

	if !strings.Contains(q, "p9@ourcorp.com") {
		t.Errorf("tenth attendee missing: %q", q)
	}
	if strings.Contains(q, "p10@ourcorp.com") {
		t.Errorf("eleventh attendee should be dropped: %q", q)
	}
}

func TestTopicClausePriority(t *testing.T) {
	b := testBuilder()

	tests := []struct {
		name        string
		criteria    model.SearchCriteria
		wantTerm    string
		rejectTerms []string
	}{
		{
			name: "customer name wins over keywords and title",
			criteria: model.SearchCriteria{
				Meeting:         model.Meeting{Title: "platform migration"},
				CustomerName:    "Acme",
				ProjectKeywords: []string{"phoenix"},
			},
			wantTerm:    `subject:"Acme" OR "Acme"`,
			rejectTerms: []string{"phoenix", "migration"},
		},
		{
			name: "project keywords win over title",
			criteria: model.SearchCriteria{
				Meeting:         model.Meeting{Title: "platform migration"},
				ProjectKeywords: []string{"phoenix", "atlas"},
			},
			wantTerm:    `subject:"phoenix" OR "phoenix" OR subject:"atlas" OR "atlas"`,
			rejectTerms: []string{"migration"},
		},
		{
			name: "title keywords as fallback",
			criteria: model.SearchCriteria{
				Meeting: model.Meeting{Title: "Platform migration sync"},
			},
			wantTerm: `subject:"platform" OR "platform" OR subject:"migration" OR "migration"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := b.Build(tt.criteria)
			if !strings.Contains(q, tt.wantTerm) {
				t.Errorf("query %q missing %q", q, tt.wantTerm)
			}
			for _, reject := range tt.rejectTerms {
				if strings.Contains(q, reject) {
					t.Errorf("query %q should not contain %q", q, reject)
				}
			}
		})
	}
}

func TestBuildQueryGenericTitle(t *testing.T) {
	b := testBuilder()
	// Every title word is a stop or noise word, so no topic clause survives.
	q := b.Build(model.SearchCriteria{
		Meeting: model.Meeting{
			Title:     "Weekly sync review",
			Attendees: []string{"bob@acme.com"},
		},
	})
	if strings.Contains(q, "subject:") {
		t.Errorf("generic title should yield no topic clause: %q", q)
	}
	if !strings.Contains(q, "from:bob@acme.com") {
		t.Errorf("attendee clause should survive: %q", q)
	}
}
