package keyword

import (
	"reflect"
	"testing"
)

func testExtractor() *Extractor {
	return NewExtractor(
		[]string{"meeting", "sync", "the", "and", "with", "weekly"},
		[]string{"review", "update", "planning"},
	)
}

func TestExtract(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		name string
		text string
		mode Mode
		want []string
	}{
		{
			name: "drops stop words and short tokens",
			text: "Weekly sync with the Q3 team",
			mode: ModeContext,
			want: []string{"team"},
		},
		{
			name: "search mode drops noise words too",
			text: "Acme roadmap review and planning",
			mode: ModeSearch,
			want: []string{"acme", "roadmap"},
		},
		{
			name: "context mode keeps noise words",
			text: "Acme roadmap review and planning",
			mode: ModeContext,
			want: []string{"acme", "roadmap", "review", "planning"},
		},
		{
			name: "search caps at four tokens",
			text: "alpha bravo charlie delta echo foxtrot",
			mode: ModeSearch,
			want: []string{"alpha", "bravo", "charlie", "delta"},
		},
		{
			name: "context caps at eight tokens",
			text: "one1 two2 three3 four4 five5 six6 seven7 eight8 nine9",
			mode: ModeContext,
			want: []string{"one1", "two2", "three3", "four4", "five5", "six6", "seven7", "eight8"},
		},
		{
			name: "empty input",
			text: "",
			mode: ModeSearch,
			want: []string{},
		},
		{
			name: "punctuation only",
			text: "-- ... !!",
			mode: ModeContext,
			want: []string{},
		},
		{
			name: "case insensitive",
			text: "MEETING about BUDGET",
			mode: ModeSearch,
			want: []string{"about", "budget"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text, tt.mode)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q, %v) = %v, want %v", tt.text, tt.mode, got, tt.want)
			}
		})
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := testExtractor()
	text := "Acme contract negotiation follow-up for the platform migration"

	first := e.Extract(text, ModeSearch)
	for i := 0; i < 10; i++ {
		if got := e.Extract(text, ModeSearch); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: Extract returned %v, earlier run returned %v", i, got, first)
		}
	}
}

func TestMeetingKeywords(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		name        string
		title       string
		description string
		want        []string
	}{
		{
			name:        "title and description combined",
			title:       "Acme roadmap",
			description: "budget discussion",
			want:        []string{"acme", "roadmap", "budget", "discussion"},
		},
		{
			name:        "urls stripped from description",
			title:       "Kickoff",
			description: "join at https://meet.google.com/abc-defg-hij before start",
			want:        []string{"kickoff", "join", "before", "start"},
		},
		{
			name:        "duplicates keep first occurrence",
			title:       "Acme Acme roadmap",
			description: "roadmap details",
			want:        []string{"acme", "roadmap", "details"},
		},
		{
			name:        "capped at eight after dedup",
			title:       "alpha bravo charlie delta",
			description: "alpha echo foxtrot golf hotel india juliet",
			want:        []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"},
		},
		{
			name:        "empty inputs",
			title:       "",
			description: "",
			want:        []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.MeetingKeywords(tt.title, tt.description)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MeetingKeywords(%q, %q) = %v, want %v", tt.title, tt.description, got, tt.want)
			}
		})
	}
}
