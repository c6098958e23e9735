package relevance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/gmail"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/keyword"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/logger"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

type fakeMail struct {
	messages  map[string]model.EmailCandidate
	order     []string
	searchErr error
	fetchErr  map[string]error
	gotQuery  string
	gotLimit  int64
}

func (f *fakeMail) Search(_ context.Context, query string, limit int64) ([]string, error) {
	f.gotQuery = query
	f.gotLimit = limit
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.order, nil
}

func (f *fakeMail) GetMessage(_ context.Context, id string) (model.EmailCandidate, error) {
	if err := f.fetchErr[id]; err != nil {
		return model.EmailCandidate{}, err
	}
	return f.messages[id], nil
}

type fakeClassifier struct {
	keep map[string]bool
	err  error
}

func (f *fakeClassifier) ClassifyRelevance(_ context.Context, _ model.Meeting, candidates []model.EmailCandidate) ([]model.EmailCandidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []model.EmailCandidate
	for _, c := range candidates {
		if f.keep[c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func newTestPipeline(mail MailService, classifier Classifier) *Pipeline {
	e := keyword.NewExtractor(nil, nil)
	noise := NewNoiseFilter(
		[]string{"calendar-notification@google.com"},
		[]string{"invitation:"},
		nil, nil,
	)
	scorer := NewScorer(e, func() time.Time {
		return time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	})
	return NewPipeline(mail, gmail.NewQueryBuilder(e), noise, scorer, classifier, logger.New("test"))
}

func pipelineCriteria() model.SearchCriteria {
	return model.SearchCriteria{
		Meeting: model.Meeting{
			Title:     "Platform roadmap",
			Attendees: []string{"bob@acme.com"},
		},
		Days:       7,
		MaxResults: 2,
	}
}

func relevantEmail(id string) model.EmailCandidate {
	return model.EmailCandidate{
		ID:      id,
		From:    "bob@acme.com",
		Subject: "platform roadmap",
		Body:    "substantive discussion about the migration",
	}
}

func TestRankHappyPath(t *testing.T) {
	mail := &fakeMail{
		order: []string{"a", "b", "c"},
		messages: map[string]model.EmailCandidate{
			"a": relevantEmail("a"),
			"b": {ID: "b", From: "calendar-notification@google.com", Subject: "x", Body: "y"},
			"c": {ID: "c", From: "bob@acme.com", Body: "unrelated"},
		},
	}
	p := newTestPipeline(mail, nil)

	got := p.Rank(context.Background(), pipelineCriteria())

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID, "highest scored first")
	assert.Equal(t, "c", got[1].ID)
	assert.Greater(t, got[0].RelevanceScore, got[1].RelevanceScore)
	assert.Equal(t, int64(4), mail.gotLimit, "fetch double the requested results")
	assert.Contains(t, mail.gotQuery, "from:bob@acme.com")
}

func TestRankSearchFailureDegrades(t *testing.T) {
	mail := &fakeMail{searchErr: errors.New("backend unavailable")}
	p := newTestPipeline(mail, nil)

	got := p.Rank(context.Background(), pipelineCriteria())
	assert.Empty(t, got, "retrieval failure must yield an empty result, not an error")
}

func TestRankSkipsUnfetchableMessages(t *testing.T) {
	mail := &fakeMail{
		order: []string{"a", "bad", "c"},
		messages: map[string]model.EmailCandidate{
			"a": relevantEmail("a"),
			"c": relevantEmail("c"),
		},
		fetchErr: map[string]error{"bad": errors.New("gone")},
	}
	p := newTestPipeline(mail, nil)

	got := p.Rank(context.Background(), pipelineCriteria())
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestRankClassifierNarrows(t *testing.T) {
	mail := &fakeMail{
		order: []string{"a", "b"},
		messages: map[string]model.EmailCandidate{
			"a": relevantEmail("a"),
			"b": relevantEmail("b"),
		},
	}
	p := newTestPipeline(mail, &fakeClassifier{keep: map[string]bool{"b": true}})

	got := p.Rank(context.Background(), pipelineCriteria())
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)
}

func TestRankClassifierFailurePassesThrough(t *testing.T) {
	mail := &fakeMail{
		order: []string{"a", "b"},
		messages: map[string]model.EmailCandidate{
			"a": relevantEmail("a"),
			"b": relevantEmail("b"),
		},
	}
	p := newTestPipeline(mail, &fakeClassifier{err: errors.New("model overloaded")})

	got := p.Rank(context.Background(), pipelineCriteria())
	assert.Len(t, got, 2, "classifier failure keeps every candidate")
}

func TestRankCapsAtMaxResults(t *testing.T) {
	mail := &fakeMail{}
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("m%d", i)
		mail.order = append(mail.order, id)
	}
	mail.messages = make(map[string]model.EmailCandidate, len(mail.order))
	for _, id := range mail.order {
		mail.messages[id] = relevantEmail(id)
	}
	p := newTestPipeline(mail, nil)

	got := p.Rank(context.Background(), pipelineCriteria())
	assert.Len(t, got, 2)
}

func TestRankBatchOverflowPassesThrough(t *testing.T) {
	// Candidates beyond the classifier batch cap skip the AI pass entirely.
	mail := &fakeMail{}
	for i := 0; i < aiBatchLimit+5; i++ {
		id := fmt.Sprintf("m%03d", i)
		mail.order = append(mail.order, id)
	}
	mail.messages = make(map[string]model.EmailCandidate, len(mail.order))
	for _, id := range mail.order {
		mail.messages[id] = relevantEmail(id)
	}
	// The classifier rejects everything, so only overflow candidates survive.
	p := newTestPipeline(mail, &fakeClassifier{})

	criteria := pipelineCriteria()
	criteria.MaxResults = 100
	got := p.Rank(context.Background(), criteria)
	require.Len(t, got, 5)
	assert.Equal(t, "m050", got[0].ID)
}
