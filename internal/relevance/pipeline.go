package relevance

import (
	"context"
	"log/slog"

	"github.com/TornikeK2/Meeting-prep-assistant/internal/gmail"
	"github.com/TornikeK2/Meeting-prep-assistant/internal/model"
)

const (
	aiBatchLimit      = 50
	fetchMultiplier   = 2 // retrieve more than requested, filter later
	defaultMaxResults = 10
)

// MailService is the retrieval collaborator: search returns message IDs in
// backend order, GetMessage resolves one ID to a full candidate.
type MailService interface {
	Search(ctx context.Context, query string, limit int64) ([]string, error)
	GetMessage(ctx context.Context, id string) (model.EmailCandidate, error)
}

// Classifier is the optional generative relevance pass. It receives a
// candidate batch plus the meeting and returns the subset judged topically
// relevant. The pipeline calls it defensively: any failure means pass-through.
type Classifier interface {
	ClassifyRelevance(ctx context.Context, meeting model.Meeting, candidates []model.EmailCandidate) ([]model.EmailCandidate, error)
}

// Pipeline composes the ranking stages for one meeting:
//
//	build query -> retrieve -> noise filter -> [AI filter] -> score -> top N
//
// Linear, no backtracking. Each invocation is self-contained; nothing is
// cached between meetings.
type Pipeline struct {
	mail       MailService
	queries    *gmail.QueryBuilder
	noise      *NoiseFilter
	scorer     *Scorer
	classifier Classifier // nil disables the AI pass
	log        *slog.Logger
}

func NewPipeline(mail MailService, queries *gmail.QueryBuilder, noise *NoiseFilter, scorer *Scorer, classifier Classifier, log *slog.Logger) *Pipeline {
	return &Pipeline{
		mail:       mail,
		queries:    queries,
		noise:      noise,
		scorer:     scorer,
		classifier: classifier,
		log:        log,
	}
}

// Rank returns the top relevant emails for the criteria, best first. One
// meeting's collaborator failure must not abort the others, so retrieval
// errors degrade to an empty result instead of propagating.
func (p *Pipeline) Rank(ctx context.Context, criteria model.SearchCriteria) []model.ScoredEmail {
	maxResults := criteria.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	query := p.queries.Build(criteria)
	p.log.Debug("searching mail", "meeting", criteria.Meeting.Title, "query", query)

	ids, err := p.mail.Search(ctx, query, int64(maxResults*fetchMultiplier))
	if err != nil {
		p.log.Warn("mail search failed", "meeting", criteria.Meeting.Title, "err", err)
		return nil
	}
	if len(ids) == 0 {
		p.log.Info("no candidate emails", "meeting", criteria.Meeting.Title)
		return nil
	}

	candidates := make([]model.EmailCandidate, 0, len(ids))
	for _, id := range ids {
		cand, err := p.mail.GetMessage(ctx, id)
		if err != nil {
			p.log.Debug("skipping unfetchable message", "id", id, "err", err)
			continue
		}
		candidates = append(candidates, cand)
	}

	kept := p.noise.Filter(candidates)
	if dropped := len(candidates) - len(kept); dropped > 0 {
		p.log.Debug("notifications dropped", "count", dropped)
	}

	kept = p.aiFilter(ctx, criteria.Meeting, kept)

	scored := p.scorer.Score(kept, criteria.Meeting, criteria.CustomerName, criteria.CustomerDomain)
	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

// aiFilter runs the optional generative pass over at most aiBatchLimit
// candidates. Failure is a no-op: availability beats precision here.
func (p *Pipeline) aiFilter(ctx context.Context, meeting model.Meeting, candidates []model.EmailCandidate) []model.EmailCandidate {
	if p.classifier == nil || len(candidates) == 0 {
		return candidates
	}

	batch := candidates
	var overflow []model.EmailCandidate
	if len(batch) > aiBatchLimit {
		batch, overflow = candidates[:aiBatchLimit], candidates[aiBatchLimit:]
	}

	subset, err := p.classifier.ClassifyRelevance(ctx, meeting, batch)
	if err != nil {
		p.log.Warn("relevance classifier failed, keeping all candidates", "err", err)
		return candidates
	}
	return append(subset, overflow...)
}
