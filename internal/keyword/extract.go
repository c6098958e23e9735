package keyword

import (
	"regexp"
	"strings"
)

// Mode selects how aggressively extraction filters generic terms.
type Mode int

const (
	// ModeSearch is for building retrieval queries: generic result-noisy
	// words are dropped and output is capped at 4 tokens.
	ModeSearch Mode = iota
	// ModeContext keeps generic words; it characterizes what a meeting is
	// about rather than what to search for.
	ModeContext
)

const (
	searchLimit  = 4
	contextLimit = 8
	minTokenLen  = 3
)

var (
	wordRegex = regexp.MustCompile(`\w+`)
	urlRegex  = regexp.MustCompile(`https?://\S+`)
)

// Extractor turns free text into salient lowercase terms. The word sets are
// injected at construction so tests can substitute fixtures.
type Extractor struct {
	stopWords   map[string]struct{}
	searchNoise map[string]struct{}
}

// NewExtractor builds an Extractor from a stop-word list and the extra
// search-mode noise list. Matching is case-insensitive.
func NewExtractor(stopWords, searchNoise []string) *Extractor {
	return &Extractor{
		stopWords:   toSet(stopWords),
		searchNoise: toSet(searchNoise),
	}
}

// Extract returns the ordered salient tokens of text for the given mode.
// Deterministic: same text and mode always yield the same list.
func (e *Extractor) Extract(text string, mode Mode) []string {
	toks := e.tokens(text, mode)
	limit := contextLimit
	if mode == ModeSearch {
		limit = searchLimit
	}
	if len(toks) > limit {
		toks = toks[:limit]
	}
	return toks
}

// MeetingKeywords extracts the context keywords describing a meeting: title
// plus URL-stripped description, de-duplicated preserving first occurrence,
// capped at 8.
func (e *Extractor) MeetingKeywords(title, description string) []string {
	combined := title + " " + urlRegex.ReplaceAllString(description, " ")
	toks := e.tokens(combined, ModeContext)

	seen := make(map[string]struct{}, len(toks))
	out := make([]string, 0, contextLimit)
	for _, tok := range toks {
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == contextLimit {
			break
		}
	}
	return out
}

// tokens applies the shared token filter: \w+ words, lowercase, length > 2,
// not a stop word, and (search mode only) not a generic noise word.
func (e *Extractor) tokens(text string, mode Mode) []string {
	words := wordRegex.FindAllString(strings.ToLower(text), -1)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < minTokenLen {
			continue
		}
		if _, stop := e.stopWords[w]; stop {
			continue
		}
		if mode == ModeSearch {
			if _, noisy := e.searchNoise[w]; noisy {
				continue
			}
		}
		out = append(out, w)
	}
	return out
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
