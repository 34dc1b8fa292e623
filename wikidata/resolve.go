package wikidata

import (
	"strings"
	"unicode/utf8"
)

// Confidence is a coarse trust level for a disambiguation candidate
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Score weights and thresholds
const (
	scoreIDMatch          = 5
	scoreExactLabel       = 5
	scoreStrongOverlap    = 3
	scorePartialOverlap   = 2
	scoreDescription      = 1
	scoreTopResult        = 1
	highConfidenceScore   = 5
	mediumConfidenceScore = 3
)

// Hint texts attached to scored candidates
const (
	HintIDMatch         = "entity id matches input"
	HintExactLabel      = "exact label match"
	HintStrongOverlap   = "strong label overlap"
	HintPartialOverlap  = "partial label overlap"
	HintDescription     = "description mentions query"
	HintTopSearchResult = "top search result"
)

// ResolveCandidate is a search result annotated with a confidence level
type ResolveCandidate struct {
	Rank        int        `json:"rank" yaml:"rank"`
	ID          string     `json:"id" yaml:"id"`
	Label       string     `json:"label" yaml:"label"`
	Description string     `json:"description" yaml:"description"`
	Confidence  Confidence `json:"confidence" yaml:"confidence"`
	Hints       []string   `json:"hints" yaml:"hints"`
}

// ResolveResponse carries the candidates and the search source they came from
type ResolveResponse struct {
	Source     SearchSource       `json:"source" yaml:"source"`
	Candidates []ResolveCandidate `json:"candidates" yaml:"candidates"`
}

// Resolve scores every result of search against query. Candidates keep the
// input order; rank is the 1-based input position.
func Resolve(query string, search SearchResponse) ResolveResponse {
	normalized := normalize(query)

	candidates := make([]ResolveCandidate, 0, len(search.Results))
	for index, result := range search.Results {
		confidence, hints := scoreCandidate(normalized, result, index)
		candidates = append(candidates, ResolveCandidate{
			Rank:        index + 1,
			ID:          result.ID,
			Label:       result.Label,
			Description: result.Description,
			Confidence:  confidence,
			Hints:       hints,
		})
	}
	return ResolveResponse{Source: search.Source, Candidates: candidates}
}

func scoreCandidate(query string, candidate SearchResult, index int) (Confidence, []string) {
	id := normalize(candidate.ID)
	label := normalize(candidate.Label)
	description := normalize(candidate.Description)

	score := 0
	hints := make([]string, 0, 4)

	if id != "" && id == query {
		score += scoreIDMatch
		hints = append(hints, HintIDMatch)
	}

	switch {
	case label == "" || query == "":
	case label == query:
		score += scoreExactLabel
		hints = append(hints, HintExactLabel)
	case strings.HasPrefix(label, query) || strings.HasPrefix(query, label):
		score += scoreStrongOverlap
		hints = append(hints, HintStrongOverlap)
	case strings.Contains(label, query) || strings.Contains(query, label):
		score += scorePartialOverlap
		hints = append(hints, HintPartialOverlap)
	}

	if utf8.RuneCountInString(query) >= 3 && strings.Contains(description, query) {
		score += scoreDescription
		hints = append(hints, HintDescription)
	}

	if index == 0 {
		score += scoreTopResult
		hints = append(hints, HintTopSearchResult)
	}

	switch {
	case score >= highConfidenceScore:
		return ConfidenceHigh, hints
	case score >= mediumConfidenceScore:
		return ConfidenceMedium, hints
	default:
		return ConfidenceLow, hints
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
