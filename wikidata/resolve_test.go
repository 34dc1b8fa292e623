package wikidata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveHartree(t *testing.T) {
	resp := Resolve("Hartree", SearchResponse{
		Source: SearchSourceVector,
		Results: []SearchResult{
			{ID: "Q113465975", Label: "Hartree", Description: "commodity trading company"},
			{ID: "Q123", Label: "Hartree Partners", Description: ""},
		},
	})

	assert.Equal(t, SearchSourceVector, resp.Source)
	require.Len(t, resp.Candidates, 2)

	first := resp.Candidates[0]
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, ConfidenceHigh, first.Confidence)
	assert.Equal(t, []string{HintExactLabel, HintTopSearchResult}, first.Hints)

	second := resp.Candidates[1]
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, ConfidenceMedium, second.Confidence)
	assert.Equal(t, []string{HintStrongOverlap}, second.Hints)
}

func TestResolveScoring(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		result     SearchResult
		index      int
		confidence Confidence
		hints      []string
	}{
		{
			name:       "id match",
			query:      " q42 ",
			result:     SearchResult{ID: "Q42", Label: "Douglas Adams"},
			index:      3,
			confidence: ConfidenceHigh,
			hints:      []string{HintIDMatch},
		},
		{
			name:       "query extends label",
			query:      "Douglas Adams novelist",
			result:     SearchResult{ID: "Q42", Label: "Douglas Adams"},
			index:      1,
			confidence: ConfidenceMedium,
			hints:      []string{HintStrongOverlap},
		},
		{
			name:       "partial overlap with description",
			query:      "adams",
			result:     SearchResult{ID: "Q42", Label: "Douglas Adams", Description: "wrote as Adams"},
			index:      1,
			confidence: ConfidenceMedium,
			hints:      []string{HintPartialOverlap, HintDescription},
		},
		{
			name:       "short query ignores description",
			query:      "ad",
			result:     SearchResult{ID: "Q1", Label: "", Description: "ad agency"},
			index:      1,
			confidence: ConfidenceLow,
			hints:      []string{},
		},
		{
			name:       "top result alone is low",
			query:      "something",
			result:     SearchResult{ID: "Q7", Label: "other"},
			index:      0,
			confidence: ConfidenceLow,
			hints:      []string{HintTopSearchResult},
		},
		{
			name:       "case insensitive exact label",
			query:      "PARIS",
			result:     SearchResult{ID: "Q90", Label: " paris "},
			index:      2,
			confidence: ConfidenceHigh,
			hints:      []string{HintExactLabel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confidence, hints := scoreCandidate(normalize(tt.query), tt.result, tt.index)
			assert.Equal(t, tt.confidence, confidence)
			assert.Equal(t, tt.hints, hints)
		})
	}
}

func TestResolvePreservesOrder(t *testing.T) {
	// the weakest candidate first stays first
	resp := Resolve("paris", SearchResponse{Results: []SearchResult{
		{ID: "Q1", Label: "unrelated"},
		{ID: "Q90", Label: "Paris"},
	}})
	require.Len(t, resp.Candidates, 2)
	assert.Equal(t, "Q1", resp.Candidates[0].ID)
	assert.Equal(t, 1, resp.Candidates[0].Rank)
	assert.Equal(t, ConfidenceLow, resp.Candidates[0].Confidence)
	assert.Equal(t, "Q90", resp.Candidates[1].ID)
	assert.Equal(t, ConfidenceHigh, resp.Candidates[1].Confidence)

	again := Resolve("paris", SearchResponse{Results: []SearchResult{
		{ID: "Q1", Label: "unrelated"},
		{ID: "Q90", Label: "Paris"},
	}})
	assert.Equal(t, resp, again)
}

func TestFormatResolveText(t *testing.T) {
	resp := Resolve("Hartree", SearchResponse{Results: []SearchResult{
		{ID: "Q113465975", Label: "Hartree", Description: "commodity trading company"},
		{ID: "Q123", Label: "Hartree Partners"},
		{ID: "Q9", Description: "only description"},
		{ID: "Q10"},
	}})

	want := "1. Q113465975: Hartree — commodity trading company [high confidence; exact label match, top search result]\n" +
		"2. Q123: Hartree Partners [medium confidence; strong label overlap]\n" +
		"3. Q9: only description [low confidence]\n" +
		"4. Q10 [low confidence]"
	assert.Equal(t, want, FormatResolveText(resp))
	assert.Equal(t, NoResolveCandidatesMessage, FormatResolveText(ResolveResponse{}))
}

func TestNewResolvePayload(t *testing.T) {
	payload := NewResolvePayload("x", "en", 5, Resolve("x", SearchResponse{Source: SearchSourceKeyword}))
	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"x","lang":"en","limit":5,"source":"keyword","candidates":[],"message":"No matching Wikidata entities found."}`, string(out))
}
