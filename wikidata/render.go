package wikidata

import (
	"fmt"
	"strings"

	"github.com/teranos/wd/internal/util"
)

// MaxProfileValuesShown caps the values listed per field in profile text
const MaxProfileValuesShown = 5

// NoResolveCandidatesMessage is shown when resolve finds nothing
const NoResolveCandidatesMessage = "No matching Wikidata entities found."

// NoSearchResultsMessage is shown when a search finds nothing
func NoSearchResultsMessage(kind Kind) string {
	return fmt.Sprintf("No matching Wikidata %s found.", kind.Plural())
}

// SearchPayload is the structured output of a search command
type SearchPayload struct {
	Query   string         `json:"query" yaml:"query"`
	Lang    string         `json:"lang" yaml:"lang"`
	Limit   int            `json:"limit" yaml:"limit"`
	Source  SearchSource   `json:"source" yaml:"source"`
	Results []SearchResult `json:"results" yaml:"results"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
}

// NewSearchPayload wraps a search response for structured output
func NewSearchPayload(query, lang string, limit int, kind Kind, response SearchResponse) SearchPayload {
	payload := SearchPayload{
		Query:   query,
		Lang:    lang,
		Limit:   limit,
		Source:  response.Source,
		Results: response.Results,
	}
	if payload.Results == nil {
		payload.Results = []SearchResult{}
	}
	if len(payload.Results) == 0 {
		payload.Message = NoSearchResultsMessage(kind)
	}
	return payload
}

// ResolvePayload is the structured output of the resolve command
type ResolvePayload struct {
	Query      string             `json:"query" yaml:"query"`
	Lang       string             `json:"lang" yaml:"lang"`
	Limit      int                `json:"limit" yaml:"limit"`
	Source     SearchSource       `json:"source" yaml:"source"`
	Candidates []ResolveCandidate `json:"candidates" yaml:"candidates"`
	Message    string             `json:"message,omitempty" yaml:"message,omitempty"`
}

// NewResolvePayload wraps resolve candidates for structured output
func NewResolvePayload(query, lang string, limit int, response ResolveResponse) ResolvePayload {
	payload := ResolvePayload{
		Query:      query,
		Lang:       lang,
		Limit:      limit,
		Source:     response.Source,
		Candidates: response.Candidates,
	}
	if payload.Candidates == nil {
		payload.Candidates = []ResolveCandidate{}
	}
	if len(payload.Candidates) == 0 {
		payload.Message = NoResolveCandidatesMessage
	}
	return payload
}

// FormatSearchText renders one "ID: label — description" line per result
func FormatSearchText(kind Kind, response SearchResponse) string {
	if len(response.Results) == 0 {
		return NoSearchResultsMessage(kind)
	}

	lines := make([]string, 0, len(response.Results))
	for _, result := range response.Results {
		label := strings.TrimSpace(result.Label)
		description := strings.TrimSpace(result.Description)
		if label == "" && description == "" {
			lines = append(lines, result.ID)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %s — %s", result.ID, label, description))
	}
	return strings.Join(lines, "\n")
}

// FormatResolveText renders "N. ID: label — description [conf confidence; hints]"
func FormatResolveText(response ResolveResponse) string {
	if len(response.Candidates) == 0 {
		return NoResolveCandidatesMessage
	}

	lines := make([]string, 0, len(response.Candidates))
	for _, candidate := range response.Candidates {
		hints := ""
		if len(candidate.Hints) > 0 {
			hints = "; " + strings.Join(candidate.Hints, ", ")
		}
		lines = append(lines, fmt.Sprintf("%d. %s [%s confidence%s]",
			candidate.Rank, renderCandidate(candidate), candidate.Confidence, hints))
	}
	return strings.Join(lines, "\n")
}

func renderCandidate(candidate ResolveCandidate) string {
	label := strings.TrimSpace(candidate.Label)
	description := strings.TrimSpace(candidate.Description)

	switch {
	case label == "" && description == "":
		return candidate.ID
	case label == "":
		return fmt.Sprintf("%s: %s", candidate.ID, description)
	case description == "":
		return fmt.Sprintf("%s: %s", candidate.ID, label)
	default:
		return fmt.Sprintf("%s: %s — %s", candidate.ID, label, description)
	}
}

// FormatProfileText renders a profile as a header followed by one section per
// non-empty field, in schema order.
func FormatProfileText(result ProfileResult) string {
	if result.Message != "" {
		return result.Message
	}

	var lines []string
	if label := strings.TrimSpace(result.Label); label == "" {
		lines = append(lines, result.EntityID)
	} else {
		lines = append(lines, fmt.Sprintf("%s (%s)", label, result.EntityID))
	}
	if description := strings.TrimSpace(result.Description); description != "" {
		lines = append(lines, description)
	}
	lines = append(lines, "Profile type: "+string(result.ProfileType))

	for _, key := range result.FieldOrder {
		field, ok := result.Fields[key]
		if !ok || len(field.Values) == 0 {
			continue
		}

		lines = append(lines, "", field.Label+":")
		shown := field.Values
		if len(shown) > MaxProfileValuesShown {
			shown = shown[:MaxProfileValuesShown]
		}
		for _, value := range shown {
			display := util.FirstNonEmpty(value.Display, value.Value)
			if display == "" {
				continue
			}
			line := "- " + display
			if value.EntityID != "" && value.EntityID != display {
				line += " [" + value.EntityID + "]"
			}
			if value.ReferenceCount > 0 {
				line += fmt.Sprintf(" (refs: %d)", value.ReferenceCount)
			}
			lines = append(lines, line)
		}
		if remaining := len(field.Values) - len(shown); remaining > 0 {
			lines = append(lines, fmt.Sprintf("- ... +%d more", remaining))
		}
	}

	lines = append(lines, "", "Fetched at: "+result.FetchedAt)
	return strings.Join(lines, "\n")
}

// HierarchyPayload wraps a hierarchy result with its request parameters
type HierarchyPayload struct {
	EntityID string          `json:"entity_id" yaml:"entity_id"`
	MaxDepth int             `json:"max_depth" yaml:"max_depth"`
	Lang     string          `json:"lang" yaml:"lang"`
	Result   HierarchyResult `json:"result" yaml:"result"`
}
