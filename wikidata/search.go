package wikidata

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/internal/util"
	"github.com/teranos/wd/logger"
)

// metadataBatchSize is the wbgetentities per-call ID cap
const metadataBatchSize = 50

// SearchItems searches items (Q-ids)
func (c *Client) SearchItems(ctx context.Context, query, lang string, limit int, disableVector bool) (SearchResponse, error) {
	return c.Search(ctx, query, lang, limit, KindItem, disableVector)
}

// SearchProperties searches properties (P-ids)
func (c *Client) SearchProperties(ctx context.Context, query, lang string, limit int, disableVector bool) (SearchResponse, error) {
	return c.Search(ctx, query, lang, limit, KindProperty, disableVector)
}

// Search runs vector search first and falls back to keyword search when the
// vector step yields nothing or fails. Vector failures are never returned.
func (c *Client) Search(ctx context.Context, query, lang string, limit int, kind Kind, disableVector bool) (SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResponse{}, errors.NewInvalidRequestError("query cannot be empty")
	}
	lang = util.FirstNonEmpty(lang, DefaultLang)
	if limit <= 0 {
		limit = DefaultLimit
	}

	log := logger.LoggerFromContext(ctx, "search")

	if !disableVector {
		outcome := c.vectorSearch(ctx, query, lang, limit, kind)
		if !outcome.fallBack() {
			log.Debugw("vector search hit",
				logger.FieldSource, SearchSourceVector,
				logger.FieldCount, len(outcome.Results))
			return SearchResponse{Source: SearchSourceVector, Results: outcome.Results}, nil
		}
		if logger.ShouldOutput(logger.Verbosity, logger.OutputFallback) {
			if outcome.Status == VectorFailed {
				log.Infow("vector search failed, using keyword search",
					logger.FieldQuery, query,
					logger.FieldError, outcome.Err.Error())
			} else {
				log.Infow("vector search empty, using keyword search", logger.FieldQuery, query)
			}
		}
	}

	results, err := c.keywordSearch(ctx, query, lang, limit, kind)
	if err != nil {
		return SearchResponse{}, err
	}
	log.Debugw("keyword search finished",
		logger.FieldSource, SearchSourceKeyword,
		logger.FieldCount, len(results))
	return SearchResponse{Source: SearchSourceKeyword, Results: results}, nil
}

// VectorStatus classifies how the vector step ended
type VectorStatus int

const (
	VectorHit    VectorStatus = iota // at least one result
	VectorEmpty                      // service answered with nothing usable
	VectorFailed                     // transport, remote, or decode failure
)

// VectorOutcome is the result of the vector step. Only VectorHit is returned
// to the caller; every other status triggers keyword search.
type VectorOutcome struct {
	Status  VectorStatus
	Results []SearchResult
	Err     error
}

func (o VectorOutcome) fallBack() bool {
	return o.Status != VectorHit
}

func (c *Client) vectorSearch(ctx context.Context, query, lang string, limit int, kind Kind) VectorOutcome {
	params := url.Values{}
	params.Set("query", query)
	params.Set("k", strconv.Itoa(limit))

	headers := map[string]string{"x-api-secret": c.cfg.Endpoints.VectorAPISecret}

	var response []struct {
		QID string `json:"QID"`
		PID string `json:"PID"`
	}
	endpoint := strings.TrimSuffix(c.cfg.Endpoints.VectorSearchURL, "/") + "/" + string(kind) + "/query/"
	if err := c.getJSON(ctx, endpoint, params, headers, &response); err != nil {
		return VectorOutcome{Status: VectorFailed, Err: err}
	}

	ids := make([]string, 0, len(response))
	for _, candidate := range response {
		id := candidate.QID
		if kind == KindProperty {
			id = candidate.PID
		}
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	ids = util.UniqueStrings(ids)
	if len(ids) == 0 {
		return VectorOutcome{Status: VectorEmpty}
	}

	metadata, err := c.getLabelsAndDescriptions(ctx, ids, lang)
	if err != nil {
		return VectorOutcome{Status: VectorFailed, Err: err}
	}

	results := make([]SearchResult, 0, len(ids))
	for _, id := range ids {
		meta := metadata[id]
		results = append(results, SearchResult{ID: id, Label: meta.Label, Description: meta.Description})
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return VectorOutcome{Status: VectorHit, Results: results}
}

func (c *Client) keywordSearch(ctx context.Context, query, lang string, limit int, kind Kind) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("action", "wbsearchentities")
	params.Set("type", string(kind))
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("language", lang)
	params.Set("format", "json")
	params.Set("origin", "*")

	var response struct {
		Search []struct {
			ID          string `json:"id"`
			Label       string `json:"label"`
			Description string `json:"description"`
			Display     struct {
				Label       LangValue `json:"label"`
				Description LangValue `json:"description"`
			} `json:"display"`
		} `json:"search"`
	}
	if err := c.getJSON(ctx, c.cfg.Endpoints.APIURL, params, nil, &response); err != nil {
		return nil, errors.Wrap(err, "keyword search")
	}

	results := make([]SearchResult, 0, len(response.Search))
	for _, candidate := range response.Search {
		results = append(results, SearchResult{
			ID:          candidate.ID,
			Label:       util.FirstNonEmpty(candidate.Display.Label.Value, candidate.Label),
			Description: util.FirstNonEmpty(candidate.Display.Description.Value, candidate.Description),
		})
	}
	return results, nil
}

// LangValue is a single-language string as returned by the MediaWiki API
type LangValue struct {
	Value string `json:"value"`
}

type entityMetadata struct {
	Label       string
	Description string
}

// getLabelsAndDescriptions resolves labels in batches, one request at a time
func (c *Client) getLabelsAndDescriptions(ctx context.Context, ids []string, lang string) (map[string]entityMetadata, error) {
	result := make(map[string]entityMetadata, len(ids))
	for _, chunk := range util.Chunk(ids, metadataBatchSize) {
		if len(chunk) == 0 {
			continue
		}
		params := url.Values{}
		params.Set("action", "wbgetentities")
		params.Set("ids", strings.Join(chunk, "|"))
		params.Set("languages", strings.Join([]string{lang, "mul", "en"}, "|"))
		params.Set("props", "labels|descriptions")
		params.Set("format", "json")
		params.Set("origin", "*")

		var response struct {
			Entities map[string]struct {
				Labels       map[string]LangValue `json:"labels"`
				Descriptions map[string]LangValue `json:"descriptions"`
			} `json:"entities"`
		}
		if err := c.getJSON(ctx, c.cfg.Endpoints.APIURL, params, nil, &response); err != nil {
			return nil, errors.Wrap(err, "fetch labels")
		}

		for id, entity := range response.Entities {
			result[id] = entityMetadata{
				Label:       PickLangValue(entity.Labels, lang),
				Description: PickLangValue(entity.Descriptions, lang),
			}
		}
	}
	return result, nil
}

// PickLangValue returns the requested language's value, else the
// language-neutral "mul" value, else English, else "". Values are trimmed.
func PickLangValue(values map[string]LangValue, lang string) string {
	return util.FirstNonEmpty(values[lang].Value, values["mul"].Value, values["en"].Value)
}
