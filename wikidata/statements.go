package wikidata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/internal/util"
)

// GetStatements returns the textifier's pre-rendered statement text for an
// entity, or "Entity X not found".
func (c *Client) GetStatements(ctx context.Context, entityID string, includeExternalIDs bool, lang string) (string, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return "", errors.NewInvalidRequestError("entity ID cannot be empty")
	}
	lang = util.FirstNonEmpty(lang, DefaultLang)

	params := url.Values{}
	params.Set("id", entityID)
	params.Set("external_ids", strconv.FormatBool(includeExternalIDs))
	params.Set("all_ranks", "false")
	params.Set("qualifiers", "false")
	params.Set("lang", lang)
	params.Set("format", "triplet")

	var response map[string]string
	if err := c.getJSON(ctx, c.cfg.Endpoints.TextifierURL, params, nil, &response); err != nil {
		return "", errors.Wrapf(err, "get statements for %s", entityID)
	}

	text := strings.TrimSpace(response[entityID])
	if text == "" {
		return notFoundMessage(entityID), nil
	}
	return text, nil
}

// GetStatementValues renders every value of one property on an entity with
// ranks, qualifiers, and references.
func (c *Client) GetStatementValues(ctx context.Context, entityID, propertyID, lang string) (string, error) {
	entityID = strings.TrimSpace(entityID)
	propertyID = strings.TrimSpace(propertyID)
	if entityID == "" {
		return "", errors.NewInvalidRequestError("entity ID cannot be empty")
	}
	if propertyID == "" {
		return "", errors.NewInvalidRequestError("property ID cannot be empty")
	}
	lang = util.FirstNonEmpty(lang, DefaultLang)

	response, err := c.getTripletValues(ctx, []string{entityID}, []string{propertyID}, textifierOptions{
		ExternalIDs: true,
		AllRanks:    true,
		References:  true,
		Qualifiers:  true,
		Lang:        lang,
	})
	if err != nil {
		return "", errors.Wrapf(err, "get %s values for %s", propertyID, entityID)
	}

	entity, ok := response[entityID]
	if !ok {
		return notFoundMessage(entityID), nil
	}

	text := TripletValuesToString(entityID, propertyID, entity)
	if text == "" {
		return fmt.Sprintf("No statement found for %s with property %s", entityID, propertyID), nil
	}
	return text, nil
}

type textifierOptions struct {
	ExternalIDs bool
	AllRanks    bool
	References  bool
	Qualifiers  bool
	Lang        string
}

// getTripletValues fetches structured claims for ids, optionally filtered
// to the given properties. IDs answered with null are left out.
func (c *Client) getTripletValues(ctx context.Context, ids, properties []string, opts textifierOptions) (map[string]Entity, error) {
	if len(ids) == 0 {
		return map[string]Entity{}, nil
	}

	params := url.Values{}
	params.Set("id", strings.Join(ids, ","))
	params.Set("external_ids", strconv.FormatBool(opts.ExternalIDs))
	params.Set("all_ranks", strconv.FormatBool(opts.AllRanks))
	params.Set("references", strconv.FormatBool(opts.References))
	params.Set("qualifiers", strconv.FormatBool(opts.Qualifiers))
	params.Set("lang", util.FirstNonEmpty(opts.Lang, DefaultLang))
	params.Set("format", "json")
	if len(properties) > 0 {
		params.Set("pid", strings.Join(properties, ","))
	}

	var response map[string]*Entity
	if err := c.getJSON(ctx, c.cfg.Endpoints.TextifierURL, params, nil, &response); err != nil {
		return nil, err
	}

	// A null entity means the textifier does not know the ID
	entities := make(map[string]Entity, len(response))
	for id, entity := range response {
		if entity != nil {
			entities[id] = *entity
		}
	}
	return entities, nil
}

func notFoundMessage(entityID string) string {
	return fmt.Sprintf("Entity %s not found", entityID)
}
