package wikidata

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/internal/httpclient"
)

var entityURIPattern = regexp.MustCompile(`^http://www\.wikidata\.org/entity/([A-Z]\d+)$`)

// ExecuteSPARQL runs query against the SPARQL endpoint and keeps at most
// limit rows. A query rejected with HTTP 400 yields a result carrying the
// endpoint's message instead of an error.
func (c *Client) ExecuteSPARQL(ctx context.Context, query string, limit int) (SPARQLResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SPARQLResult{}, errors.NewInvalidRequestError("SPARQL query cannot be empty")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("format", "json")

	var response struct {
		Head struct {
			Vars []string `json:"vars"`
		} `json:"head"`
		Results struct {
			Bindings []map[string]struct {
				Type  string `json:"type"`
				Value string `json:"value"`
			} `json:"bindings"`
		} `json:"results"`
	}

	if err := c.getJSON(ctx, c.cfg.Endpoints.QueryURL, params, nil, &response); err != nil {
		if remote, ok := httpclient.AsRemoteError(err); ok && remote.StatusCode == http.StatusBadRequest {
			return SPARQLResult{Message: CleanSPARQLErrorMessage(remote.Body)}, nil
		}
		return SPARQLResult{}, errors.Wrap(err, "execute SPARQL")
	}

	bindings := response.Results.Bindings
	if len(bindings) > limit {
		bindings = bindings[:limit]
	}

	vars := response.Head.Vars
	rows := make([]map[string]string, 0, len(bindings))
	for _, binding := range bindings {
		row := make(map[string]string, len(vars))
		for _, variable := range vars {
			row[variable] = ShortenEntityURI(binding[variable].Value)
		}
		rows = append(rows, row)
	}

	csvText, err := ToSemicolonCSV(vars, rows)
	if err != nil {
		return SPARQLResult{}, err
	}
	return SPARQLResult{Vars: vars, Rows: rows, CSV: csvText}, nil
}

// CleanSPARQLErrorMessage keeps the first line of a query-service error body
// and drops any Java stack trace appended to it.
func CleanSPARQLErrorMessage(body string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(body), "\n")
	first, _, _ = strings.Cut(strings.TrimSpace(first), "\tat ")
	if first = strings.TrimSpace(first); first == "" {
		return "SPARQL query failed"
	}
	return first
}

// ShortenEntityURI turns http://www.wikidata.org/entity/Q42 into Q42
func ShortenEntityURI(value string) string {
	if match := entityURIPattern.FindStringSubmatch(value); len(match) == 2 {
		return match[1]
	}
	return value
}

// ToSemicolonCSV renders rows with a leading index column. The header is an
// empty cell followed by vars.
func ToSemicolonCSV(vars []string, rows []map[string]string) (string, error) {
	var buffer bytes.Buffer
	writer := csv.NewWriter(&buffer)
	writer.Comma = ';'

	if err := writer.Write(append([]string{""}, vars...)); err != nil {
		return "", errors.Wrap(err, "write CSV header")
	}
	for index, row := range rows {
		record := make([]string, 0, len(vars)+1)
		record = append(record, strconv.Itoa(index))
		for _, variable := range vars {
			record = append(record, row[variable])
		}
		if err := writer.Write(record); err != nil {
			return "", errors.Wrap(err, "write CSV row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", errors.Wrap(err, "flush CSV")
	}
	return buffer.String(), nil
}
