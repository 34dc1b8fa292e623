package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/wikidata"
)

// sparqlPayload is the structured output of execute-sparql
type sparqlPayload struct {
	Query  string                `json:"query" yaml:"query"`
	Limit  int                   `json:"limit" yaml:"limit"`
	Result wikidata.SPARQLResult `json:"result" yaml:"result"`
}

func newExecuteSPARQLCommand(a *app) *cobra.Command {
	var (
		queryFlag string
		queryFile string
		limit     int
	)
	cmd := &cobra.Command{
		Use:     "execute-sparql [query]",
		Aliases: []string{"sparql"},
		Short:   "Run a SPARQL query and print the rows as semicolon-separated CSV",
		Long: `Run a SPARQL query against the Wikidata Query Service.

The query comes from exactly one of: the positional argument, --query, or
--file. Entity URIs in the results are shortened to their IDs.

Examples:
  wd sparql 'SELECT ?item WHERE { ?item wdt:P31 wd:Q146 } LIMIT 5'
  wd sparql --file query.rq --k 20`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			query, err := resolveSPARQLQuery(args, queryFlag, queryFile)
			if err != nil {
				return err
			}
			if limit < 1 {
				return errors.NewInvalidRequestError("k must be greater than zero")
			}
			client, err := a.wikidataClient()
			if err != nil {
				return err
			}

			result, err := client.ExecuteSPARQL(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			text := result.Message
			if text == "" {
				text = result.CSV
			}
			return p.Print(text, sparqlPayload{Query: query, Limit: limit, Result: result})
		},
	}
	cmd.Flags().StringVarP(&queryFlag, "query", "q", "", "SPARQL query text")
	cmd.Flags().StringVar(&queryFile, "file", "", "Read the SPARQL query from a file")
	cmd.Flags().IntVar(&limit, "k", wikidata.DefaultLimit, "Maximum number of rows to return")
	return cmd
}

// resolveSPARQLQuery picks the single query source among the positional
// argument, --query, and --file.
func resolveSPARQLQuery(args []string, queryFlag, queryFile string) (string, error) {
	if len(args) > 1 {
		return "", errors.NewInvalidRequestError("expected at most one positional query argument")
	}

	var sources []string
	if len(args) == 1 {
		sources = append(sources, args[0])
	}
	if queryFlag != "" {
		sources = append(sources, queryFlag)
	}
	if queryFile != "" {
		data, err := os.ReadFile(queryFile)
		if err != nil {
			return "", errors.Wrap(err, "failed to read query file")
		}
		sources = append(sources, string(data))
	}

	switch len(sources) {
	case 0:
		return "", errors.NewInvalidRequestError("provide a query as an argument, via --query, or via --file")
	case 1:
	default:
		return "", errors.NewInvalidRequestError("provide only one query source among positional arg, --query, and --file")
	}

	query := strings.TrimSpace(sources[0])
	if query == "" {
		return "", errors.NewInvalidRequestError("SPARQL query cannot be empty")
	}
	return query, nil
}
