package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/wikidata"
)

// searchFlags are shared by search-items, search-properties, and resolve
type searchFlags struct {
	lang     string
	limit    int
	noVector bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.lang, "lang", wikidata.DefaultLang, "Language code for labels and descriptions")
	cmd.Flags().IntVar(&f.limit, "limit", wikidata.DefaultLimit, "Maximum number of results")
	cmd.Flags().BoolVar(&f.noVector, "no-vector", false, "Skip vector search and use keyword search only")
}

func (f *searchFlags) validate() error {
	if f.limit < 1 {
		return errors.NewInvalidRequestError("limit must be greater than zero")
	}
	return nil
}

func newSearchItemsCommand(a *app) *cobra.Command {
	return newSearchCommand(a, wikidata.KindItem, "search-items", "si",
		"Search Wikidata items (Q-ids)")
}

func newSearchPropertiesCommand(a *app) *cobra.Command {
	return newSearchCommand(a, wikidata.KindProperty, "search-properties", "sp",
		"Search Wikidata properties (P-ids)")
}

func newSearchCommand(a *app, kind wikidata.Kind, use, alias, short string) *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:     use + " <query>",
		Aliases: []string{alias},
		Short:   short,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			if err := flags.validate(); err != nil {
				return err
			}
			client, err := a.wikidataClient()
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")

			response, err := client.Search(cmd.Context(), query, flags.lang, flags.limit, kind, flags.noVector)
			if err != nil {
				return err
			}
			return p.Print(
				wikidata.FormatSearchText(kind, response),
				wikidata.NewSearchPayload(strings.TrimSpace(query), flags.lang, flags.limit, kind, response),
			)
		},
	}
	flags.register(cmd)
	return cmd
}
