package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/teranos/wd/wikidata"
)

func newResolveCommand(a *app) *cobra.Command {
	var flags searchFlags
	cmd := &cobra.Command{
		Use:   "resolve <query>",
		Short: "Rank item candidates for a name with a confidence and hints",
		Long: `Search items and score each candidate against the query.

Each candidate gets a high, medium, or low confidence and the hints that
produced it, such as "exact label match" or "top search result".`,
		Args: cobra.MinimumNArgs(1),
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
			query := strings.TrimSpace(strings.Join(args, " "))

			search, err := client.SearchItems(cmd.Context(), query, flags.lang, flags.limit, flags.noVector)
			if err != nil {
				return err
			}
			response := wikidata.Resolve(query, search)
			return p.Print(
				wikidata.FormatResolveText(response),
				wikidata.NewResolvePayload(query, flags.lang, flags.limit, response),
			)
		},
	}
	flags.register(cmd)
	return cmd
}
