package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/teranos/wd/wikidata"
)

func newProfileCommand(a *app) *cobra.Command {
	var (
		profileType string
		lang        string
	)
	cmd := &cobra.Command{
		Use:   "profile <entity-id>",
		Short: "Curated company, person, or place profile of an item",
		Long: `Fetch the properties of a curated profile schema in one request and
normalize them into fields with values, ranks, and reference counts.

Examples:
  wd profile Q95                    # Google as a company
  wd profile Q42 --type person
  wd profile Q64 --type place --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			t, err := wikidata.ParseProfileType(profileType)
			if err != nil {
				return err
			}
			client, err := a.wikidataClient()
			if err != nil {
				return err
			}

			result, err := client.GetProfile(cmd.Context(), strings.TrimSpace(args[0]), t, lang)
			if err != nil {
				return err
			}
			return p.Print(wikidata.FormatProfileText(result), result)
		},
	}
	cmd.Flags().StringVar(&profileType, "type", string(wikidata.ProfileCompany), "Profile type: company, person, place")
	cmd.Flags().StringVar(&lang, "lang", wikidata.DefaultLang, "Language code for labels")
	return cmd
}
