package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/teranos/wd/wikidata"
)

// statementsPayload is the structured output of get-statements
type statementsPayload struct {
	EntityID           string `json:"entity_id" yaml:"entity_id"`
	IncludeExternalIDs bool   `json:"include_external_ids" yaml:"include_external_ids"`
	Lang               string `json:"lang" yaml:"lang"`
	Result             string `json:"result" yaml:"result"`
}

// statementValuesPayload is the structured output of get-statement-values
type statementValuesPayload struct {
	EntityID   string `json:"entity_id" yaml:"entity_id"`
	PropertyID string `json:"property_id" yaml:"property_id"`
	Lang       string `json:"lang" yaml:"lang"`
	Result     string `json:"result" yaml:"result"`
}

func newGetStatementsCommand(a *app) *cobra.Command {
	var (
		includeExternalIDs bool
		lang               string
	)
	cmd := &cobra.Command{
		Use:     "get-statements <entity-id>",
		Aliases: []string{"statements"},
		Short:   "Show the direct statements of an entity",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			client, err := a.wikidataClient()
			if err != nil {
				return err
			}
			entityID := strings.TrimSpace(args[0])

			text, err := client.GetStatements(cmd.Context(), entityID, includeExternalIDs, lang)
			if err != nil {
				return err
			}
			return p.Print(text, statementsPayload{
				EntityID:           entityID,
				IncludeExternalIDs: includeExternalIDs,
				Lang:               lang,
				Result:             text,
			})
		},
	}
	cmd.Flags().BoolVar(&includeExternalIDs, "include-external-ids", false, "Include external identifier statements")
	cmd.Flags().StringVar(&lang, "lang", wikidata.DefaultLang, "Language code for labels")
	return cmd
}

func newGetStatementValuesCommand(a *app) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:     "get-statement-values <entity-id> <property-id>",
		Aliases: []string{"statement-values", "values"},
		Short:   "Show every value of one property with ranks, qualifiers, and references",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.printer(cmd)
			if err != nil {
				return err
			}
			client, err := a.wikidataClient()
			if err != nil {
				return err
			}
			entityID := strings.TrimSpace(args[0])
			propertyID := strings.TrimSpace(args[1])

			text, err := client.GetStatementValues(cmd.Context(), entityID, propertyID, lang)
			if err != nil {
				return err
			}
			return p.Print(text, statementValuesPayload{
				EntityID:   entityID,
				PropertyID: propertyID,
				Lang:       lang,
				Result:     text,
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", wikidata.DefaultLang, "Language code for labels")
	return cmd
}
