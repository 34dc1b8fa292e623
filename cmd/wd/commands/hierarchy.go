package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/teranos/wd/display"
	"github.com/teranos/wd/wikidata"
)

func newHierarchyCommand(a *app) *cobra.Command {
	var (
		maxDepth int
		lang     string
	)
	cmd := &cobra.Command{
		Use:     "get-instance-and-subclass-hierarchy <entity-id>",
		Aliases: []string{"hierarchy"},
		Short:   "Show the instance of (P31) and subclass of (P279) tree of an entity",
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

			result, err := client.GetInstanceAndSubclassHierarchy(cmd.Context(), entityID, maxDepth, lang)
			if err != nil {
				return err
			}
			text := result.Message
			if text == "" {
				tree, err := display.MarshalJSON(result.Tree)
				if err != nil {
					return err
				}
				text = string(tree)
			}
			return p.Print(text, wikidata.HierarchyPayload{
				EntityID: entityID,
				MaxDepth: maxDepth,
				Lang:     lang,
				Result:   result,
			})
		},
	}
	cmd.Flags().IntVar(&maxDepth, "max-depth", wikidata.DefaultMaxDepth, "Maximum levels to expand above the entity")
	cmd.Flags().StringVar(&lang, "lang", wikidata.DefaultLang, "Language code for labels")
	return cmd
}
