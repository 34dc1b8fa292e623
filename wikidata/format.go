package wikidata

import (
	"fmt"
	"strings"

	"github.com/teranos/wd/internal/util"
)

// DefaultRank is assumed when a claim value carries no rank
const DefaultRank = "normal"

// TripletValuesToString renders one block per claim value:
//
//	Label (Q1): property (P1): value
//	  Rank: normal
//	  Qualifier:
//	    - point in time (P585): 2020
//	  Reference 1:
//	    - stated in (P248): Some Source (Q2)
//
// Blocks are separated by a blank line. Returns "" when there are no claims.
func TripletValuesToString(entityID, propertyID string, entity Entity) string {
	entityLabel := util.FirstNonEmpty(entity.Label, entityID)

	var b strings.Builder
	first := true
	for _, claim := range entity.Claims {
		property := claim.PID
		if strings.TrimSpace(property) == "" {
			property = propertyID
		}

		for _, claimValue := range claim.Values {
			if !first {
				b.WriteString("\n")
			}
			first = false

			fmt.Fprintf(&b, "%s (%s): %s (%s): %s\n",
				entityLabel, entityID, claim.PropertyLabel, property, claimValue.Value.Stringify())
			fmt.Fprintf(&b, "  Rank: %s\n", util.FirstNonEmpty(claimValue.Rank, DefaultRank))

			if len(claimValue.Qualifiers) > 0 {
				b.WriteString("  Qualifier:\n")
				writeSubClaims(&b, claimValue.Qualifiers)
			}
			for index, reference := range claimValue.References {
				fmt.Fprintf(&b, "  Reference %d:\n", index+1)
				writeSubClaims(&b, reference)
			}
		}
	}

	return strings.TrimSpace(b.String())
}

func writeSubClaims(b *strings.Builder, subClaims []Qualifier) {
	for _, q := range subClaims {
		fmt.Fprintf(b, "    - %s (%s): %s\n", q.PropertyLabel, q.PID, q.Stringify())
	}
}
