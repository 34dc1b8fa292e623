package wikidata

import (
	"context"
	"fmt"
	"strings"

	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/internal/util"
	"github.com/teranos/wd/logger"
)

// Relation property IDs followed by the hierarchy builder
const (
	PropertyInstanceOf = "P31"
	PropertySubclassOf = "P279"
)

// Child keys of a rendered hierarchy node
const (
	InstanceOfKey = "instance of (P31)"
	SubclassOfKey = "subclass of (P279)"
)

// DefaultMaxDepth is the CLI default for hierarchy expansion
const DefaultMaxDepth = 5

type hierarchyNode struct {
	Label      string
	InstanceOf []string
	SubclassOf []string
}

// hierarchyGraph is the accumulated adjacency list; it may contain cycles
type hierarchyGraph map[string]hierarchyNode

// GetInstanceAndSubclassHierarchy expands P31/P279 relations breadth-first
// from entityID, one batched request per level, for at most maxDepth+1 levels.
// An ID already in the graph is never fetched again.
func (c *Client) GetInstanceAndSubclassHierarchy(ctx context.Context, entityID string, maxDepth int, lang string) (HierarchyResult, error) {
	entityID = strings.TrimSpace(entityID)
	if entityID == "" {
		return HierarchyResult{}, errors.NewInvalidRequestError("entity ID cannot be empty")
	}
	if maxDepth < 0 {
		return HierarchyResult{}, errors.NewInvalidRequestError("max-depth must be zero or greater")
	}
	lang = util.FirstNonEmpty(lang, DefaultLang)

	log := logger.LoggerFromContext(ctx, "hierarchy").With(logger.FieldEntityID, entityID)

	graph := hierarchyGraph{}
	labels := map[string]string{}
	pending := []string{entityID}

	for level := 0; len(pending) > 0 && level <= maxDepth; level++ {
		response, err := c.getTripletValues(ctx, pending, []string{PropertyInstanceOf, PropertySubclassOf}, textifierOptions{
			Qualifiers: true,
			Lang:       lang,
		})
		if err != nil {
			return HierarchyResult{}, errors.Wrapf(err, "hierarchy level %d", level)
		}

		var discovered []string
		for _, id := range pending {
			entity, ok := response[id]
			if !ok {
				continue
			}
			if label := strings.TrimSpace(entity.Label); label != "" {
				labels[id] = label
			}

			node, relatedLabels := extractHierarchyRelations(entity.Claims)
			for relatedID, label := range relatedLabels {
				labels[relatedID] = label
			}
			graph[id] = node

			discovered = append(discovered, node.InstanceOf...)
			discovered = append(discovered, node.SubclassOf...)
		}

		next := make([]string, 0, len(discovered))
		for _, id := range util.UniqueStrings(discovered) {
			if _, visited := graph[id]; visited {
				continue
			}
			next = append(next, id)
		}

		if logger.ShouldOutput(logger.Verbosity, logger.OutputTraversal) {
			log.Debugw("hierarchy level",
				logger.FieldLevel, level,
				logger.FieldCount, len(pending),
				"next", len(next))
		}
		pending = next
	}

	if _, ok := graph[entityID]; !ok {
		return HierarchyResult{Message: fmt.Sprintf("Entity %s not found", entityID)}, nil
	}

	for id, node := range graph {
		node.Label = util.FirstNonEmpty(labels[id], id)
		graph[id] = node
	}

	rendered := graph.render(entityID, maxDepth)
	if tree, ok := rendered.(map[string]any); ok {
		return HierarchyResult{Tree: tree}, nil
	}
	return HierarchyResult{Tree: map[string]any{"result": rendered}}, nil
}

// extractHierarchyRelations returns the node's deduplicated P31 and P279
// targets and any inline labels found on them.
func extractHierarchyRelations(claims []Claim) (hierarchyNode, map[string]string) {
	node := hierarchyNode{InstanceOf: []string{}, SubclassOf: []string{}}
	labels := map[string]string{}

	for _, claim := range claims {
		var target *[]string
		switch claim.PID {
		case PropertyInstanceOf:
			target = &node.InstanceOf
		case PropertySubclassOf:
			target = &node.SubclassOf
		default:
			continue
		}

		for _, claimValue := range claim.Values {
			ref, ok := claimValue.Value.EntityRef()
			if !ok {
				continue
			}
			if ref.Label != "" {
				labels[ref.ID] = ref.Label
			}
			*target = append(*target, ref.ID)
		}
	}

	node.InstanceOf = util.UniqueStrings(node.InstanceOf)
	node.SubclassOf = util.UniqueStrings(node.SubclassOf)
	return node, labels
}

// render descends from id with a strictly decreasing depth, which is what
// bounds recursion on a cyclic graph. Children missing from the graph are
// skipped.
func (g hierarchyGraph) render(id string, depth int) any {
	node, ok := g[id]
	if !ok {
		return id
	}
	key := fmt.Sprintf("%s (%s)", util.FirstNonEmpty(node.Label, id), id)
	if depth <= 0 {
		return key
	}

	return map[string]any{
		key: map[string]any{
			InstanceOfKey: g.renderChildren(node.InstanceOf, depth-1),
			SubclassOfKey: g.renderChildren(node.SubclassOf, depth-1),
		},
	}
}

func (g hierarchyGraph) renderChildren(ids []string, depth int) []any {
	children := make([]any, 0, len(ids))
	for _, id := range ids {
		if _, exists := g[id]; !exists {
			continue
		}
		children = append(children, g.render(id, depth))
	}
	return children
}
