package wikidata

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/wd/errors"
)

// relationEntity builds a textifier entity with P31/P279 claims
func relationEntity(label string, instanceOf, subclassOf map[string]string) map[string]any {
	claim := func(pid string, targets map[string]string) map[string]any {
		values := []any{}
		for id, targetLabel := range targets {
			values = append(values, map[string]any{"value": map[string]string{"QID": id, "label": targetLabel}})
		}
		return map[string]any{"PID": pid, "property_label": pid, "values": values}
	}
	return map[string]any{
		"label":  label,
		"claims": []any{claim("P31", instanceOf), claim("P279", subclassOf)},
	}
}

// textifierGraph answers each request with the requested subset of graph
func textifierGraph(t *testing.T, graph map[string]map[string]any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "P31,P279", q.Get("pid"))
		assert.Equal(t, "true", q.Get("qualifiers"))
		assert.Equal(t, "json", q.Get("format"))
		out := map[string]any{}
		for _, id := range strings.Split(q.Get("id"), ",") {
			if entity, ok := graph[id]; ok {
				out[id] = entity
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func TestHierarchyRender(t *testing.T) {
	graph := hierarchyGraph{
		"Q42":  {Label: "Douglas Adams", InstanceOf: []string{"Q5"}},
		"Q5":   {Label: "human", SubclassOf: []string{"Q729", "Q-missing"}},
		"Q729": {Label: "mammal"},
	}

	want := map[string]any{
		"Douglas Adams (Q42)": map[string]any{
			InstanceOfKey: []any{
				map[string]any{
					"human (Q5)": map[string]any{
						InstanceOfKey: []any{},
						SubclassOfKey: []any{"mammal (Q729)"},
					},
				},
			},
			SubclassOfKey: []any{},
		},
	}
	if diff := cmp.Diff(want, graph.render("Q42", 2)); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "Douglas Adams (Q42)", graph.render("Q42", 0))
	assert.Equal(t, "Q-unknown", graph.render("Q-unknown", 3))
}

func TestHierarchyRenderCycleTerminates(t *testing.T) {
	graph := hierarchyGraph{
		"A": {Label: "a", InstanceOf: []string{"B"}},
		"B": {Label: "b", SubclassOf: []string{"A"}},
	}
	rendered := graph.render("A", 3)

	want := map[string]any{
		"a (A)": map[string]any{
			InstanceOfKey: []any{map[string]any{
				"b (B)": map[string]any{
					InstanceOfKey: []any{},
					SubclassOfKey: []any{map[string]any{
						"a (A)": map[string]any{
							InstanceOfKey: []any{"b (B)"},
							SubclassOfKey: []any{},
						},
					}},
				},
			}},
			SubclassOfKey: []any{},
		},
	}
	if diff := cmp.Diff(want, rendered); diff != "" {
		t.Errorf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestGetHierarchyCyclicGraph(t *testing.T) {
	f := newFakeServices(t)
	f.textifier = textifierGraph(t, map[string]map[string]any{
		"A": relationEntity("a", map[string]string{"B": "b"}, nil),
		"B": relationEntity("b", nil, map[string]string{"A": "a"}),
	})

	result, err := f.client().GetInstanceAndSubclassHierarchy(context.Background(), "A", 50, "en")
	require.NoError(t, err)
	assert.Empty(t, result.Message)
	assert.Contains(t, result.Tree, "a (A)")

	// A, then B; B's only relation is already in the graph
	requests := f.requestsTo("/textify")
	require.Len(t, requests, 2)
	assert.Equal(t, "A", requests[0].URL.Query().Get("id"))
	assert.Equal(t, "B", requests[1].URL.Query().Get("id"))
}

func TestGetHierarchyDiamondFetchesOnce(t *testing.T) {
	f := newFakeServices(t)
	f.textifier = textifierGraph(t, map[string]map[string]any{
		"Q1": relationEntity("root", map[string]string{"Q2": "left"}, map[string]string{"Q3": "right"}),
		"Q2": relationEntity("left", nil, map[string]string{"Q4": "top"}),
		"Q3": relationEntity("right", nil, map[string]string{"Q4": "top"}),
		"Q4": relationEntity("top", nil, nil),
	})

	result, err := f.client().GetInstanceAndSubclassHierarchy(context.Background(), "Q1", 5, "")
	require.NoError(t, err)
	require.NotNil(t, result.Tree)

	var fetched []string
	for _, r := range f.requestsTo("/textify") {
		assert.Equal(t, "en", r.URL.Query().Get("lang"))
		fetched = append(fetched, r.URL.Query().Get("id"))
	}
	assert.Equal(t, []string{"Q1", "Q2,Q3", "Q4"}, fetched)
}

func TestGetHierarchyDepthLimitsFetching(t *testing.T) {
	f := newFakeServices(t)
	f.textifier = textifierGraph(t, map[string]map[string]any{
		"Q42": relationEntity("", map[string]string{"Q5": "human"}, nil),
		"Q5":  relationEntity("human", nil, map[string]string{"Q729": "mammal"}),
	})

	result, err := f.client().GetInstanceAndSubclassHierarchy(context.Background(), "Q42", 0, "en")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"result": "Q42 (Q42)"}, result.Tree, "unlabeled root falls back to its ID")
	assert.Len(t, f.requestsTo("/textify"), 1)
}

func TestGetHierarchyUsesInlineLabels(t *testing.T) {
	f := newFakeServices(t)
	f.textifier = textifierGraph(t, map[string]map[string]any{
		"Q42": relationEntity("Douglas Adams", map[string]string{"Q5": "human"}, nil),
		"Q5":  relationEntity("", nil, nil),
	})

	result, err := f.client().GetInstanceAndSubclassHierarchy(context.Background(), "Q42", 1, "en")
	require.NoError(t, err)

	want := map[string]any{
		"Douglas Adams (Q42)": map[string]any{
			InstanceOfKey: []any{"human (Q5)"},
			SubclassOfKey: []any{},
		},
	}
	if diff := cmp.Diff(want, result.Tree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestGetHierarchyNotFound(t *testing.T) {
	f := newFakeServices(t)
	f.textifier = jsonHandler(`{}`)

	result, err := f.client().GetInstanceAndSubclassHierarchy(context.Background(), "Q42", 5, "en")
	require.NoError(t, err)
	assert.Equal(t, HierarchyResult{Message: "Entity Q42 not found"}, result)
}

func TestGetHierarchyNullEntityIsNotFound(t *testing.T) {
	f := newFakeServices(t)
	f.textifier = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "fr", r.URL.Query().Get("lang"))
		jsonHandler(`{"Q42":null}`)(w, r)
	}

	result, err := f.client().GetInstanceAndSubclassHierarchy(context.Background(), "Q42", 5, " fr ")
	require.NoError(t, err)
	assert.Equal(t, HierarchyResult{Message: "Entity Q42 not found"}, result)
	assert.Len(t, f.requestsTo("/textify"), 1)
}

func TestGetHierarchyValidation(t *testing.T) {
	f := newFakeServices(t)
	client := f.client()

	_, err := client.GetInstanceAndSubclassHierarchy(context.Background(), " ", 5, "en")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))

	_, err = client.GetInstanceAndSubclassHierarchy(context.Background(), "Q42", -1, "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max-depth must be zero or greater")

	assert.Empty(t, f.requestsTo("/"))
}

func TestGetHierarchyRemoteError(t *testing.T) {
	f := newFakeServices(t)
	f.textifier = statusHandler(http.StatusInternalServerError, "boom")

	_, err := f.client().GetInstanceAndSubclassHierarchy(context.Background(), "Q42", 2, "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote service returned HTTP 500")
}

func TestExtractHierarchyRelations(t *testing.T) {
	var claims []Claim
	require.NoError(t, json.Unmarshal([]byte(`[
		{"PID":"P31","values":[
			{"value":{"QID":"Q5","label":"human"}},
			{"value":{"QID":"Q5","label":"human"}},
			{"value":"not an entity"},
			{"value":{"PID":"P10"}}
		]},
		{"PID":"P279","values":[{"value":{"QID":" Q6 ","label":""}}]},
		{"PID":"P17","values":[{"value":{"QID":"Q334","label":"Singapore"}}]}
	]`), &claims))

	node, labels := extractHierarchyRelations(claims)
	assert.Equal(t, []string{"Q5", "P10"}, node.InstanceOf)
	assert.Equal(t, []string{"Q6"}, node.SubclassOf)
	assert.Equal(t, map[string]string{"Q5": "human"}, labels)
}
