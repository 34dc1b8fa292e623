package commands

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/wd/errors"
	"github.com/teranos/wd/wikidata"
)

// hierarchyTextifier serves Q42 -> instance of Q5 -> subclass of Q215627
func hierarchyTextifier(t *testing.T) http.HandlerFunc {
	entities := map[string]string{
		"Q42":     `{"label":"Douglas Adams","claims":[{"PID":"P31","values":[{"value":{"QID":"Q5","label":"human"}}]}]}`,
		"Q5":      `{"label":"human","claims":[{"PID":"P279","values":[{"value":{"QID":"Q215627","label":"person"}}]}]}`,
		"Q215627": `{"label":"person","claims":[]}`,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "P31,P279", r.URL.Query().Get("pid"))
		var parts []string
		for _, id := range strings.Split(r.URL.Query().Get("id"), ",") {
			if body, ok := entities[id]; ok {
				parts = append(parts, `"`+id+`":`+body)
			}
		}
		jsonHandler("{" + strings.Join(parts, ",") + "}")(w, r)
	}
}

func TestHierarchyJSON(t *testing.T) {
	f := newFakeWikidata(t)
	f.textifier = hierarchyTextifier(t)

	h := newHarness(t)
	out, err := h.runAgainst(f, "hierarchy", "Q42", "--max-depth", "1", "--json")
	require.NoError(t, err)

	var payload wikidata.HierarchyPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Q42", payload.EntityID)
	assert.Equal(t, 1, payload.MaxDepth)
	assert.Equal(t, "en", payload.Lang)
	assert.Equal(t, map[string]any{
		"Douglas Adams (Q42)": map[string]any{
			wikidata.InstanceOfKey: []any{"human (Q5)"},
			wikidata.SubclassOfKey: []any{},
		},
	}, payload.Result.Tree)
}

func TestHierarchyTextIsIndentedTree(t *testing.T) {
	f := newFakeWikidata(t)
	f.textifier = hierarchyTextifier(t)

	h := newHarness(t)
	out, err := h.runAgainst(f, "get-instance-and-subclass-hierarchy", "Q42", "--max-depth", "0")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"result\": \"Douglas Adams (Q42)\"\n}\n", out)
}

func TestHierarchyNotFound(t *testing.T) {
	f := newFakeWikidata(t)
	f.textifier = jsonHandler(`{}`)

	h := newHarness(t)
	out, err := h.runAgainst(f, "hierarchy", "Q404")
	require.NoError(t, err)
	assert.Equal(t, "Entity Q404 not found\n", out)
}

func TestHierarchyRejectsNegativeDepth(t *testing.T) {
	f := newFakeWikidata(t)

	h := newHarness(t)
	_, err := h.runAgainst(f, "hierarchy", "Q42", "--max-depth=-1")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}
