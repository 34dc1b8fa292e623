package commands

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatementsText(t *testing.T) {
	f := newFakeWikidata(t)
	f.textifier = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("external_ids"))
		assert.Equal(t, "triplet", r.URL.Query().Get("format"))
		jsonHandler(`{"Q42":"Douglas Adams (Q42): instance of (P31): human (Q5)"}`)(w, r)
	}

	h := newHarness(t)
	out, err := h.runAgainst(f, "statements", "Q42", "--include-external-ids")
	require.NoError(t, err)
	assert.Equal(t, "Douglas Adams (Q42): instance of (P31): human (Q5)\n", out)
}

func TestGetStatementsJSON(t *testing.T) {
	f := newFakeWikidata(t)
	f.textifier = jsonHandler(`{}`)

	h := newHarness(t)
	out, err := h.runAgainst(f, "get-statements", "Q404", "--lang", "fr", "--json")
	require.NoError(t, err)

	var payload statementsPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, statementsPayload{
		EntityID: "Q404",
		Lang:     "fr",
		Result:   "Entity Q404 not found",
	}, payload)
}

func TestGetStatementValues(t *testing.T) {
	f := newFakeWikidata(t)
	f.textifier = func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Q42", q.Get("id"))
		assert.Equal(t, "P69", q.Get("pid"))
		jsonHandler(`{"Q42":{"QID":"Q42","label":"Douglas Adams","claims":[
			{"PID":"P69","property_label":"educated at","values":[
				{"value":{"QID":"Q691283","label":"St John's College"},"rank":"preferred"}
			]}
		]}}`)(w, r)
	}

	h := newHarness(t)
	out, err := h.runAgainst(f, "values", "Q42", "P69")
	require.NoError(t, err)
	assert.Contains(t, out, "St John's College (Q691283)")
	assert.Contains(t, out, "preferred")

	out, err = h.runAgainst(f, "statement-values", "Q42", "P69", "--json")
	require.NoError(t, err)
	var payload statementValuesPayload
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "P69", payload.PropertyID)
	assert.Contains(t, payload.Result, "educated at (P69)")
}

func TestGetStatementValuesArgs(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("get-statement-values", "Q42")
	require.Error(t, err)
}
