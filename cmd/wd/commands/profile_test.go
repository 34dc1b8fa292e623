package commands

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/wd/errors"
)

const personEntity = `{"Q42":{
	"QID":"Q42",
	"label":"Douglas Adams",
	"description":"English writer",
	"claims":[
		{"PID":"P31","property_label":"instance of","values":[
			{"value":{"QID":"Q5","label":"human"},"rank":"normal","references":[[],[]]}
		]},
		{"PID":"P569","property_label":"date of birth","values":[
			{"value":"1952-03-11","rank":"normal"}
		]}
	]
}}`

func TestProfileText(t *testing.T) {
	f := newFakeWikidata(t)
	f.textifier = func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Q42", q.Get("id"))
		assert.Equal(t, "json", q.Get("format"))
		jsonHandler(personEntity)(w, r)
	}

	h := newHarness(t)
	out, err := h.runAgainst(f, "profile", "Q42", "--type", "person")
	require.NoError(t, err)
	assert.Equal(t, `Douglas Adams (Q42)
English writer
Profile type: person

Instance of:
- human [Q5] (refs: 2)

Date of birth:
- 1952-03-11

Fetched at: 2026-02-24T12:00:00.000Z
`, out)
}

func TestProfileJSONNotFound(t *testing.T) {
	f := newFakeWikidata(t)
	f.textifier = jsonHandler(`{}`)

	h := newHarness(t)
	out, err := h.runAgainst(f, "profile", "Q404", "--json")
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Q404", payload["entity_id"])
	assert.Equal(t, "company", payload["profile_type"])
	assert.Equal(t, "Entity Q404 not found", payload["message"])
	assert.Equal(t, "2026-02-24T12:00:00.000Z", payload["fetched_at"])
	assert.Contains(t, payload["fields"], "headquarters")
}

func TestProfileRejectsUnknownType(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("profile", "Q42", "--type", "planet")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
	assert.Contains(t, errors.FlattenHints(err), "company, person, place")
}
