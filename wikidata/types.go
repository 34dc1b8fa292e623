package wikidata

// Kind selects which entity namespace a search targets
type Kind string

const (
	KindItem     Kind = "item"
	KindProperty Kind = "property"
)

// Plural returns the English plural used in user-facing messages
func (k Kind) Plural() string {
	if k == KindProperty {
		return "properties"
	}
	return "items"
}

// SearchSource records which subsystem produced a SearchResponse
type SearchSource string

const (
	SearchSourceVector  SearchSource = "vector"
	SearchSourceKeyword SearchSource = "keyword"
)

type SearchResult struct {
	ID          string `json:"id" yaml:"id"`
	Label       string `json:"label" yaml:"label"`
	Description string `json:"description" yaml:"description"`
}

// SearchResponse is an ordered, rank-preserving result list
type SearchResponse struct {
	Source  SearchSource   `json:"source" yaml:"source"`
	Results []SearchResult `json:"results" yaml:"results"`
}

// HierarchyResult holds either a rendered tree or a not-found message
type HierarchyResult struct {
	Tree    map[string]any `json:"tree,omitempty" yaml:"tree,omitempty"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
}

// SPARQLResult holds the truncated rows of a query, or the endpoint's
// error message for a rejected query.
type SPARQLResult struct {
	Vars    []string            `json:"vars,omitempty" yaml:"vars,omitempty"`
	Rows    []map[string]string `json:"rows,omitempty" yaml:"rows,omitempty"`
	CSV     string              `json:"csv,omitempty" yaml:"csv,omitempty"`
	Message string              `json:"message,omitempty" yaml:"message,omitempty"`
}

// Entity is one entity as returned by the textifier JSON format
type Entity struct {
	QID         string  `json:"QID"`
	PID         string  `json:"PID"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Claims      []Claim `json:"claims"`
}

// Claim groups the values of one property on an entity
type Claim struct {
	PID           string       `json:"PID"`
	PropertyLabel string       `json:"property_label"`
	Datatype      string       `json:"datatype"`
	Values        []ClaimValue `json:"values"`
}

// ClaimValue is one statement: value, rank, qualifiers, references
type ClaimValue struct {
	Value      Value         `json:"value"`
	Rank       string        `json:"rank"`
	Qualifiers []Qualifier   `json:"qualifiers"`
	References [][]Qualifier `json:"references"`
}

// Qualifier is a sub-claim; reference groups reuse the same shape
type Qualifier struct {
	PID           string           `json:"PID"`
	PropertyLabel string           `json:"property_label"`
	Datatype      string           `json:"datatype"`
	Values        []QualifierValue `json:"values"`
}

type QualifierValue struct {
	Value Value `json:"value"`
}

// Stringify renders every value of the qualifier, comma separated
func (q Qualifier) Stringify() string {
	return joinValues(q.Values)
}
