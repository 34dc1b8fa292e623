package wikidata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/wd/errors"
)

// ValueShape is the variant tag of a Value
type ValueShape int

const (
	ShapeNull      ValueShape = iota
	ShapeString               // JSON string
	ShapeScalar               // number or boolean, kept as its JSON literal
	ShapeList                 // JSON array
	ShapeContainer            // object wrapping nested values ("values", "value", "string")
	ShapeEntity               // object with a non-empty QID or PID
	ShapeQuantity             // object with an "amount"
	ShapeMap                  // any other object
)

// EntityRef is a reference to another entity carried inside a claim value
type EntityRef struct {
	ID    string
	Label string
}

// Value is a claim value of unknown JSON shape. The shape is decided once
// when decoding; Stringify renders each shape deterministically. The decoded
// JSON is kept so a Value re-encodes unchanged.
type Value struct {
	shape  ValueShape
	text   string           // ShapeString, ShapeScalar
	items  []Value          // ShapeList, ShapeContainer
	entity EntityRef        // ShapeEntity
	unit   string           // ShapeQuantity
	fields map[string]Value // every object shape
	ref    *EntityRef       // QID/PID found on any object, trimmed
	raw    json.RawMessage
}

// StringValue builds a plain string value
func StringValue(s string) Value {
	raw, _ := json.Marshal(s)
	return Value{shape: ShapeString, text: s, raw: raw}
}

// ParseValue decodes a raw JSON document into a Value
func ParseValue(data []byte) (Value, error) {
	var v Value
	if err := v.UnmarshalJSON(data); err != nil {
		return Value{}, err
	}
	return v, nil
}

// MustParseValue is ParseValue for literals known to be valid
func MustParseValue(data string) Value {
	v, err := ParseValue([]byte(data))
	if err != nil {
		panic(err)
	}
	return v
}

// Shape reports the variant of the value
func (v Value) Shape() ValueShape { return v.shape }

// IsNull reports whether the value is absent or JSON null
func (v Value) IsNull() bool { return v.shape == ShapeNull }

// EntityRef returns the entity identifier carried by an object value. QID
// takes precedence over PID; both ID and label are trimmed.
func (v Value) EntityRef() (EntityRef, bool) {
	if v.ref == nil {
		return EntityRef{}, false
	}
	return *v.ref, true
}

// UnmarshalJSON implements json.Unmarshaler
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return errors.Wrap(err, "invalid claim value")
	}
	*v = fromDecoded(decoded)
	v.raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func fromDecoded(decoded any) Value {
	switch typed := decoded.(type) {
	case nil:
		return Value{shape: ShapeNull}
	case string:
		return Value{shape: ShapeString, text: typed}
	case json.Number:
		return Value{shape: ShapeScalar, text: typed.String()}
	case bool:
		return Value{shape: ShapeScalar, text: fmt.Sprintf("%v", typed)}
	case []any:
		items := make([]Value, 0, len(typed))
		for _, item := range typed {
			items = append(items, fromDecoded(item))
		}
		return Value{shape: ShapeList, items: items}
	case map[string]any:
		return fromObject(typed)
	default:
		return Value{shape: ShapeString, text: fmt.Sprintf("%v", typed)}
	}
}

func fromObject(obj map[string]any) Value {
	v := Value{shape: ShapeMap, fields: make(map[string]Value, len(obj))}
	for key, raw := range obj {
		v.fields[key] = fromDecoded(raw)
	}
	v.ref = objectRef(obj)

	if list, ok := obj["values"].([]any); ok {
		v.shape = ShapeContainer
		v.items = make([]Value, 0, len(list))
		for _, item := range list {
			inner, _ := item.(map[string]any)
			v.items = append(v.items, fromDecoded(inner["value"]))
		}
		return v
	}
	for _, key := range []string{"value", "string"} {
		if _, ok := obj[key]; ok {
			v.shape = ShapeContainer
			v.items = []Value{v.fields[key]}
			return v
		}
	}
	for _, key := range []string{"QID", "PID"} {
		if id, ok := obj[key].(string); ok && id != "" {
			label, _ := obj["label"].(string)
			v.shape = ShapeEntity
			v.entity = EntityRef{ID: id, Label: label}
			return v
		}
	}
	if _, ok := obj["amount"]; ok {
		v.shape = ShapeQuantity
		v.unit, _ = obj["unit"].(string)
		return v
	}
	return v
}

func objectRef(obj map[string]any) *EntityRef {
	for _, key := range []string{"QID", "PID"} {
		id, ok := obj[key].(string)
		if !ok || strings.TrimSpace(id) == "" {
			continue
		}
		label, _ := obj["label"].(string)
		return &EntityRef{ID: strings.TrimSpace(id), Label: strings.TrimSpace(label)}
	}
	return nil
}

// Stringify renders a claim value as human-readable text.
//
// Objects are dispatched in priority order: a "values" array (each element's
// "value", joined by ", "), a "value" key, a "string" key, an entity
// reference ("Label (ID)" or the bare ID), a quantity ("amount unit"), and
// finally any other object as sorted "key=value" pairs.
func (v Value) Stringify() string {
	switch v.shape {
	case ShapeNull:
		return ""
	case ShapeString, ShapeScalar:
		return v.text
	case ShapeList, ShapeContainer:
		parts := make([]string, 0, len(v.items))
		for _, item := range v.items {
			parts = append(parts, item.Stringify())
		}
		return strings.Join(parts, ", ")
	case ShapeEntity:
		if strings.TrimSpace(v.entity.Label) == "" {
			return v.entity.ID
		}
		return fmt.Sprintf("%s (%s)", v.entity.Label, v.entity.ID)
	case ShapeQuantity:
		text := v.fields["amount"].Stringify()
		if strings.TrimSpace(v.unit) != "" {
			text += " " + v.unit
		}
		return strings.TrimSpace(text)
	default:
		keys := make([]string, 0, len(v.fields))
		for key := range v.fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, key+"="+v.fields[key].Stringify())
		}
		return strings.Join(parts, ", ")
	}
}

// String implements fmt.Stringer
func (v Value) String() string {
	return v.Stringify()
}

func joinValues(values []QualifierValue) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		parts = append(parts, value.Value.Stringify())
	}
	return strings.Join(parts, ", ")
}
