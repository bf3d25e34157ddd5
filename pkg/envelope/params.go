package envelope

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Params is the HTTP-mode parameter mapping. Values are kept as raw JSON so
// that numbers, booleans, and nested documents survive untouched into a JSON
// body.
type Params map[string]json.RawMessage

// Keys returns the parameter names in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AppendQuery returns target with every parameter appended to its query
// string. Parameters already present in target are kept; new ones follow in
// sorted key order.
func (p Params) AppendQuery(target *url.URL) *url.URL {
	out := *target
	if len(p) == 0 {
		return &out
	}

	var sb strings.Builder
	sb.WriteString(out.RawQuery)
	for _, k := range p.Keys() {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(ScalarString(p[k])))
	}
	out.RawQuery = sb.String()
	return &out
}

// JSON encodes the params as a JSON object. Absent params encode as {}.
func (p Params) JSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]json.RawMessage(p))
}

// ScalarString renders a raw JSON value as text: strings without quotes,
// null as the empty string, anything else as its compact JSON form.
func ScalarString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case 'n':
		return ""
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err == nil {
			return buf.String()
		}
	}
	return string(trimmed)
}

// Pair is one SOAP parameter.
type Pair struct {
	Key   string
	Value json.RawMessage
}

// OrderedParams is the SOAP-mode parameter list. Order is significant and
// keys may repeat.
//
// It decodes from either a list of two-element arrays,
//
//	[["did", "123"], ["country", "US"]]
//
// or a JSON object, in which case the document order of the keys is kept.
type OrderedParams []Pair

// UnmarshalJSON implements json.Unmarshaler.
func (p *OrderedParams) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = nil
		return nil
	}

	switch trimmed[0] {
	case '[':
		return p.decodePairs(trimmed)
	case '{':
		return p.decodeObject(trimmed)
	default:
		return errors.New("params must be an array of [key, value] pairs or an object")
	}
}

func (p *OrderedParams) decodePairs(data []byte) error {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}

	out := make(OrderedParams, 0, len(items))
	for i, item := range items {
		var tuple []json.RawMessage
		if err := json.Unmarshal(item, &tuple); err != nil || len(tuple) != 2 {
			return fmt.Errorf("params[%d] must be a [key, value] pair", i)
		}
		var key string
		if err := json.Unmarshal(tuple[0], &key); err != nil {
			return fmt.Errorf("params[%d] key must be a string", i)
		}
		out = append(out, Pair{Key: key, Value: tuple[1]})
	}
	*p = out
	return nil
}

func (p *OrderedParams) decodeObject(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}

	var out OrderedParams
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in params object", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, Pair{Key: key, Value: value})
	}
	*p = out
	return nil
}

// MarshalJSON encodes the list in its pair form.
func (p OrderedParams) MarshalJSON() ([]byte, error) {
	pairs := make([][2]json.RawMessage, 0, len(p))
	for _, pair := range p {
		key, err := json.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		value := pair.Value
		if len(value) == 0 {
			value = json.RawMessage("null")
		}
		pairs = append(pairs, [2]json.RawMessage{key, value})
	}
	return json.Marshal(pairs)
}
