package refdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one selectable choice. A bare string payload yields an entry whose
// value and label are identical; an {id, displayName} object maps id to Value
// and displayName to Label. Objects without a displayName fall back to name,
// title or label, in that order. Labels are kept verbatim: they end up as text
// nodes, which the renderer escapes.
type Entry struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Plain builds an entry whose value doubles as its label.
func Plain(value string) Entry {
	return Entry{Value: value, Label: value}
}

type objectEntry struct {
	ID          any    `json:"id" yaml:"id"`
	DisplayName string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Label       string `json:"label,omitempty" yaml:"label,omitempty"`
}

func (obj objectEntry) label() string {
	for _, candidate := range []string{obj.DisplayName, obj.Name, obj.Title, obj.Label} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// UnmarshalJSON accepts either a string or an {id, displayName} object.
func (e *Entry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty entry", ErrMalformed)
	}

	switch trimmed[0] {
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		*e = Plain(value)
		return nil
	case '{':
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		var obj objectEntry
		if err := dec.Decode(&obj); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return e.fromObject(obj)
	default:
		return fmt.Errorf("%w: entry must be a string or an {id, displayName} object", ErrMalformed)
	}
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML payloads.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*e = Plain(node.Value)
		return nil
	case yaml.MappingNode:
		var obj objectEntry
		if err := node.Decode(&obj); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return e.fromObject(obj)
	default:
		return fmt.Errorf("%w: entry must be a string or an {id, displayName} object", ErrMalformed)
	}
}

func (e *Entry) fromObject(obj objectEntry) error {
	id, ok := formatID(obj.ID)
	if !ok {
		return fmt.Errorf("%w: entry id must be a string or number", ErrMalformed)
	}
	label := obj.label()
	if label == "" {
		label = id
	}
	*e = Entry{Value: id, Label: label}
	return nil
}

func formatID(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		return "", false
	}
}
