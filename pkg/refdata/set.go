package refdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMalformed marks payloads that are not an object of entry arrays.
var ErrMalformed = errors.New("refdata: malformed reference data")

// Set maps a reference key ("platforms", "eventTypes", "companies") to its
// ordered entries. A Set is immutable once built; accessors return copies.
type Set struct {
	entries map[string][]Entry
}

// New builds a set from raw entries. Keys are trimmed and empty keys are
// dropped; blank labels fall back to the entry value.
func New(raw map[string][]Entry) Set {
	if len(raw) == 0 {
		return Set{}
	}
	out := make(map[string][]Entry, len(raw))
	for key, entries := range raw {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		cleaned := make([]Entry, 0, len(entries))
		for _, entry := range entries {
			label := entry.Label
			if strings.TrimSpace(label) == "" {
				label = entry.Value
			}
			cleaned = append(cleaned, Entry{Value: entry.Value, Label: label})
		}
		out[key] = cleaned
	}
	return Set{entries: out}
}

// Parse decodes a JSON payload such as
//
//	{"eventTypes": ["CALL", "MEETING"], "companies": [{"id": 7, "displayName": "Acme"}]}
func Parse(data []byte) (Set, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Set{}, fmt.Errorf("%w: payload is empty", ErrMalformed)
	}
	var raw map[string][]Entry
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		if errors.Is(err, ErrMalformed) {
			return Set{}, err
		}
		return Set{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return New(raw), nil
}

// ParseYAML decodes the same shape from YAML, falling back to JSON.
func ParseYAML(data []byte) (Set, error) {
	if set, err := Parse(data); err == nil {
		return set, nil
	}
	var raw map[string][]Entry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		if errors.Is(err, ErrMalformed) {
			return Set{}, err
		}
		return Set{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw == nil {
		return Set{}, fmt.Errorf("%w: payload is empty", ErrMalformed)
	}
	return New(raw), nil
}

// Entries returns a copy of the entries stored under key.
func (s Set) Entries(key string) ([]Entry, bool) {
	entries, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return append([]Entry(nil), entries...), true
}

// Has reports whether key is present, even with zero entries.
func (s Set) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// HasAny reports whether at least one of keys is present.
func (s Set) HasAny(keys ...string) bool {
	for _, key := range keys {
		if s.Has(key) {
			return true
		}
	}
	return false
}

// Keys returns the sorted keys.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Empty reports whether the set holds no keys.
func (s Set) Empty() bool {
	return len(s.entries) == 0
}

// Merge combines sets; later sets win on key collisions.
func Merge(sets ...Set) Set {
	out := make(map[string][]Entry)
	for _, set := range sets {
		for key, entries := range set.entries {
			out[key] = append([]Entry(nil), entries...)
		}
	}
	if len(out) == 0 {
		return Set{}
	}
	return Set{entries: out}
}

// MarshalJSON writes the set in the payload shape Parse reads. Entries whose
// label equals their value are written as bare strings.
func (s Set) MarshalJSON() ([]byte, error) {
	out := make(map[string][]any, len(s.entries))
	for key, entries := range s.entries {
		items := make([]any, 0, len(entries))
		for _, entry := range entries {
			if entry.Label == entry.Value {
				items = append(items, entry.Value)
				continue
			}
			items = append(items, objectEntry{ID: entry.Value, DisplayName: entry.Label})
		}
		out[key] = items
	}
	return json.Marshal(out)
}
