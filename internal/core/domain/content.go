package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParseContent decodes a content blob into raw categories.
// Blank input parses to an empty list. Anything that is not a JSON array of
// {"category", "rules"} objects is reported as ErrParse.
func ParseContent(data []byte) ([]RawCategory, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []RawCategory{}, nil
	}

	var raw []RawCategory
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	for i := range raw {
		if raw[i].Rules == nil {
			raw[i].Rules = []string{}
		}
	}
	if raw == nil {
		raw = []RawCategory{}
	}
	return raw, nil
}

// EncodeContent renders raw categories in the content file format.
func EncodeContent(categories []RawCategory) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(categories); err != nil {
		return nil, fmt.Errorf("encoding content: %w", err)
	}
	return buf.Bytes(), nil
}

// Snapshot is one immutable parsed content blob.
// It is safe for concurrent use; accessors hand out copies.
type Snapshot struct {
	categories []RawCategory
}

// NewSnapshot builds a snapshot, deep-copying the input.
func NewSnapshot(categories []RawCategory) *Snapshot {
	return &Snapshot{categories: cloneCategories(categories)}
}

// EmptySnapshot returns a snapshot with no categories.
func EmptySnapshot() *Snapshot {
	return &Snapshot{}
}

// Len returns the number of categories.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.categories)
}

// Names returns category names in declaration order.
func (s *Snapshot) Names() []string {
	if s == nil {
		return []string{}
	}
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// Categories returns a copy of all categories in declaration order.
func (s *Snapshot) Categories() []RawCategory {
	if s == nil {
		return []RawCategory{}
	}
	return cloneCategories(s.categories)
}

// Find looks a category up by name, ignoring case.
// When several names differ only by case, the first declared wins.
func (s *Snapshot) Find(name string) (RawCategory, bool) {
	if s == nil {
		return RawCategory{}, false
	}
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			return cloneCategory(c), true
		}
	}
	return RawCategory{}, false
}

func cloneCategories(in []RawCategory) []RawCategory {
	out := make([]RawCategory, len(in))
	for i, c := range in {
		out[i] = cloneCategory(c)
	}
	return out
}

func cloneCategory(c RawCategory) RawCategory {
	rules := make([]string, len(c.Rules))
	copy(rules, c.Rules)
	return RawCategory{Name: c.Name, Rules: rules}
}
