package lexicon

import (
	"fmt"
	"iter"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is a single word to label mapping
type Entry struct {
	Word  string
	Label string
}

// Dictionary is an ordered word to label table with case-insensitive lookup.
// Iteration follows declaration order.
type Dictionary struct {
	entries []Entry
	index   map[string]int
}

// NewDictionary builds a dictionary from entries. A repeated word keeps its
// first position and takes the last label.
func NewDictionary(entries ...Entry) *Dictionary {
	d := &Dictionary{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		d.add(e.Word, e.Label)
	}
	return d
}

func (d *Dictionary) add(word, label string) {
	key := strings.ToLower(strings.TrimSpace(word))
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		d.entries[i].Label = label
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Word: key, Label: label})
}

// Lookup returns the label for word, ignoring case
func (d *Dictionary) Lookup(word string) (string, bool) {
	if d == nil {
		return "", false
	}
	i, ok := d.index[strings.ToLower(word)]
	if !ok {
		return "", false
	}
	return d.entries[i].Label, true
}

// Len returns the number of entries
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// All iterates word/label pairs in declaration order
func (d *Dictionary) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if d == nil {
			return
		}
		for _, e := range d.entries {
			if !yield(e.Word, e.Label) {
				return
			}
		}
	}
}

// UnmarshalYAML decodes a YAML mapping and keeps its key order
func (d *Dictionary) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: dictionary must be a mapping", node.Line)
	}
	*d = Dictionary{index: make(map[string]int, len(node.Content)/2)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: dictionary entries must be scalars", k.Line)
		}
		d.add(k.Value, v.Value)
	}
	return nil
}

// MarshalYAML encodes the dictionary as a mapping in declaration order
func (d *Dictionary) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	if d == nil {
		return node, nil
	}
	for _, e := range d.entries {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Word},
			&yaml.Node{Kind: yaml.ScalarNode, Value: e.Label},
		)
	}
	return node, nil
}
