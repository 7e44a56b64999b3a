package lexicon

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// OthersID is the reserved category for filenames that match no keyword
const OthersID = "others"

// ErrInvalidLexicon is returned when a lexicon fails validation
var ErrInvalidLexicon = errors.New("invalid lexicon")

//go:embed default.yaml
var defaultYAML []byte

var (
	defaultOnce    sync.Once
	defaultLexicon *Lexicon
)

// LabelPair is a source-language / target-language text pair
type LabelPair struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Category is a topical bucket with the keywords used to classify filenames
type Category struct {
	ID       string    `yaml:"id"`
	Name     LabelPair `yaml:"name"`
	Keywords []string  `yaml:"keywords"`
}

// Lexicon is the immutable configuration shared by the pipeline
type Lexicon struct {
	Description LabelPair              `yaml:"description"`
	Others      LabelPair              `yaml:"others"`
	Casing      map[string]string      `yaml:"casing"`
	Categories  []Category             `yaml:"categories"`
	General     *Dictionary            `yaml:"general"`
	ByCategory  map[string]*Dictionary `yaml:"by_category"`
}

// Default returns the built-in lexicon. It is parsed on first use and the
// same instance is returned to every caller.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("built-in lexicon: %v", err))
		}
		defaultLexicon = lex
	})
	return defaultLexicon
}

// Load reads and validates a lexicon file
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}

// Parse decodes and validates a lexicon document
func Parse(data []byte) (*Lexicon, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var lex Lexicon
	if err := dec.Decode(&lex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}
	lex.fill()

	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

// fill sets defaults for optional sections
func (l *Lexicon) fill() {
	if l.General == nil {
		l.General = NewDictionary()
	}
	if l.Others == (LabelPair{}) {
		l.Others = LabelPair{Source: "Others", Target: "其他"}
	}
	casing := make(map[string]string, len(l.Casing))
	for k, v := range l.Casing {
		casing[strings.ToLower(k)] = v
	}
	l.Casing = casing
}

// Validate checks the structural rules every consumer relies on
func (l *Lexicon) Validate() error {
	var problems []string

	seen := make(map[string]bool, len(l.Categories))
	for i, c := range l.Categories {
		switch {
		case strings.TrimSpace(c.ID) == "":
			problems = append(problems, fmt.Sprintf("category #%d has no id", i+1))
			continue
		case c.ID == OthersID:
			problems = append(problems, fmt.Sprintf("category id %q is reserved", OthersID))
		case seen[c.ID]:
			problems = append(problems, fmt.Sprintf("duplicate category id %q", c.ID))
		}
		seen[c.ID] = true

		keywords := make(map[string]bool, len(c.Keywords))
		for _, kw := range c.Keywords {
			key := strings.ToLower(strings.TrimSpace(kw))
			if key == "" {
				problems = append(problems, fmt.Sprintf("category %q has an empty keyword", c.ID))
				continue
			}
			if keywords[key] {
				problems = append(problems, fmt.Sprintf("category %q repeats keyword %q", c.ID, kw))
			}
			keywords[key] = true
		}
	}

	problems = append(problems, dictionaryProblems("general", l.General)...)
	for _, id := range slices.Sorted(maps.Keys(l.ByCategory)) {
		dict := l.ByCategory[id]
		if !seen[id] {
			problems = append(problems, fmt.Sprintf("dictionary for unknown category %q", id))
		}
		problems = append(problems, dictionaryProblems(id, dict)...)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidLexicon, strings.Join(problems, "; "))
	}
	return nil
}

func dictionaryProblems(name string, d *Dictionary) []string {
	var problems []string
	for word, label := range d.All() {
		if word == "" {
			problems = append(problems, fmt.Sprintf("dictionary %q has an empty word", name))
		}
		if strings.TrimSpace(label) == "" {
			problems = append(problems, fmt.Sprintf("dictionary %q has no label for %q", name, word))
		}
	}
	return problems
}

// Marshal encodes the lexicon as YAML in declaration order
func (l *Lexicon) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(l); err != nil {
		return nil, fmt.Errorf("failed to encode lexicon: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Category returns the category with the given id
func (l *Lexicon) Category(id string) (Category, bool) {
	for _, c := range l.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// DisplayName returns the bilingual name of a category, including the
// reserved fallback bucket. Unknown ids render as themselves.
func (l *Lexicon) DisplayName(id string) LabelPair {
	if id == OthersID {
		return l.Others
	}
	if c, ok := l.Category(id); ok {
		return c.Name
	}
	return LabelPair{Source: id, Target: id}
}

// Dictionary returns the per-category dictionary, or nil
func (l *Lexicon) Dictionary(categoryID string) *Dictionary {
	return l.ByCategory[categoryID]
}
