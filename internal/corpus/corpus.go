package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/snonux/flashsort/internal/lexicon"
	"codeberg.org/snonux/flashsort/internal/naming"
	"codeberg.org/snonux/flashsort/internal/translation"
)

// Version is written into every corpus this package produces
const Version = "1.0"

// ImageRecord is one card: the image, its bilingual word and its voice files
type ImageRecord struct {
	Filename      string            `json:"filename"`
	Word          lexicon.LabelPair `json:"word"`
	VoiceFilename naming.VoicePair  `json:"voice_filename"`
}

// Category groups the records classified into one category
type Category struct {
	ID     string            `json:"id"`
	Name   lexicon.LabelPair `json:"name"`
	Count  int               `json:"count"`
	Images []ImageRecord     `json:"images"`
}

// Statistics are aggregate counts over the whole corpus
type Statistics struct {
	TotalImages         int `json:"total_images"`
	TotalCategories     int `json:"total_categories"`
	CategorizedImages   int `json:"categorized_images"`
	UncategorizedImages int `json:"uncategorized_images"`
}

// Corpus is the persisted result of a run
type Corpus struct {
	Version     string             `json:"version,omitempty"`
	Description *lexicon.LabelPair `json:"description,omitempty"`
	Categories  []Category         `json:"categories"`
	Statistics  Statistics         `json:"statistics"`
}

// Recount recomputes per-category counts and the statistics block
func (c *Corpus) Recount() {
	stats := Statistics{TotalCategories: len(c.Categories)}
	for i := range c.Categories {
		cat := &c.Categories[i]
		cat.Count = len(cat.Images)
		stats.TotalImages += cat.Count
		if cat.ID == lexicon.OthersID {
			stats.UncategorizedImages += cat.Count
		} else {
			stats.CategorizedImages += cat.Count
		}
	}
	c.Statistics = stats
}

// Each calls fn for every record in corpus order. fn may modify the record.
func (c *Corpus) Each(fn func(categoryID string, rec *ImageRecord)) {
	for i := range c.Categories {
		cat := &c.Categories[i]
		for j := range cat.Images {
			fn(cat.ID, &cat.Images[j])
		}
	}
}

// Filenames returns the source filenames in corpus order
func (c *Corpus) Filenames() []string {
	var names []string
	c.Each(func(_ string, rec *ImageRecord) {
		names = append(names, rec.Filename)
	})
	return names
}

// Candidates returns every record's word in corpus order for a correction pass
func (c *Corpus) Candidates() []translation.Candidate {
	var out []translation.Candidate
	c.Each(func(categoryID string, rec *ImageRecord) {
		out = append(out, translation.Candidate{CategoryID: categoryID, Word: rec.Word})
	})
	return out
}

// ApplyTargets writes corrected targets back, aligned with Candidates
func (c *Corpus) ApplyTargets(targets []string) error {
	n := 0
	c.Each(func(string, *ImageRecord) { n++ })
	if len(targets) != n {
		return fmt.Errorf("got %d targets for %d records", len(targets), n)
	}

	i := 0
	c.Each(func(_ string, rec *ImageRecord) {
		rec.Word.Target = targets[i]
		i++
	})
	return nil
}

// Load reads a corpus JSON file
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	var c Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse corpus %s: %w", path, err)
	}
	return &c, nil
}

// Marshal encodes the corpus as indented JSON. Chinese text and markup
// characters are written unescaped.
func (c *Corpus) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the corpus to path. The file is replaced atomically.
func (c *Corpus) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode corpus: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
