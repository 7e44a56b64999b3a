package anki

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/flashsort/internal/batch"
	"codeberg.org/snonux/flashsort/internal/corpus"
	"codeberg.org/snonux/flashsort/internal/translation"
)

// Card represents a single Anki flashcard
type Card struct {
	Key         string // Image filename, identifies the note across exports
	English     string // word.source
	Chinese     string // word.target
	ImageFile   string // Path to image file
	AudioSource string // Path to English audio, empty when missing
	AudioTarget string // Path to Chinese audio, empty when missing
	Tags        []string
}

// CardOptions controls how a corpus is turned into cards
type CardOptions struct {
	ImageDir         string // Directory holding the source images
	VoiceDir         string // Directory holding en/ and cn/ voice files
	SkipUntranslated bool   // Leave out records whose label is untranslated
}

// CardsFromCorpus creates one card per record in corpus order. Media paths
// are only set for files that exist.
func CardsFromCorpus(c *corpus.Corpus, opts CardOptions) []Card {
	var cards []Card
	c.Each(func(categoryID string, rec *corpus.ImageRecord) {
		if opts.SkipUntranslated && translation.IsUntranslated(rec.Word) {
			return
		}

		card := Card{
			Key:     rec.Filename,
			English: rec.Word.Source,
			Chinese: rec.Word.Target,
			Tags:    []string{categoryID},
		}
		if path := filepath.Join(opts.ImageDir, rec.Filename); fileExists(path) {
			card.ImageFile = path
		}
		if opts.VoiceDir != "" {
			if path := filepath.Join(opts.VoiceDir, batch.SourceDir, rec.VoiceFilename.Source); fileExists(path) {
				card.AudioSource = path
			}
			if path := filepath.Join(opts.VoiceDir, batch.TargetDir, rec.VoiceFilename.Target); fileExists(path) {
				card.AudioTarget = path
			}
		}
		cards = append(cards, card)
	})
	return cards
}

// GeneratorOptions configures the Anki export
type GeneratorOptions struct {
	OutputPath     string // Output CSV file path
	IncludeHeaders bool   // Include CSV headers
}

// DefaultGeneratorOptions returns sensible defaults
func DefaultGeneratorOptions() *GeneratorOptions {
	return &GeneratorOptions{
		OutputPath:     "anki_import.csv",
		IncludeHeaders: true,
	}
}

// Generator creates Anki-compatible import files
type Generator struct {
	options *GeneratorOptions
	cards   []Card
}

// NewGenerator creates a new Anki generator
func NewGenerator(options *GeneratorOptions) *Generator {
	if options == nil {
		options = DefaultGeneratorOptions()
	}
	return &Generator{
		options: options,
		cards:   make([]Card, 0),
	}
}

// AddCard adds a card to the collection
func (g *Generator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// AddCards adds several cards to the collection
func (g *Generator) AddCards(cards []Card) {
	g.cards = append(g.cards, cards...)
}

// GetCards returns a slice of all cards for modification
func (g *Generator) GetCards() []Card {
	return g.cards
}

// GenerateCSV creates a CSV file for Anki import. Media columns reference
// file names only; the files go into Anki's collection.media folder.
func (g *Generator) GenerateCSV() error {
	file, err := os.Create(g.options.OutputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if g.options.IncludeHeaders {
		headers := []string{"English", "Chinese", "Image", "Audio English", "Audio Chinese", "Tags"}
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for _, card := range g.cards {
		record := []string{
			card.English,
			card.Chinese,
			formatImageField(card.ImageFile),
			formatAudioField(card.AudioSource),
			formatAudioField(card.AudioTarget),
			strings.Join(card.Tags, " "),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// GenerateAPKG creates an .apkg file holding the collected cards
func (g *Generator) GenerateAPKG(outputPath, deckName, description string) error {
	apkgGen := NewAPKGGenerator(deckName)
	apkgGen.SetDescription(description)
	for _, card := range g.cards {
		apkgGen.AddCard(card)
	}
	return apkgGen.GenerateAPKG(outputPath)
}

// Stats returns statistics about the card collection
func (g *Generator) Stats() (totalCards, withAudio, withImages int) {
	totalCards = len(g.cards)
	for _, card := range g.cards {
		if card.AudioSource != "" || card.AudioTarget != "" {
			withAudio++
		}
		if card.ImageFile != "" {
			withImages++
		}
	}
	return
}

// formatAudioField formats the audio file reference for Anki
func formatAudioField(audioFile string) string {
	if audioFile == "" {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", filepath.Base(audioFile))
}

// formatImageField formats image file reference for Anki
func formatImageField(imageFile string) string {
	if imageFile == "" {
		return ""
	}
	return fmt.Sprintf(`<img src="%s">`, filepath.Base(imageFile))
}
