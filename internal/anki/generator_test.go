package anki

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"codeberg.org/snonux/flashsort/internal/corpus"
	"codeberg.org/snonux/flashsort/internal/lexicon"
	"codeberg.org/snonux/flashsort/internal/naming"
	"codeberg.org/snonux/flashsort/internal/testutil"
)

func TestDefaultGeneratorOptions(t *testing.T) {
	opts := DefaultGeneratorOptions()

	if opts.OutputPath != "anki_import.csv" {
		t.Errorf("Expected output path 'anki_import.csv', got '%s'", opts.OutputPath)
	}
	if !opts.IncludeHeaders {
		t.Error("Expected IncludeHeaders to be true")
	}
}

func TestNewGenerator(t *testing.T) {
	gen := NewGenerator(nil)
	if gen == nil {
		t.Fatal("NewGenerator returned nil")
	}
	if gen.options == nil {
		t.Error("Generator options should not be nil")
	}

	gen = NewGenerator(&GeneratorOptions{OutputPath: "custom.csv"})
	if gen.options.OutputPath != "custom.csv" {
		t.Errorf("Expected custom output path, got '%s'", gen.options.OutputPath)
	}
}

func record(filename, source, target string) corpus.ImageRecord {
	return corpus.ImageRecord{
		Filename:      filename,
		Word:          lexicon.LabelPair{Source: source, Target: target},
		VoiceFilename: naming.AssetNames(filename),
	}
}

func TestCardsFromCorpus(t *testing.T) {
	imageDir := testutil.CreateImageDirectory(t, "cat.png", "zebra.png")
	voiceDir := t.TempDir()
	testutil.CreateTestFile(t, filepath.Join(voiceDir, "en", "cat_en.wav"), testutil.GenerateAudioData())
	testutil.CreateTestFile(t, filepath.Join(voiceDir, "cn", "cat_cn.wav"), testutil.GenerateAudioData())

	c := &corpus.Corpus{Categories: []corpus.Category{
		{ID: "animals", Images: []corpus.ImageRecord{
			record("cat.png", "Cat", "猫"),
			record("zebra.png", "Zebra", "Zebra"),
		}},
		{ID: "others", Images: []corpus.ImageRecord{
			record("gizmo.png", "Gizmo", "小玩意"),
		}},
	}}

	cards := CardsFromCorpus(c, CardOptions{ImageDir: imageDir, VoiceDir: voiceDir})
	if len(cards) != 3 {
		t.Fatalf("Expected 3 cards, got %d", len(cards))
	}

	want := Card{
		Key:         "cat.png",
		English:     "Cat",
		Chinese:     "猫",
		ImageFile:   filepath.Join(imageDir, "cat.png"),
		AudioSource: filepath.Join(voiceDir, "en", "cat_en.wav"),
		AudioTarget: filepath.Join(voiceDir, "cn", "cat_cn.wav"),
		Tags:        []string{"animals"},
	}
	if !reflect.DeepEqual(cards[0], want) {
		t.Errorf("cards[0] = %+v, want %+v", cards[0], want)
	}
	if cards[1].AudioSource != "" || cards[1].AudioTarget != "" {
		t.Errorf("Missing voice files should leave audio empty: %+v", cards[1])
	}
	if cards[2].ImageFile != "" {
		t.Errorf("Missing image should leave ImageFile empty: %+v", cards[2])
	}
	if cards[2].Tags[0] != "others" {
		t.Errorf("Expected tag 'others', got %v", cards[2].Tags)
	}

	cards = CardsFromCorpus(c, CardOptions{ImageDir: imageDir, SkipUntranslated: true})
	if len(cards) != 2 {
		t.Fatalf("Expected untranslated Zebra to be skipped, got %d cards", len(cards))
	}
	for _, card := range cards {
		if card.English == "Zebra" {
			t.Error("Zebra should have been skipped")
		}
	}
}

func TestFormatFields(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"audio", formatAudioField("voices/en/cat_en.wav"), "[sound:cat_en.wav]"},
		{"no audio", formatAudioField(""), ""},
		{"image", formatImageField("/images/cat.png"), `<img src="cat.png">`},
		{"no image", formatImageField(""), ""},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestGenerateCSV(t *testing.T) {
	tempDir := t.TempDir()
	outputPath := filepath.Join(tempDir, "test.csv")

	gen := NewGenerator(&GeneratorOptions{OutputPath: outputPath, IncludeHeaders: true})
	gen.AddCards([]Card{
		{
			English:     "Apple Juice",
			Chinese:     "苹果汁",
			ImageFile:   "/images/apple-juice.png",
			AudioSource: "/voices/en/apple-juice_en.wav",
			AudioTarget: "/voices/cn/apple-juice_cn.wav",
			Tags:        []string{"food_and_drink"},
		},
		{
			English: "Hot Dog, Large",
			Chinese: "热狗",
		},
	})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV() error = %v", err)
	}

	file, err := os.Open(outputPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	want := [][]string{
		{"English", "Chinese", "Image", "Audio English", "Audio Chinese", "Tags"},
		{"Apple Juice", "苹果汁", `<img src="apple-juice.png">`, "[sound:apple-juice_en.wav]", "[sound:apple-juice_cn.wav]", "food_and_drink"},
		{"Hot Dog, Large", "热狗", "", "", "", ""},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("CSV records = %v, want %v", records, want)
	}
}

func TestGenerateCSVWithoutHeaders(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "test.csv")

	gen := NewGenerator(&GeneratorOptions{OutputPath: outputPath})
	gen.AddCard(Card{English: "Cat", Chinese: "猫"})

	if err := gen.GenerateCSV(); err != nil {
		t.Fatalf("GenerateCSV() error = %v", err)
	}

	testutil.AssertFileContains(t, outputPath, "Cat,猫")
	data, _ := os.ReadFile(outputPath)
	if len(data) > 0 && string(data[:7]) == "English" {
		t.Error("Headers written although IncludeHeaders is false")
	}
}

func TestStats(t *testing.T) {
	gen := NewGenerator(nil)
	gen.AddCards([]Card{
		{English: "Cat", ImageFile: "cat.png", AudioSource: "cat_en.wav"},
		{English: "Dog", AudioTarget: "dog_cn.wav"},
		{English: "Owl", ImageFile: "owl.png"},
	})

	total, withAudio, withImages := gen.Stats()
	if total != 3 || withAudio != 2 || withImages != 2 {
		t.Errorf("Stats() = %d, %d, %d; want 3, 2, 2", total, withAudio, withImages)
	}
}

func TestGeneratorGenerateAPKG(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "deck.apkg")

	gen := NewGenerator(nil)
	gen.AddCard(Card{Key: "cat.png", English: "Cat", Chinese: "猫"})
	if err := gen.GenerateAPKG(outputPath, "Deck", ""); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}
	testutil.AssertFileExists(t, outputPath)
}
