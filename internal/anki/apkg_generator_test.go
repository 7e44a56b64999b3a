package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/snonux/flashsort/internal"
)

func TestNewAPKGGenerator(t *testing.T) {
	gen := NewAPKGGenerator("Test Deck")

	if gen == nil {
		t.Fatal("NewAPKGGenerator returned nil")
	}
	if gen.deckName != "Test Deck" {
		t.Errorf("Expected deck name 'Test Deck', got '%s'", gen.deckName)
	}
	if len(gen.cards) != 0 {
		t.Errorf("Expected empty cards slice, got %d cards", len(gen.cards))
	}
	if len(gen.mediaFiles) != 0 {
		t.Errorf("Expected empty media files, got %d files", len(gen.mediaFiles))
	}

	again := NewAPKGGenerator("Test Deck")
	if gen.deckID != again.deckID || gen.modelID != again.modelID {
		t.Error("Deck and model IDs should be stable for the same deck name")
	}
	if other := NewAPKGGenerator("Other Deck"); other.deckID == gen.deckID {
		t.Error("Different decks should get different IDs")
	}
	if gen.deckID <= 1 {
		t.Errorf("Deck ID %d collides with the default deck", gen.deckID)
	}
}

func TestFormatTags(t *testing.T) {
	tests := []struct {
		tags []string
		want string
	}{
		{nil, ""},
		{[]string{"animals"}, " animals "},
		{[]string{"food_and_drink", "needs review"}, " food_and_drink needs_review "},
	}
	for _, tt := range tests {
		if got := formatTags(tt.tags); got != tt.want {
			t.Errorf("formatTags(%v) = %q, want %q", tt.tags, got, tt.want)
		}
	}
}

func TestFieldChecksum(t *testing.T) {
	if got := fieldChecksum("Cat"); got != fieldChecksum("Cat") || got <= 0 {
		t.Errorf("fieldChecksum() = %d, want a stable positive value", got)
	}
	if fieldChecksum("Cat") == fieldChecksum("Dog") {
		t.Error("fieldChecksum() collides for different fields")
	}
}

func writeMedia(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(paths[i]), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(paths[i], []byte("data of "+name), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return paths
}

func TestGenerateAPKG(t *testing.T) {
	tempDir := t.TempDir()
	media := writeMedia(t, tempDir, "cat.png", "voices/en/cat_en.wav", "voices/cn/cat_cn.wav")

	gen := NewAPKGGenerator("Picture Words")
	gen.SetDescription("Cartoon English Flash Card Categories")
	gen.AddCard(Card{
		Key:         "cat.png",
		English:     "Cat",
		Chinese:     "猫",
		ImageFile:   media[0],
		AudioSource: media[1],
		AudioTarget: media[2],
		Tags:        []string{"animals"},
	})
	gen.AddCard(Card{
		Key:     "xyz-gadget-99.png",
		English: "Xyz Gadget",
		Chinese: "Xyz Gadget",
		Tags:    []string{"others"},
	})

	outputPath := filepath.Join(tempDir, "test.apkg")
	if err := gen.GenerateAPKG(outputPath); err != nil {
		t.Fatalf("GenerateAPKG() error = %v", err)
	}

	reader, err := zip.OpenReader(outputPath)
	if err != nil {
		t.Fatalf("Failed to open APKG as zip: %v", err)
	}
	defer reader.Close()

	files := make(map[string]*zip.File)
	for _, f := range reader.File {
		files[f.Name] = f
	}
	for _, name := range []string{"collection.anki2", "media", "0", "1", "2"} {
		if files[name] == nil {
			t.Errorf("Required file '%s' not found in APKG", name)
		}
	}

	rc, err := files["media"].Open()
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatal(err)
	}
	var mapping map[string]string
	if err := json.Unmarshal(data, &mapping); err != nil {
		t.Fatalf("Invalid media mapping: %v", err)
	}
	want := map[string]string{"0": "cat.png", "1": "cat_en.wav", "2": "cat_cn.wav"}
	for k, v := range want {
		if mapping[k] != v {
			t.Errorf("media[%s] = %q, want %q", k, mapping[k], v)
		}
	}
}

func TestCreateDatabase(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.anki2")
	media := writeMedia(t, tempDir, "cat.png")

	gen := NewAPKGGenerator("Test Deck")
	gen.SetDescription("Animals and more")
	gen.AddCard(Card{Key: "cat.png", English: "Cat", Chinese: "猫", ImageFile: media[0], Tags: []string{"animals"}})
	gen.AddCard(Card{Key: "dog.png", English: "Dog", Chinese: "狗", Tags: []string{"animals"}})

	if err := gen.copyMediaFiles(tempDir); err != nil {
		t.Fatalf("copyMediaFiles() error = %v", err)
	}
	if err := gen.createDatabase(dbPath); err != nil {
		t.Fatalf("createDatabase() error = %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	var noteCount, cardCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM notes").Scan(&noteCount); err != nil {
		t.Fatal(err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM cards").Scan(&cardCount); err != nil {
		t.Fatal(err)
	}
	if noteCount != 2 || cardCount != 4 {
		t.Errorf("Expected 2 notes and 4 cards, got %d and %d", noteCount, cardCount)
	}

	var guid, tags, flds, sfld string
	err = db.QueryRow("SELECT guid, tags, flds, sfld FROM notes ORDER BY id LIMIT 1").Scan(&guid, &tags, &flds, &sfld)
	if err != nil {
		t.Fatal(err)
	}
	if guid != internal.StableID("cat.png") {
		t.Errorf("guid = %q, want stable ID of the image filename", guid)
	}
	if tags != " animals " {
		t.Errorf("tags = %q", tags)
	}
	if sfld != "Cat" {
		t.Errorf("sfld = %q, want Cat", sfld)
	}
	fields := strings.Split(flds, "\x1f")
	if len(fields) != 5 {
		t.Fatalf("Expected 5 fields, got %d", len(fields))
	}
	if fields[1] != "猫" || fields[2] != `<img src="cat.png">` || fields[3] != "" {
		t.Errorf("Unexpected fields: %q", fields)
	}

	var decks string
	if err := db.QueryRow("SELECT decks FROM col").Scan(&decks); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(decks, "Animals and more") || !strings.Contains(decks, "Test Deck") {
		t.Errorf("Deck JSON missing name or description: %s", decks)
	}
}
