package cli

import (
	"reflect"
	"testing"
	"time"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", flags.LogLevel, "info"},
		{"LogFormat", flags.LogFormat, "text"},
		{"ImageDir", flags.ImageDir, "."},
		{"CorpusFile", flags.CorpusFile, "categories.json"},
		{"ArchiveDir", flags.ArchiveDir, "archive"},
		{"Workers", flags.Workers, 4},
		{"TranslateProvider", flags.TranslateProvider, "openai"},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.0-flash"},
		{"VoiceDir", flags.VoiceDir, "voices"},
		{"VoiceTimeout", flags.VoiceTimeout, 5 * time.Minute},
		{"VoiceWorkers", flags.VoiceWorkers, 1},
		{"Languages", flags.Languages, []string{"en", "zh"}},
		{"SourceProvider", flags.SourceProvider, "coqui"},
		{"TargetProvider", flags.TargetProvider, "coqui"},
		{"AnkiOutput", flags.AnkiOutput, "flashsort.apkg"},
		{"DeckName", flags.DeckName, "Picture Words"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	boolTests := []struct {
		name  string
		value bool
	}{
		{"NoBackup", flags.NoBackup},
		{"DryRun", flags.DryRun},
		{"AnkiCSV", flags.AnkiCSV},
		{"SkipUntranslated", flags.SkipUntranslated},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}

	stringTests := []struct {
		name  string
		value string
	}{
		{"CfgFile", flags.CfgFile},
		{"Lexicon", flags.Lexicon},
		{"ListFile", flags.ListFile},
		{"OrganizeDir", flags.OrganizeDir},
		{"Fallback", flags.Fallback},
	}

	for _, tt := range stringTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Errorf("%s = %v, want empty string", tt.name, tt.value)
			}
		})
	}
}
