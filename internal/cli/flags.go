package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile   string
	Lexicon   string
	LogLevel  string
	LogFormat string

	// Corpus input and output
	ImageDir   string
	ListFile   string
	CorpusFile string
	ArchiveDir string
	NoBackup   bool
	Rebuild    bool
	Workers    int

	// Organize
	OrganizeDir string

	// Translation fix
	TranslateProvider string
	OpenAIModel       string
	GeminiModel       string
	DryRun            bool

	// Voices
	VoiceDir       string
	VoiceTimeout   time.Duration
	VoiceWorkers   int
	Languages      []string
	SourceProvider string
	TargetProvider string
	Fallback       string

	// Anki export
	AnkiOutput       string
	AnkiCSV          bool
	DeckName         string
	SkipUntranslated bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:          "info",
		LogFormat:         "text",
		ImageDir:          ".",
		CorpusFile:        "categories.json",
		ArchiveDir:        "archive",
		Workers:           4,
		TranslateProvider: "openai",
		OpenAIModel:       "gpt-4o-mini",
		GeminiModel:       "gemini-2.0-flash",
		VoiceDir:          "voices",
		VoiceTimeout:      5 * time.Minute,
		VoiceWorkers:      1,
		Languages:         []string{"en", "zh"},
		SourceProvider:    "coqui",
		TargetProvider:    "coqui",
		AnkiOutput:        "flashsort.apkg",
		DeckName:          "Picture Words",
	}
}
