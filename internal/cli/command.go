package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/flashsort/internal"
)

// viperKey is the flag annotation naming the config key a flag maps to
const viperKey = "viper-key"

// Handler runs one subcommand
type Handler func(ctx context.Context, args []string) error

// Handlers are the actions behind the subcommands. A nil handler makes its
// subcommand fail.
type Handlers struct {
	Categorize      Handler
	FixTranslations Handler
	Voices          Handler
	Organize        Handler
	Anki            Handler
	Inspect         Handler
	LexiconDump     Handler
	LexiconValidate Handler
}

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags, handlers Handlers) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flashsort",
		Short: "Bilingual picture flash card sorter",
		Long: `flashsort turns a folder of cartoon picture files into a bilingual
English/Chinese flash card corpus.

It derives a word from every filename, sorts it into a category, looks up
the Chinese label and names the voice files to record.

Examples:
  flashsort categorize -i images/          # Build categories.json
  flashsort fix-translations               # Repair untranslated labels
  flashsort voices                         # Record English and Chinese voices
  flashsort anki -o words.apkg             # Export an Anki deck
  flashsort inspect fire-truck.png         # Show how one file is handled`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return prepare(cmd, flags)
		},
	}

	setupFlags(rootCmd, flags)

	rootCmd.AddCommand(
		newCategorizeCommand(flags, handlers.Categorize),
		newFixCommand(flags, handlers.FixTranslations),
		newVoicesCommand(flags, handlers.Voices),
		newOrganizeCommand(flags, handlers.Organize),
		newAnkiCommand(flags, handlers.Anki),
		newInspectCommand(handlers.Inspect),
		newLexiconCommand(handlers.LexiconDump, handlers.LexiconValidate),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.flashsort.yaml)")
	pf.StringVar(&flags.Lexicon, "lexicon", "", "lexicon YAML file (default is the built-in lexicon)")
	pf.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")

	annotate(pf, "lexicon", "lexicon.path")
	annotate(pf, "log-level", "logging.level")
	annotate(pf, "log-format", "logging.format")
}

func newCategorizeCommand(flags *Flags, h Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize [file...]",
		Short: "Build the category corpus from image filenames",
		Long: `Reads image filenames from the arguments, from --list or from the
image directory, and writes the categorized corpus to --corpus. An existing
corpus is backed up to --archive-dir first.`,
		RunE: run(h),
	}

	f := cmd.Flags()
	corpusFlags(cmd, flags)
	imageFlag(cmd, flags)
	f.StringVar(&flags.ListFile, "list", "", "Read filenames from file (one per line)")
	f.StringVar(&flags.ArchiveDir, "archive-dir", flags.ArchiveDir, "Directory for corpus backups")
	f.BoolVar(&flags.NoBackup, "no-backup", false, "Overwrite the corpus without a backup")
	f.IntVar(&flags.Workers, "workers", flags.Workers, "Parallel workers")
	f.StringVar(&flags.OrganizeDir, "organize", "", "Also copy images into per-category folders below this directory")

	annotate(f, "archive-dir", "corpus.archive_dir")
	annotate(f, "workers", "workers")
	return cmd
}

func newFixCommand(flags *Flags, h Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix-translations",
		Short: "Repair labels whose Chinese text is missing",
		Long: `Selects records whose target label equals the English word or
still contains Latin letters. Each one is first resolved again with the
lexicon, then sent to the machine translator. Failures keep the old label.`,
		Args: cobra.NoArgs,
		RunE: run(h),
	}

	f := cmd.Flags()
	corpusFlags(cmd, flags)
	f.StringVar(&flags.ArchiveDir, "archive-dir", flags.ArchiveDir, "Directory for corpus backups")
	f.BoolVar(&flags.NoBackup, "no-backup", false, "Overwrite the corpus without a backup")
	f.IntVar(&flags.Workers, "workers", flags.Workers, "Parallel translation requests")
	f.StringVar(&flags.TranslateProvider, "provider", flags.TranslateProvider, "Machine translator: openai, gemini or none")
	f.StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for translation")
	f.StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for translation")
	f.BoolVar(&flags.DryRun, "dry-run", false, "Report the changes without saving")

	annotate(f, "archive-dir", "corpus.archive_dir")
	annotate(f, "workers", "workers")
	annotate(f, "provider", "translate.provider")
	annotate(f, "openai-model", "translate.openai_model")
	annotate(f, "gemini-model", "translate.gemini_model")
	return cmd
}

func newVoicesCommand(flags *Flags, h Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voices",
		Short: "Generate English and Chinese voice files for the corpus",
		Long: `Synthesizes voices/en/{word}_en.wav from the English word and
voices/cn/{word}_cn.wav from the Chinese label. Existing files are skipped,
every file has its own timeout and failures never stop the batch.`,
		Args: cobra.NoArgs,
		RunE: run(h),
	}

	f := cmd.Flags()
	corpusFlags(cmd, flags)
	voiceDirFlag(cmd, flags)
	f.DurationVar(&flags.VoiceTimeout, "timeout", flags.VoiceTimeout, "Timeout per voice file")
	f.IntVar(&flags.VoiceWorkers, "workers", flags.VoiceWorkers, "Parallel synthesis jobs")
	f.StringSliceVar(&flags.Languages, "lang", flags.Languages, "Languages to generate: en, zh")
	f.StringVar(&flags.SourceProvider, "source-provider", flags.SourceProvider, "English voice engine: coqui, openai or espeak")
	f.StringVar(&flags.TargetProvider, "target-provider", flags.TargetProvider, "Chinese voice engine: coqui, openai or espeak")
	f.StringVar(&flags.Fallback, "fallback", "", "Engine to try when the primary one fails")
	f.BoolVar(&flags.Rebuild, "rebuild", false, "Move the existing voice directory to the archive and generate everything again")
	f.StringVar(&flags.ArchiveDir, "archive-dir", flags.ArchiveDir, "Directory for archived voice folders")

	annotate(f, "timeout", "voice.timeout")
	annotate(f, "workers", "voice.workers")
	annotate(f, "lang", "voice.languages")
	annotate(f, "source-provider", "voice.source.provider")
	annotate(f, "target-provider", "voice.target.provider")
	annotate(f, "fallback", "voice.fallback")
	annotate(f, "archive-dir", "corpus.archive_dir")
	return cmd
}

func newOrganizeCommand(flags *Flags, h Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Copy images into one folder per category",
		Args:  cobra.NoArgs,
		RunE:  run(h),
	}

	f := cmd.Flags()
	corpusFlags(cmd, flags)
	imageFlag(cmd, flags)
	f.StringVarP(&flags.OrganizeDir, "output", "o", "organized", "Output directory")

	annotate(f, "output", "organize.output")
	return cmd
}

func newAnkiCommand(flags *Flags, h Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anki",
		Short: "Export the corpus as an Anki deck",
		Args:  cobra.NoArgs,
		RunE:  run(h),
	}

	f := cmd.Flags()
	corpusFlags(cmd, flags)
	imageFlag(cmd, flags)
	voiceDirFlag(cmd, flags)
	f.StringVarP(&flags.AnkiOutput, "output", "o", flags.AnkiOutput, "Output file")
	f.BoolVar(&flags.AnkiCSV, "csv", false, "Generate legacy CSV format instead of APKG")
	f.StringVar(&flags.DeckName, "deck-name", flags.DeckName, "Deck name for APKG export")
	f.BoolVar(&flags.SkipUntranslated, "skip-untranslated", false, "Leave out cards without a Chinese label")

	annotate(f, "output", "anki.output")
	annotate(f, "deck-name", "anki.deck_name")
	annotate(f, "skip-untranslated", "anki.skip_untranslated")
	return cmd
}

func newInspectCommand(h Handler) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect file...",
		Short: "Show word, category, label and voice names for filenames",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run(h),
	}
}

func newLexiconCommand(dump, validate Handler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Work with the category and translation lexicon",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "dump",
			Short: "Print the active lexicon as YAML",
			Args:  cobra.NoArgs,
			RunE:  run(dump),
		},
		&cobra.Command{
			Use:   "validate [file]",
			Short: "Check a lexicon file (default is the active lexicon)",
			Args:  cobra.MaximumNArgs(1),
			RunE:  run(validate),
		},
	)
	return cmd
}

func corpusFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVarP(&flags.CorpusFile, "corpus", "c", flags.CorpusFile, "Corpus JSON file")
	annotate(cmd.Flags(), "corpus", "corpus.path")
}

func imageFlag(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVarP(&flags.ImageDir, "images", "i", flags.ImageDir, "Directory holding the images")
	annotate(cmd.Flags(), "images", "input.images")
}

func voiceDirFlag(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVar(&flags.VoiceDir, "voice-dir", flags.VoiceDir, "Directory for en/ and cn/ voice files")
	annotate(cmd.Flags(), "voice-dir", "voice.dir")
}

func annotate(fs *pflag.FlagSet, name, key string) {
	if err := fs.SetAnnotation(name, viperKey, []string{key}); err != nil {
		panic(err)
	}
}

func run(h Handler) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if h == nil {
			return fmt.Errorf("%s: no handler configured", cmd.CommandPath())
		}
		return h(cmd.Context(), args)
	}
}

// prepare runs before every subcommand: it fills flags the user did not
// set from config and environment, then sets up logging
func prepare(cmd *cobra.Command, flags *Flags) error {
	bindFlagsToViper(cmd.Flags())
	if err := applyConfig(cmd.Flags()); err != nil {
		return err
	}
	if err := SetupLogger(flags.LogLevel, flags.LogFormat); err != nil {
		return err
	}
	if used := viper.ConfigFileUsed(); used != "" {
		slog.Debug("using config file", "path", used)
	}
	return nil
}

func bindFlagsToViper(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[viperKey]
		if len(keys) == 0 {
			return
		}
		if err := viper.BindPFlag(keys[0], f); err != nil {
			slog.Warn("failed to bind flag", "flag", f.Name, "error", err)
		}
	})
}

// applyConfig copies config and environment values into flags that were not
// given on the command line
func applyConfig(fs *pflag.FlagSet) error {
	var errs []string
	fs.VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[viperKey]
		if len(keys) == 0 || f.Changed || !viper.IsSet(keys[0]) {
			return
		}

		var err error
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			values := viper.GetStringSlice(keys[0])
			if len(values) == 1 {
				values = strings.Split(values[0], ",")
			}
			err = sv.Replace(values)
		} else {
			err = f.Value.Set(viper.GetString(keys[0]))
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", keys[0], err))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
