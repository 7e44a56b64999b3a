package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/flashsort/internal/anki"
	"codeberg.org/snonux/flashsort/internal/archive"
	"codeberg.org/snonux/flashsort/internal/audio"
	"codeberg.org/snonux/flashsort/internal/batch"
	"codeberg.org/snonux/flashsort/internal/categorize"
	"codeberg.org/snonux/flashsort/internal/cli"
	"codeberg.org/snonux/flashsort/internal/corpus"
	"codeberg.org/snonux/flashsort/internal/lexicon"
	"codeberg.org/snonux/flashsort/internal/organize"
	"codeberg.org/snonux/flashsort/internal/translation"
)

// Breaker settings for machine translation
const (
	breakerFailures = 3
	breakerCooldown = 30 * time.Second
)

var tierOrder = []translation.Tier{"general", "category", "compositional", translation.Identity}

// Processor runs the pipeline steps behind the subcommands
type Processor struct {
	flags *cli.Flags
	lex   *lexicon.Lexicon
}

// NewProcessor creates a processor using the lexicon named by the flags, or
// the built-in one
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	lex := lexicon.Default()
	if flags.Lexicon != "" {
		var err error
		if lex, err = lexicon.Load(flags.Lexicon); err != nil {
			return nil, err
		}
		slog.Debug("loaded lexicon", "path", flags.Lexicon, "categories", len(lex.Categories))
	}
	return &Processor{flags: flags, lex: lex}, nil
}

// Categorize builds the corpus from image filenames and saves it. Filenames
// come from args, the list file or the image directory, in that order.
func (p *Processor) Categorize(ctx context.Context, args []string) error {
	filenames, err := p.inputFilenames(args)
	if err != nil {
		return err
	}
	if len(filenames) == 0 {
		slog.Warn("no image filenames found", "dir", p.flags.ImageDir)
	}

	assembler := corpus.NewAssembler(p.lex, corpus.WithWorkers(p.flags.Workers))
	report, err := assembler.Assemble(ctx, filenames)
	if err != nil {
		return err
	}
	for _, r := range report.Rejected {
		slog.Warn("rejected filename", "file", r.Filename, "error", r.Err)
	}

	if err := p.saveCorpus(report.Corpus); err != nil {
		return err
	}

	c := report.Corpus
	fmt.Printf("\n=== Categorize Summary ===\n")
	fmt.Printf("Total images: %d\n", c.Statistics.TotalImages)
	fmt.Printf("Categories: %d\n", c.Statistics.TotalCategories)
	for _, cat := range c.Categories {
		fmt.Printf("  %-24s %4d  %s\n", cat.ID, cat.Count, cat.Name.Target)
	}
	fmt.Printf("Uncategorized: %d\n", c.Statistics.UncategorizedImages)
	fmt.Printf("Labels by tier:")
	for _, tier := range tierOrder {
		fmt.Printf(" %s=%d", tier, report.Tiers[tier])
	}
	fmt.Println()
	if len(report.Rejected) > 0 {
		fmt.Printf("Rejected: %d\n", len(report.Rejected))
	}
	fmt.Printf("Saved to: %s\n", p.flags.CorpusFile)
	fmt.Printf("==========================\n")

	if p.flags.OrganizeDir != "" {
		return p.organize(ctx, c)
	}
	return nil
}

func (p *Processor) inputFilenames(args []string) ([]string, error) {
	switch {
	case len(args) > 0:
		names := make([]string, len(args))
		for i, a := range args {
			names[i] = filepath.Base(a)
		}
		return names, nil
	case p.flags.ListFile != "":
		return batch.ReadListFile(p.flags.ListFile)
	default:
		return batch.ListImages(p.flags.ImageDir, batch.DefaultImageExtensions)
	}
}

// saveCorpus backs up the existing corpus file unless disabled, then writes c
func (p *Processor) saveCorpus(c *corpus.Corpus) error {
	if !p.flags.NoBackup {
		backup, err := archive.BackupFile(p.flags.CorpusFile, p.flags.ArchiveDir)
		if err != nil {
			return err
		}
		if backup != "" {
			fmt.Printf("Backed up %s to %s\n", p.flags.CorpusFile, backup)
		}
	}
	return c.Save(p.flags.CorpusFile)
}

// FixTranslations repairs untranslated labels of the saved corpus
func (p *Processor) FixTranslations(ctx context.Context) error {
	c, err := corpus.Load(p.flags.CorpusFile)
	if err != nil {
		return err
	}

	translator, err := p.machineTranslator(ctx)
	if err != nil {
		return err
	}
	fixer := &translation.Fixer{
		Resolver:   translation.NewResolver(p.lex),
		Translator: translator,
		Cache:      translation.NewTranslationCache(),
		Workers:    p.flags.Workers,
	}

	candidates := c.Candidates()
	targets, stats := fixer.Fix(ctx, candidates)
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.ApplyTargets(targets); err != nil {
		return err
	}

	for i, cand := range candidates {
		if targets[i] != cand.Word.Target {
			fmt.Printf("  %s: %s -> %s\n", cand.Word.Source, cand.Word.Target, targets[i])
		}
	}

	fmt.Printf("\n=== Translation Fix Summary ===\n")
	fmt.Printf("Total labels: %d\n", stats.Total)
	fmt.Printf("Flagged: %d\n", stats.Flagged)
	fmt.Printf("Fixed from lexicon: %d\n", stats.Rederived)
	fmt.Printf("Machine translated: %d\n", stats.MachineTranslated)
	if translator != nil {
		fmt.Printf("Distinct words translated: %d\n", fixer.Cache.Len())
	}
	fmt.Printf("Unchanged: %d\n", stats.Unchanged)
	fmt.Printf("===============================\n")

	if p.flags.DryRun {
		fmt.Println("Dry run, corpus not saved")
		return nil
	}
	if stats.Rederived+stats.MachineTranslated == 0 {
		return nil
	}
	return p.saveCorpus(c)
}

// machineTranslator returns the configured translator behind a circuit
// breaker. Without an API key the fix pass runs on the lexicon alone.
func (p *Processor) machineTranslator(ctx context.Context) (translation.MachineTranslator, error) {
	var t translation.MachineTranslator
	switch p.flags.TranslateProvider {
	case "none", "":
		return nil, nil
	case "openai":
		key := cli.GetOpenAIKey()
		if key == "" {
			slog.Warn("OpenAI API key not found, fixing from the lexicon only")
			return nil, nil
		}
		t = translation.NewOpenAITranslator(key, p.flags.OpenAIModel)
	case "gemini":
		gt, err := translation.NewGeminiTranslator(ctx, cli.GetGeminiKey(), p.flags.GeminiModel)
		if errors.Is(err, translation.ErrNoAPIKey) {
			slog.Warn("Gemini API key not found, fixing from the lexicon only")
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		t = gt
	default:
		return nil, fmt.Errorf("unknown translation provider: %s", p.flags.TranslateProvider)
	}
	return translation.NewBreakerTranslator(t, breakerFailures, breakerCooldown), nil
}

// GenerateVoices synthesizes the missing voice files of the saved corpus
func (p *Processor) GenerateVoices(ctx context.Context) error {
	c, err := corpus.Load(p.flags.CorpusFile)
	if err != nil {
		return err
	}

	runner := &batch.VoiceRunner{
		Timeout:  p.flags.VoiceTimeout,
		Workers:  p.flags.VoiceWorkers,
		Progress: os.Stderr,
	}
	for _, lang := range p.flags.Languages {
		switch lang {
		case audio.LangEnglish:
			if runner.Source, err = p.voiceProvider("source", audio.SourceDefaults(), p.flags.SourceProvider); err != nil {
				return err
			}
		case audio.LangChinese:
			if runner.Target, err = p.voiceProvider("target", audio.TargetDefaults(), p.flags.TargetProvider); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown language %q (want %s or %s)", lang, audio.LangEnglish, audio.LangChinese)
		}
	}

	if p.flags.Rebuild {
		if err := p.archiveVoices(); err != nil {
			return err
		}
	}

	jobs := batch.Jobs(c, p.flags.VoiceDir, p.flags.Languages...)
	stats := runner.Run(ctx, jobs)

	fmt.Printf("\n=== Voice Generation Summary ===\n")
	fmt.Printf("Total files: %d\n", stats.Total())
	fmt.Printf("Generated: %d\n", stats.Succeeded)
	fmt.Printf("Skipped (already exist): %d\n", stats.Skipped)
	if stats.Failed > 0 {
		fmt.Printf("Failed: %d\n", stats.Failed)
		for _, f := range stats.Failures {
			fmt.Printf("  %s (%q): %v\n", f.Job.Output, f.Job.Text, f.Err)
		}
	}
	fmt.Printf("Output: %s\n", p.flags.VoiceDir)
	fmt.Printf("================================\n")

	return ctx.Err()
}

// archiveVoices moves the voice directory aside so every file is generated
// again. A missing directory is left alone.
func (p *Processor) archiveVoices() error {
	if _, err := os.Stat(p.flags.VoiceDir); os.IsNotExist(err) {
		return nil
	}
	archived, err := archive.ArchiveDir(p.flags.VoiceDir, p.flags.ArchiveDir)
	if err != nil {
		return fmt.Errorf("failed to archive voices: %w", err)
	}
	fmt.Printf("Archived old voices to %s\n", archived)
	return nil
}

// voiceProvider builds the engine for one side from its defaults, the
// voice.<side>.* config keys and the provider flag, with an optional fallback
func (p *Processor) voiceProvider(side string, config *audio.Config, name string) (audio.Provider, error) {
	prefix := "voice." + side + "."
	override := func(dst *string, key string) {
		if v := viper.GetString(prefix + key); v != "" {
			*dst = v
		}
	}
	override(&config.Model, "model")
	override(&config.Speaker, "speaker")
	override(&config.SpeakerLocale, "language")
	override(&config.CoquiCommand, "command")
	override(&config.OpenAIVoice, "openai_voice")
	override(&config.OpenAIModel, "openai_model")
	override(&config.ESpeakVoice, "espeak_voice")
	config.OpenAIKey = cli.GetOpenAIKey()
	config.Provider = name

	primary, err := audio.NewProvider(config)
	if p.flags.Fallback == "" || p.flags.Fallback == name {
		if err != nil {
			return nil, fmt.Errorf("%s voice: %w", side, err)
		}
		if err := primary.IsAvailable(); err != nil {
			slog.Warn("voice provider not available", "side", side, "provider", name, "error", err)
		}
		return primary, nil
	}

	fallbackConfig := *config
	fallbackConfig.Provider = p.flags.Fallback
	fallback, fbErr := audio.NewProvider(&fallbackConfig)
	switch {
	case err != nil && fbErr != nil:
		return nil, fmt.Errorf("%s voice: %w", side, errors.Join(err, fbErr))
	case err != nil:
		slog.Warn("voice provider unusable, using fallback", "side", side, "provider", name, "error", err)
		return fallback, nil
	case fbErr != nil:
		slog.Warn("fallback voice provider unusable", "side", side, "provider", p.flags.Fallback, "error", fbErr)
		return primary, nil
	}
	return audio.NewProviderWithFallback(primary, fallback), nil
}

// Organize copies the images of the saved corpus into category folders
func (p *Processor) Organize(ctx context.Context) error {
	c, err := corpus.Load(p.flags.CorpusFile)
	if err != nil {
		return err
	}
	return p.organize(ctx, c)
}

func (p *Processor) organize(ctx context.Context, c *corpus.Corpus) error {
	o := &organize.Organizer{SourceDir: p.flags.ImageDir, OutputDir: p.flags.OrganizeDir}
	stats, err := o.Organize(ctx, c)

	fmt.Printf("\n=== Organize Summary ===\n")
	fmt.Printf("Copied: %d\n", stats.Copied)
	if stats.Failed > 0 {
		fmt.Printf("Failed: %d\n", stats.Failed)
	}
	fmt.Printf("Output: %s\n", p.flags.OrganizeDir)
	fmt.Printf("========================\n")
	return err
}

// ExportAnki writes the saved corpus as an Anki package or CSV file
func (p *Processor) ExportAnki(ctx context.Context) error {
	c, err := corpus.Load(p.flags.CorpusFile)
	if err != nil {
		return err
	}

	outputPath := p.flags.AnkiOutput
	if p.flags.AnkiCSV && strings.EqualFold(filepath.Ext(outputPath), ".apkg") {
		outputPath = strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".csv"
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cards := anki.CardsFromCorpus(c, anki.CardOptions{
		ImageDir:         p.flags.ImageDir,
		VoiceDir:         p.flags.VoiceDir,
		SkipUntranslated: p.flags.SkipUntranslated,
	})
	gen := anki.NewGenerator(&anki.GeneratorOptions{OutputPath: outputPath, IncludeHeaders: true})
	gen.AddCards(cards)

	if p.flags.AnkiCSV {
		err = gen.GenerateCSV()
	} else {
		var description string
		if c.Description != nil {
			description = fmt.Sprintf("%s (%s)", c.Description.Source, c.Description.Target)
		}
		err = gen.GenerateAPKG(outputPath, p.flags.DeckName, description)
	}
	if err != nil {
		return err
	}

	total, withAudio, withImages := gen.Stats()
	fmt.Printf("\n=== Anki Export Summary ===\n")
	fmt.Printf("Cards: %d\n", total)
	fmt.Printf("With images: %d\n", withImages)
	fmt.Printf("With audio: %d\n", withAudio)
	fmt.Printf("Saved to: %s\n", outputPath)
	fmt.Printf("===========================\n")
	return nil
}

// Inspect prints how each filename is turned into a record
func (p *Processor) Inspect(filenames []string) error {
	assembler := corpus.NewAssembler(p.lex)
	categorizer := categorize.New(p.lex.Categories)

	for _, arg := range filenames {
		name := filepath.Base(arg)
		rec, categoryID, tier, err := assembler.Record(name)
		if err != nil {
			fmt.Printf("%s: %v\n\n", name, err)
			continue
		}

		var scores []string
		for _, s := range categorizer.Scores(name) {
			scores = append(scores, fmt.Sprintf("%s=%d", s.CategoryID, s.Score))
		}
		if len(scores) == 0 {
			scores = append(scores, "none")
		}
		label := rec.Word.Target
		if translation.IsUntranslated(rec.Word) {
			label += " (untranslated)"
		}

		fmt.Printf("%s\n", name)
		fmt.Printf("  word:     %s\n", rec.Word.Source)
		fmt.Printf("  category: %s (%s)\n", categoryID, p.lex.DisplayName(categoryID).Target)
		fmt.Printf("  scores:   %s\n", strings.Join(scores, " "))
		fmt.Printf("  tier:     %s\n", tier)
		fmt.Printf("  label:    %s\n", label)
		fmt.Printf("  voices:   %s %s\n\n", rec.VoiceFilename.Source, rec.VoiceFilename.Target)
	}
	return nil
}

// LexiconDump prints the active lexicon as YAML
func (p *Processor) LexiconDump() error {
	data, err := p.lex.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// LexiconValidate checks the lexicon at path, or the active one
func (p *Processor) LexiconValidate(path string) error {
	lex := p.lex
	if path != "" {
		var err error
		if lex, err = lexicon.Load(path); err != nil {
			return err
		}
	} else if err := lex.Validate(); err != nil {
		return err
	}

	fmt.Printf("Lexicon OK: %d categories, %d general words, %d category dictionaries\n",
		len(lex.Categories), lex.General.Len(), len(lex.ByCategory))
	return nil
}
