package corpus

import (
	"context"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/flashsort/internal/categorize"
	"codeberg.org/snonux/flashsort/internal/lexicon"
	"codeberg.org/snonux/flashsort/internal/naming"
	"codeberg.org/snonux/flashsort/internal/translation"
)

// Assembler turns filenames into records using one lexicon
type Assembler struct {
	lex         *lexicon.Lexicon
	normalizer  *naming.Normalizer
	categorizer *categorize.Categorizer
	resolver    *translation.Resolver
	namer       naming.AssetNamer
	workers     int
}

// Option configures an Assembler
type Option func(*Assembler)

// WithWorkers bounds the number of filenames processed concurrently
func WithWorkers(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithAssetNamer replaces the default voice filename scheme
func WithAssetNamer(n naming.AssetNamer) Option {
	return func(a *Assembler) { a.namer = n }
}

// WithResolver replaces the default tier chain
func WithResolver(r *translation.Resolver) Option {
	return func(a *Assembler) { a.resolver = r }
}

// NewAssembler wires the pipeline stages for lex
func NewAssembler(lex *lexicon.Lexicon, opts ...Option) *Assembler {
	casing := make(map[string]string, len(naming.DefaultCasing)+len(lex.Casing))
	for k, v := range naming.DefaultCasing {
		casing[k] = v
	}
	for k, v := range lex.Casing {
		casing[k] = v
	}

	a := &Assembler{
		lex:         lex,
		normalizer:  naming.NewNormalizer(casing),
		categorizer: categorize.New(lex.Categories),
		resolver:    translation.NewResolver(lex),
		namer:       naming.DefaultAssetNamer,
		workers:     runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Rejection is a filename that could not become a record
type Rejection struct {
	Filename string
	Err      error
}

// Report is the outcome of Assemble
type Report struct {
	Corpus   *Corpus
	Rejected []Rejection
	Tiers    map[translation.Tier]int
}

type assembled struct {
	record     ImageRecord
	categoryID string
	tier       translation.Tier
	err        error
}

// Record builds the record for one filename. It fails only when the
// filename yields no word.
func (a *Assembler) Record(filename string) (ImageRecord, string, translation.Tier, error) {
	word, err := a.normalizer.Normalize(filename)
	if err != nil {
		return ImageRecord{}, "", "", err
	}

	categoryID := a.categorizer.Categorize(filename)
	pair, tier := a.resolver.ResolveTier(word, categoryID)

	return ImageRecord{
		Filename:      filename,
		Word:          pair,
		VoiceFilename: a.namer.Names(filename),
	}, categoryID, tier, nil
}

// Assemble builds a corpus from filenames. Duplicates are ignored and the
// result is the same for any ordering of the input. Filenames without a word
// are reported in Rejected, in input order.
func (a *Assembler) Assemble(ctx context.Context, filenames []string) (*Report, error) {
	unique := dedupe(filenames)
	results := make([]assembled, len(unique))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.workers, 1))
	for i, name := range unique {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := &results[i]
			r.record, r.categoryID, r.tier, r.err = a.Record(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Tiers: make(map[translation.Tier]int)}
	grouped := make(map[string][]ImageRecord)
	for i, r := range results {
		if r.err != nil {
			report.Rejected = append(report.Rejected, Rejection{Filename: unique[i], Err: r.err})
			continue
		}
		grouped[r.categoryID] = append(grouped[r.categoryID], r.record)
		report.Tiers[r.tier]++
	}

	c := &Corpus{Version: Version}
	if a.lex.Description != (lexicon.LabelPair{}) {
		desc := a.lex.Description
		c.Description = &desc
	}

	ids := make([]string, 0, len(a.lex.Categories)+1)
	for _, cat := range a.lex.Categories {
		ids = append(ids, cat.ID)
	}
	ids = append(ids, lexicon.OthersID)

	for _, id := range ids {
		images := grouped[id]
		if len(images) == 0 {
			continue
		}
		slices.SortFunc(images, func(x, y ImageRecord) int {
			return strings.Compare(x.Filename, y.Filename)
		})
		c.Categories = append(c.Categories, Category{
			ID:     id,
			Name:   a.lex.DisplayName(id),
			Images: images,
		})
	}
	c.Recount()

	report.Corpus = c
	return report, nil
}

func dedupe(filenames []string) []string {
	seen := make(map[string]struct{}, len(filenames))
	out := make([]string, 0, len(filenames))
	for _, f := range filenames {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
