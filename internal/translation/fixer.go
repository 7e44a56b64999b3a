package translation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/flashsort/internal/lexicon"
)

// Candidate is one label considered by the correction pass
type Candidate struct {
	CategoryID string
	Word       lexicon.LabelPair
}

// FixStats summarises a correction pass
type FixStats struct {
	Total             int
	Flagged           int
	Rederived         int
	MachineTranslated int
	Unchanged         int
}

type outcome int

const (
	kept outcome = iota
	rederived
	machine
	unchanged
)

// Fixer repairs labels flagged by IsUntranslated. It first re-runs the
// resolver, then asks Translator when one is set. Only targets change.
type Fixer struct {
	Resolver   *Resolver
	Translator MachineTranslator
	Cache      *TranslationCache
	Workers    int
}

// Fix returns the new target of every candidate, aligned with the input
func (f *Fixer) Fix(ctx context.Context, candidates []Candidate) ([]string, FixStats) {
	targets := make([]string, len(candidates))
	outcomes := make([]outcome, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(f.Workers, 1))

	for i, c := range candidates {
		targets[i] = c.Word.Target
		if !IsUntranslated(c.Word) {
			continue
		}
		g.Go(func() error {
			targets[i], outcomes[i] = f.fixOne(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	stats := FixStats{Total: len(candidates)}
	for _, o := range outcomes {
		switch o {
		case rederived:
			stats.Rederived++
		case machine:
			stats.MachineTranslated++
		case unchanged:
			stats.Unchanged++
		}
	}
	stats.Flagged = stats.Rederived + stats.MachineTranslated + stats.Unchanged
	return targets, stats
}

func (f *Fixer) fixOne(ctx context.Context, c Candidate) (string, outcome) {
	if f.Resolver != nil {
		if pair := f.Resolver.Resolve(c.Word.Source, c.CategoryID); !IsUntranslated(pair) {
			return pair.Target, rederived
		}
	}

	if f.Translator == nil || ctx.Err() != nil {
		return c.Word.Target, unchanged
	}

	if f.Cache != nil {
		if cached, ok := f.Cache.Get(c.Word.Source); ok {
			return cached, machine
		}
	}

	answer := BestEffort(ctx, f.Translator, c.Word.Source)
	if IsUntranslated(lexicon.LabelPair{Source: c.Word.Source, Target: answer}) {
		return c.Word.Target, unchanged
	}
	if f.Cache != nil {
		f.Cache.Add(c.Word.Source, answer)
	}
	return answer, machine
}
