package processor

import (
	"context"

	"codeberg.org/snonux/flashsort/internal/cli"
)

// Handlers connects the subcommands to a processor. The processor is
// created when a command runs, after flags and config are resolved.
func Handlers(flags *cli.Flags) cli.Handlers {
	with := func(fn func(p *Processor, ctx context.Context, args []string) error) cli.Handler {
		return func(ctx context.Context, args []string) error {
			p, err := NewProcessor(flags)
			if err != nil {
				return err
			}
			return fn(p, ctx, args)
		}
	}

	return cli.Handlers{
		Categorize: with(func(p *Processor, ctx context.Context, args []string) error {
			return p.Categorize(ctx, args)
		}),
		FixTranslations: with(func(p *Processor, ctx context.Context, _ []string) error {
			return p.FixTranslations(ctx)
		}),
		Voices: with(func(p *Processor, ctx context.Context, _ []string) error {
			return p.GenerateVoices(ctx)
		}),
		Organize: with(func(p *Processor, ctx context.Context, _ []string) error {
			return p.Organize(ctx)
		}),
		Anki: with(func(p *Processor, ctx context.Context, _ []string) error {
			return p.ExportAnki(ctx)
		}),
		Inspect: with(func(p *Processor, _ context.Context, args []string) error {
			return p.Inspect(args)
		}),
		LexiconDump: with(func(p *Processor, _ context.Context, _ []string) error {
			return p.LexiconDump()
		}),
		LexiconValidate: func(ctx context.Context, args []string) error {
			// an explicit file is checked even when --lexicon is broken
			p := &Processor{flags: flags}
			if len(args) == 0 {
				var err error
				if p, err = NewProcessor(flags); err != nil {
					return err
				}
				return p.LexiconValidate("")
			}
			return p.LexiconValidate(args[0])
		},
	}
}
