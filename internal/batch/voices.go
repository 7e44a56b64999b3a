package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/flashsort/internal/audio"
	"codeberg.org/snonux/flashsort/internal/corpus"
)

// DefaultTimeout bounds a single synthesis call
const DefaultTimeout = 5 * time.Minute

// Subdirectories of the voice directory, one per language
const (
	SourceDir = "en"
	TargetDir = "cn"
)

// VoiceJob is one synthesis call
type VoiceJob struct {
	Text   string
	Output string
	Lang   string
}

// JobFailure records why a job failed
type JobFailure struct {
	Job VoiceJob
	Err error
}

// RunStats summarises a voice batch
type RunStats struct {
	Succeeded int
	Failed    int
	Skipped   int
	Failures  []JobFailure
}

// Total returns the number of jobs seen
func (s RunStats) Total() int {
	return s.Succeeded + s.Failed + s.Skipped
}

// Jobs builds the synthesis jobs for a corpus. English audio goes to
// voiceDir/en, Chinese audio to voiceDir/cn. langs selects the sides; none
// means both. Records whose stems collide share one output file, so only the
// first of them gets a job.
func Jobs(c *corpus.Corpus, voiceDir string, langs ...string) []VoiceJob {
	wantSource, wantTarget := len(langs) == 0, len(langs) == 0
	for _, l := range langs {
		switch l {
		case audio.LangEnglish:
			wantSource = true
		case audio.LangChinese:
			wantTarget = true
		}
	}

	var jobs []VoiceJob
	seen := make(map[string]bool)
	add := func(job VoiceJob) {
		if seen[job.Output] {
			slog.Debug("voice output already queued", "output", job.Output, "text", job.Text)
			return
		}
		seen[job.Output] = true
		jobs = append(jobs, job)
	}
	c.Each(func(_ string, rec *corpus.ImageRecord) {
		if wantSource {
			add(VoiceJob{
				Text:   rec.Word.Source,
				Output: filepath.Join(voiceDir, SourceDir, rec.VoiceFilename.Source),
				Lang:   audio.LangEnglish,
			})
		}
		if wantTarget {
			add(VoiceJob{
				Text:   rec.Word.Target,
				Output: filepath.Join(voiceDir, TargetDir, rec.VoiceFilename.Target),
				Lang:   audio.LangChinese,
			})
		}
	})
	return jobs
}

// VoiceRunner runs voice jobs against one provider per language
type VoiceRunner struct {
	Source   audio.Provider
	Target   audio.Provider
	Timeout  time.Duration
	Workers  int
	Progress io.Writer
}

type jobResult int

const (
	jobSucceeded jobResult = iota
	jobFailed
	jobSkipped
)

// Run executes jobs. It never stops early on a failed job; a cancelled ctx
// marks the remaining jobs as failed.
func (r *VoiceRunner) Run(ctx context.Context, jobs []VoiceJob) RunStats {
	results := make([]jobResult, len(jobs))
	errs := make([]error, len(jobs))

	var bar *progressbar.ProgressBar
	if r.Progress != nil && len(jobs) > 0 {
		bar = progressbar.NewOptions(len(jobs),
			progressbar.OptionSetWriter(r.Progress),
			progressbar.OptionShowCount(),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Generating voices"),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(r.Progress)
			}),
		)
	}

	var g errgroup.Group
	g.SetLimit(max(r.Workers, 1))
	for i, job := range jobs {
		g.Go(func() error {
			results[i], errs[i] = r.runOne(ctx, job)
			if bar != nil {
				if err := bar.Add(1); err != nil {
					slog.Warn("Failed to update progress bar", "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var stats RunStats
	for i, res := range results {
		switch res {
		case jobSucceeded:
			stats.Succeeded++
		case jobSkipped:
			stats.Skipped++
		case jobFailed:
			stats.Failed++
			stats.Failures = append(stats.Failures, JobFailure{Job: jobs[i], Err: errs[i]})
		}
	}
	return stats
}

func (r *VoiceRunner) runOne(ctx context.Context, job VoiceJob) (jobResult, error) {
	if info, err := os.Stat(job.Output); err == nil && info.Size() > 0 {
		slog.Debug("voice exists, skipping", "output", job.Output)
		return jobSkipped, nil
	}
	if err := ctx.Err(); err != nil {
		return jobFailed, err
	}

	provider := r.Source
	if job.Lang == audio.LangChinese {
		provider = r.Target
	}
	if provider == nil {
		return jobFailed, fmt.Errorf("no voice provider for language %q", job.Lang)
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	jctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := provider.GenerateAudio(jctx, job.Text, job.Output); err != nil {
		slog.Warn("voice generation failed",
			"provider", provider.Name(), "text", job.Text, "output", job.Output, "error", err)
		// drop partial output so the next run retries instead of skipping
		_ = os.Remove(job.Output)
		return jobFailed, err
	}
	return jobSucceeded, nil
}
