package organize

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/flashsort/internal/corpus"
	"codeberg.org/snonux/flashsort/internal/lexicon"
	"codeberg.org/snonux/flashsort/internal/testutil"
)

func buildCorpus(t *testing.T, files ...string) *corpus.Corpus {
	t.Helper()
	report, err := corpus.NewAssembler(lexicon.Default()).Assemble(context.Background(), files)
	require.NoError(t, err)
	return report.Corpus
}

func TestOrganize(t *testing.T) {
	src := testutil.CreateImageDirectory(t, "cat-edk7q2.png", "fire-truck.png", "xyz-gadget-99.png")
	out := filepath.Join(t.TempDir(), "organized")

	c := buildCorpus(t, "cat-edk7q2.png", "fire-truck.png", "xyz-gadget-99.png", "ghost.png")
	o := &Organizer{SourceDir: src, OutputDir: out}

	stats, err := o.Organize(context.Background(), c)
	require.NoError(t, err)

	assert.Equal(t, Stats{Copied: 3, Failed: 1}, stats)
	testutil.AssertFileExists(t, filepath.Join(out, "animals", "cat-edk7q2.png"))
	testutil.AssertFileExists(t, filepath.Join(out, "transportation", "fire-truck.png"))
	testutil.AssertFileExists(t, filepath.Join(out, "others", "xyz-gadget-99.png"))
	testutil.AssertFileNotExists(t, filepath.Join(out, "others", "ghost.png"))
}

func TestOrganizeCancelled(t *testing.T) {
	src := testutil.CreateImageDirectory(t, "cat.png")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := &Organizer{SourceDir: src, OutputDir: t.TempDir()}
	_, err := o.Organize(ctx, buildCorpus(t, "cat.png"))
	assert.ErrorIs(t, err, context.Canceled)
}
