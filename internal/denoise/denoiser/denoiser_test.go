package denoiser

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/lucastoro/denoiser/internal/denoise/artifact"
	"github.com/lucastoro/denoiser/internal/denoise/fetch"
	"github.com/lucastoro/denoiser/internal/denoise/pattern"
	"github.com/lucastoro/denoiser/internal/denoise/pool"
	"github.com/lucastoro/denoiser/pkg/logger"
	pkgerrors "github.com/lucastoro/denoiser/pkg/errors"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return "file://" + path
}

func newTestDenoiser(cfg ArtifactConfig) (*Denoiser, *pool.Pool) {
	p := pool.New(2)
	fetcher := fetch.NewWithClient(http.DefaultClient)
	return New(cfg, p, fetcher, logger.NewNop()), p
}

func collectLines(t *testing.T, d *Denoiser) []string {
	t.Helper()
	var out []string
	err := d.Run(func(l *artifact.Line) { out = append(out, string(l.Str())) })
	require.NoError(t, err)
	return out
}

// Scenario A: pure filter suppression with no references removes only the filtered lines.
func TestScenarioA_PureFilterSuppression(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.log", "INFO start\nDEBUG noisy\nINFO done")

	d, p := newTestDenoiser(ArtifactConfig{
		Alias:  "job",
		Target: target,
		Rules: Rules{
			Filters: []pattern.Pattern{pattern.NewLiteral("DEBUG")},
		},
	})
	defer p.Close()

	lines := collectLines(t, d)
	require.Equal(t, []string{"INFO start", "INFO done"}, lines)
}

// Scenario B: every target line that also appears in one reference is suppressed from output.
func TestScenarioB_DiffAgainstOneReference(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.log", "INFO start\nINFO common step\nINFO done")
	target := writeFile(t, dir, "target.log", "INFO start\nINFO new step\nINFO done")

	d, p := newTestDenoiser(ArtifactConfig{
		Alias:      "job",
		Target:     target,
		References: []string{ref},
	})
	defer p.Close()

	lines := collectLines(t, d)
	require.Equal(t, []string{"INFO new step"}, lines)
}

// Scenario C: a normalizer that erases a variable substring (a date) makes two lines that
// differ only by that substring collapse to the same hash and therefore be suppressed.
func TestScenarioC_NormalizationCollapsesDateDifferences(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.log", "run finished at 2024-01-01")
	target := writeFile(t, dir, "target.log", "run finished at 2024-06-15\nunrelated new line")

	d, p := newTestDenoiser(ArtifactConfig{
		Alias:      "job",
		Target:     target,
		References: []string{ref},
		Rules: Rules{
			Normalizers: []pattern.Pattern{pattern.MustRegex(`\d{4}-\d{2}-\d{2}`)},
		},
	})
	defer p.Close()

	lines := collectLines(t, d)
	require.Equal(t, []string{"unrelated new line"}, lines)
}

// Scenario D: normalizer ordering matters — removing the "secret-" prefix before stripping a
// leading digit run reaches a different result than the reverse order, because the second
// pattern only sees text already edited by the first.
func TestScenarioD_NormalizerOrderingMatters(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.log", "abc")
	target := writeFile(t, dir, "target.log", "secret-123abc")

	d, p := newTestDenoiser(ArtifactConfig{
		Alias:      "job",
		Target:     target,
		References: []string{ref},
		Rules: Rules{
			Normalizers: []pattern.Pattern{
				pattern.NewLiteral("secret-"),
				pattern.MustRegex(`^\d+`),
			},
		},
	})
	defer p.Close()

	lines := collectLines(t, d)
	require.Empty(t, lines, "secret- then ^\\d+, in that order, should reduce the target line to 'abc'")
}

// The reverse normalizer order reaches a different, non-matching result, proving order is
// semantically significant rather than incidental.
func TestScenarioD_ReverseNormalizerOrderDoesNotMatch(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.log", "abc")
	target := writeFile(t, dir, "target.log", "secret-123abc")

	d, p := newTestDenoiser(ArtifactConfig{
		Alias:      "job",
		Target:     target,
		References: []string{ref},
		Rules: Rules{
			Normalizers: []pattern.Pattern{
				pattern.MustRegex(`^\d+`),
				pattern.NewLiteral("secret-"),
			},
		},
	})
	defer p.Close()

	lines := collectLines(t, d)
	require.Equal(t, []string{"secret-123abc"}, lines, "^\\d+ finds nothing at the start of 'secret-123abc', so only the prefix is stripped, leaving '123abc' which the reference lacks; the original text is emitted")
}

// Scenario E: a literal normalizer removes every non-overlapping occurrence within a line,
// not just the first, before the line is compared against references.
func TestScenarioE_LiteralRemovalNonOverlappingMultiOccurrence(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.log", "abc")
	target := writeFile(t, dir, "target.log", "aXbXc")

	d, p := newTestDenoiser(ArtifactConfig{
		Alias:      "job",
		Target:     target,
		References: []string{ref},
		Rules: Rules{
			Normalizers: []pattern.Pattern{pattern.NewLiteral("X")},
		},
	})
	defer p.Close()

	lines := collectLines(t, d)
	require.Empty(t, lines)
}

// Scenario F: a missing reference aborts the run with a NotFound error rather than silently
// proceeding with a partially-filled bucket.
func TestScenarioF_MissingReferenceIsFatalNotFound(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.log", "line one")

	d, p := newTestDenoiser(ArtifactConfig{
		Alias:      "job",
		Target:     target,
		References: []string{"file:///does/not/exist.log"},
	})
	defer p.Close()

	var emitted []string
	err := d.Run(func(l *artifact.Line) { emitted = append(emitted, string(l.Str())) })

	require.Error(t, err)
	require.True(t, pkgerrors.Is(err, pkgerrors.KindNotFound))
	require.Empty(t, emitted)
}

func TestRunEmitsInTargetLineOrder(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "target.log", "first\nsecond\nthird")

	d, p := newTestDenoiser(ArtifactConfig{Alias: "job", Target: target})
	defer p.Close()

	lines := collectLines(t, d)
	require.Equal(t, []string{"first", "second", "third"}, lines)
}

func TestRunWithMultipleReferencesContributesToSameBucket(t *testing.T) {
	dir := t.TempDir()
	ref1 := writeFile(t, dir, "ref1.log", "alpha")
	ref2 := writeFile(t, dir, "ref2.log", "beta")
	target := writeFile(t, dir, "target.log", "alpha\nbeta\ngamma")

	d, p := newTestDenoiser(ArtifactConfig{
		Alias:      "job",
		Target:     target,
		References: []string{ref1, ref2},
	})
	defer p.Close()

	lines := collectLines(t, d)
	require.Equal(t, []string{"gamma"}, lines)
}

func TestRunTargetFailureIsReportedEvenWithReferences(t *testing.T) {
	dir := t.TempDir()
	ref := writeFile(t, dir, "ref.log", "alpha")

	d, p := newTestDenoiser(ArtifactConfig{
		Alias:      "job",
		Target:     "file:///does/not/exist-target.log",
		References: []string{ref},
	})
	defer p.Close()

	err := d.Run(func(*artifact.Line) {})
	require.Error(t, err)
}
