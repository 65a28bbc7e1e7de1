// Package denoiser orchestrates the fetch-normalize-hash-diff pipeline for a single artifact
// config (spec.md §4.7), grounded on original_source/src/denoiser.hpp's process/prepare/
// fill_bucket decomposition. One Denoiser is bound to one config, the canonical single-config
// form the spec calls out; multiple configs are driven sequentially by the CLI layer.
package denoiser

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/lucastoro/denoiser/internal/denoise/artifact"
	"github.com/lucastoro/denoiser/internal/denoise/bucket"
	"github.com/lucastoro/denoiser/internal/denoise/fetch"
	"github.com/lucastoro/denoiser/internal/denoise/pattern"
	"github.com/lucastoro/denoiser/internal/denoise/pool"
	"github.com/lucastoro/denoiser/pkg/logger"
)

// batchSize amortizes worker-pool scheduling overhead across filter/normalize passes, per
// spec.md §4.7's "guideline: 1000 lines".
const batchSize = 1000

// Rules is the ordered pair of filter and normalizer patterns spec.md §3 describes. Order
// within each list is semantically significant.
type Rules struct {
	Filters     []pattern.Pattern
	Normalizers []pattern.Pattern
}

// ArtifactConfig is the fully-resolved, pre-validated configuration for one artifact.
type ArtifactConfig struct {
	Alias      string
	Target     string
	References []string
	Rules      Rules
}

// Denoiser runs the pipeline for exactly one ArtifactConfig.
type Denoiser struct {
	cfg     ArtifactConfig
	pool    *pool.Pool
	fetcher *fetch.Fetcher
	sink    logger.Sink
	bucket  *bucket.Bucket
}

// New constructs a Denoiser for cfg, sharing pool with every other Denoiser the CLI layer runs
// (one after another) and using fetcher to resolve URIs. sink may be logger.NewNop() if the caller
// does not want pipeline events reported.
func New(cfg ArtifactConfig, p *pool.Pool, fetcher *fetch.Fetcher, sink logger.Sink) *Denoiser {
	return &Denoiser{
		cfg:     cfg,
		pool:    p,
		fetcher: fetcher,
		sink:    sink,
		bucket:  bucket.New(0),
	}
}

// Run executes the four-step algorithm of spec.md §4.7: fan out one worker-pool job per
// reference to fill the bucket, prepare the target on the calling goroutine, wait for every
// reference job (even if the target itself failed — mirroring the original's std::future
// destructor-blocking semantics), then emit every target line whose hash is absent from the
// bucket, in target-line order, via emit. Target lines whose edited extent is empty (suppressed
// by a filter or emptied by normalizers) are never emitted.
func (d *Denoiser) Run(emit func(*artifact.Line)) error {
	ids := make([]pool.ID, 0, len(d.cfg.References))
	var refErrsMu sync.Mutex
	var refErrs *multierror.Error

	for i, uri := range d.cfg.References {
		i, uri := i, uri
		ids = append(ids, d.pool.Submit(func() {
			alias := fmt.Sprintf("%s #%d", d.cfg.Alias, i+1)
			if err := d.fillBucket(uri, alias); err != nil {
				refErrsMu.Lock()
				refErrs = multierror.Append(refErrs, fmt.Errorf("reference %s: %w", alias, err))
				refErrsMu.Unlock()
			}
		}))
	}

	targetFile, targetErr := d.prepare(d.cfg.Target, d.cfg.Alias)

	d.pool.WaitAll(ids)

	if refErrs != nil {
		return refErrs.ErrorOrNil()
	}
	if targetErr != nil {
		return targetErr
	}

	for _, line := range targetFile.Lines() {
		if line.Suppressed() {
			continue
		}
		if !d.bucket.Contains(line.Hash()) {
			emit(line)
		}
	}

	return nil
}

// fillBucket prepares a reference artifact and inserts every one of its line hashes into the
// shared bucket under a single critical section.
func (d *Denoiser) fillBucket(uri, alias string) error {
	file, err := d.prepare(uri, alias)
	if err != nil {
		return err
	}

	hashes := make([]uint64, file.Size())
	for i, line := range file.Lines() {
		hashes[i] = line.Hash()
	}
	d.bucket.InsertAll(hashes)

	return nil
}

// prepare fetches uri, then applies filter, normalize, and hash-warming passes in that order,
// as spec.md §4.7 requires.
func (d *Denoiser) prepare(uri, alias string) (*artifact.File, error) {
	file, err := d.fetcher.Fetch(uri, alias)
	if err != nil {
		return nil, err
	}

	d.filter(file)
	d.normalize(file)
	d.computeHashes(file)

	return file, nil
}

// filter applies every filter pattern, in configuration order, to every line, via the worker
// pool's batched ForEach. Filters run before normalizers: a line suppressed by a filter is
// never meaningfully hashed again (it hashes the empty sequence).
func (d *Denoiser) filter(file *artifact.File) {
	lines := file.Lines()
	d.pool.ForEach(len(lines), batchSize, func(i int) {
		for _, p := range d.cfg.Rules.Filters {
			lines[i].Suppress(p)
		}
	})
}

// normalize applies every normalizer pattern, in configuration order, to every line. Order
// matters: a later pattern observes text already edited by earlier ones.
func (d *Denoiser) normalize(file *artifact.File) {
	lines := file.Lines()
	d.pool.ForEach(len(lines), batchSize, func(i int) {
		for _, p := range d.cfg.Rules.Normalizers {
			lines[i].Remove(p)
		}
	})
}

// computeHashes walks the file sequentially, warming each line's lazily-cached hash ahead of
// the bucket insert / diff step.
func (d *Denoiser) computeHashes(file *artifact.File) {
	for _, line := range file.Lines() {
		line.Hash()
	}
}
