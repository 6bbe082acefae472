package runner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yaklabco/xml1/internal/logging"
	"github.com/yaklabco/xml1/pkg/embedded"
	"github.com/yaklabco/xml1/pkg/fsutil"
	"github.com/yaklabco/xml1/pkg/langdetect"
	"github.com/yaklabco/xml1/pkg/markup"
	"github.com/yaklabco/xml1/pkg/scan"
)

// sniffLimit is how much of a document is handed to format detection.
const sniffLimit = 1024

// Runner scans files with a worker pool.
type Runner struct {
	extractor *embedded.Extractor
}

// New creates a Runner.
func New() *Runner {
	return &Runner{extractor: embedded.NewExtractor()}
}

// Run discovers files under opts.Paths and scans them concurrently.
// The outcome order is deterministic (by path) regardless of scheduling.
// Files whose content hashes equal an earlier file's are scanned once unless
// opts.KeepDuplicates is set.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Engine: opts.Engine,
		Files:  make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(files))

	logger.Debug("scanning",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs,
		logging.FieldEngine, opts.Engine,
	)

	claims := &claimSet{owners: make(map[uint64]string)}
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts, claims)
		}()
	}

	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make(map[string]FileOutcome, len(files))
	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	resolveDuplicates(files, outcomes, !opts.KeepDuplicates, result)
	result.Stats.Elapsed = time.Since(started)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	logger.Debug("scan complete",
		logging.FieldFilesScanned, result.Stats.FilesScanned,
		logging.FieldFilesDuplicate, result.Stats.FilesDuplicate,
		logging.FieldFilesFailed, result.Stats.FilesFailed,
		logging.FieldEvents, result.Stats.Scan.Events(),
	)

	return result, nil
}

// claimSet records which file first claimed a content hash.
type claimSet struct {
	mu     sync.Mutex
	owners map[uint64]string
}

// claim returns "" when path now owns hash, or the owner's path otherwise.
func (c *claimSet) claim(hash uint64, path string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if owner, ok := c.owners[hash]; ok {
		return owner
	}
	c.owners[hash] = path
	return ""
}

// worker processes files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	opts Options,
	claims *claimSet,
) {
	for path := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := r.processFile(ctx, path, opts, claims)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}

func (r *Runner) processFile(ctx context.Context, path string, opts Options, claims *claimSet) FileOutcome {
	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return FileOutcome{Path: path, Error: err}
	}

	if !opts.KeepDuplicates {
		if owner := claims.claim(info.Hash, path); owner != "" {
			return FileOutcome{Path: path, Hash: info.Hash, DuplicateOf: owner}
		}
	}

	return r.ScanDocument(ctx, path, string(content), opts)
}

// resolveDuplicates appends outcomes to result in path order. The first path
// of each content hash becomes the primary copy whichever worker scanned it;
// later paths adopt its findings and are marked as duplicates.
func resolveDuplicates(files []string, outcomes map[string]FileOutcome, dedupe bool, result *Result) {
	scanned := make(map[uint64]FileOutcome)
	if dedupe {
		for _, o := range outcomes {
			if o.Error == nil && o.DuplicateOf == "" {
				scanned[o.Hash] = o
			}
		}
	}

	primary := make(map[uint64]string)
	for _, path := range files {
		o, ok := outcomes[path]
		if !ok {
			continue
		}

		if dedupe && o.Error == nil {
			src, haveScan := scanned[o.Hash]
			owner, seen := primary[o.Hash]
			switch {
			case !seen:
				primary[o.Hash] = path
				if o.DuplicateOf != "" && haveScan {
					o = adopt(path, "", src)
				}
			case haveScan:
				o = adopt(path, owner, src)
			default:
				o.DuplicateOf = owner
			}
		}

		result.accumulate(o)
	}
}

// adopt copies the findings of src to path.
func adopt(path, duplicateOf string, src FileOutcome) FileOutcome {
	src.Path = path
	src.DuplicateOf = duplicateOf
	return src
}

// ScanDocument scans one document already in memory. path is used for format
// detection and reporting only.
func (r *Runner) ScanDocument(ctx context.Context, path, doc string, opts Options) FileOutcome {
	head := doc[:min(len(doc), sniffLimit)]
	outcome := FileOutcome{
		Path:   path,
		Format: langdetect.Classify(path, []byte(head)),
		Hash:   fsutil.HashString(doc),
	}

	var scanErr error
	if outcome.Format.Embedded() {
		frags, err := r.extractor.Extract(ctx, doc)
		if err != nil {
			outcome.Error = err
			return outcome
		}
		outcome.Fragments = len(frags)
		for _, frag := range frags {
			scanErr = outcome.Stats.Consume(scan.New(opts.Engine, frag.Source, opts.Markup), frag.Offset)
			if scanErr != nil {
				scanErr = shift(scanErr, frag.Offset)
				break
			}
		}
	} else {
		scanErr = outcome.Stats.Consume(scan.New(opts.Engine, doc, opts.Markup), 0)
	}

	var syntaxErr *markup.SyntaxError
	switch {
	case errors.As(scanErr, &syntaxErr):
		outcome.Syntax = syntaxErr
		outcome.Position = markup.Locate(doc, syntaxErr.Offset)
	case scanErr != nil:
		outcome.Error = scanErr
	case opts.Balance && checksBalance(outcome.Format):
		var balanceErr *scan.BalanceError
		if errors.As(outcome.Stats.Balance(), &balanceErr) {
			outcome.Balance = balanceErr
			if balanceErr.Underflow {
				outcome.Position = markup.Locate(doc, balanceErr.Offset)
			}
		}
	}

	logging.FromContext(ctx).Debug("scanned",
		logging.FieldPath, path,
		logging.FieldFormat, outcome.Format,
		logging.FieldFragments, outcome.Fragments,
		logging.FieldEvents, outcome.Stats.Events(),
	)

	return outcome
}

// shift moves a fragment-relative syntax error into document coordinates.
func shift(err error, base int) error {
	var syntaxErr *markup.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return err
	}
	return markup.NewSyntaxError(syntaxErr.Offset+base, syntaxErr.Char, syntaxErr.Err)
}

// checksBalance reports whether element balance is meaningful for a format.
// HTML has void elements (<br>, <img>) that never close, and Markdown
// fragments are usually partial documents.
func checksBalance(format langdetect.Format) bool {
	return format != langdetect.FormatHTML && !format.Embedded()
}
