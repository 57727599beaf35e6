package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/WorkOfStan/web-pages-to-pdf/internal/progress"
)

// Pipeline drives the per-link capture sequence: idempotent skip, optional
// accessibility probe, primary render, archive fallback, and an optional
// final direct retry. One pipeline, parametrized; there are no variant code
// paths.
type Pipeline struct {
	cfg      Config
	prober   Prober
	renderer Renderer
	archive  SnapshotResolver
	clock    Clock
	emitter  progress.Emitter
	logger   *zap.Logger
	runID    [16]byte
}

// NewPipeline constructs a Pipeline. The prober may be nil when probing is
// disabled; the emitter may be nil when no progress sinks are wired.
func NewPipeline(
	cfg Config,
	prober Prober,
	renderer Renderer,
	archive SnapshotResolver,
	clock Clock,
	emitter progress.Emitter,
	runID [16]byte,
	logger *zap.Logger,
) *Pipeline {
	if emitter == nil {
		emitter = progress.NopEmitter{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		cfg:      cfg,
		prober:   prober,
		renderer: renderer,
		archive:  archive,
		clock:    clock,
		emitter:  emitter,
		logger:   logger,
		runID:    runID,
	}
}

// Run processes every record in input order and returns aggregate counters.
// A task's failure never aborts the remaining sequence; the returned error is
// non-nil only for run-fatal conditions (context cancellation, unusable
// output tree).
func (p *Pipeline) Run(ctx context.Context, records []LinkRecord) (Counters, error) {
	tasks := BuildTasks(p.cfg.OutputDir, records)
	started := p.clock.Now()
	p.emitter.Emit(progress.Event{
		RunID: p.runID,
		TS:    started,
		Stage: progress.StageRunStart,
		Total: len(tasks),
	})

	var counters Counters
	var runErr error
	if p.cfg.Concurrency > 1 {
		counters, runErr = p.runPool(ctx, tasks)
	} else {
		counters, runErr = p.runSequential(ctx, tasks)
	}

	p.emitter.Emit(progress.Event{
		RunID: p.runID,
		TS:    p.clock.Now(),
		Stage: progress.StageRunDone,
		Dur:   p.clock.Now().Sub(started),
		Note:  fmt.Sprintf("rendered=%d skipped=%d failed=%d", counters.Rendered, counters.Skipped, counters.Failed),
	})
	return counters, runErr
}

func (p *Pipeline) runSequential(ctx context.Context, tasks []Task) (Counters, error) {
	var counters Counters
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			return counters, fmt.Errorf("capture run interrupted: %w", err)
		}
		outcome, err := p.processTask(ctx, task, len(tasks))
		if err != nil {
			return counters, err
		}
		counters.add(outcome)
	}
	return counters, nil
}

// runPool runs tasks on a bounded pool. Each task's internal step ordering
// stays sequential; paths embed the 1-based index so concurrent tasks never
// contend on the same output file.
func (p *Pipeline) runPool(ctx context.Context, tasks []Task) (Counters, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		counters Counters
		firstErr error
	)
	sem := make(chan struct{}, p.cfg.Concurrency)
	for _, task := range tasks {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			// A worker's run-fatal error cancels the pool; report that
			// cause, not the cancellation it triggered.
			mu.Lock()
			err := firstErr
			mu.Unlock()
			if err != nil {
				return counters, err
			}
			return counters, fmt.Errorf("capture run interrupted: %w", ctx.Err())
		}
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			defer func() { <-sem }()
			outcome, err := p.processTask(ctx, task, len(tasks))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				cancel()
				return
			}
			counters.add(outcome)
		}(task)
	}
	wg.Wait()
	return counters, firstErr
}

// processTask walks one task through its terminal state. The returned error
// is reserved for run-fatal filesystem problems; every render, probe, and
// archive failure is absorbed into the Outcome.
func (p *Pipeline) processTask(ctx context.Context, task Task, total int) (Outcome, error) {
	log := p.logger.With(
		zap.Int("index", task.Index),
		zap.String("url", task.Record.URL),
	)
	log.Info("processing link", zap.String("position", fmt.Sprintf("%d/%d", task.Index, total)))

	p.emitter.Emit(progress.Event{
		RunID: p.runID,
		TS:    p.clock.Now(),
		Stage: progress.StageCaptureStart,
		Index: task.Index,
		URL:   task.Record.URL,
	})
	started := p.clock.Now()

	outcome, err := p.capture(ctx, task, log)
	if err != nil {
		return Outcome{}, err
	}

	p.emitter.Emit(progress.Event{
		RunID:   p.runID,
		TS:      p.clock.Now(),
		Stage:   progress.StageCaptureDone,
		Index:   task.Index,
		URL:     task.Record.URL,
		Outcome: string(outcome.Kind),
		Source:  string(outcome.Source),
		Reason:  outcome.Reason,
		Dur:     p.clock.Now().Sub(started),
	})
	return outcome, nil
}

func (p *Pipeline) capture(ctx context.Context, task Task, log *zap.Logger) (Outcome, error) {
	// Idempotence check happens before any render attempt; it is the only
	// place the pipeline infers anything from file existence.
	if _, err := os.Stat(task.OutputPath); err == nil {
		log.Info("skipping existing PDF", zap.String("path", task.OutputPath))
		return Outcome{Kind: OutcomeSkipped}, nil
	}

	if err := os.MkdirAll(filepath.Dir(task.OutputPath), 0o750); err != nil {
		return Outcome{}, fmt.Errorf("create output dir for %s: %w", task.OutputPath, err)
	}

	if p.primaryAttempt(ctx, task, log) {
		log.Info("saved PDF from live page", zap.String("path", task.OutputPath))
		return Outcome{Kind: OutcomeRendered, Source: SourceLive}, nil
	}
	return p.fallback(ctx, task, log), nil
}

// primaryAttempt renders the original, live URL. When probing is enabled an
// inaccessible URL counts as an immediate primary failure, saving a render.
func (p *Pipeline) primaryAttempt(ctx context.Context, task Task, log *zap.Logger) bool {
	if p.cfg.EnableProbe && p.prober != nil && !p.prober.Accessible(ctx, task.Record.URL) {
		log.Info("url not accessible, skipping primary render")
		return false
	}
	if err := p.renderer.RenderPDF(ctx, task.Record.URL, task.OutputPath); err != nil {
		log.Info("primary render failed", zap.Error(err))
		return false
	}
	return true
}

// fallback implements the archive lookup and the optional final direct retry.
// Archived copies are strictly preferred over a second live attempt: a page
// that failed once live is likely to fail identically again.
func (p *Pipeline) fallback(ctx context.Context, task Task, log *zap.Logger) Outcome {
	rawURL := task.Record.URL
	snapshot, ok := p.archive.Resolve(ctx, rawURL)
	if ok {
		log.Info("found archive snapshot", zap.String("snapshot", snapshot))
		if err := p.renderer.RenderPDF(ctx, snapshot, task.OutputPath); err != nil {
			log.Warn("failed rendering archive snapshot",
				zap.String("snapshot", snapshot), zap.Error(err))
			return Outcome{Kind: OutcomeFailed, Reason: ReasonArchiveRenderFailed}
		}
		log.Info("saved PDF from archive snapshot", zap.String("path", task.OutputPath))
		return Outcome{Kind: OutcomeRendered, Source: SourceArchive}
	}

	log.Info("no archive snapshot found")
	if !p.cfg.EnableFinalRetry {
		log.Warn("no archive snapshot and retries disabled")
		return Outcome{Kind: OutcomeFailed, Reason: ReasonNoSnapshotFound}
	}

	if err := p.renderer.RenderPDF(ctx, rawURL, task.OutputPath); err != nil {
		log.Warn("failed final direct retry", zap.Error(err))
		return Outcome{Kind: OutcomeFailed, Reason: ReasonNoSnapshotAndRetryFailed}
	}
	// The earlier failure was spurious; flag the output for review.
	log.Warn("final direct retry succeeded after earlier failure, double-check output",
		zap.String("path", task.OutputPath))
	return Outcome{Kind: OutcomeRendered, Source: SourceLive}
}
