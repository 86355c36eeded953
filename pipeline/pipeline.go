// Package pipeline orchestrates a full assessment run: Extractor, Reader,
// Indexer, the three matching stages, Snapshot, and ReportWriter, in that
// order.
//
// The Controller is an FSM in the same shape as
// internal/indexer/controller.Controller: a map from state to a stateFunc
// that returns the next state, driven by a run loop that stops on the
// terminal state or the first error.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"github.com/quay/zlog"
	"golang.org/x/sync/errgroup"

	"github.com/quay/licenseassess"
	"github.com/quay/licenseassess/config"
	"github.com/quay/licenseassess/extract"
	"github.com/quay/licenseassess/ingest"
	"github.com/quay/licenseassess/license/arbiter"
	"github.com/quay/licenseassess/license/exact"
	"github.com/quay/licenseassess/license/fuzzy"
	"github.com/quay/licenseassess/license/keyword"
	"github.com/quay/licenseassess/report"
	"github.com/quay/licenseassess/snapshot"
	"github.com/quay/licenseassess/tokenindex"
)

// State is one step of the Controller's run loop.
type State int

// Defined states. Terminal is zero-valued, matching the convention that an
// unset/finished Controller has no further work.
const (
	Terminal State = iota
	StateExtract
	StateRead
	StateIndex
	StateMatch
	StateSnapshot
	StateReport
	StateError
)

type stateFunc func(context.Context, *Controller) (State, error)

var stateToStateFunc = map[State]stateFunc{
	StateExtract:  observeStage("extract", stageExtract),
	StateRead:     observeStage("read", stageRead),
	StateIndex:    observeStage("index", stageIndex),
	StateMatch:    observeStage("match", stageMatch),
	StateSnapshot: observeStage("snapshot", stageSnapshot),
	StateReport:   observeStage("report", stageReport),
}

// Corpora bundles every pre-loaded corpus/pattern set a run needs. Loading
// these is the caller's responsibility (see cmd/assess) since it's pure I/O
// independent of any one run.
type Corpora struct {
	Exact   []exact.CorpusEntry
	Fuzzy   []assess.PatternIndex
	Keyword keyword.Corpus
}

// Result is everything a completed run produced.
type Result struct {
	RunID           uuid.UUID
	Registry        *assess.Registry
	PriorSnapshot   []snapshot.Record
	CurrentSnapshot []snapshot.Record
	NewOrChanged    []snapshot.Record
	Removed         []snapshot.Record
}

// Controller drives one assessment run end to end.
type Controller struct {
	runID   uuid.UUID
	cfg     *config.Config
	corpora *Corpora

	state State
	err   error

	extractedRoot string
	reg           *assess.Registry
	tokenIndex    map[string]assess.TokenIndex
	result        Result
}

// New constructs a Controller for one run against cfg, using corpora for
// matching. Each Controller is stamped with a fresh RunID, so two runs
// against the same snapshot/report paths can still be told apart in logs.
func New(cfg *config.Config, corpora *Corpora) *Controller {
	return &Controller{
		runID:   uuid.New(),
		cfg:     cfg,
		corpora: corpora,
		state:   StateExtract,
		reg:     assess.NewRegistry(),
	}
}

// RunID returns the Controller's run identifier.
func (c *Controller) RunID() uuid.UUID { return c.runID }

// Run drives the Controller through every state until Terminal or an error.
func (c *Controller) Run(ctx context.Context) (Result, error) {
	ctx = zlog.ContextWithValues(ctx, "run_id", c.runID.String())
	c.result.RunID = c.runID
	for c.state != Terminal {
		fn, ok := stateToStateFunc[c.state]
		if !ok {
			return c.result, &assess.Error{Op: "pipeline.Run", Kind: assess.ErrInvariant, Message: "unknown state"}
		}
		next, err := fn(ctx, c)
		if err != nil {
			c.err = err
			return c.result, err
		}
		c.state = next
	}
	return c.result, nil
}

func stageExtract(ctx context.Context, c *Controller) (State, error) {
	source := c.cfg.JoinSource(c.cfg.SourceProjectName)
	dest := c.cfg.JoinDest(c.cfg.SourceProjectName)
	if err := extract.Extract(ctx, source, dest); err != nil {
		return StateError, err
	}
	c.extractedRoot = dest
	return StateRead, nil
}

func stageRead(ctx context.Context, c *Controller) (State, error) {
	algo := c.cfg.FileHashAlgorithm
	if algo == "" {
		algo = config.DefaultFileHashAlgorithm
	}
	if err := ingest.Read(ctx, c.extractedRoot, c.cfg, algo, c.reg); err != nil {
		return StateError, err
	}
	return StateIndex, nil
}

func stageIndex(ctx context.Context, c *Controller) (State, error) {
	idx, err := tokenindex.IndexRegistry(ctx, c.reg)
	if err != nil {
		return StateError, err
	}
	c.tokenIndex = idx
	filesIndexedCounter.Add(float64(len(idx)))
	return StateMatch, nil
}

// matchConcurrency mirrors the Reader/Indexer worker-pool bound: min(32,
// 2*NumCPU).
func matchConcurrency() int {
	n := 2 * runtime.NumCPU()
	if n > 32 {
		n = 32
	}
	if n < 1 {
		n = 1
	}
	return n
}

func stageMatch(ctx context.Context, c *Controller) (State, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(matchConcurrency())

	for _, rec := range c.reg.All() {
		rec := rec
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			matchRecord(rec, c.tokenIndex[rec.RelativePath], c.corpora)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return StateError, &assess.Error{Op: "pipeline.stageMatch", Kind: assess.ErrInvariant, Inner: err}
	}
	return StateSnapshot, nil
}

// matchRecord runs the ExactMatcher, then FuzzyMatcher+MatchArbiter, then
// KeywordScanner against rec, in that fixed per-record order.
func matchRecord(rec *assess.FileRecord, idx assess.TokenIndex, corpora *Corpora) {
	exact.Match(rec, corpora.Exact)

	candidates := fuzzy.MatchFile(idx, corpora.Fuzzy)
	for _, mr := range candidates {
		if mr.MatchPercent > fuzzy.MatchThreshold {
			rec.FuzzyLicenseCandidates = append(rec.FuzzyLicenseCandidates, mr)
		}
	}
	arbiter.Arbitrate(rec)

	rec.KeywordMatches = keyword.Scan(idx, corpora.Keyword)

	if rec.LicenseMatchStrength == "" {
		switch {
		case rec.HasBestFuzzyMatch():
			rec.LicenseMatchStrength = assess.StrengthFuzzy
		default:
			rec.LicenseMatchStrength = assess.StrengthNone
		}
	}
	matchesFoundCounter.WithLabelValues(string(rec.LicenseMatchStrength)).Inc()
}

func stageSnapshot(ctx context.Context, c *Controller) (State, error) {
	prior, err := snapshot.Load(c.cfg.SnapshotPath())
	if err != nil {
		return StateError, err
	}
	current := snapshot.FromRegistry(c.reg)
	newOrChanged, removed := snapshot.Diff(prior, current)

	if err := os.MkdirAll(filepath.Dir(c.cfg.SnapshotPath()), 0o777); err != nil {
		return StateError, &assess.Error{Op: "pipeline.stageSnapshot", Kind: assess.ErrIO, Inner: err}
	}
	if err := snapshot.Save(c.cfg.SnapshotPath(), current); err != nil {
		return StateError, err
	}

	c.result.Registry = c.reg
	c.result.PriorSnapshot = prior
	c.result.CurrentSnapshot = current
	c.result.NewOrChanged = newOrChanged
	c.result.Removed = removed
	return StateReport, nil
}

func stageReport(ctx context.Context, c *Controller) (State, error) {
	if err := os.MkdirAll(filepath.Dir(c.cfg.ReportPath()), 0o777); err != nil {
		return StateError, &assess.Error{Op: "pipeline.stageReport", Kind: assess.ErrIO, Inner: err}
	}
	if err := report.WriteFile(c.cfg.ReportPath(), c.reg); err != nil {
		return StateError, err
	}
	return Terminal, nil
}
