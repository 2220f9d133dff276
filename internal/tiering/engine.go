package tiering

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/aktivalab/aktiva/backend/internal/activity"
)

// DefaultSeed fixes the clustering seed so repeated runs over an unchanged
// snapshot assign identical tiers.
const DefaultSeed int64 = 42

// Status reports what a relabel run found in the store.
type Status string

const (
	// StatusEmpty means the store holds no records at all.
	StatusEmpty Status = "empty"
	// StatusOnlyPending means every record lacks a measurable duration.
	StatusOnlyPending Status = "only_pending"
	// StatusOK means active records were clustered and tiers persisted.
	StatusOK Status = "ok"
)

// Result summarizes a relabel run.
type Result struct {
	Status      Status
	ActiveCount int
}

var (
	errMissingStore = errors.New("record store is required")
	noOpLogger      = zap.NewNop()
)

// EngineError carries a dot-separated operation code alongside the cause.
type EngineError struct {
	code string
	err  error
}

func (e *EngineError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *EngineError) Unwrap() error {
	return e.err
}

// Code returns the machine-readable failure code.
func (e *EngineError) Code() string {
	return e.code
}

const (
	opEngineNew = "tiering.engine.new"
	opRelabel   = "tiering.relabel"
)

func newEngineError(operation, reason string, cause error) error {
	return &EngineError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// EngineConfig describes the dependencies of the labeling engine.
type EngineConfig struct {
	Store  *activity.Store
	Seed   int64
	Logger *zap.Logger
}

// Engine assigns performance tiers: pending records get tier 3 outright,
// active records are standardized, clustered on duration, and mapped to
// tier 1 (faster group) or tier 2 (slower group) by group mean.
type Engine struct {
	store  *activity.Store
	seed   int64
	logger *zap.Logger
}

// NewEngine constructs the labeling engine. A zero seed selects DefaultSeed.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if cfg.Store == nil {
		return nil, newEngineError(opEngineNew, "missing_store", errMissingStore)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = DefaultSeed
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Engine{store: cfg.Store, seed: seed, logger: logger}, nil
}

// Relabel recomputes the tier of every stored record. Pending tiers are
// persisted before clustering and unconditionally, so a manual tier edit on
// a zero-duration record does not survive a relabel.
func (e *Engine) Relabel(ctx context.Context) (Result, error) {
	started := time.Now()

	records, err := e.store.List(ctx)
	if err != nil {
		return Result{}, newEngineError(opRelabel, "load_failed", err)
	}
	if len(records) == 0 {
		e.logger.Info("relabel found no records")
		return Result{Status: StatusEmpty}, nil
	}

	if _, err := e.store.MarkPending(ctx); err != nil {
		return Result{}, newEngineError(opRelabel, "mark_pending_failed", err)
	}

	active := make([]activity.Record, 0, len(records))
	for _, record := range records {
		if record.DurationMinutes > 0 {
			active = append(active, record)
		}
	}
	if len(active) == 0 {
		e.logger.Info("relabel found only pending records", zap.Int("record_count", len(records)))
		return Result{Status: StatusOnlyPending}, nil
	}

	// List returns ascending id order; keep it explicit since determinism
	// of the grouping depends on a stable scan order.
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	durations := make([]float64, len(active))
	for i, record := range active {
		durations[i] = float64(record.DurationMinutes)
	}

	groupCount := 1
	if len(active) >= 2 {
		groupCount = 2
	}
	groups := cluster(standardize(durations), groupCount, e.seed)

	tierByGroup := rankGroupsByMeanDuration(groups, durations)
	assignments := make(map[uint]int, len(active))
	for i, record := range active {
		assignments[record.ID] = tierByGroup[groups[i]]
	}
	if err := e.store.ApplyTiers(ctx, assignments); err != nil {
		return Result{}, newEngineError(opRelabel, "apply_tiers_failed", err)
	}

	e.logger.Info("relabel completed",
		zap.Int("record_count", len(records)),
		zap.Int("active_count", len(active)),
		zap.Int("group_count", groupCount),
		zap.Duration("elapsed", time.Since(started)))
	return Result{Status: StatusOK, ActiveCount: len(active)}, nil
}

// rankGroupsByMeanDuration orders the non-empty groups by mean raw duration
// ascending and maps the lowest-mean group to the fast tier and the
// highest-mean group to the slow tier. A single group maps to the fast tier.
func rankGroupsByMeanDuration(groups []int, durations []float64) map[int]int {
	sums := map[int]float64{}
	counts := map[int]int{}
	for i, group := range groups {
		sums[group] += durations[i]
		counts[group]++
	}

	present := make([]int, 0, len(counts))
	for group := range counts {
		present = append(present, group)
	}
	sort.Slice(present, func(i, j int) bool {
		meanI := sums[present[i]] / float64(counts[present[i]])
		meanJ := sums[present[j]] / float64(counts[present[j]])
		if meanI == meanJ {
			return present[i] < present[j]
		}
		return meanI < meanJ
	})

	tierByGroup := make(map[int]int, len(present))
	for _, group := range present {
		tierByGroup[group] = activity.TierFast
	}
	if len(present) > 1 {
		tierByGroup[present[len(present)-1]] = activity.TierSlow
	}
	return tierByGroup
}
