package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aktivalab/aktiva/backend/internal/activity"
	"github.com/aktivalab/aktiva/backend/internal/tabular"
)

var (
	errMissingStore = errors.New("record store is required")
	noOpLogger      = zap.NewNop()
)

// PipelineError carries a dot-separated operation code alongside the cause.
type PipelineError struct {
	code string
	err  error
}

func (e *PipelineError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *PipelineError) Unwrap() error {
	return e.err
}

// Code returns the machine-readable failure code.
func (e *PipelineError) Code() string {
	return e.code
}

const (
	opPipelineNew = "importer.pipeline.new"
	opImport      = "importer.import"
)

func newPipelineError(operation, reason string, cause error) error {
	return &PipelineError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// PipelineConfig describes the dependencies of the import pipeline.
type PipelineConfig struct {
	Store  *activity.Store
	Clock  func() time.Time
	Logger *zap.Logger
}

// Pipeline drives row normalization over a whole source table and persists
// the accepted records as one transactional batch.
type Pipeline struct {
	store  *activity.Store
	clock  func() time.Time
	logger *zap.Logger
}

// NewPipeline constructs the import pipeline.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Store == nil {
		return nil, newPipelineError(opPipelineNew, "missing_store", errMissingStore)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Pipeline{store: cfg.Store, clock: clock, logger: logger}, nil
}

// Import normalizes every row of the table in its natural order, drops rows
// the date filter excludes, and inserts the rest in a single all-or-nothing
// transaction. It returns the number of rows actually inserted.
func (p *Pipeline) Import(ctx context.Context, table tabular.Table, filter DateFilter) (int, error) {
	batchID := uuid.NewString()
	rows := table.Rows()

	rowNormalizer := newNormalizer(table.Headers(), filter, p.clock)
	accepted := make([]activity.Record, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		record, ok := rowNormalizer.normalize(row)
		if !ok {
			skipped++
			continue
		}
		accepted = append(accepted, record)
	}

	inserted, err := p.store.InsertMany(ctx, accepted)
	if err != nil {
		p.logger.Error("import failed",
			zap.String("batch_id", batchID),
			zap.Int("accepted_rows", len(accepted)),
			zap.Error(err))
		return 0, newPipelineError(opImport, "insert_failed", err)
	}

	p.logger.Info("import completed",
		zap.String("batch_id", batchID),
		zap.Int("source_rows", len(rows)),
		zap.Int("inserted_rows", inserted),
		zap.Int("filtered_rows", skipped))
	return inserted, nil
}
