package activity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrRecordNotFound indicates the requested record id is not persisted.
	ErrRecordNotFound = errors.New("activity: record not found")

	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

// StoreError carries a dot-separated operation code alongside the cause.
type StoreError struct {
	code string
	err  error
}

func (e *StoreError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *StoreError) Unwrap() error {
	return e.err
}

// Code returns the machine-readable failure code.
func (e *StoreError) Code() string {
	return e.code
}

const (
	opStoreNew     = "activity.store.new"
	opInsertMany   = "activity.insert_many"
	opApplyTiers   = "activity.apply_tiers"
	opMarkPending  = "activity.mark_pending"
	opCreate       = "activity.create"
	opUpdate       = "activity.update"
	opDelete       = "activity.delete"
	opGet          = "activity.get"
	opList         = "activity.list"
	opListFiltered = "activity.list_filtered"
)

func newStoreError(operation, reason string, cause error) error {
	return &StoreError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// StoreConfig describes the dependencies required by the record store.
type StoreConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Store owns persisted activity records. Multi-row writes run inside a
// single transaction; partial imports or relabels never remain visible.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore constructs the record store.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Database == nil {
		return nil, newStoreError(opStoreNew, "missing_database", errMissingDatabase)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Store{db: cfg.Database, logger: logger}, nil
}

// InsertMany persists records as one all-or-nothing unit and returns the
// number of rows written.
func (s *Store) InsertMany(ctx context.Context, records []Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.logError(opInsertMany, "insert_failed", txErr, zap.Int("record_count", len(records)))
		return 0, newStoreError(opInsertMany, "insert_failed", txErr)
	}
	return len(records), nil
}

// ApplyTiers writes tier assignments keyed by record id in one transaction.
// Ids are applied in ascending order so repeated runs touch rows identically.
func (s *Store) ApplyTiers(ctx context.Context, tiers map[uint]int) error {
	if len(tiers) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(tiers))
	for id := range tiers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := tx.Model(&Record{}).Where("id = ?", id).Update("tier", tiers[id]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		s.logError(opApplyTiers, "update_failed", txErr, zap.Int("record_count", len(tiers)))
		return newStoreError(opApplyTiers, "update_failed", txErr)
	}
	return nil
}

// MarkPending sets the pending tier on every record without a measurable
// duration and returns the number of rows touched.
func (s *Store) MarkPending(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("duration_minutes = ?", 0).
		Update("tier", TierPending)
	if result.Error != nil {
		s.logError(opMarkPending, "update_failed", result.Error)
		return 0, newStoreError(opMarkPending, "update_failed", result.Error)
	}
	return result.RowsAffected, nil
}

// Create persists a single record and backfills its assigned id.
func (s *Store) Create(ctx context.Context, record *Record) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		s.logError(opCreate, "insert_failed", err)
		return newStoreError(opCreate, "insert_failed", err)
	}
	return nil
}

// Update overwrites the mutable fields of the record with the given id.
// The scheduled-at timestamp is settable here; bulk import never fills it.
func (s *Store) Update(ctx context.Context, id uint, record Record) error {
	record.ID = id
	result := s.db.WithContext(ctx).
		Model(&Record{}).
		Where("id = ?", id).
		Select("activity_date", "application", "depot", "kind", "collection", "object",
			"start_scheduler", "finish_scheduler", "start_bridge", "finish_bridge",
			"duration_minutes", "status", "notes", "scheduled_at").
		Updates(&record)
	if result.Error != nil {
		s.logError(opUpdate, "update_failed", result.Error, zap.Uint("record_id", id))
		return newStoreError(opUpdate, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return newStoreError(opUpdate, "not_found", ErrRecordNotFound)
	}
	return nil
}

// Delete removes the record permanently. Ids are never reused for the
// lifetime of a database file.
func (s *Store) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Record{}, id)
	if result.Error != nil {
		s.logError(opDelete, "delete_failed", result.Error, zap.Uint("record_id", id))
		return newStoreError(opDelete, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return newStoreError(opDelete, "not_found", ErrRecordNotFound)
	}
	return nil
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id uint) (Record, error) {
	var record Record
	err := s.db.WithContext(ctx).Take(&record, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Record{}, newStoreError(opGet, "not_found", ErrRecordNotFound)
	}
	if err != nil {
		s.logError(opGet, "query_failed", err, zap.Uint("record_id", id))
		return Record{}, newStoreError(opGet, "query_failed", err)
	}
	return record, nil
}

// List returns every record in ascending id order.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	var records []Record
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&records).Error; err != nil {
		s.logError(opList, "query_failed", err)
		return nil, newStoreError(opList, "query_failed", err)
	}
	return records, nil
}

// ListFiltered returns records matching the filter, ordered by activity date
// descending then id descending.
func (s *Store) ListFiltered(ctx context.Context, filter Filter) ([]Record, error) {
	query := s.db.WithContext(ctx).Model(&Record{})
	if filter.DateFrom != nil {
		query = query.Where("activity_date >= ?", dayFloor(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		query = query.Where("activity_date <= ?", dayCeil(*filter.DateTo))
	}
	if filter.Application != nil {
		query = query.Where("application = ?", *filter.Application)
	}
	if filter.Tier != nil {
		query = query.Where("tier = ?", *filter.Tier)
	}

	var records []Record
	if err := query.Order("activity_date DESC, id DESC").Find(&records).Error; err != nil {
		s.logError(opListFiltered, "query_failed", err)
		return nil, newStoreError(opListFiltered, "query_failed", err)
	}
	return records, nil
}

func dayFloor(moment time.Time) time.Time {
	return time.Date(moment.Year(), moment.Month(), moment.Day(), 0, 0, 0, 0, moment.Location())
}

func dayCeil(moment time.Time) time.Time {
	return dayFloor(moment).Add(24*time.Hour - time.Nanosecond)
}

func (s *Store) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("activity store error", attrs...)
}
