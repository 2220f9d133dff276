package activity

import "time"

// Tier values assigned by the labeling engine. Pending overrides any prior
// clustering result for records without a measurable duration.
const (
	TierFast    = 1
	TierSlow    = 2
	TierPending = 3
)

// Record models one logged run of a two-stage scheduled job: the scheduler
// stage hands off to the bridge stage, and the recorded boundaries of both
// stages drive the derived duration.
type Record struct {
	ID              uint       `gorm:"column:id;primaryKey;autoIncrement"`
	ActivityDate    *time.Time `gorm:"column:activity_date;index:idx_activity_records_date"`
	Application     *string    `gorm:"column:application;size:190"`
	Depot           *string    `gorm:"column:depot;size:190"`
	Kind            *string    `gorm:"column:kind;size:190"`
	Collection      *string    `gorm:"column:collection;size:190"`
	Object          *string    `gorm:"column:object;size:190"`
	StartScheduler  *time.Time `gorm:"column:start_scheduler"`
	FinishScheduler *time.Time `gorm:"column:finish_scheduler"`
	StartBridge     *time.Time `gorm:"column:start_bridge"`
	FinishBridge    *time.Time `gorm:"column:finish_bridge"`
	DurationMinutes int        `gorm:"column:duration_minutes;not null;default:0"`
	Status          *string    `gorm:"column:status;size:190"`
	Notes           *string    `gorm:"column:notes;type:text"`
	ScheduledAt     *time.Time `gorm:"column:scheduled_at"`
	Tier            *int       `gorm:"column:tier;index:idx_activity_records_tier"`
}

// TableName provides the explicit table binding for GORM.
func (Record) TableName() string {
	return "activity_records"
}

// Filter narrows listing queries. Nil fields impose no constraint; date
// bounds are inclusive calendar-day bounds.
type Filter struct {
	DateFrom    *time.Time
	DateTo      *time.Time
	Application *string
	Tier        *int
}
