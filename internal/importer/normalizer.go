package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/aktivalab/aktiva/backend/internal/activity"
	"github.com/aktivalab/aktiva/backend/internal/tabular"
	"github.com/aktivalab/aktiva/backend/internal/timeparse"
)

// normalizer maps one source table's rows onto the canonical record schema.
// Column bindings are resolved once per import; every per-row data-quality
// problem degrades to an absent field rather than failing the row.
type normalizer struct {
	columns columnMap
	filter  DateFilter
	clock   func() time.Time
}

func newNormalizer(headers []string, filter DateFilter, clock func() time.Time) *normalizer {
	if clock == nil {
		clock = time.Now
	}
	return &normalizer{
		columns: resolveColumns(headers),
		filter:  filter,
		clock:   clock,
	}
}

// normalize converts a row into a canonical record. The second return value
// is false when the row is excluded by the active date filter; that is the
// only way a row is skipped.
func (n *normalizer) normalize(row tabular.Row) (activity.Record, bool) {
	activityDate := n.parseDate(row)

	if n.filter.Active() {
		if activityDate == nil || !n.filter.Includes(*activityDate) {
			return activity.Record{}, false
		}
	}

	reference := activityDate
	if reference == nil {
		today := n.clock()
		reference = &today
	}

	startScheduler := timeparse.Parse(n.cell(row, fieldStartScheduler), reference)
	finishScheduler := timeparse.Parse(n.cell(row, fieldFinishScheduler), reference)
	startBridge := timeparse.Parse(n.cell(row, fieldStartBridge), reference)
	finishBridge := timeparse.Parse(n.cell(row, fieldFinishBridge), reference)

	// Both finish stages adjust against the scheduler start anchor.
	finishScheduler = timeparse.AdjustFinish(startScheduler, finishScheduler)
	finishBridge = timeparse.AdjustFinish(startScheduler, finishBridge)

	return activity.Record{
		ActivityDate:    activityDate,
		Application:     n.text(row, fieldApplication),
		Depot:           n.text(row, fieldDepot),
		Kind:            n.text(row, fieldKind),
		Collection:      n.text(row, fieldCollection),
		Object:          n.text(row, fieldObject),
		StartScheduler:  startScheduler,
		FinishScheduler: finishScheduler,
		StartBridge:     startBridge,
		FinishBridge:    finishBridge,
		DurationMinutes: timeparse.DurationMinutes(startScheduler, finishBridge),
		Status:          n.text(row, fieldStatus),
		Notes:           n.text(row, fieldNotes),
	}, true
}

func (n *normalizer) cell(row tabular.Row, canonical field) any {
	header, bound := n.columns[canonical]
	if !bound {
		return nil
	}
	return row[header]
}

// parseDate reads the date column through general date parsing. Unbound
// columns, blank cells and unparseable values all read as absent.
func (n *normalizer) parseDate(row tabular.Row) *time.Time {
	value := n.cell(row, fieldDate)
	if value == nil {
		return nil
	}
	if moment, isTime := value.(time.Time); isTime {
		truncated := truncateToDay(moment)
		return &truncated
	}
	raw := strings.TrimSpace(cellString(value))
	if raw == "" {
		return nil
	}
	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	truncated := truncateToDay(parsed)
	return &truncated
}

func (n *normalizer) text(row tabular.Row, canonical field) *string {
	value := n.cell(row, canonical)
	if value == nil {
		return nil
	}
	raw := strings.TrimSpace(cellString(value))
	if raw == "" {
		return nil
	}
	return &raw
}

func cellString(value any) string {
	switch typed := value.(type) {
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	default:
		return ""
	}
}
