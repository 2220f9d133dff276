package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateThenGetRoundTripsEveryField(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2025, time.March, 14, 22, 0, 0, 0, time.UTC)
	finish := start.Add(95 * time.Minute)
	record := Record{
		ActivityDate:    timePtr(day(t, 2025, time.March, 14)),
		Application:     strPtr("billing"),
		Depot:           strPtr("north"),
		Kind:            strPtr("sync"),
		Collection:      strPtr("invoices"),
		Object:          strPtr("inv-daily"),
		StartScheduler:  timePtr(start),
		FinishScheduler: timePtr(start.Add(10 * time.Minute)),
		StartBridge:     timePtr(start.Add(12 * time.Minute)),
		FinishBridge:    timePtr(finish),
		DurationMinutes: 95,
		Status:          strPtr("done"),
		Notes:           strPtr("nightly run"),
	}

	if err := store.Create(ctx, &record); err != nil {
		t.Fatalf("failed to create record: %v", err)
	}
	if record.ID == 0 {
		t.Fatalf("expected the store to assign an id")
	}

	stored, err := store.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("failed to reload record: %v", err)
	}
	if *stored.Application != "billing" || *stored.Depot != "north" || *stored.Collection != "invoices" {
		t.Fatalf("categorical fields did not round-trip: %+v", stored)
	}
	if stored.DurationMinutes != 95 {
		t.Fatalf("expected duration 95, got %d", stored.DurationMinutes)
	}
	if !stored.StartScheduler.Equal(start) || !stored.FinishBridge.Equal(finish) {
		t.Fatalf("stage timestamps did not round-trip: %+v", stored)
	}
	if stored.Tier != nil {
		t.Fatalf("expected tier to stay unset until labeling runs, got %v", *stored.Tier)
	}
	if stored.ScheduledAt != nil {
		t.Fatalf("expected scheduled_at to stay unset, got %v", stored.ScheduledAt)
	}
}

func TestInsertManyReturnsCountAndAssignsIds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := []Record{
		{Application: strPtr("billing"), DurationMinutes: 5},
		{Application: strPtr("inventory"), DurationMinutes: 7},
		{Application: strPtr("payroll"), DurationMinutes: 0},
	}
	inserted, err := store.InsertMany(ctx, records)
	if err != nil {
		t.Fatalf("failed to insert records: %v", err)
	}
	if inserted != 3 {
		t.Fatalf("expected 3 inserted, got %d", inserted)
	}

	stored, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 stored records, got %d", len(stored))
	}
	for i := 1; i < len(stored); i++ {
		if stored[i].ID <= stored[i-1].ID {
			t.Fatalf("expected ascending ids, got %d then %d", stored[i-1].ID, stored[i].ID)
		}
	}
}

func TestInsertManyWithNoRecordsIsANoOp(t *testing.T) {
	store := newTestStore(t)
	inserted, err := store.InsertMany(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected 0 inserted, got %d", inserted)
	}
}

func TestApplyTiersWritesAssignmentsByRecordID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := []Record{
		{DurationMinutes: 5},
		{DurationMinutes: 400},
	}
	if _, err := store.InsertMany(ctx, records); err != nil {
		t.Fatalf("failed to insert records: %v", err)
	}
	stored, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}

	assignments := map[uint]int{
		stored[0].ID: TierFast,
		stored[1].ID: TierSlow,
	}
	if err := store.ApplyTiers(ctx, assignments); err != nil {
		t.Fatalf("failed to apply tiers: %v", err)
	}

	for id, wantTier := range assignments {
		reloaded, err := store.Get(ctx, id)
		if err != nil {
			t.Fatalf("failed to reload record %d: %v", id, err)
		}
		if reloaded.Tier == nil || *reloaded.Tier != wantTier {
			t.Fatalf("expected record %d to carry tier %d, got %v", id, wantTier, reloaded.Tier)
		}
	}
}

func TestMarkPendingOnlyTouchesZeroDurationRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	records := []Record{
		{DurationMinutes: 0},
		{DurationMinutes: 12},
		{DurationMinutes: 0},
	}
	if _, err := store.InsertMany(ctx, records); err != nil {
		t.Fatalf("failed to insert records: %v", err)
	}

	touched, err := store.MarkPending(ctx)
	if err != nil {
		t.Fatalf("failed to mark pending: %v", err)
	}
	if touched != 2 {
		t.Fatalf("expected 2 pending records, got %d", touched)
	}

	stored, err := store.List(ctx)
	if err != nil {
		t.Fatalf("failed to list records: %v", err)
	}
	for _, record := range stored {
		if record.DurationMinutes == 0 {
			if record.Tier == nil || *record.Tier != TierPending {
				t.Fatalf("expected pending tier on record %d, got %v", record.ID, record.Tier)
			}
		} else if record.Tier != nil {
			t.Fatalf("expected active record %d to keep a nil tier, got %v", record.ID, *record.Tier)
		}
	}
}

func TestUpdateOverwritesFieldsAndAllowsScheduledAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := Record{Application: strPtr("billing"), DurationMinutes: 5}
	if err := store.Create(ctx, &record); err != nil {
		t.Fatalf("failed to create record: %v", err)
	}

	scheduledAt := time.Date(2025, time.March, 13, 21, 0, 0, 0, time.UTC)
	update := record
	update.Application = strPtr("invoicing")
	update.Status = strPtr("rerun")
	update.ScheduledAt = timePtr(scheduledAt)
	if err := store.Update(ctx, record.ID, update); err != nil {
		t.Fatalf("failed to update record: %v", err)
	}

	stored, err := store.Get(ctx, record.ID)
	if err != nil {
		t.Fatalf("failed to reload record: %v", err)
	}
	if *stored.Application != "invoicing" || *stored.Status != "rerun" {
		t.Fatalf("expected updates applied, got %+v", stored)
	}
	if stored.ScheduledAt == nil || !stored.ScheduledAt.Equal(scheduledAt) {
		t.Fatalf("expected scheduled_at to persist, got %v", stored.ScheduledAt)
	}
}

func TestUpdateMissingRecordReportsNotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.Update(context.Background(), 9999, Record{})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestDeleteRemovesRecordPermanently(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := Record{DurationMinutes: 5}
	if err := store.Create(ctx, &record); err != nil {
		t.Fatalf("failed to create record: %v", err)
	}
	if err := store.Delete(ctx, record.ID); err != nil {
		t.Fatalf("failed to delete record: %v", err)
	}
	if _, err := store.Get(ctx, record.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, record.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected second delete to report not found, got %v", err)
	}
}

func TestListFilteredAppliesPredicatesAndOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	march13 := day(t, 2025, time.March, 13)
	march14 := day(t, 2025, time.March, 14)
	march20 := day(t, 2025, time.March, 20)
	records := []Record{
		{ActivityDate: timePtr(march13), Application: strPtr("billing"), DurationMinutes: 5, Tier: intPtr(TierFast)},
		{ActivityDate: timePtr(march14), Application: strPtr("billing"), DurationMinutes: 400, Tier: intPtr(TierSlow)},
		{ActivityDate: timePtr(march14), Application: strPtr("inventory"), DurationMinutes: 7, Tier: intPtr(TierFast)},
		{ActivityDate: timePtr(march20), Application: strPtr("billing"), DurationMinutes: 9, Tier: intPtr(TierFast)},
	}
	if _, err := store.InsertMany(ctx, records); err != nil {
		t.Fatalf("failed to insert records: %v", err)
	}

	listed, err := store.ListFiltered(ctx, Filter{
		DateFrom:    timePtr(march13),
		DateTo:      timePtr(march14),
		Application: strPtr("billing"),
	})
	if err != nil {
		t.Fatalf("failed to list filtered: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 billing records in range, got %d", len(listed))
	}
	if !listed[0].ActivityDate.Equal(march14) || !listed[1].ActivityDate.Equal(march13) {
		t.Fatalf("expected date-descending order, got %v then %v", listed[0].ActivityDate, listed[1].ActivityDate)
	}

	slowOnly, err := store.ListFiltered(ctx, Filter{Tier: intPtr(TierSlow)})
	if err != nil {
		t.Fatalf("failed to list by tier: %v", err)
	}
	if len(slowOnly) != 1 || *slowOnly[0].Application != "billing" || slowOnly[0].DurationMinutes != 400 {
		t.Fatalf("unexpected tier filter result: %+v", slowOnly)
	}

	sameDay, err := store.ListFiltered(ctx, Filter{DateFrom: timePtr(march14), DateTo: timePtr(march14)})
	if err != nil {
		t.Fatalf("failed to list same-day range: %v", err)
	}
	if len(sameDay) != 2 {
		t.Fatalf("expected 2 records on march 14, got %d", len(sameDay))
	}
	if sameDay[0].ID < sameDay[1].ID {
		t.Fatalf("expected id-descending tie break, got %d before %d", sameDay[0].ID, sameDay[1].ID)
	}
}
