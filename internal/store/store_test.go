package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canteen/internal/database"
	"canteen/internal/models"
	"canteen/internal/schedule"
)

// Fixed "now": Wednesday 2024-03-13 07:00 UTC, one hour before cutoff.
var testNow = time.Date(2024, 3, 13, 7, 0, 0, 0, time.UTC)

const today = "2024-03-13"

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.InitDB("sqlite3", filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })
	require.NoError(t, database.Migrate(db))

	for _, m := range []models.StaffMember{
		{StaffID: "a-01", Name: "An", Department: "kitchen", Active: true},
		{StaffID: "b-02", Name: "Binh", Department: "office", Active: true},
		{StaffID: "c-03", Name: "Cuc", Department: "office", Active: false},
	} {
		require.NoError(t, db.Create(&m).Error)
	}

	rules := schedule.NewRules(8, time.UTC)
	return New(db, rules, models.MealStatusEating, 0, func() time.Time { return testNow })
}

func TestRecord_DefaultWhenMissing(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Record("a-01", today)
	require.NoError(t, err)
	assert.Equal(t, models.MealStatusEating, rec.Status)
	assert.Equal(t, 0, rec.ExtraMeals)

	// The fallback must not be persisted by the read.
	var count int64
	require.NoError(t, s.db.Model(&models.OrderRecord{}).Where("date = ?", today).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdate_CreatesThenReplaces(t *testing.T) {
	s := newTestStore(t)

	rec, err := s.Update("a-01", today, models.MealStatusEating, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ExtraMeals)

	rec, err = s.Update("a-01", today, models.MealStatusSkipped, 0)
	require.NoError(t, err)
	assert.Equal(t, models.MealStatusSkipped, rec.Status)
	assert.Equal(t, 0, rec.ExtraMeals)

	stored, err := s.Record("a-01", today)
	require.NoError(t, err)
	assert.Equal(t, rec.Status, stored.Status)
	assert.Equal(t, rec.ExtraMeals, stored.ExtraMeals)
}

func TestUpdate_StrictValidation(t *testing.T) {
	s := newTestStore(t)

	cases := []struct {
		name   string
		status models.MealStatus
		extras int
	}{
		{"skipped with extras", models.MealStatusSkipped, 5},
		{"negative extras", models.MealStatusEating, -1},
		{"unknown status", models.MealStatus("maybe"), 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Update("a-01", today, tc.status, tc.extras)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	_, err := s.Update("a-01", "13/03/2024", models.MealStatusEating, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestUpdate_LockWindow(t *testing.T) {
	s := newTestStore(t)

	// Past days are always locked, future days never.
	_, err := s.Update("a-01", "2024-03-12", models.MealStatusSkipped, 0)
	assert.ErrorIs(t, err, ErrLocked)

	_, err = s.Update("a-01", "2024-03-14", models.MealStatusSkipped, 0)
	assert.NoError(t, err)

	// Today flips at the 08:00 cutoff.
	s.now = func() time.Time { return time.Date(2024, 3, 13, 7, 59, 0, 0, time.UTC) }
	rec, err := s.Update("a-01", today, models.MealStatusEating, 1)
	require.NoError(t, err)

	s.now = func() time.Time { return time.Date(2024, 3, 13, 8, 1, 0, 0, time.UTC) }
	_, err = s.Update("a-01", today, models.MealStatusSkipped, 0)
	assert.ErrorIs(t, err, ErrLocked)

	// A rejected write leaves the stored record unchanged.
	stored, err := s.Record("a-01", today)
	require.NoError(t, err)
	assert.Equal(t, rec.Status, stored.Status)
	assert.Equal(t, rec.ExtraMeals, stored.ExtraMeals)
}

func TestUpdate_UnknownOrInactiveStaff(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update("zz-99", today, models.MealStatusEating, 0)
	assert.ErrorIs(t, err, ErrStaffNotFound)

	// Inactive members are off the roster for writes too.
	_, err = s.Update("c-03", today, models.MealStatusEating, 0)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestSeedDay_Idempotent(t *testing.T) {
	s := newTestStore(t)

	created, err := s.SeedDay(today)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	// A member changes their order; re-seeding must not undo it.
	_, err = s.Update("a-01", today, models.MealStatusSkipped, 0)
	require.NoError(t, err)

	created, err = s.SeedDay(today)
	require.NoError(t, err)
	assert.Zero(t, created)

	rec, err := s.Record("a-01", today)
	require.NoError(t, err)
	assert.Equal(t, models.MealStatusSkipped, rec.Status)
}

func TestListForDate_OrderedAndComplete(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update("b-02", today, models.MealStatusEating, 3)
	require.NoError(t, err)

	list, err := s.ListForDate(today)
	require.NoError(t, err)
	require.Len(t, list, 2, "inactive members stay off the roster")

	assert.Equal(t, "a-01", list[0].Staff.StaffID)
	assert.Equal(t, "b-02", list[1].Staff.StaffID)

	// a-01 has no stored record and reads as the default.
	assert.Equal(t, models.MealStatusEating, list[0].Order.Status)
	assert.Zero(t, list[0].Order.ExtraMeals)
	assert.Equal(t, 3, list[1].Order.ExtraMeals)
}

func TestListRange(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Update("a-01", "2024-03-13", models.MealStatusEating, 1)
	require.NoError(t, err)
	_, err = s.Update("a-01", "2024-03-15", models.MealStatusSkipped, 0)
	require.NoError(t, err)
	_, err = s.Update("b-02", "2024-03-14", models.MealStatusEating, 0)
	require.NoError(t, err)

	byStaff, err := s.ListRange("2024-03-13", "2024-03-15")
	require.NoError(t, err)

	require.Contains(t, byStaff, "a-01")
	assert.Len(t, byStaff["a-01"], 2)
	assert.Equal(t, models.MealStatusSkipped, byStaff["a-01"]["2024-03-15"].Status)
	assert.Len(t, byStaff["b-02"], 1)
}

func TestUpdate_ConcurrentSameKey(t *testing.T) {
	s := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = s.Update("a-01", today, models.MealStatusEating, i)
			} else {
				_, _ = s.Update("a-01", today, models.MealStatusSkipped, 0)
			}
		}(i)
	}
	wg.Wait()

	rec, err := s.Record("a-01", today)
	require.NoError(t, err)
	if rec.Status == models.MealStatusSkipped {
		assert.Zero(t, rec.ExtraMeals, "a skipped record must never keep extras")
	}

	// Exactly one row for the key regardless of interleaving.
	var count int64
	require.NoError(t, s.db.Model(&models.OrderRecord{}).Where("staff_id = ? AND date = ?", "a-01", today).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
