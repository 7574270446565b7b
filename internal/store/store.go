// Package store owns the order records and the rules controlling their
// mutation. All writes funnel through Update and SeedDay; reads never
// create records, they fall back to the configured default instead.
package store

import (
	"sync"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"canteen/internal/models"
	"canteen/internal/schedule"
)

// StaffOrder pairs a roster entry with its order record for one day.
type StaffOrder struct {
	Staff models.StaffMember
	Order models.OrderRecord
}

// Store is the durable order store. Writes to the same (staff, day) key are
// serialized by a per-key mutex so concurrent toggles cannot interleave;
// distinct keys do not contend. The key set grows one mutex per touched
// (staff, day) pair, bounded by roster size times tracked days.
type Store struct {
	db            *gorm.DB
	rules         schedule.Rules
	defaultStatus models.MealStatus
	defaultExtra  int
	now           func() time.Time

	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// New creates a store over db using the given calendar rules and seed
// defaults. A nil clock falls back to time.Now.
func New(db *gorm.DB, rules schedule.Rules, defaultStatus models.MealStatus, defaultExtra int, clock func() time.Time) *Store {
	if clock == nil {
		clock = time.Now
	}
	return &Store{
		db:            db,
		rules:         rules,
		defaultStatus: defaultStatus,
		defaultExtra:  defaultExtra,
		now:           clock,
		keyLocks:      make(map[string]*sync.Mutex),
	}
}

// Rules returns the calendar rules the store enforces.
func (s *Store) Rules() schedule.Rules { return s.rules }

func (s *Store) keyLock(staffID, date string) *sync.Mutex {
	key := staffID + "|" + date
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.keyLocks[key] = l
	}
	return l
}

// DefaultRecord is the value a missing (staffID, date) reads as. It is
// never persisted by reads.
func (s *Store) DefaultRecord(staffID, date string) models.OrderRecord {
	return s.defaultRecord(staffID, date)
}

func (s *Store) defaultRecord(staffID, date string) models.OrderRecord {
	return models.OrderRecord{
		StaffID:    staffID,
		Date:       date,
		Status:     s.defaultStatus,
		ExtraMeals: s.defaultExtra,
	}
}

// Staff returns the active roster ordered by staff ID. The ordering is
// what makes roster and weekly views reproducible across calls.
func (s *Store) Staff() ([]models.StaffMember, error) {
	var staff []models.StaffMember
	if err := s.db.Where("active = ?", true).Order("staff_id").Find(&staff).Error; err != nil {
		return nil, errors.Wrapf(ErrStorage, "list staff: %v", err)
	}
	return staff, nil
}

// Record returns the stored record for (staffID, date), or the configured
// default when none exists yet. The default is not persisted; only Update
// and SeedDay write.
func (s *Store) Record(staffID, date string) (models.OrderRecord, error) {
	var rec models.OrderRecord
	err := s.db.Where("staff_id = ? AND date = ?", staffID, date).First(&rec).Error
	if gorm.IsRecordNotFoundError(err) {
		return s.defaultRecord(staffID, date), nil
	}
	if err != nil {
		return models.OrderRecord{}, errors.Wrapf(ErrStorage, "read order %s/%s: %v", staffID, date, err)
	}
	return rec, nil
}

// ListForDate returns one entry per active staff member for the given day,
// ordered by staff ID. Members without a stored record appear with the
// default, so the roster view is always complete.
func (s *Store) ListForDate(date string) ([]StaffOrder, error) {
	staff, err := s.Staff()
	if err != nil {
		return nil, err
	}

	var records []models.OrderRecord
	if err := s.db.Where("date = ?", date).Find(&records).Error; err != nil {
		return nil, errors.Wrapf(ErrStorage, "list orders for %s: %v", date, err)
	}
	byStaff := make(map[string]models.OrderRecord, len(records))
	for _, rec := range records {
		byStaff[rec.StaffID] = rec
	}

	out := make([]StaffOrder, 0, len(staff))
	for _, member := range staff {
		rec, ok := byStaff[member.StaffID]
		if !ok {
			rec = s.defaultRecord(member.StaffID, date)
		}
		out = append(out, StaffOrder{Staff: member, Order: rec})
	}
	return out, nil
}

// ListRange returns stored records for the inclusive date range, keyed by
// staff ID and then by date. Days without a record are simply absent;
// callers apply the default themselves.
func (s *Store) ListRange(start, end string) (map[string]map[string]models.OrderRecord, error) {
	var records []models.OrderRecord
	if err := s.db.Where("date >= ? AND date <= ?", start, end).Find(&records).Error; err != nil {
		return nil, errors.Wrapf(ErrStorage, "list orders %s..%s: %v", start, end, err)
	}

	out := make(map[string]map[string]models.OrderRecord)
	for _, rec := range records {
		days, ok := out[rec.StaffID]
		if !ok {
			days = make(map[string]models.OrderRecord)
			out[rec.StaffID] = days
		}
		days[rec.Date] = rec
	}
	return out, nil
}

// Update replaces the record for (staffID, date). The lock state is
// evaluated exactly once, against the time captured at entry, so a single
// call cannot see the day flip between open and locked. Validation is
// strict: a "no" status must arrive with zero extras, nothing is coerced.
func (s *Store) Update(staffID, date string, status models.MealStatus, extras int) (models.OrderRecord, error) {
	now := s.now()

	locked, err := s.rules.IsLocked(date, now)
	if err != nil {
		return models.OrderRecord{}, errors.Wrapf(ErrInvalidArgument, "bad date %q", date)
	}
	if locked {
		return models.OrderRecord{}, errors.Wrapf(ErrLocked, "day %s", date)
	}

	if !status.Valid() {
		return models.OrderRecord{}, errors.Wrapf(ErrInvalidArgument, "unknown status %q", status)
	}
	if extras < 0 {
		return models.OrderRecord{}, errors.Wrapf(ErrInvalidArgument, "negative extras %d", extras)
	}
	if status == models.MealStatusSkipped && extras != 0 {
		return models.OrderRecord{}, errors.Wrapf(ErrInvalidArgument, "status %q with %d extras", status, extras)
	}

	var count int64
	if err := s.db.Model(&models.StaffMember{}).Where("staff_id = ? AND active = ?", staffID, true).Count(&count).Error; err != nil {
		return models.OrderRecord{}, errors.Wrapf(ErrStorage, "look up staff %s: %v", staffID, err)
	}
	if count == 0 {
		return models.OrderRecord{}, errors.Wrapf(ErrStaffNotFound, "staff %s", staffID)
	}

	l := s.keyLock(staffID, date)
	l.Lock()
	defer l.Unlock()

	var rec models.OrderRecord
	err = s.db.Where("staff_id = ? AND date = ?", staffID, date).First(&rec).Error
	switch {
	case gorm.IsRecordNotFoundError(err):
		rec = models.OrderRecord{StaffID: staffID, Date: date, Status: status, ExtraMeals: extras}
		if err := s.db.Create(&rec).Error; err != nil {
			return models.OrderRecord{}, errors.Wrapf(ErrStorage, "create order %s/%s: %v", staffID, date, err)
		}
	case err != nil:
		return models.OrderRecord{}, errors.Wrapf(ErrStorage, "read order %s/%s: %v", staffID, date, err)
	default:
		rec.Status = status
		rec.ExtraMeals = extras
		if err := s.db.Save(&rec).Error; err != nil {
			return models.OrderRecord{}, errors.Wrapf(ErrStorage, "save order %s/%s: %v", staffID, date, err)
		}
	}
	return rec, nil
}

// SeedDay creates the default record for every active staff member that has
// none for date. Existing records are untouched, so repeated seeding is a
// no-op. Returns the number of records created.
func (s *Store) SeedDay(date string) (int, error) {
	if _, err := s.rules.ParseDate(date); err != nil {
		return 0, errors.Wrapf(ErrInvalidArgument, "bad date %q", date)
	}

	staff, err := s.Staff()
	if err != nil {
		return 0, err
	}

	created := 0
	for _, member := range staff {
		l := s.keyLock(member.StaffID, date)
		l.Lock()

		var count int64
		err := s.db.Model(&models.OrderRecord{}).Where("staff_id = ? AND date = ?", member.StaffID, date).Count(&count).Error
		if err != nil {
			l.Unlock()
			return created, errors.Wrapf(ErrStorage, "look up order %s/%s: %v", member.StaffID, date, err)
		}
		if count == 0 {
			rec := s.defaultRecord(member.StaffID, date)
			if err := s.db.Create(&rec).Error; err != nil {
				l.Unlock()
				return created, errors.Wrapf(ErrStorage, "seed order %s/%s: %v", member.StaffID, date, err)
			}
			created++
		}
		l.Unlock()
	}
	return created, nil
}
