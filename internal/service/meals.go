// Package service computes the read views the kitchen works from. Every
// view is derived from the order store on demand; nothing here holds state
// between requests.
package service

import (
	"time"

	"github.com/sirupsen/logrus"

	"canteen/internal/models"
	"canteen/internal/monitoring"
	"canteen/internal/schedule"
	"canteen/internal/store"
)

// DashboardView is the kitchen's headline count for one day.
type DashboardView struct {
	Total  int  `json:"total"`
	Main   int  `json:"main"`
	Extra  int  `json:"extra"`
	Locked bool `json:"locked"`
}

// RosterEntry is one staff member's current-day order on the operator list.
type RosterEntry struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Department  string            `json:"department"`
	TodayStatus models.MealStatus `json:"todayStatus"`
	ExtraMeals  int               `json:"extraMeals"`
}

// RosterView is the operator-facing list for one day.
type RosterView struct {
	Staff  []RosterEntry `json:"staff"`
	Locked bool          `json:"locked"`
}

// WeeklyEntry is one row of the five-weekday grid. Status and extras are
// separate per-day maps; the grid never overloads one field with both.
type WeeklyEntry struct {
	ID             string                       `json:"id"`
	Name           string                       `json:"name"`
	WeeklySchedule map[string]models.MealStatus `json:"weeklySchedule"`
	ExtraMeals     map[string]int               `json:"extraMeals"`
	Total          int                          `json:"total"`
}

// WeeklyView is the forward-planning grid.
type WeeklyView struct {
	Dates []string      `json:"dates"`
	Staff []WeeklyEntry `json:"staff"`
}

// Service derives views from the order store and routes mutations to it.
type Service struct {
	store   *store.Store
	rules   schedule.Rules
	monitor *monitoring.Monitor
	now     func() time.Time
	log     *logrus.Entry
}

// New creates the aggregation service. A nil clock falls back to time.Now.
func New(st *store.Store, monitor *monitoring.Monitor, log *logrus.Logger, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store:   st,
		rules:   st.Rules(),
		monitor: monitor,
		now:     clock,
		log:     log.WithField("component", "service"),
	}
}

// Today returns the current canteen day.
func (s *Service) Today() string {
	return s.rules.Today(s.now())
}

// Dashboard computes the totals for one day: main is the number of eating
// staff, extra the sum of their extra portions, total the meals to cook.
func (s *Service) Dashboard(date string) (DashboardView, error) {
	list, err := s.store.ListForDate(date)
	if err != nil {
		return DashboardView{}, err
	}

	view := DashboardView{}
	for _, so := range list {
		if so.Order.Status != models.MealStatusEating {
			continue
		}
		view.Main++
		view.Extra += so.Order.ExtraMeals
	}
	view.Total = view.Main + view.Extra
	view.Locked, err = s.rules.IsLocked(date, s.now())
	if err != nil {
		return DashboardView{}, err
	}

	monitoring.MealsPlanned.WithLabelValues("main").Set(float64(view.Main))
	monitoring.MealsPlanned.WithLabelValues("extra").Set(float64(view.Extra))

	return view, nil
}

// Roster returns the per-person list for one day, ordered by staff ID.
func (s *Service) Roster(date string) (RosterView, error) {
	list, err := s.store.ListForDate(date)
	if err != nil {
		return RosterView{}, err
	}

	view := RosterView{Staff: make([]RosterEntry, 0, len(list))}
	for _, so := range list {
		view.Staff = append(view.Staff, RosterEntry{
			ID:          so.Staff.StaffID,
			Name:        so.Staff.Name,
			Department:  so.Staff.Department,
			TodayStatus: so.Order.Status,
			ExtraMeals:  so.Order.ExtraMeals,
		})
	}
	view.Locked, err = s.rules.IsLocked(date, s.now())
	if err != nil {
		return RosterView{}, err
	}
	return view, nil
}

// Weekly builds the five-weekday grid starting at the given Monday. Days
// without a stored record read as the seed default. Total counts eating
// days only; extras stay in their own per-day map.
func (s *Service) Weekly(weekStart time.Time) (WeeklyView, error) {
	dates := schedule.WeekDates(weekStart)

	staff, err := s.store.Staff()
	if err != nil {
		return WeeklyView{}, err
	}
	byStaff, err := s.store.ListRange(dates[0], dates[len(dates)-1])
	if err != nil {
		return WeeklyView{}, err
	}

	view := WeeklyView{Dates: dates, Staff: make([]WeeklyEntry, 0, len(staff))}
	for _, member := range staff {
		entry := WeeklyEntry{
			ID:             member.StaffID,
			Name:           member.Name,
			WeeklySchedule: make(map[string]models.MealStatus, len(dates)),
			ExtraMeals:     make(map[string]int, len(dates)),
		}
		for i, date := range dates {
			rec, ok := byStaff[member.StaffID][date]
			if !ok {
				rec = s.store.DefaultRecord(member.StaffID, date)
			}
			label := schedule.DayLabels[i]
			entry.WeeklySchedule[label] = rec.Status
			entry.ExtraMeals[label] = rec.ExtraMeals
			if rec.Status == models.MealStatusEating {
				entry.Total++
			}
		}
		view.Staff = append(view.Staff, entry)
	}
	return view, nil
}

// CurrentWeek is Weekly anchored to the window containing the current day.
func (s *Service) CurrentWeek() (WeeklyView, error) {
	return s.Weekly(s.rules.WeekStart(s.now()))
}

// UpdateToday replaces one staff member's order for the current day.
func (s *Service) UpdateToday(staffID string, status models.MealStatus, extras int) (models.OrderRecord, error) {
	rec, err := s.store.Update(staffID, s.Today(), status, extras)
	if err != nil {
		return models.OrderRecord{}, err
	}

	s.monitor.RecordOrderUpdate(string(rec.Status))
	monitoring.OrdersUpdated.WithLabelValues(string(rec.Status)).Inc()
	s.log.WithFields(logrus.Fields{
		"staff_id": staffID,
		"date":     rec.Date,
		"status":   rec.Status,
		"extras":   rec.ExtraMeals,
	}).Info("order updated")

	return rec, nil
}

// SeedToday ensures every active staff member has a record for the current
// day. Safe to call any number of times.
func (s *Service) SeedToday() (string, int, error) {
	date := s.Today()
	created, err := s.store.SeedDay(date)
	if err != nil {
		return date, created, err
	}

	s.monitor.RecordSeed(date, created)
	monitoring.SeedRuns.Inc()
	monitoring.SeedRecordsCreated.Add(float64(created))
	if created > 0 {
		s.log.WithFields(logrus.Fields{"date": date, "created": created}).Info("seeded day")
	}
	return date, created, nil
}
