package models

import (
	"github.com/jinzhu/gorm"
)

// MealStatus represents whether a staff member eats on a given day.
// The wire values are the strings the client renders directly.
type MealStatus string

const (
	MealStatusEating  MealStatus = "yes"
	MealStatusSkipped MealStatus = "no"
)

// Valid reports whether s is one of the two known statuses.
func (s MealStatus) Valid() bool {
	return s == MealStatusEating || s == MealStatusSkipped
}

// OrderRecord represents one staff member's meal order for one calendar day.
// Date is stored as YYYY-MM-DD so lexical ordering matches calendar ordering
// for range queries. ExtraMeals is only meaningful while Status is "yes";
// a "no" record always carries zero extras.
type OrderRecord struct {
	gorm.Model
	StaffID    string     `gorm:"unique_index:idx_order_staff_date;not null" json:"staffId"`
	Date       string     `gorm:"unique_index:idx_order_staff_date;not null" json:"date"`
	Status     MealStatus `gorm:"not null" json:"status"`
	ExtraMeals int        `gorm:"not null" json:"extraMeals"`
}
