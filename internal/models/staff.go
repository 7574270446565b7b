package models

import (
	"github.com/jinzhu/gorm"
)

// StaffMember represents one person on the cafeteria roster.
// Reference data: provisioned once at startup from configuration and
// never mutated through the order API.
type StaffMember struct {
	gorm.Model
	StaffID    string `gorm:"unique_index;not null"`
	Name       string
	Department string
	Active     bool
}
