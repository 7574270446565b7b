package database

import (
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"canteen/internal/config"
	"canteen/internal/models"
)

// SeedRoster ensures every configured staff member exists. Entries already
// present (matched by staff ID) are left untouched, so the seed is safe to
// run on every startup. Entries without an ID get a generated one, which is
// then stable for the lifetime of the database.
func SeedRoster(db *gorm.DB, roster []config.StaffSeed) (int, error) {
	created := 0
	for _, seed := range roster {
		id := seed.ID
		if id == "" {
			id = uuid.NewString()
		}

		var count int64
		if err := db.Model(&models.StaffMember{}).Where("staff_id = ?", id).Count(&count).Error; err != nil {
			return created, errors.Wrapf(err, "look up staff %q", id)
		}
		if count > 0 {
			continue
		}

		member := models.StaffMember{
			StaffID:    id,
			Name:       seed.Name,
			Department: seed.Department,
			Active:     true,
		}
		if err := db.Create(&member).Error; err != nil {
			return created, errors.Wrapf(err, "create staff %q", id)
		}
		created++
	}
	return created, nil
}
