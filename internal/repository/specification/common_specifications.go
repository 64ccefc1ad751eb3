package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID uuid.UUID
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

// Limit caps the result set size.
type Limit struct {
	Limit int
}

func (s Limit) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit)
}
