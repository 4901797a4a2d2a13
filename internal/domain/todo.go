package domain

import (
	"database/sql"
	"time"
)

// Todo is the single persisted entity. Timestamps are assigned by the
// repository, never by GORM's auto-time tracking.
type Todo struct {
	ID          string    `gorm:"primaryKey;type:text"`
	Title       string    `gorm:"type:text;not null"`
	Description *string   `gorm:"type:text"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TodoPatch carries the fields of a partial update. A nil field is left
// untouched; a Description with Valid=false clears the column.
type TodoPatch struct {
	Title       *string
	Description *sql.NullString
	Completed   *bool
}

// Empty reports whether the patch changes no user-visible field.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}
