package types

import (
	"time"
)

// Employee rows are matched on the literal full_name. Duplicate rows for
// different spellings of the same person are expected and kept.
type Employee struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName  string    `gorm:"column:full_name;not null;index" json:"full_name"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Employee) TableName() string { return "app_employees" }
