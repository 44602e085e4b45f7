package model

// DefaultPriorityID is the seeded "Medium" priority; tasks created without
// an explicit priority fall back to it.
const DefaultPriorityID uint = 2

// Priority is a shared lookup table seeded by the migrations
// (Low, Medium, High, Urgent); rows are not user-scoped.
type Priority struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Level       int    `gorm:"not null" json:"level"`
	Color       string `gorm:"type:varchar(7);not null;default:#95a5a6" json:"color"`
	Description string `json:"description"`
}

func (Priority) TableName() string { return "priority_levels" }
