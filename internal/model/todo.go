package model

import "time"

// Priority ranks how urgent a todo is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo represents a single item on a user's list. Category is a soft
// reference to a Category id; deleting a category does not touch the
// todos that point at it.
type Todo struct {
	ID          string     `gorm:"primaryKey;type:text" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	Category    *string    `gorm:"index" json:"category"`
	Priority    Priority   `gorm:"type:text;default:medium" json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	UserID      string     `gorm:"index;not null" json:"user_id"`
}
