package models

import "time"

// Subject is a named category study sessions are attributed to.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// DefaultSubjects seeds an empty store on first start.
func DefaultSubjects() []Subject {
	return []Subject{
		{Name: "Mathematics", Color: "#3b82f6"},
		{Name: "Science", Color: "#ef4444"},
		{Name: "History", Color: "#f59e0b"},
		{Name: "English", Color: "#8b5cf6"},
		{Name: "Programming", Color: "#10b981"},
	}
}
