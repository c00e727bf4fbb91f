package models

import "time"

// Worker is a field staff member that cut records can be attributed to.
type Worker struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:150;not null" json:"name"`
	Position  string    `gorm:"size:100" json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Worker) TableName() string { return "workers" }
