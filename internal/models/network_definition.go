package models

import "time"

// NetworkDefinition is a catalog entry mapping a network code to its
// display name. Projects reference codes; the catalog supplies names.
type NetworkDefinition struct {
	Code      string    `gorm:"primaryKey;size:50" json:"networkCode"`
	Name      string    `gorm:"size:255;not null" json:"networkName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (NetworkDefinition) TableName() string { return "network_definitions" }
