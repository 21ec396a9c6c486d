package model

import "time"

// Workflow stores a visual node/edge graph. GraphJSON is the raw
// serialized graph from the editor and is never interpreted
// server-side.
type Workflow struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"index;not null" json:"ownerId"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	GraphJSON   string `json:"graphJson"`

	// No DB default on purpose: gorm would swallow an explicit
	// false on create
	IsActive bool `json:"isActive"`
	Version  int  `gorm:"default:1" json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
