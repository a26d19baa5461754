package models

import "time"

const ItemTable = "st_items"

// Item is one inventory line. Quantity is the total owned stock; what is
// free at a given time slot is always derived from the active reservations,
// never stored.
type Item struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Quantity    int       `gorm:"not null;default:0" json:"quantity"`
	Category    string    `gorm:"size:100" json:"category"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:500" json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Item) TableName() string { return ItemTable }
