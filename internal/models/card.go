package models

import "time"

// Card represents a bookmarked link in the system
type Card struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"-" gorm:"index"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName specifies the table name for Card Model
func (Card) TableName() string {
	return "cards"
}

// SameContent reports whether two cards carry the same client-visible fields.
func (c Card) SameContent(other Card) bool {
	return c.ID == other.ID &&
		c.URL == other.URL &&
		c.Title == other.Title &&
		c.Description == other.Description
}
